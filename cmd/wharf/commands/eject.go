package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/engine/eject"
)

func (c *CLI) newEjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eject TYPE PUBLIC_ID",
		Short: "Fork a vendor package into the local area under your authorship",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget(args)
			if err != nil {
				return err
			}
			sess := c.session(cmd)
			if sess.Author == "" {
				return zerr.Wrap(domain.ErrInvalidPublicId,
					"author not set, pass --author or set WHARF_AUTHOR")
			}

			withSymlinks, _ := cmd.Flags().GetBool("with-symlinks")
			quiet, _ := cmd.Flags().GetBool("quiet")
			newId, err := c.app.Eject(sess, target, c.confirm(cmd), eject.Options{
				WithSymlinks: withSymlinks,
				Quiet:        quiet,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Ejected %s to %s\n", target, newId)
			return nil
		},
	}
	cmd.Flags().Bool("with-symlinks", false, "Symlink the emptied vendor slot to the ejected package")
	cmd.Flags().BoolP("quiet", "q", false, "Skip the dependent confirmation prompt")
	return cmd
}
