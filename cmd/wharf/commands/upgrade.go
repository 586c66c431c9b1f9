package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"go.trai.ch/wharf/internal/core/domain"
)

func (c *CLI) newUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade [TYPE PUBLIC_ID]",
		Short: "Upgrade vendor packages to newer registry versions",
		Long: "Upgrade the named vendor package to the requested version, " +
			"or every vendor package of the project to the newest " +
			"framework-compatible one when no package is named.",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts no arguments or TYPE PUBLIC_ID, received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := c.session(cmd)

			if len(args) == 0 {
				if sess.Author == "" {
					return zerr.Wrap(domain.ErrInvalidPublicId,
						"author not set, pass --author or set WHARF_AUTHOR")
				}
				return c.app.UpgradeProject(sess, c.confirm(cmd))
			}

			target, err := parseTarget(args)
			if err != nil {
				return err
			}
			newId, err := c.app.UpgradeItem(sess, target)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Upgraded %s to %s\n", target, newId)
			return nil
		},
	}
}
