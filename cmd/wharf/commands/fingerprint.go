package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newFingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint [TYPE PUBLIC_ID]",
		Short: "Re-stamp package fingerprints after source edits",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("accepts no arguments or TYPE PUBLIC_ID, received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := c.session(cmd)

			all, _ := cmd.Flags().GetBool("all")
			if all {
				return c.app.FingerprintAll(cmd.Context(), sess)
			}

			if len(args) != 2 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			target, err := parseTarget(args)
			if err != nil {
				return err
			}
			return c.app.Fingerprint(sess, target)
		},
	}
	cmd.Flags().Bool("all", false, "Re-stamp the agent and every local package")
	return cmd
}
