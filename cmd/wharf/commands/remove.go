package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/wharf/internal/engine/remove"
)

func (c *CLI) newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove TYPE PUBLIC_ID",
		Short: "Remove a component from the agent project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseTarget(args)
			if err != nil {
				return err
			}
			sess := c.session(cmd)

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			if dryRun {
				report, err := c.app.CheckRemovable(sess, target)
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), report)
				return nil
			}

			withDeps, _ := cmd.Flags().GetBool("with-dependencies")
			force, _ := cmd.Flags().GetBool("force")
			if err := c.app.Remove(sess, target, withDeps, force); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", target)
			return nil
		},
	}
	cmd.Flags().BoolP("with-dependencies", "w", false, "Remove dependencies stranded by the removal as well")
	cmd.Flags().Bool("force", false, "Remove even when other components require the target")
	cmd.Flags().Bool("dry-run", false, "Report what the removal would strand without touching the project")
	return cmd
}

func printReport(w io.Writer, report *remove.Report) {
	_, _ = fmt.Fprintf(w, "%s\n", report.Target)
	for _, id := range report.RequiredBy.Sorted() {
		_, _ = fmt.Fprintf(w, "  required by %s\n", id)
	}
	for _, id := range report.Removable.Sorted() {
		_, _ = fmt.Fprintf(w, "  would also remove %s\n", id)
	}

	blocked := make([]string, 0, len(report.Blocked))
	for dep, requirers := range report.Blocked {
		blocked = append(blocked, fmt.Sprintf("  keeps %s, still required by %s",
			dep, strings.Join(requirers.Strings(), ", ")))
	}
	sort.Strings(blocked)
	for _, line := range blocked {
		_, _ = fmt.Fprintln(w, line)
	}
}
