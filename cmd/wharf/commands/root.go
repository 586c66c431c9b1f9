// Package commands implements the CLI commands for the wharf package manager.
package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
	"go.trai.ch/wharf/internal/app"
	"go.trai.ch/wharf/internal/build"
	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
)

// CLI represents the command line interface for wharf.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "wharf",
		Short:         "A package manager for multi-component agent projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("directory", "C", ".", "Agent project directory")
	rootCmd.PersistentFlags().String("registry", "packages", "Path to the local package registry")
	rootCmd.PersistentFlags().String("author", os.Getenv("WHARF_AUTHOR"),
		"Author recorded on ejected packages (env WHARF_AUTHOR)")
	rootCmd.PersistentFlags().Bool("skip-consistency-check", false,
		"Skip fingerprint verification before mutating the project")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Assume yes on confirmation prompts")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRemoveCmd())
	rootCmd.AddCommand(c.newEjectCmd())
	rootCmd.AddCommand(c.newUpgradeCmd())
	rootCmd.AddCommand(c.newFingerprintCmd())
	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOut sets the writer commands print to. Used for testing.
func (c *CLI) SetOut(w io.Writer) {
	c.rootCmd.SetOut(w)
}

// SetIn sets the reader confirmation prompts read from. Used for testing.
func (c *CLI) SetIn(r io.Reader) {
	c.rootCmd.SetIn(r)
}

// session builds the invocation context from the persistent flags.
func (c *CLI) session(cmd *cobra.Command) domain.ProjectSession {
	flags := cmd.Flags()
	dir, _ := flags.GetString("directory")
	registryRoot, _ := flags.GetString("registry")
	author, _ := flags.GetString("author")
	skip, _ := flags.GetBool("skip-consistency-check")

	return domain.ProjectSession{
		WorkDir:              dir,
		RegistryRoot:         registryRoot,
		Author:               author,
		FrameworkVersion:     frameworkVersion(),
		SkipConsistencyCheck: skip,
	}
}

// confirm builds the callback destructive steps ask through. With --yes every
// prompt is accepted without asking.
func (c *CLI) confirm(cmd *cobra.Command) ports.ConfirmFunc {
	yes, _ := cmd.Flags().GetBool("yes")
	if yes {
		return func(string) bool { return true }
	}

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	return func(prompt string) bool {
		_, _ = fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := in.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}

// parseTarget turns "TYPE AUTHOR/NAME[:VERSION]" arguments into a package
// id. An omitted version means latest.
func parseTarget(args []string) (domain.PackageId, error) {
	packageType, err := domain.ParsePackageType(args[0])
	if err != nil {
		return domain.PackageId{}, err
	}
	publicId, err := domain.ParsePublicId(args[1])
	if err != nil {
		return domain.PackageId{}, err
	}
	return domain.NewPackageId(packageType, publicId), nil
}

// frameworkVersion is the version packages are checked against. Release
// builds carry it in build.Version; dev builds fall back to the baseline.
func frameworkVersion() *semver.Version {
	v, err := domain.ParseVersion(build.Version)
	if err != nil {
		return domain.MustParseVersion(domain.DefaultFrameworkVersion)
	}
	return v
}
