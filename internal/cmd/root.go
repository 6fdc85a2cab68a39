package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for daiacheck
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daiacheck [flags] [ISIL PPN | FULL_ID]",
		Short: "Validate DAIA server responses against availability test cases",
		Long: `Daiacheck queries a DAIA (Document Availability Information API) server
for a list of expected test cases and asserts that every response carries an
explicit availability statement.

A test case is a library (ISIL) plus a document (PPN), or a full composite
identifier. Cases come from the command line or, with --from, a local file
or URL. With --coverage the suite is instead cross-referenced against the
canonical database registry to find databases without any test coverage.

Output follows a TAP-flavoured line protocol: by default only failing
assertions are printed, --tap prints every assertion plus a summary line.

Exit code: 0 if all assertions pass, 2 (configurable via --code) otherwise.`,
		Version: Version,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 2 {
				return usageError(cmd, "expected at most an ISIL and a PPN")
			}
			return nil
		},
		RunE: runCheck,
		// Errors and usage are printed by main so exit codes stay exact
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .daiacheck.yaml)")

	cmd.Flags().String("base", "", "Base URL of the DAIA endpoint")
	cmd.Flags().String("from", "", "Load test cases from a file or URL (first line is a header)")
	cmd.Flags().Bool("coverage", false, "Check registry coverage instead of availability (requires --from)")
	cmd.Flags().Bool("tap", false, "Print every assertion plus a trailing summary line")
	cmd.Flags().Int("code", 2, "Exit code when any assertion fails (0 disables nonzero exit)")
	cmd.Flags().String("delay", "", "Pause between batch requests (e.g. 200ms)")
	cmd.Flags().Bool("no-color", false, "Disable colored output")

	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
