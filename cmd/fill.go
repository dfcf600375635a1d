// File: cmd/fill.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
	"github.com/xkilldash9x/autofill-cli/internal/backend"
	"github.com/xkilldash9x/autofill-cli/internal/observability"
	"github.com/xkilldash9x/autofill-cli/internal/orchestrator"
	"github.com/xkilldash9x/autofill-cli/internal/reporting"
)

// newFillCmd creates and configures the `fill` command.
func newFillCmd() *cobra.Command {
	var (
		resumePath     string
		resumeFormat   string
		profileName    string
		backendURL     string
		headed         bool
		remoteAnalysis bool
		outputPath     string
		outputFormat   string
	)

	fillCmd := &cobra.Command{
		Use:   "fill <url>",
		Short: "Fills the job-application form at the given URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Flag overrides on top of the loaded config.
			if profileName != "" {
				cfg.Backend.ProfileName = profileName
			}
			if backendURL != "" {
				cfg.Backend.BaseURL = backendURL
			}
			if headed {
				cfg.Browser.Headless = false
			}
			if cmd.Flags().Changed("remote-analysis") {
				cfg.Discovery.RemoteAnalysis = remoteAnalysis
			}

			format := schemas.ResumeFormat(resumeFormat)
			if format != schemas.ResumeFormatText && format != schemas.ResumeFormatLatex {
				return fmt.Errorf("unsupported resume format %q (expected text or latex)", resumeFormat)
			}

			var resumeText string
			if resumePath != "" {
				data, err := os.ReadFile(resumePath)
				if err != nil {
					return fmt.Errorf("reading resume file: %w", err)
				}
				resumeText = string(data)
			}

			reporter, err := reporting.New(outputFormat, outputPath)
			if err != nil {
				return err
			}
			defer reporter.Close()

			client := backend.NewClient(cfg.Backend, logger)
			runner := orchestrator.NewRunner(cfg, client, logger)

			result, err := runner.Run(ctx, orchestrator.Options{
				URL:          args[0],
				ResumeText:   resumeText,
				ResumeFormat: format,
			})
			if err != nil {
				return err
			}

			logger.Info("Done.",
				zap.Int("fields_found", result.FieldsFound),
				zap.Int("filled", len(result.Report.Filled)),
				zap.Int("skipped", len(result.Report.Skipped)),
				zap.Bool("resume_attached", result.ResumeAttached),
			)
			return reporter.Write(result)
		},
	}

	fillCmd.Flags().StringVar(&resumePath, "resume", "", "path to the tailored resume file to parse and attach")
	fillCmd.Flags().StringVar(&resumeFormat, "resume-format", "text", "resume syntax: text or latex")
	fillCmd.Flags().StringVar(&profileName, "profile", "", "profile name to fetch from the backend")
	fillCmd.Flags().StringVar(&backendURL, "backend", "", "backend base URL")
	fillCmd.Flags().BoolVar(&headed, "headed", false, "run the browser with a visible window")
	fillCmd.Flags().BoolVar(&remoteAnalysis, "remote-analysis", false, "enable the best-effort remote form analysis pass")
	fillCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the completion report to this file (default stdout)")
	fillCmd.Flags().StringVar(&outputFormat, "format", "text", "report format: text or json")

	return fillCmd
}

func init() {
	rootCmd.AddCommand(newFillCmd())
}
