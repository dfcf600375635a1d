// File: internal/orchestrator/runner.go
package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
	"github.com/xkilldash9x/autofill-cli/internal/browser/session"
	"github.com/xkilldash9x/autofill-cli/internal/config"
	"github.com/xkilldash9x/autofill-cli/internal/discovery"
	"github.com/xkilldash9x/autofill-cli/internal/fill"
	"github.com/xkilldash9x/autofill-cli/internal/profile"
)

// backendAPI is the tailoring-service surface the runner consumes.
type backendAPI interface {
	GetProfile(ctx context.Context) (schemas.Profile, error)
	ParseResume(ctx context.Context, resumeText string, format schemas.ResumeFormat) (schemas.ResumeSections, error)
	ConvertResume(ctx context.Context, resumeText string, format schemas.ResumeFormat) ([]byte, error)
	AnalyzeForm(ctx context.Context, formHTML, pageURL string) (schemas.FormAnalysis, error)
}

// page is the browser surface the runner needs beyond script execution.
type page interface {
	session.ScriptRunner
	Navigate(ctx context.Context, url string) error
}

// Options parameterize one fill operation.
type Options struct {
	URL          string
	ResumeText   string
	ResumeFormat schemas.ResumeFormat
}

// Result is the completion report for one fill operation.
type Result struct {
	URL             string       `json:"url"`
	FieldsFound     int          `json:"fields_found"`
	Steps           int          `json:"steps"`
	ResumeAttached  bool         `json:"resume_attached"`
	Report          *fill.Report `json:"report"`
	UsedRemoteSteps bool         `json:"used_remote_steps"`
}

// Runner wires a complete fill operation: profile fetch, resume parse and
// merge, navigation, discovery, and dispatch.
type Runner struct {
	cfg     *config.Config
	backend backendAPI
	logger  *zap.Logger
}

// NewRunner builds a runner from configuration and a backend client.
func NewRunner(cfg *config.Config, backend backendAPI, logger *zap.Logger) *Runner {
	return &Runner{cfg: cfg, backend: backend, logger: logger.Named("runner")}
}

// Run opens a browser session and fills the application form at opts.URL.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	sess, err := session.NewSession(ctx, r.cfg, r.logger)
	if err != nil {
		return nil, fmt.Errorf("opening browser session: %w", err)
	}
	defer sess.Close()

	return r.RunWithPage(ctx, sess, opts)
}

// RunWithPage executes the fill pipeline against an already-open page.
func (r *Runner) RunWithPage(ctx context.Context, pg page, opts Options) (*Result, error) {
	record, resumePDF, err := r.prepareRecord(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := pg.Navigate(ctx, opts.URL); err != nil {
		return nil, err
	}

	var analyzer discovery.Analyzer
	if r.cfg.Discovery.RemoteAnalysis {
		analyzer = r.backend
	}
	discoverer := discovery.NewDiscoverer(pg, analyzer, r.cfg.Discovery, r.logger)
	analysis, err := discoverer.Discover(ctx, opts.URL)
	if err != nil {
		return nil, err
	}

	dispatcher := fill.NewDispatcher(pg, r.cfg.Fill, r.logger)
	report, err := New(pg, dispatcher, r.cfg.Fill, r.logger).Execute(ctx, analysis, record, resumePDF)
	if err != nil {
		return nil, err
	}

	result := &Result{
		URL:             opts.URL,
		FieldsFound:     len(analysis.Fields),
		Steps:           len(analysis.Steps),
		ResumeAttached:  len(resumePDF) > 0 && len(analysis.FileUploads) > 0,
		Report:          report,
		UsedRemoteSteps: len(analysis.Steps) > 0,
	}
	r.logger.Info("Fill operation complete.",
		zap.String("url", opts.URL),
		zap.Int("fields_found", result.FieldsFound),
		zap.Int("filled", len(report.Filled)),
		zap.Int("skipped", len(report.Skipped)),
	)
	return result, nil
}

// prepareRecord fetches the static profile, parses the resume when one was
// supplied, merges the two, and best-effort renders the resume to PDF for
// file-upload fields. Only the profile fetch is fatal. When the remote
// parser is down, locally extracted contact details backfill identity
// fields the profile left blank.
func (r *Runner) prepareRecord(ctx context.Context, opts Options) (schemas.UserRecord, []byte, error) {
	staticProfile, err := r.backend.GetProfile(ctx)
	if err != nil {
		return schemas.UserRecord{}, nil, err
	}

	var parsed schemas.ResumeSections
	if opts.ResumeText != "" {
		parsed, err = r.backend.ParseResume(ctx, opts.ResumeText, opts.ResumeFormat)
		if err != nil {
			r.logger.Warn("Resume parse failed; falling back to local extraction.", zap.Error(err))
			var extracted schemas.PersonalInfo
			extracted, parsed = profile.ExtractBasicInfo(opts.ResumeText)
			profile.BackfillIdentity(&staticProfile.PersonalInfo, extracted)
		}
	}

	record := profile.Merge(staticProfile, parsed)

	var resumePDF []byte
	if opts.ResumeText != "" {
		resumePDF, err = r.backend.ConvertResume(ctx, opts.ResumeText, opts.ResumeFormat)
		if err != nil {
			// File fields are skipped without a document; not fatal.
			r.logger.Warn("Resume conversion failed; file uploads will be skipped.", zap.Error(err))
			resumePDF = nil
		}
	}
	return record, resumePDF, nil
}
