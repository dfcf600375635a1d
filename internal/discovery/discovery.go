// File: internal/discovery/discovery.go

// Package discovery scans a page for every input-capable element and turns
// the raw harvest into classified field descriptors. Discovery is the only
// step whose failure is fatal to a fill operation; everything downstream
// degrades gracefully.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
	"github.com/xkilldash9x/autofill-cli/internal/browser/session"
	"github.com/xkilldash9x/autofill-cli/internal/classify"
	"github.com/xkilldash9x/autofill-cli/internal/config"
	"github.com/xkilldash9x/autofill-cli/internal/selector"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoFields is returned when no input-capable element exists anywhere on
// the page, including after the relaxed retry. A form wrapper is irrelevant;
// many application pages omit one.
var ErrNoFields = errors.New("no fillable fields found on this page")

// Analyzer is the optional remote form-analysis surface. Its results are
// pure enhancement and never trusted without validation.
type Analyzer interface {
	AnalyzeForm(ctx context.Context, formHTML, pageURL string) (schemas.FormAnalysis, error)
}

// Discoverer runs discovery passes against one page.
type Discoverer struct {
	runner   session.ScriptRunner
	analyzer Analyzer
	cfg      config.DiscoveryConfig
	logger   *zap.Logger
}

// NewDiscoverer creates a discoverer. analyzer may be nil to disable the
// remote pass regardless of configuration.
func NewDiscoverer(runner session.ScriptRunner, analyzer Analyzer, cfg config.DiscoveryConfig, logger *zap.Logger) *Discoverer {
	return &Discoverer{
		runner:   runner,
		analyzer: analyzer,
		cfg:      cfg,
		logger:   logger.Named("discovery"),
	}
}

// Discover waits for dynamic content, collects every field-capable element,
// and returns the classified analysis. The remote enhancement pass, when
// enabled, can only ever improve the result; any failure there is swallowed.
func (d *Discoverer) Discover(ctx context.Context, pageURL string) (*schemas.FormAnalysis, error) {
	if err := d.waitForContent(ctx); err != nil {
		// The waiter resolving empty is not an error; an execution failure
		// here usually means the page itself is gone.
		return nil, fmt.Errorf("waiting for page content: %w", err)
	}

	snapshots, err := d.collect(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("collecting fields: %w", err)
	}
	if len(snapshots) == 0 {
		d.logger.Debug("Strict pass found nothing; retrying with relaxed constraints.")
		snapshots, err = d.collect(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("collecting fields (relaxed): %w", err)
		}
	}
	if len(snapshots) == 0 {
		return nil, ErrNoFields
	}

	analysis := d.buildAnalysis(snapshots)
	d.logger.Info("Discovery complete.",
		zap.Int("fields", len(analysis.Fields)),
		zap.Int("file_uploads", len(analysis.FileUploads)),
	)

	if d.cfg.RemoteAnalysis && d.analyzer != nil {
		if enhanced := d.tryEnhance(ctx, analysis, pageURL); enhanced != nil {
			d.logger.Info("Remote analysis accepted.",
				zap.Int("fields", len(enhanced.Fields)),
				zap.Int("steps", len(enhanced.Steps)),
			)
			return enhanced, nil
		}
	}
	return analysis, nil
}

func (d *Discoverer) waitForContent(ctx context.Context) error {
	maxWait := d.cfg.MutationMaxWait
	opCtx, cancel := context.WithTimeout(ctx, maxWait+2*time.Second)
	defer cancel()

	raw, err := d.runner.ExecuteScript(opCtx, waitScript(maxWait.Milliseconds()))
	if err != nil {
		return err
	}
	var found bool
	if err := json.Unmarshal(raw, &found); err != nil {
		return fmt.Errorf("unexpected waiter result: %w", err)
	}
	if !found {
		d.logger.Debug("Dynamic-content wait elapsed without fields appearing.")
	}
	return nil
}

func (d *Discoverer) collect(ctx context.Context, relaxed bool) ([]schemas.ElementSnapshot, error) {
	raw, err := d.runner.ExecuteScript(ctx, collectScript(relaxed))
	if err != nil {
		return nil, err
	}
	var snapshots []schemas.ElementSnapshot
	if err := json.Unmarshal(raw, &snapshots); err != nil {
		return nil, fmt.Errorf("decoding collection result: %w", err)
	}
	return snapshots, nil
}

// buildAnalysis turns raw snapshots into descriptors: derive a locator,
// map the widget kind, classify the role. Duplicate locators keep their
// first occurrence so one selector never addresses two fields.
func (d *Discoverer) buildAnalysis(snapshots []schemas.ElementSnapshot) *schemas.FormAnalysis {
	analysis := &schemas.FormAnalysis{}
	seen := make(map[string]bool, len(snapshots))

	for _, snap := range snapshots {
		sel := selector.Build(snap)
		if seen[sel] {
			continue
		}
		seen[sel] = true

		kind := kindFromWidget(snap.Widget)
		field := schemas.FieldDescriptor{
			Selector:    sel,
			Kind:        kind,
			Role:        classify.ClassifySnapshot(snap, kind),
			Label:       snap.Label,
			Name:        snap.Name,
			Placeholder: snap.Placeholder,
			AriaLabel:   snap.AriaLabel,
			Options:     snap.Options,
			DocIndex:    snap.DocIndex,
		}
		analysis.Fields = append(analysis.Fields, field)
		if kind == schemas.KindFile {
			analysis.FileUploads = append(analysis.FileUploads, sel)
		}
	}
	return analysis
}

var widgetKinds = map[string]schemas.FieldKind{
	"text":            schemas.KindText,
	"email":           schemas.KindEmail,
	"tel":             schemas.KindTel,
	"textarea":        schemas.KindTextarea,
	"select":          schemas.KindSelect,
	"combobox":        schemas.KindCombobox,
	"checkbox":        schemas.KindCheckbox,
	"radio":           schemas.KindRadio,
	"date":            schemas.KindDate,
	"file":            schemas.KindFile,
	"contenteditable": schemas.KindContentEditable,
	"textbox":         schemas.KindTextbox,
}

func kindFromWidget(widget string) schemas.FieldKind {
	if kind, ok := widgetKinds[widget]; ok {
		return kind
	}
	return schemas.KindOther
}
