// File: internal/orchestrator/orchestrator.go

// Package orchestrator drives a fill operation end to end: single-page
// batches, and the step state machine for paginated application forms.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
	"github.com/xkilldash9x/autofill-cli/internal/browser/session"
	"github.com/xkilldash9x/autofill-cli/internal/config"
	"github.com/xkilldash9x/autofill-cli/internal/fill"
	"github.com/xkilldash9x/autofill-cli/internal/selector"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const stepPollInterval = 150 * time.Millisecond

// filler is the dispatcher surface the orchestrator needs.
type filler interface {
	BatchID() string
	FillBatch(ctx context.Context, fields []schemas.FieldDescriptor, record schemas.UserRecord, resumePDF []byte) (*fill.Report, error)
	Fill(ctx context.Context, field *schemas.FieldDescriptor, record schemas.UserRecord, resumePDF []byte) bool
}

// Orchestrator walks a FormAnalysis, filling fields and advancing steps.
type Orchestrator struct {
	runner     session.ScriptRunner
	dispatcher filler
	cfg        config.FillConfig
	logger     *zap.Logger
}

// New creates an orchestrator around a dispatcher.
func New(runner session.ScriptRunner, dispatcher filler, cfg config.FillConfig, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		runner:     runner,
		dispatcher: dispatcher,
		cfg:        cfg,
		logger:     logger.Named("orchestrator"),
	}
}

// Execute fills the analyzed form. With no step structure, the whole field
// list is one batch; with steps, each step is filled and advanced in turn.
func (o *Orchestrator) Execute(ctx context.Context, analysis *schemas.FormAnalysis, record schemas.UserRecord, resumePDF []byte) (*fill.Report, error) {
	if len(analysis.Steps) == 0 {
		return o.dispatcher.FillBatch(ctx, analysis.Fields, record, resumePDF)
	}
	return o.executeSteps(ctx, analysis, record, resumePDF)
}

func (o *Orchestrator) executeSteps(ctx context.Context, analysis *schemas.FormAnalysis, record schemas.UserRecord, resumePDF []byte) (*fill.Report, error) {
	report := &fill.Report{BatchID: o.dispatcher.BatchID()}

	for i, step := range analysis.Steps {
		log := o.logger.With(zap.Int("step", i+1), zap.String("name", step.Name))

		if err := o.waitForStep(ctx, step); err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			// The step never mounted; its fields will skip individually.
			log.Warn("Step did not become visible in time; attempting fill anyway.")
		}

		for _, sel := range step.Fields {
			field := analysis.Field(sel)
			if field == nil {
				log.Debug("Step references unknown field; skipping.", zap.String("selector", sel))
				continue
			}
			if o.dispatcher.Fill(ctx, field, record, resumePDF) {
				report.Filled = append(report.Filled, sel)
			} else {
				report.Skipped = append(report.Skipped, sel)
			}
		}
		log.Info("Step filled.", zap.Int("fields", len(step.Fields)))

		last := step.IsLastStep || i == len(analysis.Steps)-1
		if last {
			break
		}
		if err := o.advance(ctx, step); err != nil {
			return report, fmt.Errorf("advancing past step %q: %w", step.Name, err)
		}
		if err := sleep(ctx, o.cfg.StepWait); err != nil {
			return report, err
		}
	}
	return report, nil
}

// waitForStep polls until the step's first field resolves and is visible,
// bounded by the configured step timeout. Steps without fields are ready by
// definition.
func (o *Orchestrator) waitForStep(ctx context.Context, step schemas.Step) error {
	if len(step.Fields) == 0 {
		return nil
	}
	first := step.Fields[0]

	deadline := time.Now().Add(o.cfg.StepTimeout)
	for {
		res, err := o.resolve(ctx, first)
		if err == nil && res.Found && res.Visible {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("step field %q not visible after %v", first, o.cfg.StepTimeout)
		}
		if err := sleep(ctx, stepPollInterval); err != nil {
			return err
		}
	}
}

func (o *Orchestrator) resolve(ctx context.Context, sel string) (selector.Resolution, error) {
	var res selector.Resolution
	raw, err := o.runner.ExecuteScript(ctx, selector.ResolvesScript(sel))
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return res, err
	}
	return res, nil
}

// advance clicks the step's next control: the declared selector when one
// exists, otherwise the first visible button-like element whose text reads
// next, continue, or submit.
func (o *Orchestrator) advance(ctx context.Context, step schemas.Step) error {
	var script string
	if step.NextButtonSelector != "" {
		script = clickSelectorScript(step.NextButtonSelector)
	} else {
		script = clickNextByTextScript()
	}

	raw, err := o.runner.ExecuteScript(ctx, script)
	if err != nil {
		return err
	}
	var clicked bool
	if err := json.Unmarshal(raw, &clicked); err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("no next control found for step %q", step.Name)
	}
	return nil
}

func clickSelectorScript(sel string) string {
	return fmt.Sprintf(`%s
(() => {
  const el = __afResolve(%s);
  if (!el) return false;
  el.click();
  return true;
})()`, selector.Helpers, session.JSONEncode(sel))
}

func clickNextByTextScript() string {
	return selector.Helpers + `
(() => {
  const wanted = ['next', 'continue', 'submit'];
  for (const doc of __afDocs()) {
    const candidates = doc.querySelectorAll('button, a, input[type="submit"], input[type="button"], [role="button"]');
    for (const el of candidates) {
      if (!__afVisible(el)) continue;
      const text = ((el.innerText || el.textContent || el.value) || '').trim().toLowerCase();
      if (!text) continue;
      if (wanted.some((w) => text.includes(w))) {
        el.click();
        return true;
      }
    }
  }
  return false;
})()`
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
