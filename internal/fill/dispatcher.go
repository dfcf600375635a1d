// File: internal/fill/dispatcher.go
package fill

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
	"github.com/xkilldash9x/autofill-cli/internal/browser/session"
	"github.com/xkilldash9x/autofill-cli/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const resumeFileName = "resume.pdf"

// Report summarizes one fill batch.
type Report struct {
	BatchID string   `json:"batch_id"`
	Filled  []string `json:"filled"`
	Skipped []string `json:"skipped"`
}

// FilledCount returns how many fields took a value.
func (r *Report) FilledCount() int { return len(r.Filled) }

// Dispatcher performs fill batches against one page. The already-filled set
// is scoped to the dispatcher instance, so separate batches on separate
// pages never share state.
type Dispatcher struct {
	runner  session.ScriptRunner
	cfg     config.FillConfig
	logger  *zap.Logger
	batchID string
	filled  map[string]bool
}

// NewDispatcher creates a dispatcher for one fill session.
func NewDispatcher(runner session.ScriptRunner, cfg config.FillConfig, logger *zap.Logger) *Dispatcher {
	batchID := uuid.New().String()
	return &Dispatcher{
		runner:  runner,
		cfg:     cfg,
		logger:  logger.Named("fill").With(zap.String("batch_id", batchID)),
		batchID: batchID,
		filled:  make(map[string]bool),
	}
}

// BatchID returns the identifier stamped on this dispatcher's reports.
func (d *Dispatcher) BatchID() string { return d.batchID }

// FillBatch fills every field strictly in order. Per-field failures are
// logged and recovered; the batch always runs to completion unless the
// context is canceled.
func (d *Dispatcher) FillBatch(ctx context.Context, fields []schemas.FieldDescriptor, record schemas.UserRecord, resumePDF []byte) (*Report, error) {
	report := &Report{BatchID: d.batchID}

	for i := range fields {
		if err := ctx.Err(); err != nil {
			// A canceled batch leaves already-filled fields as they are.
			return report, err
		}
		field := &fields[i]
		if d.Fill(ctx, field, record, resumePDF) {
			report.Filled = append(report.Filled, field.Selector)
		} else {
			report.Skipped = append(report.Skipped, field.Selector)
		}
	}

	d.logger.Info("Fill batch complete.",
		zap.Int("filled", len(report.Filled)),
		zap.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

// Fill processes a single field, reporting whether a value was applied. The
// selector is marked as handled regardless of outcome so a later pass makes
// forward progress instead of retrying.
func (d *Dispatcher) Fill(ctx context.Context, field *schemas.FieldDescriptor, record schemas.UserRecord, resumePDF []byte) bool {
	log := d.logger.With(
		zap.String("selector", field.Selector),
		zap.String("kind", string(field.Kind)),
		zap.String("role", string(field.Role)),
	)

	if d.filled[field.Selector] {
		log.Debug("Field already handled in this batch; skipping.")
		return false
	}
	d.filled[field.Selector] = true

	if field.Kind == schemas.KindFile {
		return d.fillFile(ctx, field, resumePDF, log)
	}

	value := ValueFor(field.Role, record)
	if value == "" {
		log.Debug("No resolvable value for field; skipping.")
		return false
	}

	filled, err := d.dispatch(ctx, field, value)
	if err != nil {
		log.Warn("Field fill failed; continuing batch.", zap.Error(err))
		return false
	}
	if !filled {
		log.Debug("Field fill skipped by page state.")
		return false
	}

	if err := d.settle(ctx, d.cfg.DelayFor(string(field.Kind))); err != nil {
		return true
	}
	log.Debug("Field filled.")
	return true
}

func (d *Dispatcher) dispatch(ctx context.Context, field *schemas.FieldDescriptor, value string) (bool, error) {
	switch field.Kind {
	case schemas.KindText, schemas.KindEmail, schemas.KindTel, schemas.KindOther:
		return d.runScript(ctx, textFillScript(field.Selector, value))
	case schemas.KindTextarea:
		return d.runScript(ctx, textareaFillScript(field.Selector, value))
	case schemas.KindContentEditable:
		return d.runScript(ctx, contentEditableFillScript(field.Selector, value))
	case schemas.KindTextbox:
		return d.runScript(ctx, textboxFillScript(field.Selector, value))
	case schemas.KindSelect:
		return d.runScript(ctx, selectFillScript(field.Selector, value))
	case schemas.KindCombobox:
		return d.fillCombobox(ctx, field.Selector, value)
	case schemas.KindCheckbox:
		return d.runScript(ctx, checkboxFillScript(field.Selector, affirmatives[strings.ToLower(value)]))
	case schemas.KindRadio:
		return d.runScript(ctx, radioFillScript(field.Selector, value))
	case schemas.KindDate:
		return d.runScript(ctx, dateFillScript(field.Selector, NormalizeDate(value)))
	default:
		return d.runScript(ctx, textFillScript(field.Selector, value))
	}
}

// fillCombobox is two-phase: open and type, pause for the option list to
// render, then pick the matching option.
func (d *Dispatcher) fillCombobox(ctx context.Context, sel, value string) (bool, error) {
	opened, err := d.runScript(ctx, comboboxOpenScript(sel, value))
	if err != nil || !opened {
		return opened, err
	}
	if err := d.settle(ctx, d.cfg.ComboboxTypeDelay); err != nil {
		return false, err
	}
	return d.runScript(ctx, comboboxPickScript(sel, value))
}

func (d *Dispatcher) fillFile(ctx context.Context, field *schemas.FieldDescriptor, resumePDF []byte, log *zap.Logger) bool {
	if len(resumePDF) == 0 {
		// Expected when PDF conversion was unavailable upstream.
		log.Debug("No resume document available; skipping file field.")
		return false
	}

	encoded := base64.StdEncoding.EncodeToString(resumePDF)
	filled, err := d.runScript(ctx, fileFillScript(field.Selector, encoded, resumeFileName, "application/pdf"))
	if err != nil {
		log.Warn("File attach failed; continuing batch.", zap.Error(err))
		return false
	}
	if filled {
		if err := d.settle(ctx, d.cfg.FileDelay); err != nil {
			return true
		}
		log.Info("Resume attached.", zap.String("selector", field.Selector))
	}
	return filled
}

// runScript executes a fill script and interprets its outcome. Only status
// "filled" counts as success; "skipped" is a clean no-op.
func (d *Dispatcher) runScript(ctx context.Context, script string) (bool, error) {
	raw, err := d.runner.ExecuteScript(ctx, script)
	if err != nil {
		return false, err
	}

	var res outcome
	if err := json.Unmarshal(raw, &res); err != nil {
		return false, err
	}
	switch res.Status {
	case statusFilled:
		return true, nil
	case statusSkipped:
		d.logger.Debug("Fill script skipped.", zap.String("reason", res.Reason))
		return false, nil
	default:
		d.logger.Debug("Fill script reported error.", zap.String("reason", res.Reason))
		return false, nil
	}
}

// settle pauses between field mutations so reactive frameworks can process
// the dispatched events before the next field is touched.
func (d *Dispatcher) settle(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
