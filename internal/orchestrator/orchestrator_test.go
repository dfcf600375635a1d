// File: internal/orchestrator/orchestrator_test.go
package orchestrator

import (
	"context"
	stdjson "encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
	"github.com/xkilldash9x/autofill-cli/internal/config"
	"github.com/xkilldash9x/autofill-cli/internal/fill"
)

// fakeStepRunner answers resolve probes per selector and counts clicks.
type fakeStepRunner struct {
	visible    map[string]bool
	nextClicks int
}

func (f *fakeStepRunner) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	return nil
}

func (f *fakeStepRunner) ExecuteScript(ctx context.Context, script string) (stdjson.RawMessage, error) {
	switch {
	case strings.Contains(script, "found: el !== null"):
		for sel, vis := range f.visible {
			if strings.Contains(script, `"`+sel+`"`) {
				if vis {
					return stdjson.RawMessage(`{"found":true,"visible":true}`), nil
				}
				return stdjson.RawMessage(`{"found":false,"visible":false}`), nil
			}
		}
		return stdjson.RawMessage(`{"found":false,"visible":false}`), nil
	case strings.Contains(script, "el.click()") || strings.Contains(script, "wanted"):
		f.nextClicks++
		return stdjson.RawMessage(`true`), nil
	}
	return stdjson.RawMessage(`null`), nil
}

// fakeDispatcher records fill order without touching a page.
type fakeDispatcher struct {
	filledOrder []string
	refuse      map[string]bool
}

func (f *fakeDispatcher) BatchID() string { return "batch-test" }

func (f *fakeDispatcher) FillBatch(ctx context.Context, fields []schemas.FieldDescriptor, record schemas.UserRecord, resumePDF []byte) (*fill.Report, error) {
	report := &fill.Report{BatchID: f.BatchID()}
	for i := range fields {
		if f.Fill(ctx, &fields[i], record, resumePDF) {
			report.Filled = append(report.Filled, fields[i].Selector)
		} else {
			report.Skipped = append(report.Skipped, fields[i].Selector)
		}
	}
	return report, nil
}

func (f *fakeDispatcher) Fill(ctx context.Context, field *schemas.FieldDescriptor, record schemas.UserRecord, resumePDF []byte) bool {
	if f.refuse[field.Selector] {
		return false
	}
	f.filledOrder = append(f.filledOrder, field.Selector)
	return true
}

func fastConfig() config.FillConfig {
	return config.FillConfig{
		StepWait:    time.Microsecond,
		StepTimeout: 500 * time.Millisecond,
	}
}

func twoStepAnalysis() *schemas.FormAnalysis {
	return &schemas.FormAnalysis{
		Fields: []schemas.FieldDescriptor{
			{Selector: "#a", Kind: schemas.KindText, Role: schemas.RoleFirstName},
			{Selector: "#b", Kind: schemas.KindText, Role: schemas.RoleLastName},
		},
		Steps: []schemas.Step{
			{Name: "Identity", Fields: []string{"#a"}, NextButtonSelector: "#next"},
			{Name: "Details", Fields: []string{"#b"}, IsLastStep: true},
		},
	}
}

func TestExecuteSinglePageFillsEverything(t *testing.T) {
	runner := &fakeStepRunner{}
	dispatcher := &fakeDispatcher{}
	o := New(runner, dispatcher, fastConfig(), zap.NewNop())

	analysis := &schemas.FormAnalysis{Fields: []schemas.FieldDescriptor{
		{Selector: "#a", Kind: schemas.KindText, Role: schemas.RoleFirstName},
		{Selector: "#b", Kind: schemas.KindText, Role: schemas.RoleLastName},
	}}

	report, err := o.Execute(context.Background(), analysis, schemas.UserRecord{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"#a", "#b"}, report.Filled)
	assert.Zero(t, runner.nextClicks)
}

func TestExecuteTwoStepForm(t *testing.T) {
	defer goleak.VerifyNone(t)
	runner := &fakeStepRunner{visible: map[string]bool{"#a": true, "#b": true}}
	dispatcher := &fakeDispatcher{}
	o := New(runner, dispatcher, fastConfig(), zap.NewNop())

	report, err := o.Execute(context.Background(), twoStepAnalysis(), schemas.UserRecord{}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"#a", "#b"}, dispatcher.filledOrder)
	assert.Equal(t, []string{"#a", "#b"}, report.Filled)
	// Step-path reports carry the dispatcher's batch id, same as single-page
	// batches.
	assert.Equal(t, "batch-test", report.BatchID)
	// The next control was activated exactly once: between the two steps,
	// never after the last.
	assert.Equal(t, 1, runner.nextClicks)
}

func TestExecuteStepTimeoutStillAttemptsFill(t *testing.T) {
	runner := &fakeStepRunner{visible: map[string]bool{"#a": false, "#b": true}}
	dispatcher := &fakeDispatcher{}
	cfg := fastConfig()
	cfg.StepTimeout = 50 * time.Millisecond
	o := New(runner, dispatcher, cfg, zap.NewNop())

	report, err := o.Execute(context.Background(), twoStepAnalysis(), schemas.UserRecord{}, nil)
	require.NoError(t, err)

	// Step one's field never became visible, but the fill was still tried.
	assert.Contains(t, dispatcher.filledOrder, "#a")
	assert.Len(t, report.Filled, 2)
}

func TestExecuteStepSkipsUnknownFieldSelectors(t *testing.T) {
	runner := &fakeStepRunner{visible: map[string]bool{"#a": true}}
	dispatcher := &fakeDispatcher{}
	o := New(runner, dispatcher, fastConfig(), zap.NewNop())

	analysis := &schemas.FormAnalysis{
		Fields: []schemas.FieldDescriptor{{Selector: "#a", Kind: schemas.KindText}},
		Steps:  []schemas.Step{{Name: "Only", Fields: []string{"#a", "#phantom"}, IsLastStep: true}},
	}

	report, err := o.Execute(context.Background(), analysis, schemas.UserRecord{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"#a"}, report.Filled)
	assert.NotContains(t, dispatcher.filledOrder, "#phantom")
}

func TestExecuteCanceledContext(t *testing.T) {
	runner := &fakeStepRunner{visible: map[string]bool{}}
	dispatcher := &fakeDispatcher{}
	o := New(runner, dispatcher, fastConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Execute(ctx, twoStepAnalysis(), schemas.UserRecord{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
