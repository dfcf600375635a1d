// File: internal/fill/dispatcher_test.go
package fill

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
)

// fakeRunner captures evaluated scripts and replies with canned outcomes,
// matched by substring against the script text.
type fakeRunner struct {
	scripts   []string
	responses map[string]string // script substring -> JSON outcome
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: make(map[string]string)}
}

func (f *fakeRunner) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	return nil
}

func (f *fakeRunner) ExecuteScript(ctx context.Context, script string) (stdjson.RawMessage, error) {
	f.scripts = append(f.scripts, script)
	for needle, resp := range f.responses {
		if strings.Contains(script, needle) {
			return stdjson.RawMessage(resp), nil
		}
	}
	return stdjson.RawMessage(`{"status":"filled"}`), nil
}

func fastFillConfig() config.FillConfig {
	return config.FillConfig{
		InputDelay: time.Microsecond, SelectDelay: time.Microsecond,
		CheckboxDelay: time.Microsecond, RadioDelay: time.Microsecond,
		DateDelay: time.Microsecond, FileDelay: time.Microsecond,
		ComboboxTypeDelay: time.Microsecond, ComboboxSelectDelay: time.Microsecond,
		StepWait: time.Microsecond, StepTimeout: time.Second,
	}
}

func textField(sel string, role schemas.FieldRole) schemas.FieldDescriptor {
	return schemas.FieldDescriptor{Selector: sel, Kind: schemas.KindText, Role: role}
}

func TestFillBatchSimpleTextForm(t *testing.T) {
	runner := newFakeRunner()
	d := NewDispatcher(runner, fastFillConfig(), zap.NewNop())

	fields := []schemas.FieldDescriptor{
		{Selector: `[name="email"]`, Kind: schemas.KindEmail, Role: schemas.RoleEmail},
		textField(`[name="firstName"]`, schemas.RoleFirstName),
	}
	record := schemas.UserRecord{PersonalInfo: schemas.PersonalInfo{Email: "a@b.com", FirstName: "Jane"}}

	report, err := d.FillBatch(context.Background(), fields, record, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{`[name="email"]`, `[name="firstName"]`}, report.Filled)
	assert.Empty(t, report.Skipped)
	require.Len(t, runner.scripts, 2)
	assert.Contains(t, runner.scripts[0], `"a@b.com"`)
	assert.Contains(t, runner.scripts[0], "'input', 'change'")
	assert.Contains(t, runner.scripts[1], `"Jane"`)
}

func TestFillBatchIsIdempotentWithinSession(t *testing.T) {
	defer goleak.VerifyNone(t)
	runner := newFakeRunner()
	d := NewDispatcher(runner, fastFillConfig(), zap.NewNop())

	fields := []schemas.FieldDescriptor{textField("#email", schemas.RoleEmail)}
	record := schemas.UserRecord{PersonalInfo: schemas.PersonalInfo{Email: "a@b.com"}}

	_, err := d.FillBatch(context.Background(), fields, record, nil)
	require.NoError(t, err)
	firstPass := len(runner.scripts)

	// A second pass over the same selectors performs zero mutations.
	report, err := d.FillBatch(context.Background(), fields, record, nil)
	require.NoError(t, err)
	assert.Empty(t, report.Filled)
	assert.Len(t, runner.scripts, firstPass)
}

func TestFillSkipsEmptyValuesWithoutError(t *testing.T) {
	runner := newFakeRunner()
	d := NewDispatcher(runner, fastFillConfig(), zap.NewNop())

	// No email in the record, so nothing to set.
	fields := []schemas.FieldDescriptor{textField("#email", schemas.RoleEmail)}
	report, err := d.FillBatch(context.Background(), fields, schemas.UserRecord{}, nil)

	require.NoError(t, err)
	assert.Empty(t, report.Filled)
	assert.Equal(t, []string{"#email"}, report.Skipped)
	assert.Empty(t, runner.scripts)
}

func TestFillFileFieldSkippedWithoutDocument(t *testing.T) {
	runner := newFakeRunner()
	d := NewDispatcher(runner, fastFillConfig(), zap.NewNop())

	fields := []schemas.FieldDescriptor{{Selector: "#resume", Kind: schemas.KindFile, Role: schemas.RoleResume}}
	report, err := d.FillBatch(context.Background(), fields, schemas.UserRecord{}, nil)

	require.NoError(t, err)
	assert.Empty(t, report.Filled)
	assert.Empty(t, runner.scripts)
}

func TestFillFileFieldAttachesDocument(t *testing.T) {
	runner := newFakeRunner()
	d := NewDispatcher(runner, fastFillConfig(), zap.NewNop())

	fields := []schemas.FieldDescriptor{{Selector: "#resume", Kind: schemas.KindFile, Role: schemas.RoleResume}}
	report, err := d.FillBatch(context.Background(), fields, schemas.UserRecord{}, []byte("%PDF-1.4"))

	require.NoError(t, err)
	assert.Equal(t, []string{"#resume"}, report.Filled)
	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], "resume.pdf")
	assert.Contains(t, runner.scripts[0], "DataTransfer")
}

func TestFillComboboxRunsTwoPhases(t *testing.T) {
	runner := newFakeRunner()
	d := NewDispatcher(runner, fastFillConfig(), zap.NewNop())

	fields := []schemas.FieldDescriptor{{Selector: "#workplace", Kind: schemas.KindCombobox, Role: schemas.RoleOther}}
	report, err := d.FillBatch(context.Background(), fields, schemas.UserRecord{}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"#workplace"}, report.Filled)
	require.Len(t, runner.scripts, 2)
	assert.Contains(t, runner.scripts[0], "el.click()")
	assert.Contains(t, runner.scripts[1], `[role="option"]`)
}

func TestFillContinuesPastFailingField(t *testing.T) {
	runner := newFakeRunner()
	runner.responses["#broken"] = `{"status":"error","reason":"boom"}`
	d := NewDispatcher(runner, fastFillConfig(), zap.NewNop())

	fields := []schemas.FieldDescriptor{
		textField("#broken", schemas.RoleFirstName),
		textField("#city", schemas.RoleCity),
	}
	record := schemas.UserRecord{PersonalInfo: schemas.PersonalInfo{
		FirstName: "Jane",
		Address:   schemas.Address{City: "Austin"},
	}}

	report, err := d.FillBatch(context.Background(), fields, record, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"#city"}, report.Filled)
	assert.Equal(t, []string{"#broken"}, report.Skipped)
}

func TestFillStaleSelectorIsSkipped(t *testing.T) {
	runner := newFakeRunner()
	runner.responses["#gone"] = `{"status":"skipped","reason":"selector did not resolve"}`
	d := NewDispatcher(runner, fastFillConfig(), zap.NewNop())

	fields := []schemas.FieldDescriptor{textField("#gone", schemas.RoleCity)}
	record := schemas.UserRecord{PersonalInfo: schemas.PersonalInfo{Address: schemas.Address{City: "Austin"}}}

	report, err := d.FillBatch(context.Background(), fields, record, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"#gone"}, report.Skipped)
}

func TestFillBatchStopsOnCanceledContext(t *testing.T) {
	runner := newFakeRunner()
	d := NewDispatcher(runner, fastFillConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fields := []schemas.FieldDescriptor{textField("#email", schemas.RoleEmail)}
	record := schemas.UserRecord{PersonalInfo: schemas.PersonalInfo{Email: "a@b.com"}}

	_, err := d.FillBatch(ctx, fields, record, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, runner.scripts)
}

func TestCheckboxAffirmativeValues(t *testing.T) {
	runner := newFakeRunner()
	d := NewDispatcher(runner, fastFillConfig(), zap.NewNop())

	field := schemas.FieldDescriptor{Selector: "#agree", Kind: schemas.KindCheckbox, Role: schemas.RoleOther}
	filled := d.Fill(context.Background(), &field, schemas.UserRecord{}, nil)

	assert.True(t, filled)
	require.Len(t, runner.scripts, 1)
	// RoleOther resolves to "N/A", which is not affirmative.
	assert.Contains(t, runner.scripts[0], "const want = false")
}
