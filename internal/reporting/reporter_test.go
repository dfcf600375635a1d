// File: internal/reporting/reporter_test.go
package reporting

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/autofill-cli/internal/fill"
	"github.com/xkilldash9x/autofill-cli/internal/orchestrator"
)

func sampleResult() *orchestrator.Result {
	return &orchestrator.Result{
		URL:            "https://jobs.example.com/apply",
		FieldsFound:    3,
		Steps:          2,
		ResumeAttached: true,
		Report: &fill.Report{
			BatchID: "batch-1",
			Filled:  []string{"#email", "#name"},
			Skipped: []string{"#phantom"},
		},
	}
}

func TestTextReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &textReporter{w: &nopWriteCloser{&buf}}

	require.NoError(t, r.Write(sampleResult()))
	out := buf.String()
	assert.Contains(t, out, "Filled 2 of 3 fields on https://jobs.example.com/apply")
	assert.Contains(t, out, "Completed 2 form steps")
	assert.Contains(t, out, "Resume document attached")
	assert.Contains(t, out, "skipped: #phantom")
}

func TestJSONReporterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	r := &jsonReporter{w: &nopWriteCloser{&buf}}

	require.NoError(t, r.Write(sampleResult()))

	var decoded orchestrator.Result
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.FieldsFound)
	assert.Equal(t, []string{"#email", "#name"}, decoded.Report.Filled)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	r, err := New("json", path)
	require.NoError(t, err)

	require.NoError(t, r.Write(sampleResult()))
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fields_found": 3`)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New("sarif", "")
	assert.Error(t, err)
}
