// File: internal/reporting/reporter.go

// Package reporting writes fill-operation results to an output destination.
package reporting

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/autofill-cli/internal/orchestrator"
)

// Reporter writes one fill result to its destination.
type Reporter interface {
	// Write renders a single fill result.
	Write(result *orchestrator.Result) error
	// Close finalizes the report and releases the underlying writer.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter for the given format ("text" or "json") and output
// path; empty path or "stdout" writes to standard output.
func New(format, outputPath string) (Reporter, error) {
	var writer io.WriteCloser
	isStdOut := outputPath == "" || outputPath == "stdout"

	if isStdOut {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	switch format {
	case "json":
		return &jsonReporter{w: writer}, nil
	case "text", "":
		return &textReporter{w: writer}, nil
	default:
		if !isStdOut {
			writer.Close()
		}
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

type jsonReporter struct {
	w io.WriteCloser
}

func (r *jsonReporter) Write(result *orchestrator.Result) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func (r *jsonReporter) Close() error { return r.w.Close() }

type textReporter struct {
	w io.WriteCloser
}

func (r *textReporter) Write(result *orchestrator.Result) error {
	report := result.Report
	if _, err := fmt.Fprintf(r.w, "Filled %d of %d fields on %s\n", len(report.Filled), result.FieldsFound, result.URL); err != nil {
		return err
	}
	if result.Steps > 0 {
		if _, err := fmt.Fprintf(r.w, "Completed %d form steps\n", result.Steps); err != nil {
			return err
		}
	}
	if result.ResumeAttached {
		if _, err := fmt.Fprintln(r.w, "Resume document attached"); err != nil {
			return err
		}
	}
	for _, sel := range report.Skipped {
		if _, err := fmt.Fprintf(r.w, "  skipped: %s\n", sel); err != nil {
			return err
		}
	}
	return nil
}

func (r *textReporter) Close() error { return r.w.Close() }
