// File: internal/discovery/enhance.go
package discovery

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
	"github.com/xkilldash9x/autofill-cli/internal/selector"
)

// tryEnhance runs the optional remote analysis pass. It fails closed: any
// error, oversized snippet, or validation rejection returns nil and the
// caller keeps the direct-detection result. Nothing in here may surface an
// error to the fill operation.
func (d *Discoverer) tryEnhance(ctx context.Context, direct *schemas.FormAnalysis, pageURL string) *schemas.FormAnalysis {
	if len(direct.Fields) == 0 {
		return nil
	}

	snippet, err := d.formSnippet(ctx, direct.Fields[0].Selector)
	if err != nil {
		d.logger.Debug("Form snippet extraction failed; skipping remote analysis.", zap.Error(err))
		return nil
	}
	if snippet == "" || len(snippet) > d.cfg.HardMaxBytes {
		d.logger.Debug("Form snippet unusable for remote analysis.", zap.Int("bytes", len(snippet)))
		return nil
	}
	if !parsesAsMarkup(snippet) {
		d.logger.Debug("Form snippet did not parse as markup; skipping remote analysis.")
		return nil
	}

	remote, err := d.analyzer.AnalyzeForm(ctx, snippet, pageURL)
	if err != nil {
		d.logger.Debug("Remote analysis failed; keeping direct detection.", zap.Error(err))
		return nil
	}

	if !d.validateRemote(ctx, &remote, direct) {
		d.logger.Debug("Remote analysis rejected by validation; keeping direct detection.")
		return nil
	}
	return &remote
}

// formSnippet serializes the smallest form-dense ancestor of the first
// discovered field, capped at the configured snippet ceiling.
func (d *Discoverer) formSnippet(ctx context.Context, firstSelector string) (string, error) {
	raw, err := d.runner.ExecuteScript(ctx, containerScript(firstSelector, d.cfg.SnippetMaxBytes))
	if err != nil {
		return "", err
	}
	var snippet string
	if err := json.Unmarshal(raw, &snippet); err != nil {
		return "", err
	}
	return snippet, nil
}

// parsesAsMarkup runs the snippet through an HTML tokenizer as a cheap
// sanity check before shipping it off the machine.
func parsesAsMarkup(snippet string) bool {
	node, err := html.Parse(strings.NewReader(snippet))
	return err == nil && node != nil
}

// validateRemote accepts the remote result only when it is provably not
// worse than direct detection: at least as many fields, every selector
// re-resolves on the live page, and every step references known fields.
func (d *Discoverer) validateRemote(ctx context.Context, remote, direct *schemas.FormAnalysis) bool {
	if len(remote.Fields) < len(direct.Fields) {
		return false
	}

	known := make(map[string]bool, len(remote.Fields))
	for i := range remote.Fields {
		sel := remote.Fields[i].Selector
		if sel == "" || !d.resolves(ctx, sel) {
			return false
		}
		known[sel] = true
	}

	for _, step := range remote.Steps {
		for _, sel := range step.Fields {
			if !known[sel] {
				return false
			}
		}
	}
	return true
}

func (d *Discoverer) resolves(ctx context.Context, sel string) bool {
	raw, err := d.runner.ExecuteScript(ctx, selector.ResolvesScript(sel))
	if err != nil {
		return false
	}
	var res selector.Resolution
	if err := json.Unmarshal(raw, &res); err != nil {
		return false
	}
	return res.Found
}
