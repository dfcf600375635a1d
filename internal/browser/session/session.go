// File: internal/browser/session/session.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/autofill-cli/internal/config"
)

// ScriptRunner is the minimal browser surface the engine components depend
// on. Abstracting it away from the concrete Session keeps discovery and fill
// logic decoupled from chromedp and mockable in tests.
type ScriptRunner interface {
	// RunActions executes a sequence of browser actions within the given
	// operational context, combined with the session's CDP context.
	RunActions(ctx context.Context, actions ...chromedp.Action) error

	// ExecuteScript evaluates JavaScript in the page, awaiting promises and
	// returning the result by value as raw JSON.
	ExecuteScript(ctx context.Context, script string) (json.RawMessage, error)
}

// Session owns one browser tab for the lifetime of a fill operation.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	cfg    *config.Config

	allocCancel context.CancelFunc
}

var _ ScriptRunner = (*Session)(nil)

// NewSession allocates a browser and attaches a fresh tab to it. The session
// remains valid until Close is called or parentCtx is canceled.
func NewSession(parentCtx context.Context, cfg *config.Config, logger *zap.Logger) (*Session, error) {
	sessionID := uuid.New().String()
	log := logger.Named("session").With(zap.String("session_id", sessionID))

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Browser.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.Browser.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.Browser.ExecPath))
	}
	if cfg.Browser.IgnoreTLSErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, opts...)

	var ctxOpts []chromedp.ContextOption
	if cfg.Browser.Debug {
		ctxOpts = append(ctxOpts, chromedp.WithDebugf(log.Sugar().Debugf))
	}
	ctx, cancel := chromedp.NewContext(allocCtx, ctxOpts...)

	// Start the browser process now so a broken environment fails fast.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	log.Debug("Browser session allocated.")
	return &Session{
		id:          sessionID,
		ctx:         ctx,
		cancel:      cancel,
		logger:      log,
		cfg:         cfg,
		allocCancel: allocCancel,
	}, nil
}

// ID returns the session identifier used in logs and reports.
func (s *Session) ID() string { return s.id }

// Context exposes the session's CDP context for callers that need to issue
// chromedp calls directly (primarily tests).
func (s *Session) Context() context.Context { return s.ctx }

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	s.cancel()
	if s.allocCancel != nil {
		s.allocCancel()
	}
	s.logger.Debug("Browser session closed.")
}

// RunActions executes browser actions under the combined session/operational
// context, so either cancellation stops the work.
func (s *Session) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	combined, cancel := CombineContext(s.ctx, ctx)
	defer cancel()

	err := chromedp.Run(combined, actions...)
	if err != nil {
		// Report the cause with the highest precedence: operational
		// cancellation first, then session teardown.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if s.ctx.Err() != nil {
			return fmt.Errorf("session closed: %w", s.ctx.Err())
		}
		return err
	}
	return nil
}

// ExecuteScript evaluates a script in the page and returns the raw JSON
// result. Promises are awaited and in-page exceptions are silenced; a script
// that throws yields a CDP-level error instead.
func (s *Session) ExecuteScript(ctx context.Context, script string) (json.RawMessage, error) {
	var res json.RawMessage
	err := s.RunActions(ctx,
		chromedp.Evaluate(script, &res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("script evaluation failed: %w", err)
	}
	return res, nil
}

// Navigate loads the target URL and waits out the configured post-load quiet
// period so late scripts get a chance to mount their widgets.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Info("Navigating.", zap.String("url", url))

	navTimeout := s.cfg.Network.NavigationTimeout
	navCtx, navCancel := context.WithTimeout(ctx, navTimeout)
	defer navCancel()

	if err := s.RunActions(navCtx, chromedp.Navigate(url)); err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation to %s timed out after %v: %w", url, navTimeout, navCtx.Err())
		}
		return fmt.Errorf("navigation failed: %w", err)
	}

	if err := s.Sleep(ctx, s.cfg.Network.PostLoadWait); err != nil {
		return err
	}
	s.logger.Debug("Navigation complete.", zap.String("url", url))
	return nil
}

// Sleep pauses cooperatively, returning early if either the operational or
// the session context is canceled.
func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

// jsonEncode safely encodes a value (especially strings) for embedding in a
// JavaScript snippet.
func jsonEncode(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}

// JSONEncode is the exported form of jsonEncode for engine packages that
// assemble their own scripts.
func JSONEncode(v interface{}) string { return jsonEncode(v) }
