// File: internal/backend/client.go

// Package backend talks to the external tailoring service. The engine treats
// it as an opaque data source: a static profile store, a resume parser, an
// optional form analyzer, and a resume-to-PDF converter. Every call is
// bounded by a timeout and rate limited; only the profile fetch is required
// for a fill to proceed.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
	"github.com/xkilldash9x/autofill-cli/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is the HTTP client for the tailoring backend. It is safe for
// concurrent use; the profile fetch is deduplicated and cached for the
// client's lifetime.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	cfg        config.BackendConfig

	profileGroup  singleflight.Group
	cachedProfile atomic.Pointer[schemas.Profile]
}

// NewClient builds a backend client from configuration.
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		logger:     logger.Named("backend"),
		cfg:        cfg,
	}
}

// GetProfile fetches the static profile for the configured profile name.
// The first successful result is cached for the client's lifetime, and
// concurrent callers share a single in-flight request. Failures are not
// cached, so a later call retries the fetch.
func (c *Client) GetProfile(ctx context.Context) (schemas.Profile, error) {
	if p := c.cachedProfile.Load(); p != nil {
		return *p, nil
	}

	v, err, _ := c.profileGroup.Do("profile", func() (interface{}, error) {
		if p := c.cachedProfile.Load(); p != nil {
			return *p, nil
		}
		var profile schemas.Profile
		endpoint := fmt.Sprintf("/get-user-profile?profile_name=%s", url.QueryEscape(c.cfg.ProfileName))
		if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &profile); err != nil {
			return schemas.Profile{}, err
		}
		c.cachedProfile.Store(&profile)
		return profile, nil
	})
	if err != nil {
		return schemas.Profile{}, fmt.Errorf("fetching user profile: %w", err)
	}
	return v.(schemas.Profile), nil
}

type parseResumeRequest struct {
	Resume       string               `json:"resume"`
	ResumeFormat schemas.ResumeFormat `json:"resume_format"`
}

// ParseResume submits resume text for structured parsing. Callers are
// expected to fall back to local extraction when this fails.
func (c *Client) ParseResume(ctx context.Context, resumeText string, format schemas.ResumeFormat) (schemas.ResumeSections, error) {
	var sections schemas.ResumeSections
	req := parseResumeRequest{Resume: resumeText, ResumeFormat: format}
	if err := c.doJSON(ctx, http.MethodPost, "/parse-resume", req, &sections); err != nil {
		return schemas.ResumeSections{}, fmt.Errorf("parsing resume: %w", err)
	}
	return sections, nil
}

type analyzeFormRequest struct {
	FormHTML string `json:"form_html"`
	URL      string `json:"url"`
}

// AnalyzeForm submits a DOM snippet for remote field and step analysis. The
// call runs under its own shorter timeout; failures here never block a fill.
func (c *Client) AnalyzeForm(ctx context.Context, formHTML, pageURL string) (schemas.FormAnalysis, error) {
	opCtx, cancel := context.WithTimeout(ctx, c.cfg.AnalyzeTimeout)
	defer cancel()

	var analysis schemas.FormAnalysis
	req := analyzeFormRequest{FormHTML: formHTML, URL: pageURL}
	if err := c.doJSON(opCtx, http.MethodPost, "/analyze-form", req, &analysis); err != nil {
		return schemas.FormAnalysis{}, fmt.Errorf("analyzing form: %w", err)
	}
	return analysis, nil
}

type convertResumeRequest struct {
	Resume       string               `json:"resume"`
	ResumeFormat schemas.ResumeFormat `json:"resume_format"`
}

// ConvertResume renders the resume to a PDF document for file-upload fields.
// A failure here is non-fatal upstream; file fields are simply skipped.
func (c *Client) ConvertResume(ctx context.Context, resumeText string, format schemas.ResumeFormat) ([]byte, error) {
	body, err := json.Marshal(convertResumeRequest{Resume: resumeText, ResumeFormat: format})
	if err != nil {
		return nil, fmt.Errorf("encoding convert request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/convert-to-pdf", bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, fmt.Errorf("converting resume: %w", err)
	}
	defer resp.Body.Close()

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading converted resume: %w", err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("conversion returned an empty document")
	}
	return pdf, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, reqBody, out interface{}) error {
	var reader io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	resp, err := c.do(ctx, method, endpoint, reader, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}

	c.logger.Debug("Backend request complete.",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("backend returned status %d for %s: %s", resp.StatusCode, endpoint, strings.TrimSpace(string(snippet)))
	}
	return resp, nil
}
