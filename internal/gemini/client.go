package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

const (
	maxAttempts    = 5
	initialBackoff = 2 * time.Second
)

// ErrRateLimited is returned when the upstream keeps throttling after all
// retry attempts are spent.
var ErrRateLimited = errors.New("rate limited by upstream")

type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewClient(apiKey, model string, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
		logger:  logger,
		sleep:   sleepCtx,
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type request struct {
	Contents []content `json:"contents"`
}

type response struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// apiError carries the upstream status so retry decisions can be made on it.
type apiError struct {
	code    int
	status  string
	message string
}

func (e *apiError) Error() string {
	if e.status != "" {
		return fmt.Sprintf("api error %d: %s — %s", e.code, e.status, e.message)
	}
	return fmt.Sprintf("api error %d: %s", e.code, e.message)
}

// Generate sends the prompt to the model and returns its text reply with any
// surrounding code fences stripped. Rate-limit responses are retried with
// exponential backoff (2s, doubling) for up to maxAttempts total attempts;
// any other upstream failure is returned immediately.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		text, err := c.generateOnce(ctx, prompt)
		if err == nil {
			return stripFences(text), nil
		}
		if !isRateLimited(err) {
			return "", err
		}
		if attempt >= maxAttempts {
			return "", fmt.Errorf("%w: giving up after %d attempts: %v", ErrRateLimited, maxAttempts, err)
		}
		c.logger.Warn("gemini rate limited, backing off",
			"attempt", attempt,
			"wait", backoff.String(),
		)
		if err := c.sleep(ctx, backoff); err != nil {
			return "", err
		}
		backoff *= 2
	}
}

func (c *Client) generateOnce(ctx context.Context, prompt string) (string, error) {
	reqBody := request{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &apiError{code: resp.StatusCode}
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			apiErr.status = errResp.Error.Status
			apiErr.message = errResp.Error.Message
		} else {
			apiErr.message = string(respBody)
		}
		return "", apiErr
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(apiResp.Candidates) == 0 || len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response content")
	}

	return apiResp.Candidates[0].Content.Parts[0].Text, nil
}

// isRateLimited recognises an upstream throttling signal: a 429, the
// RESOURCE_EXHAUSTED status, or a quota message.
func isRateLimited(err error) bool {
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.code == http.StatusTooManyRequests || apiErr.status == "RESOURCE_EXHAUSTED" {
		return true
	}
	msg := strings.ToLower(apiErr.message)
	return strings.Contains(msg, "quota") || strings.Contains(msg, "too many requests")
}

// stripFences removes markdown code-fence markup the model sometimes wraps
// around its reply.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
