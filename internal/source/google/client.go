package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/source"
)

// defaultBaseURL is the Google Calendar API v3 root.
const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Client is a thin HTTP client for the Google Calendar API v3. It
// handles Bearer token authentication, JSON unmarshaling, and
// automatic retry with exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a new Calendar API client authenticating with the
// given OAuth access token.
func NewClient(token string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// Get performs an HTTP GET request against the API and unmarshals the
// JSON response. The query may be nil.
func (c *Client) Get(
	ctx context.Context,
	path string,
	query url.Values,
	result interface{},
) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(
			ctx, http.MethodGet, fullURL, nil,
		)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request GET %s: %w", path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429) on GET %s", path)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if resp.StatusCode == http.StatusUnauthorized ||
			resp.StatusCode == http.StatusForbidden {
			return &source.AuthError{
				Provider: model.ProviderGoogle,
				Message: fmt.Sprintf(
					"calendar API rejected the access token (%d)",
					resp.StatusCode,
				),
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var apiErr ErrorResponse
			if json.Unmarshal(respBody, &apiErr) == nil &&
				apiErr.Error.Message != "" {
				return fmt.Errorf(
					"calendar API error (%d) on GET %s: %s",
					resp.StatusCode, path, apiErr.Error.Message,
				)
			}
			return fmt.Errorf(
				"unexpected status %d on GET %s: %s",
				resp.StatusCode, path, string(respBody),
			)
		}

		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf(
				"unmarshaling response from GET %s: %w", path, err,
			)
		}

		return nil
	}

	return fmt.Errorf(
		"max retries (%d) exceeded: %w", c.maxRetries, lastErr,
	)
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}

// escapeCalendarID percent-encodes a calendar id for use in a path
// segment ("primary" passes through unchanged).
func escapeCalendarID(id string) string {
	if strings.ContainsAny(id, "/@%") {
		return url.PathEscape(id)
	}
	return id
}
