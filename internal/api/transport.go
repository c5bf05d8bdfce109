package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Defaults for the retry wrapper. Overridable through Options.
const (
	DefaultMaxRetries = 3
	DefaultRetryBase  = 100 * time.Millisecond
)

// doWithRetry performs one logical round trip with bounded retry and
// exponential backoff. Retry covers network-level failures and >=500
// responses only; a 4xx is a legitimate final outcome and is returned
// as-is. build must produce a fresh request per attempt since request
// bodies are single-use.
func (c *Client) doWithRetry(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// 100ms, 200ms, 400ms... before attempts 1, 2, 3...
			delay := c.retryBase << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := build()
		if err != nil {
			return nil, err
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("request: %w", err)
			c.log.Debugw("transport failure",
				"method", req.Method, "url", req.URL.String(),
				"attempt", attempt, "error", err.Error())
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
			c.log.Debugw("server error, retrying",
				"method", req.Method, "url", req.URL.String(),
				"status", resp.StatusCode, "attempt", attempt)
			continue
		}

		return resp, nil
	}
	return nil, lastErr
}
