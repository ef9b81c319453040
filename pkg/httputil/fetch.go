package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxDocumentSize bounds the response body read by Fetch. Clustered graph
// documents are small; anything larger is a misdirected URL.
const maxDocumentSize = 32 << 20

// fetchRetryDelay is the initial backoff between fetch attempts.
var fetchRetryDelay = time.Second

// Fetch downloads the body at url. Transient failures (network errors,
// 5xx responses, 429 rate limits) are retried with exponential backoff;
// other non-2xx responses fail immediately.
//
// A nil client uses an http.Client with a 30 second timeout.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	var body []byte
	err := Retry(ctx, 3, fetchRetryDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			return &RetryableError{Err: err}
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return &RetryableError{Err: fmt.Errorf("GET %s: %s", url, resp.Status)}
		default:
			return fmt.Errorf("GET %s: %s", url, resp.Status)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
		if err != nil {
			return &RetryableError{Err: fmt.Errorf("GET %s: read body: %w", url, err)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
