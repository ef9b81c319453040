// Package httputil provides HTTP client utilities for fetching remote
// clustered graph documents.
//
// [Fetch] downloads a document body with automatic retry: network errors
// and 5xx/429 responses are wrapped in [RetryableError] and retried with
// exponential backoff, while other HTTP errors fail immediately.
//
//	data, err := httputil.Fetch(ctx, nil, "https://example.com/graph.json")
//
// [Retry] is the underlying backoff loop and can wrap any operation whose
// transient failures are marked with [RetryableError].
package httputil
