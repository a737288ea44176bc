// Package transport performs the HTTP calls of the Piwik tracker.
//
// It is a thin adapter: one GET for a single tracking request or
// one JSON POST for a bulk payload, bounded by a timeout, returning the status
// code, the final requested URL and the elapsed time. It performs no retries
// and does not read the response body beyond draining it for connection reuse.
//
// # Usage
//
//	sender := transport.NewSender(transport.WithTimeout(5 * time.Second))
//
//	res, err := sender.Do(ctx, transport.Request{
//	    Method:    http.MethodGet,
//	    URL:       "https://stats.example.org/piwik.php?idsite=1&rec=1",
//	    UserAgent: r.UserAgent(),
//	})
//	if errors.Is(err, transport.ErrTimeout) {
//	    // the caller decides whether to reissue
//	}
//
// The default client comes from github.com/hashicorp/go-cleanhttp, which
// provides a pooled transport without shared global state.
package transport
