package httputil

import (
	"bytes"
	"io"
	"net/http"
	"sync"
)

// Poster is the slice of HTTP client behavior the map broadcaster needs.
// *http.Client satisfies it; RecordingPoster serves tests.
type Poster interface {
	Post(url, contentType string, body io.Reader) (*http.Response, error)
}

// RecordingPoster records POSTs and answers each with a canned status.
type RecordingPoster struct {
	mu     sync.Mutex
	Status int // response status; defaults to 200 when zero
	Err    error

	URLs   []string
	Bodies [][]byte
}

// Post records the request and returns the configured response.
func (r *RecordingPoster) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	r.URLs = append(r.URLs, url)
	r.Bodies = append(r.Bodies, b)
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     make(http.Header),
	}, nil
}

// Count returns the number of recorded POSTs.
func (r *RecordingPoster) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.URLs)
}

var _ Poster = (*http.Client)(nil)
var _ Poster = (*RecordingPoster)(nil)
