package httpreplay

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"sync"
)

// Mode controls whether the recorder talks to the network.
type Mode int

// Possible values:
const (
	// Record sends every request through the underlying transport and
	// persists the response to disk. A new recording overwrites any existing
	// one for the same fingerprint.
	Record Mode = iota

	// Playback answers every request from disk without network traffic. A
	// fingerprint that was never recorded produces a synthetic 404 response
	// rather than an error.
	Playback
)

// New is a convenience function for creating a new recorder.
func New(mode Mode, cacheDir string) *Recorder {
	return &Recorder{
		Mode:      mode,
		CacheDir:  cacheDir,
		Transport: http.DefaultTransport,
	}
}

// Recorder wraps a http.RoundTripper by recording responses that go through
// it, or replaying previously recorded ones.
//
// A Recorder is configured once, before the first request; the mode never
// changes at runtime. Entries are stored one file per fingerprint under
// CacheDir, in raw HTTP wire format. Concurrent record-mode writes to the
// same fingerprint have no defined winner; the intended use is sequential
// test execution.
type Recorder struct {
	// Mode to use. Default mode is Record.
	Mode Mode

	// CacheDir is the directory entries are saved in, one file per
	// fingerprint. It is created on first write if needed.
	//
	// Required.
	CacheDir string

	// FilterParams lists parameter names whose values are erased before the
	// fingerprint is computed, so that volatile values such as tokens do not
	// break cache hits. The key itself is kept: a request that carried the
	// parameter and one that never did still fingerprint differently.
	FilterParams []string

	// FilterHeaders lists response headers removed before an entry is
	// persisted. The match is case-insensitive. If nil, DefaultFilterHeaders
	// is used; an empty non-nil slice disables header redaction.
	FilterHeaders []string

	// Transport to use for real requests in Record mode.
	// If nil, http.DefaultTransport is used.
	Transport http.RoundTripper

	// Logger receives the playback-miss diagnostic.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics, if set, counts recordings, playback hits and playback misses.
	Metrics *Metrics

	// OnMiss, if set, is called with the request when playback finds no
	// recorded entry for its fingerprint.
	OnMiss func(*http.Request)

	once         sync.Once
	filterParams map[string]struct{}
	store        store
}

var _ http.RoundTripper = (*Recorder)(nil)

func (r *Recorder) init() {
	r.filterParams = make(map[string]struct{}, len(r.FilterParams))
	for _, name := range r.FilterParams {
		r.filterParams[name] = struct{}{}
	}
	r.store = store{dir: r.CacheDir}
}

// RoundTrip implements http.RoundTripper.
//
// The behavior depends on the mode set:
//
//	Record:    The request is sent through the underlying transport. On
//	           success the response is saved under the request fingerprint,
//	           with the filtered headers removed, and the live response is
//	           returned with all headers intact. A transport error is
//	           returned as-is and nothing is saved.
//	Playback:  A previously recorded response for the fingerprint is parsed
//	           from disk and returned. If none exists, the miss is logged and
//	           a synthetic 404 response with an empty body is returned.
//
// Cache directory I/O errors are returned in both modes.
func (r *Recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	r.once.Do(r.init)

	body, err := snapshotRequestBody(req)
	if err != nil {
		return nil, err
	}
	fingerprint := r.fingerprint(req, body)

	if r.Mode == Playback {
		return r.playback(req, fingerprint)
	}
	return r.record(req, fingerprint)
}

// Fingerprint returns the cache key for a request, the name of its entry
// file under CacheDir. The request body, if any, is read and restored.
//
// Two requests fingerprint identically iff their method, lowercased host,
// path and filtered parameter set are identical, regardless of the original
// parameter order in query or body.
func (r *Recorder) Fingerprint(req *http.Request) (string, error) {
	r.once.Do(r.init)
	body, err := snapshotRequestBody(req)
	if err != nil {
		return "", err
	}
	return r.fingerprint(req, body), nil
}

func (r *Recorder) record(req *http.Request, fingerprint string) (*http.Response, error) {
	resp, err := r.transport().RoundTrip(req)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := resp.Body.Close(); err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	// Redact a clone so the caller still sees every header.
	clone := *resp
	clone.Header = resp.Header.Clone()
	clone.Body = io.NopCloser(bytes.NewReader(body))
	redactHeaders(&clone, r.filterHeaders())

	raw, err := httputil.DumpResponse(&clone, true)
	if err != nil {
		return nil, fmt.Errorf("serialize response: %w", err)
	}
	if err := r.store.write(fingerprint, raw); err != nil {
		return nil, err
	}

	if r.Metrics != nil {
		r.Metrics.recordings.Inc()
	}
	return resp, nil
}

func (r *Recorder) playback(req *http.Request, fingerprint string) (*http.Response, error) {
	if !r.store.exists(fingerprint) {
		r.logger().Warn("no recorded entry",
			"method", req.Method,
			"url", req.URL.String(),
		)
		if r.OnMiss != nil {
			r.OnMiss(req)
		}
		if r.Metrics != nil {
			r.Metrics.playbackMisses.Inc()
		}
		return &http.Response{
			Status:     fmt.Sprintf("%d %s", http.StatusNotFound, http.StatusText(http.StatusNotFound)),
			StatusCode: http.StatusNotFound,
			Proto:      "HTTP/1.1",
			ProtoMajor: 1,
			ProtoMinor: 1,
			Header:     make(http.Header),
			Body:       http.NoBody,
			Request:    req,
		}, nil
	}

	raw, err := r.store.read(fingerprint)
	if err != nil {
		return nil, err
	}
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(raw)), req)
	if err != nil {
		return nil, fmt.Errorf("parse entry %s: %w", fingerprint, err)
	}

	if r.Metrics != nil {
		r.Metrics.playbackHits.Inc()
	}
	return resp, nil
}

func (r *Recorder) transport() http.RoundTripper {
	if r.Transport != nil {
		return r.Transport
	}
	return http.DefaultTransport
}

func (r *Recorder) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Recorder) filterHeaders() []string {
	if r.FilterHeaders != nil {
		return r.FilterHeaders
	}
	return DefaultFilterHeaders
}

// snapshotRequestBody drains the request body into memory and replaces it so
// the underlying transport still sees the full body.
func snapshotRequestBody(req *http.Request) (string, error) {
	if req.Body == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, req.Body); err != nil {
		return "", err
	}
	body := buf.String()
	req.Body = io.NopCloser(&buf)
	return body, nil
}
