package httpreplay

import "net/http"

// DefaultFilterHeaders are the response headers removed before an entry is
// persisted when the Recorder does not set its own list. They carry
// connection- or time-dependent values that would make recordings differ
// between runs.
var DefaultFilterHeaders = []string{
	"Client-Peer",
	"Expires",
	"Client-Date",
	"Cache-Control",
}

// redactHeaders removes the named headers from the response in place. The
// name match is case-insensitive. Redaction happens once, at record time;
// a played-back response never contained the headers to begin with.
func redactHeaders(resp *http.Response, names []string) {
	for _, name := range names {
		resp.Header.Del(name)
	}
}
