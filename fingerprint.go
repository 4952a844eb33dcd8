package httpreplay

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"sort"
	"strings"
)

// canonicalParams normalizes a combined query+body parameter string into one
// deterministic form: pairs are split on "&", keyed on the first "=", sorted
// by key and concatenated back without a separator. A pair without "=" is a
// value-less key. Duplicate keys collapse to the last value seen. A key in
// the redact set keeps its position in the output but loses its value.
//
// Values are taken verbatim; nothing is URL-decoded or validated.
func canonicalParams(combined string, redact map[string]struct{}) string {
	if combined == "" {
		return ""
	}

	params := make(map[string]string)
	for _, pair := range strings.Split(combined, "&") {
		key, value, _ := strings.Cut(pair, "=")
		params[key] = value
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := params[k]
		if _, ok := redact[k]; ok {
			v = ""
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v)
	}
	return b.String()
}

// fingerprint computes the cache key for a request whose body has already
// been snapshotted. The body, if any, is treated as additional parameters
// appended to the query string.
func (r *Recorder) fingerprint(req *http.Request, body string) string {
	combined := req.URL.RawQuery
	if body != "" {
		if combined == "" {
			combined = body
		} else {
			combined += "&" + body
		}
	}

	key := req.Method + " " + strings.ToLower(req.URL.Host) + req.URL.Path +
		"?" + canonicalParams(combined, r.filterParams)

	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}
