// Package trace resolves dotted, optionally indexed paths into the nested
// execution record of a scored application.
package trace

import (
	"strconv"
	"strings"
)

// excludedKeys are administrative span fields that path extraction must never
// return, even when explicitly requested.
var excludedKeys = map[string]struct{}{
	"start_time": {},
	"end_time":   {},
	"trace_id":   {},
	"span_id":    {},
	"cost":       {},
	"usage":      {},
	"latency":    {},
}

// Extract walks the trace along a dot-separated path and returns the value it
// lands on. A segment may carry a bracketed integer index, e.g.
// "messages[0].content". Extraction is absent-not-error: a missing key, a
// non-map node, a bad or out-of-range index, or an excluded administrative
// key all return (nil, false).
func Extract(trace map[string]any, path string) (any, bool) {
	var node any = trace

	for _, segment := range strings.Split(path, ".") {
		key := segment
		idx := -1

		if open := strings.IndexByte(segment, '['); open >= 0 && strings.HasSuffix(segment, "]") {
			key = segment[:open]
			n, err := strconv.Atoi(segment[open+1 : len(segment)-1])
			if err != nil || n < 0 {
				return nil, false
			}
			idx = n
		}

		if _, excluded := excludedKeys[key]; excluded {
			return nil, false
		}

		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[key]
		if !ok {
			return nil, false
		}

		if idx >= 0 {
			seq, ok := node.([]any)
			if !ok || idx >= len(seq) {
				return nil, false
			}
			node = seq[idx]
		}
	}

	return node, true
}
