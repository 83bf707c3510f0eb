// Package ctxwindow is the Context Extractor: given an occurrence at a
// global offset, it extracts a windowed substring around it, clipped to
// sequence boundaries (reference.Separator bytes are never included in the
// returned window).
package ctxwindow

import (
	"bytes"

	"primerscan/internal/reference"
)

// Extract returns the window [windowStart, windowEnd) around an occurrence
// at global offset o of a query of length m, using pre/post context widths.
// pre is clipped to o, post is clipped to len(text)-o-m. The returned window
// is further trimmed so it never crosses a reference.Separator: the prefix
// keeps only the suffix after the last separator, the suffix keeps only the
// prefix before the first separator.
func Extract(text []byte, o, m, pre, post int) (window []byte, windowStart int) {
	if pre < 0 {
		pre = 0
	}
	if post < 0 {
		post = 0
	}

	rawStart := o - pre
	if rawStart < 0 {
		rawStart = 0
	}
	rawEnd := o + m + post
	if rawEnd > len(text) {
		rawEnd = len(text)
	}

	windowStart = rawStart
	if preSlice := text[rawStart:o]; len(preSlice) > 0 {
		if idx := bytes.LastIndexByte(preSlice, reference.Separator); idx >= 0 {
			windowStart = rawStart + idx + 1
		}
	}

	windowEnd := rawEnd
	if o+m <= len(text) {
		if postSlice := text[o+m : rawEnd]; len(postSlice) > 0 {
			if idx := bytes.IndexByte(postSlice, reference.Separator); idx >= 0 {
				windowEnd = o + m + idx
			}
		}
	}

	if windowEnd < windowStart {
		windowEnd = windowStart
	}
	return text[windowStart:windowEnd], windowStart
}
