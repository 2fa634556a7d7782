package playback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidRange  = errors.New("invalid range format")
	ErrUnsatisfiable = errors.New("range not satisfiable")
)

// Range is an inclusive byte range within a file.
type Range struct {
	Start int64
	End   int64
}

func (r Range) ContentLength() int64 {
	return r.End - r.Start + 1
}

func (r Range) ContentRange(total int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, total)
}

// ParseRange parses a single-range Range header against a file of size bytes.
// A nil Range with a nil error means the whole file. Only the first range of a
// multi-range header is honoured; video players never ask for more.
func ParseRange(header string, size int64) (*Range, error) {
	if header == "" {
		return nil, nil
	}

	rangeSpec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, ErrInvalidRange
	}
	if first, _, multi := strings.Cut(rangeSpec, ","); multi {
		rangeSpec = first
	}

	startText, endText, ok := strings.Cut(strings.TrimSpace(rangeSpec), "-")
	if !ok {
		return nil, ErrInvalidRange
	}

	var r Range
	switch {
	case startText == "":
		// suffix form: the last N bytes
		n, err := strconv.ParseInt(endText, 10, 64)
		if err != nil || n <= 0 {
			return nil, ErrInvalidRange
		}
		r = Range{Start: max(size-n, 0), End: size - 1}

	default:
		start, err := strconv.ParseInt(startText, 10, 64)
		if err != nil || start < 0 {
			return nil, ErrInvalidRange
		}
		end := size - 1
		if endText != "" {
			if end, err = strconv.ParseInt(endText, 10, 64); err != nil {
				return nil, ErrInvalidRange
			}
		}
		r = Range{Start: start, End: end}
	}

	if r.Start > r.End || r.Start >= size {
		return nil, ErrUnsatisfiable
	}
	r.End = min(r.End, size-1)

	return &r, nil
}
