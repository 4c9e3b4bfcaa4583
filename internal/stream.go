package internal

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// eventMarker prefixes every significant line of a turn stream
const eventMarker = "data: "

// FrameDecoder turns raw byte chunks into complete event payloads.
//
// The backend streams newline-delimited frames; a frame may arrive split
// across any number of chunks. The decoder keeps the trailing partial line
// in a buffer and only yields a payload once its terminating newline has
// been seen. A partial line left over at end-of-stream is never yielded,
// since it cannot be a complete frame.
type FrameDecoder struct {
	buf []byte
}

// NewFrameDecoder creates an empty frame decoder
func NewFrameDecoder() *FrameDecoder {
	return &FrameDecoder{}
}

// Feed appends a chunk and returns the JSON payload of every complete
// marked line received so far, in stream order. Lines without the event
// marker and marked lines that do not carry valid JSON are dropped; a
// malformed frame never aborts the stream.
func (d *FrameDecoder) Feed(chunk []byte) [][]byte {
	d.buf = append(d.buf, chunk...)

	var payloads [][]byte
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := string(d.buf[:i])
		d.buf = d.buf[i+1:]

		payload, ok := extractPayload(line)
		if !ok {
			continue
		}
		payloads = append(payloads, payload)
	}
	return payloads
}

// Pending returns the size of the buffered partial line
func (d *FrameDecoder) Pending() int {
	return len(d.buf)
}

func extractPayload(line string) ([]byte, bool) {
	line = strings.TrimSuffix(line, "\r")
	rest, ok := strings.CutPrefix(line, eventMarker)
	if !ok {
		return nil, false
	}
	payload := []byte(rest)
	if !json.Valid(payload) {
		LogDebug("dropping malformed frame: %s", clipString(rest, 120))
		return nil, false
	}
	return payload, true
}

// Decode reads r to end-of-stream, invoking fn for each complete frame
// payload in order. Read failures are wrapped as StreamError; an error
// returned by fn stops decoding and is returned as-is.
func Decode(r io.Reader, fn func(payload []byte) error) error {
	d := NewFrameDecoder()
	chunk := make([]byte, 4096)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			for _, payload := range d.Feed(chunk[:n]) {
				if fnErr := fn(payload); fnErr != nil {
					return fnErr
				}
			}
		}
		if err == io.EOF {
			if d.Pending() > 0 {
				LogDebug("discarding %d trailing bytes without terminator", d.Pending())
			}
			return nil
		}
		if err != nil {
			return &StreamError{Op: "read", Err: err}
		}
	}
}

func clipString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
