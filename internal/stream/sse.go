package stream

import (
	"bufio"
	"io"
	"strings"
)

// readEvents consumes a text/event-stream body and hands each complete event
// payload to emit. It returns when the stream ends or errors; the caller owns
// reconnect policy.
func readEvents(body io.Reader, emit func(payload string)) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data []string
	for scanner.Scan() {
		line := scanner.Text()

		// Blank line terminates one event.
		if line == "" {
			if len(data) > 0 {
				emit(strings.Join(data, "\n"))
				data = data[:0]
			}
			continue
		}
		// Comment per the SSE wire format.
		if strings.HasPrefix(line, ":") {
			continue
		}
		if value, ok := strings.CutPrefix(line, "data:"); ok {
			data = append(data, strings.TrimPrefix(value, " "))
		}
		// event:/id:/retry: fields are not used by the backend.
	}
	if len(data) > 0 {
		emit(strings.Join(data, "\n"))
	}
	return scanner.Err()
}
