package stream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadEvents(t *testing.T) {
	collect := func(raw string) []string {
		var events []string
		err := readEvents(strings.NewReader(raw), func(payload string) {
			events = append(events, payload)
		})
		assert.NoError(t, err)
		return events
	}

	t.Run("single event", func(t *testing.T) {
		events := collect("data: {\"type\":\"x\"}\n\n")
		assert.Equal(t, []string{`{"type":"x"}`}, events)
	})

	t.Run("multiple events split on blank lines", func(t *testing.T) {
		events := collect("data: one\n\ndata: two\n\n")
		assert.Equal(t, []string{"one", "two"}, events)
	})

	t.Run("multi-line data joins with newline", func(t *testing.T) {
		events := collect("data: first\ndata: second\n\n")
		assert.Equal(t, []string{"first\nsecond"}, events)
	})

	t.Run("comments are skipped", func(t *testing.T) {
		events := collect(": keepalive\n\ndata: payload\n\n")
		assert.Equal(t, []string{"payload"}, events)
	})

	t.Run("no space after the colon", func(t *testing.T) {
		events := collect("data:tight\n\n")
		assert.Equal(t, []string{"tight"}, events)
	})

	t.Run("trailing event without blank line still emits", func(t *testing.T) {
		events := collect("data: tail")
		assert.Equal(t, []string{"tail"}, events)
	})

	t.Run("unused field names are ignored", func(t *testing.T) {
		events := collect("event: message\nid: 7\ndata: body\n\n")
		assert.Equal(t, []string{"body"}, events)
	})

	t.Run("empty stream", func(t *testing.T) {
		assert.Empty(t, collect(""))
	})
}
