package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()
	typed := newRecordingHandler()
	wildcard := newRecordingHandler()
	r.Register(typed, "MemberEnrolled", "DuesSettled")
	r.Register(wildcard)

	assert.Equal(t, 2, r.Count())
	handlers := r.GetHandlers("MemberEnrolled")
	assert.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0], "type-specific handlers come first")
	assert.Len(t, r.GetHandlers("LedgerEntryPosted"), 1)

	r.Unregister(typed)
	assert.Equal(t, []string(nil), keys(r))
	assert.Len(t, r.GetHandlers("DuesSettled"), 1)
}

func keys(r *HandlerRegistry) []string {
	var out []string
	for k := range r.handlers {
		out = append(out, k)
	}
	return out
}
