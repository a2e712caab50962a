package templates

import (
	"testing"

	"github.com/delaneyj/flowreactive/trace"
	"github.com/stretchr/testify/assert"
)

func TestTraceReport(t *testing.T) {
	summary := []trace.SourceStats{
		{Source: `property "id"`, Events: 3, Kinds: map[string]int{"PropertyChangeEvent": 3}},
		{Source: `list "children"`, Events: 1, Kinds: map[string]int{"SpliceEvent": 1}},
	}
	entries := []trace.Entry{
		{Seq: 4, Source: `list "children"`, Kind: "SpliceEvent"},
	}

	want := "Reactive trace: 4 events from 2 sources\n" +
		"  property \"id\": 3 (PropertyChangeEvent x3)\n" +
		"  list \"children\": 1 (SpliceEvent x1)\n" +
		"\n" +
		"Last 1 events:\n" +
		"  #4 SpliceEvent <- list \"children\"\n"
	assert.Equal(t, want, TraceReport(4, summary, entries))
}

func TestFormatKinds(t *testing.T) {
	assert.Equal(t, "", formatKinds(nil))
	assert.Equal(t, "A x1, B x2", formatKinds(map[string]int{"B": 2, "A": 1}))
}
