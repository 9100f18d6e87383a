package extensions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	forge "github.com/forge-fn/forge-go"
	"github.com/forge-fn/forge-go/extensions"
)

func TestTreeSinkRendersResolution(t *testing.T) {
	sink := extensions.NewTreeSink()

	_, err := forge.Make[string](pipeline(), forge.WithSink(sink))
	require.NoError(t, err)

	out := sink.Render()
	assert.Contains(t, out, "string")
	assert.Contains(t, out, "bool")
	assert.Contains(t, out, "int")
	assert.Contains(t, out, "store")
}

func TestTreeSinkMarksMissingInputs(t *testing.T) {
	r := forge.Empty().
		Register(5).
		Register(func(n int, ok bool) string { return "" })
	sink := extensions.NewTreeSink()

	_, err := forge.Make[string](r, forge.WithSink(sink))
	require.Error(t, err)

	out := sink.Render()
	assert.Contains(t, out, "missing")
	assert.Contains(t, out, "error")
}

func TestTreeSinkMarksModifiedValues(t *testing.T) {
	r := forge.Tweak(pipeline(), func(n int) int { return n + 1 })
	sink := extensions.NewTreeSink()

	_, err := forge.Make[string](r, forge.WithSink(sink))
	require.NoError(t, err)

	assert.Contains(t, sink.Render(), "*")
}

func TestTreeSinkToleratesStrayEvents(t *testing.T) {
	sink := extensions.NewTreeSink()

	// Events arriving outside any resolve must not panic the sink.
	assert.NotPanics(t, func() {
		sink.Emit(forge.Event{Kind: forge.EventModify})
		sink.Emit(forge.Event{Kind: forge.EventStoreHit})
		sink.Emit(forge.Event{Kind: forge.EventResolveEnd})
	})
	assert.Empty(t, sink.Render())
}

func TestTreeSinkResetsPerCall(t *testing.T) {
	sink := extensions.NewTreeSink()

	_, err := forge.Make[string](pipeline(), forge.WithSink(sink))
	require.NoError(t, err)
	first := sink.Render()

	_, err = forge.Make[int](forge.Empty().Register(7), forge.WithSink(sink))
	require.NoError(t, err)
	second := sink.Render()

	assert.NotEqual(t, first, second)
	assert.NotContains(t, second, "bool")
}
