package selector

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExplainPipeline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	sel, err := newEngine(t).Compile("ul > li:first a")
	require.NoError(t, err)
	out := sel.Explain()
	t.Logf("\n%s", out)
	for _, s := range []string{`"ul > li:first a"`, "[pipeline]", "[pre]", "[positional]", ":first", "[finder]", "TAG li", "COMBINATOR ␣"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected explanation to contain %q", s)
		}
	}
}

func TestExplainChains(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	sel, err := newEngine(t).Compile("div.a, li:not(:first):last")
	require.NoError(t, err)
	out := sel.Explain()
	assert.Contains(t, out, "[chain]")
	assert.Contains(t, out, "CLASS a")
	assert.Contains(t, out, "[recursive]")
	assert.Contains(t, out, "[post]")
	assert.True(t, sel.NeedsContext())
	assert.Len(t, sel.Tokens(), 2)
}
