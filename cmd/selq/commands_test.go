package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head><style>
li.x { color: red }
#missing { color: blue }
p:frob { margin: 0 }
</style></head><body>
<ul id="list"><li>a</li><li class="x">b</li><li>c</li></ul>
<div id="d"><p>1</p></div><p>2</p>
</body></html>`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQueryCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	out, err := run(t, page, "query", "li:nth-child(odd)")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "li "))
	assert.Contains(t, lines[1], "html:1>body:2>ul:1>li:3")
	//
	out, err = run(t, page, "query", "--context", "#d", "p")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	//
	_, err = run(t, page, "query", "li >")
	assert.Error(t, err)
}

func TestQueryCommandWithConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	dir := t.TempDir()
	cfg := filepath.Join(dir, "selq.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("native: false\ncache_size: 4\n"), 0o644))
	doc := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(doc, []byte(page), 0o644))
	out, err := run(t, "", "query", "--config", cfg, "li.x", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "li.x")
	//
	require.NoError(t, os.WriteFile(cfg, []byte("trace_level: loud\n"), 0o644))
	_, err = run(t, "", "query", "--config", cfg, "li.x", doc)
	assert.Error(t, err)
}

func TestExplainCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	out, err := run(t, "", "explain", "ul > li:first")
	require.NoError(t, err)
	assert.Contains(t, out, "[positional]")
}

func TestRulesCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	out, err := run(t, page, "rules")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1  li.x", strings.TrimSpace(lines[0]))
	assert.Equal(t, "0  #missing", strings.TrimSpace(lines[1]))
	assert.Contains(t, lines[2], "unsupported pseudo")
}

func TestDotCommand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "selquery.selector")
	defer teardown()
	//
	out, err := run(t, page, "--no-native", "dot", "p")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph g {"))
	assert.Equal(t, 2, strings.Count(out, "fillcolor=orange"))
}
