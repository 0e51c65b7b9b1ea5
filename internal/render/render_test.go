package render_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/tesh254/pbdocs/internal/render"
	"github.com/tesh254/pbdocs/internal/site"
)

func newRenderer() *render.Renderer {
	return render.New(site.PocketBaseJS())
}

func TestRenderer_CodeBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			name:     "pre with code child",
			fragment: "<pre><code>line one\n  line two</code></pre>",
			want:     "    line one\n      line two",
		},
		{
			name:     "bare pre",
			fragment: "<pre>a\nb</pre>",
			want:     "    a\n    b",
		},
		{
			name:     "entities and line breaks are decoded",
			fragment: `<pre>if (a &lt; b &amp;&amp; c) {<br>  return &quot;x&quot;;<br>}</pre>`,
			want:     "    if (a < b && c) {\n      return \"x\";\n    }",
		},
		{
			name:     "code wrapper is rendered once",
			fragment: `<div class="code-wrapper"><pre><code>const x = 1;</code></pre></div>`,
			want:     "    const x = 1;",
		},
		{
			name:     "code wrapper ignores labels around the code",
			fragment: `<div class="code-wrapper"><span class="lang">js</span><button>Copy</button><pre><code>const x = 1;</code></pre></div>`,
			want:     "    const x = 1;",
		},
		{
			name:     "code wrapper lines in divs",
			fragment: `<div class="code-wrapper js"><div>routerAdd("GET", "/hello", (e) =&gt; {</div><div>  return e.json(200, {})</div><div>})</div></div>`,
			want:     "    routerAdd(\"GET\", \"/hello\", (e) => {\n      return e.json(200, {})\n    })",
		},
		{
			name:     "blank lines inside code are kept",
			fragment: "<pre>a\n\n\nb</pre>",
			want:     "    a\n    \n    \n    b",
		},
		{
			name:     "trailing newline is dropped",
			fragment: "<pre><code>x := 1\n</code></pre>",
			want:     "    x := 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := newRenderer().Render(tt.fragment, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_CodeBlockSurroundedByBlankLines(t *testing.T) {
	t.Parallel()

	got, err := newRenderer().Render("<p>Before</p><pre>a\nb</pre><p>After</p>", "")
	require.NoError(t, err)
	assert.Equal(t, "Before\n\n    a\n    b\n\nAfter", got)
	assert.NotContains(t, got, "```")
}

func TestRenderer_EmptyCodeBlocksVanish(t *testing.T) {
	t.Parallel()

	for _, fragment := range []string{
		"<p>Text</p><pre>   \n  </pre>",
		`<p>Text</p><div class="code-wrapper"></div>`,
		"<p>Text</p><pre><code> </code></pre>",
	} {
		got, err := newRenderer().Render(fragment, "")
		require.NoError(t, err)
		assert.Equal(t, "Text", got, fragment)
	}
}

func TestRenderer_Links(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fragment  string
		sectionID string
		want      string
	}{
		{
			name:     "absolute doc link to file",
			fragment: `<p><a href="https://pocketbase.io/docs/js-records/">records</a></p>`,
			want:     "[records](./js-records.md)",
		},
		{
			name:      "absolute doc link to bundle anchor",
			fragment:  `<p><a href="https://pocketbase.io/docs/js-records/">records</a></p>`,
			sectionID: "js-overview",
			want:      "[records](#js-records)",
		},
		{
			name:     "relative doc link",
			fragment: `<p><a href="/docs/js-routing">routing</a></p>`,
			want:     "[routing](./js-routing.md)",
		},
		{
			name:     "doc link fragment is dropped",
			fragment: `<p><a href="/docs/js-routing/#middlewares">middlewares</a></p>`,
			want:     "[middlewares](./js-routing.md)",
		},
		{
			name:     "same-page anchor kept in pages mode",
			fragment: `<p><a href="#some-heading">jump</a></p>`,
			want:     "[jump](#some-heading)",
		},
		{
			name:      "same-page anchor namespaced in bundle mode",
			fragment:  `<p><a href="#some-heading">jump</a></p>`,
			sectionID: "js-routing",
			want:      "[jump](#js-routing-some-heading)",
		},
		{
			name:     "external link unchanged",
			fragment: `<p><a href="https://github.com/pocketbase/pocketbase">GitHub</a></p>`,
			want:     "[GitHub](https://github.com/pocketbase/pocketbase)",
		},
		{
			name:     "non-js docs page unchanged",
			fragment: `<p><a href="/docs/go-overview/">Go</a></p>`,
			want:     "[Go](/docs/go-overview/)",
		},
		{
			name:     "label is rendered by the rule set",
			fragment: `<p><a href="/docs/js-records"><strong>Records</strong> API</a></p>`,
			want:     "[**Records** API](./js-records.md)",
		},
		{
			name:     "code label",
			fragment: `<p><a href="/docs/js-database"><code>$app.db()</code></a></p>`,
			want:     "[`$app.db()`](./js-database.md)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := newRenderer().Render(tt.fragment, tt.sectionID)
			require.NoError(t, err)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestRenderer_Headings(t *testing.T) {
	t.Parallel()

	got, err := newRenderer().Render(`<h2 id="intro">Intro</h2><p>Body</p>`, "")
	require.NoError(t, err)
	assert.Equal(t, "## Intro\n\nBody", got)
}

func TestRenderer_HeadingAnchorsInBundleMode(t *testing.T) {
	t.Parallel()

	got, err := newRenderer().Render(
		`<h2 id="setup">Setup</h2><p><a href="#setup">see setup</a></p><h3>Untitled</h3>`, "js-routing")
	require.NoError(t, err)
	assert.Equal(t, "<a id=\"js-routing-setup\"></a>\n\n## Setup\n\n[see setup](#js-routing-setup)\n\n### Untitled", got)
}

func TestRenderer_Idempotent(t *testing.T) {
	t.Parallel()

	fragment := `<h3 id="a">A</h3><p>See <a href="#a">A</a> and <a href="/docs/js-records">records</a>.</p>` +
		`<div class="code-wrapper"><pre><code>one\ntwo</code></pre></div><ul><li>item</li></ul>`
	r := newRenderer()

	first, err := r.Render(fragment, "js-routing")
	require.NoError(t, err)
	second, err := r.Render(fragment, "js-routing")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "(#js-routing-a)")
	assert.NotContains(t, first, "js-routing-js-routing")
}

func TestRenderer_ConcurrentUse(t *testing.T) {
	t.Parallel()

	r := newRenderer()
	fragment := `<p><a href="#x">x</a></p><pre>code</pre>`
	want, err := r.Render(fragment, "js-logging")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = r.Render(fragment, "js-logging")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestRenderer_CodeInsideListKeepsIndentation(t *testing.T) {
	t.Parallel()

	got, err := newRenderer().Render("<ul><li><p>Step</p><pre>a\nb</pre></li></ul>", "")
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	var code []string
	for _, l := range lines {
		if strings.HasSuffix(l, "    a") || strings.HasSuffix(l, "    b") {
			code = append(code, l)
		}
	}
	require.Len(t, code, 2)
	assert.Equal(t, strings.TrimSuffix(code[0], "a"), strings.TrimSuffix(code[1], "b"))
}

func TestRenderer_CodeAsFirstListItemContent(t *testing.T) {
	t.Parallel()

	got, err := newRenderer().Render("<ul><li><pre>a\nb</pre></li></ul>", "")
	require.NoError(t, err)
	// The block opens after the marker and continues at the item's
	// content column plus four spaces.
	assert.Equal(t, "-     a\n      b", got)

	got, err = newRenderer().Render("<ol><li><pre>a\nb</pre></li></ol>", "")
	require.NoError(t, err)
	assert.Equal(t, "1.     a\n       b", got)
}

func TestNamespaceAnchors(t *testing.T) {
	t.Parallel()

	doc, err := html.Parse(strings.NewReader(
		`<h2 id="setup">Setup</h2><h4>No id</h4><a href="#setup">s</a><a href="#">top</a><a href="/docs/js-records">r</a>`))
	require.NoError(t, err)

	render.NamespaceAnchors(doc, "js-routing")

	var b strings.Builder
	require.NoError(t, html.Render(&b, doc))
	out := b.String()
	assert.Contains(t, out, `<h2 id="js-routing-setup">`)
	assert.Contains(t, out, `<h4>No id</h4>`)
	assert.Contains(t, out, `<a href="#js-routing-setup">`)
	assert.Contains(t, out, `<a href="#">`)
	assert.Contains(t, out, `<a href="/docs/js-records">`)
}

func TestTableOfContents(t *testing.T) {
	t.Parallel()

	got := render.TableOfContents([]site.Section{
		{ID: "js-overview", Title: "Overview"},
		{ID: "js-records", Title: "Records"},
	})
	assert.Equal(t, "- [Overview](#js-overview)\n  - [Records](#js-records)\n", got)
	assert.Empty(t, render.TableOfContents(nil))
}

func TestLinks_Classify(t *testing.T) {
	t.Parallel()

	links := render.NewLinks(site.PocketBaseJS())
	tests := []struct {
		href string
		kind render.LinkKind
		slug string
	}{
		{"https://pocketbase.io/docs/js-records/", render.LinkAbsoluteDoc, "js-records"},
		{"http://pocketbase.io/docs/js-records#x", render.LinkAbsoluteDoc, "js-records"},
		{"/docs/js-records", render.LinkRelativeDoc, "js-records"},
		{"#intro", render.LinkAnchor, ""},
		{"https://pocketbase.io/docs/go-records/", render.LinkExternal, ""},
		{"https://example.com/docs/js-records/", render.LinkExternal, ""},
		{"mailto:support@pocketbase.io", render.LinkExternal, ""},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			kind, slug := links.Classify(tt.href)
			assert.Equal(t, tt.kind, kind, kind.String())
			assert.Equal(t, tt.slug, slug)
		})
	}
}

func TestRules_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, render.DefaultRules().Validate())

	rules := render.DefaultRules()
	rules[0], rules[2] = rules[2], rules[0]
	assert.ErrorIs(t, rules.Validate(), render.ErrRuleOrder)

	_, err := render.NewWithRules(site.PocketBaseJS(), rules)
	assert.ErrorIs(t, err, render.ErrRuleOrder)

	incomplete := render.Rules{{Name: "broken", Tag: "pre"}}
	assert.Error(t, incomplete.Validate())
}
