package tree

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vanderheijden86/crumbbar/pkg/breadcrumb"
	"github.com/vanderheijden86/crumbbar/pkg/testutil"
)

const sampleDoc = `html:
  head:
    title: Crumbs # page title
  body:
    main:
      items:
        - first
        - name: second
          tags: [a, b]
    footer: ~
`

func names(t *testing.T, n Node) []string {
	t.Helper()
	children, err := n.Children()
	if err != nil {
		t.Fatalf("Children(%s): %v", n.Name(), err)
	}
	out := make([]string, len(children))
	for i, c := range children {
		out[i] = c.Name()
	}
	return out
}

func mustFind(t *testing.T, n Node, rel string) Node {
	t.Helper()
	got, err := Find(n, rel)
	if err != nil {
		t.Fatalf("Find(%q): %v", rel, err)
	}
	return got
}

func TestParseDocument_Structure(t *testing.T) {
	top, err := ParseDocument("page.yaml", []byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	if top.Name() != "page.yaml" {
		t.Errorf("top name = %q, want page.yaml", top.Name())
	}
	if top.Kind() != breadcrumb.KindContainer {
		t.Errorf("top kind = %v", top.Kind())
	}
	doc, ok := top.Parent().(*DocNode)
	if !ok || doc.Kind() != breadcrumb.KindDocument {
		t.Fatalf("top parent = %#v, want document node", top.Parent())
	}
	if doc.Parent() != nil {
		t.Error("document node should have no parent")
	}

	body := mustFind(t, top, "html/body")
	if got, want := names(t, body), []string{"main", "footer"}; !reflect.DeepEqual(got, want) {
		t.Errorf("body children = %v, want %v", got, want)
	}

	items := mustFind(t, top, "html/body/main/items")
	if got, want := names(t, items), []string{"[0]", "[1]"}; !reflect.DeepEqual(got, want) {
		t.Errorf("items children = %v, want %v", got, want)
	}
}

func TestParseDocument_ScalarsAndComments(t *testing.T) {
	top, err := ParseDocument("page.yaml", []byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}

	title := mustFind(t, top, "html/head/title")
	if title.Kind() != breadcrumb.KindLeaf {
		t.Errorf("title kind = %v, want leaf", title.Kind())
	}
	text := mustFind(t, title, "~text")
	if text.Kind() != breadcrumb.KindText || text.Name() != "Crumbs" {
		t.Errorf("text child = %v %q", text.Kind(), text.Name())
	}

	c := mustFind(t, title, "~comment")
	if c.Kind() != breadcrumb.KindComment || c.Name() != "page title" {
		t.Errorf("comment child = %v %q", c.Kind(), c.Name())
	}

	second := mustFind(t, top, "html/body/main/items/1/name/~text")
	if second.Name() != "second" {
		t.Errorf("items[1].name = %q", second.Name())
	}
}

func TestParseDocument_JSON(t *testing.T) {
	top, err := ParseDocument("data.json", []byte(`{"a": {"b": [1, {"c": true}]}}`))
	if err != nil {
		t.Fatal(err)
	}
	c := mustFind(t, top, "a/b/[1]/c")
	if c.Path() != "a/b/[1]/c" {
		t.Errorf("Path() = %q", c.Path())
	}
	if c.Key() != "data.json#/a/b/[1]/c" {
		t.Errorf("Key() = %q", c.Key())
	}
}

const slashDoc = `paths:
  /users/{id}:
    get:
      responses:
        "200":
          content:
            application/json: {}
a/b:
  c: 1
a:
  b:
    c: 2
"#": hash key # commented
"~text": tilde key
`

func TestParseDocument_EscapedKeys(t *testing.T) {
	top, err := ParseDocument("x.yaml", []byte(slashDoc))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path string
		name string
	}{
		{"paths/~1users~1{id}", "/users/{id}"},
		{"paths/~1users~1{id}/get/responses/200/content/application~1json", "application/json"},
		{"a~1b", "a/b"},
		{"a/b", "b"},
		{"#", "#"},
		{"~0text", "~text"},
	}
	seen := map[string]string{}
	for _, tc := range tests {
		n := mustFind(t, top, tc.path)
		if n.Name() != tc.name {
			t.Errorf("Find(%q) = %q, want %q", tc.path, n.Name(), tc.name)
		}
		if n.Path() != tc.path {
			t.Errorf("%q Path() = %q, want %q", tc.name, n.Path(), tc.path)
		}
		if again := mustFind(t, top, n.Path()); again != n {
			t.Errorf("Find(Path()) for %q returned a different node", tc.name)
		}
		if prev, dup := seen[n.Key()]; dup {
			t.Errorf("%q and %q share key %q", prev, tc.name, n.Key())
		}
		seen[n.Key()] = tc.name
	}

	// The comment and text children of "#" keep their own paths.
	hash := mustFind(t, top, "#")
	if c := mustFind(t, hash, "~comment"); c.Kind() != breadcrumb.KindComment || c.Path() == hash.Path() {
		t.Errorf("comment child = %v at %q", c.Kind(), c.Path())
	}
	if txt := mustFind(t, hash, "~text"); txt.Kind() != breadcrumb.KindText || txt.Name() != "hash key" {
		t.Errorf("text child = %v %q", txt.Kind(), txt.Name())
	}
}

func TestRefresh_RebuildsForSlashKeySibling(t *testing.T) {
	top, err := ParseDocument("x.yaml", []byte(slashDoc))
	if err != nil {
		t.Fatal(err)
	}
	slash := mustFind(t, top, "a~1b")
	nested := mustFind(t, top, "a/b")

	trail, rebuilt := breadcrumb.Refresh(breadcrumb.Build(slash, nil, nil), nested, nil, nil, false)
	if !rebuilt {
		t.Fatal("trail for a/b key was reused for the nested a -> b node")
	}
	if got, want := trail.Path("/"), "x.yaml/a/b"; got != want || trail.Len() != 3 {
		t.Errorf("Path = %q (len %d), want %q with 3 crumbs", got, trail.Len(), want)
	}
}

func TestParseDocument_Empty(t *testing.T) {
	top, err := ParseDocument("empty.yaml", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := names(t, top); len(got) != 0 {
		t.Errorf("empty document children = %v", got)
	}
	if top.Value() != nil || top.Line() != 0 {
		t.Error("empty document top should carry no value")
	}
}

func TestParseDocument_Invalid(t *testing.T) {
	if _, err := ParseDocument("bad.yaml", []byte("a: [1, 2")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBuildFromDocument(t *testing.T) {
	top, err := ParseDocument("page.yaml", []byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	sel := mustFind(t, top, "html/body/main/items/0")
	root := mustFind(t, top, "html/body")

	trail := breadcrumb.Build(sel, root, nil)
	if got, want := trail.Path("/"), "page.yaml/html/body/main/items/[0]"; got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
	if trail.Len() != 6 {
		t.Fatalf("Len = %d, want 6 (document node skipped)", trail.Len())
	}
	for i := 0; i < trail.Len(); i++ {
		c := trail.At(i)
		wantDim := i >= 3
		if c.Dimmed != wantDim {
			t.Errorf("crumb %d (%s) Dimmed = %v, want %v", i, c.Label, c.Dimmed, wantDim)
		}
	}
}

func TestFind_Errors(t *testing.T) {
	top, err := ParseDocument("page.yaml", []byte(sampleDoc))
	if err != nil {
		t.Fatal(err)
	}
	for _, rel := range []string{"html/nope", "html/body/main/items/7", "../.."} {
		if _, err := Find(top, rel); !errors.Is(err, ErrNotFound) {
			t.Errorf("Find(%q) error = %v, want ErrNotFound", rel, err)
		}
	}
	if got := mustFind(t, top, "./html/../html/./head"); got.Name() != "head" {
		t.Errorf("dot segments resolved to %q", got.Name())
	}
}

func TestPathSegments(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"/", nil},
		{"a/b", []string{"a", "b"}},
		{"//a///b/", []string{"a", "b"}},
		{"a/[0]/c", []string{"a", "[0]", "c"}},
	}
	for _, tc := range tests {
		if got := PathSegments(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("PathSegments(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{"src/pkg/ui", "docs"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range []string{"README.md", "src/main.go", "src/pkg/ui/bar.go"} {
		if err := os.WriteFile(filepath.Join(root, f), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestOpen_ChildrenDirectoriesFirst(t *testing.T) {
	root := makeTree(t)
	n, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	if n.Kind() != breadcrumb.KindContainer {
		t.Errorf("kind = %v", n.Kind())
	}
	if got, want := names(t, n), []string{"docs", "src", "README.md"}; !reflect.DeepEqual(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}

	readme := mustFind(t, n, "README.md")
	if readme.Kind() != breadcrumb.KindLeaf {
		t.Errorf("README kind = %v", readme.Kind())
	}
	if kids, err := readme.Children(); err != nil || kids != nil {
		t.Errorf("file Children() = %v, %v", kids, err)
	}
}

func TestFSNode_ParentChainReachesRoot(t *testing.T) {
	root := makeTree(t)
	n, err := Open(filepath.Join(root, "src", "pkg", "ui", "bar.go"))
	if err != nil {
		t.Fatal(err)
	}

	depth := 0
	var top breadcrumb.Node
	for p := breadcrumb.Node(n); p != nil; p = p.Parent() {
		top = p
		depth++
		if depth > 256 {
			t.Fatal("parent chain does not terminate")
		}
	}
	if fsn, ok := top.(*FSNode); !ok || filepath.Dir(fsn.AbsPath()) != fsn.AbsPath() {
		t.Errorf("top of chain = %v, want filesystem root", top)
	}
}

func TestFSNode_PathAndReload(t *testing.T) {
	root := makeTree(t)
	start := filepath.Join(root, "src")
	top, err := Load(start)
	if err != nil {
		t.Fatal(err)
	}

	ui := mustFind(t, top, "pkg/ui")
	if ui.Path() != "pkg/ui" || ui.Source() != start {
		t.Errorf("Path/Source = %q %q", ui.Path(), ui.Source())
	}

	up := mustFind(t, top, "..")
	if up.Path() != ".." {
		t.Errorf("parent Path() = %q, want ..", up.Path())
	}

	again, err := Reload(ui)
	if err != nil {
		t.Fatal(err)
	}
	if again.Key() != ui.Key() {
		t.Errorf("Reload key = %q, want %q", again.Key(), ui.Key())
	}

	if err := os.RemoveAll(filepath.Join(root, "src", "pkg")); err != nil {
		t.Fatal(err)
	}
	if _, err := Reload(ui); !errors.Is(err, ErrNotFound) {
		t.Errorf("Reload of removed dir = %v, want ErrNotFound", err)
	}
}

func TestLoad_DocumentByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.yml")
	if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
		t.Fatal(err)
	}
	top, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := top.(*DocNode); !ok {
		t.Fatalf("Load(%s) = %T, want *DocNode", path, top)
	}

	head := mustFind(t, top, "html/head")
	if err := os.WriteFile(path, []byte("html:\n  head: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	again, err := Reload(head)
	if err != nil {
		t.Fatal(err)
	}
	if again.Key() != head.Key() {
		t.Errorf("Reload key = %q, want %q", again.Key(), head.Key())
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing document")
	}
}

func TestIsDocument(t *testing.T) {
	for path, want := range map[string]bool{
		"a.yaml": true, "a.YML": true, "b/c.json": true,
		"a.go": false, "dir": false,
	} {
		if got := IsDocument(path); got != want {
			t.Errorf("IsDocument(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestFind_GeneratedChains(t *testing.T) {
	dir := t.TempDir()
	chain := testutil.New(testutil.GeneratorConfig{Seed: 11, Wide: true}).Chain(24)

	docPath := testutil.WriteFile(t, dir, "deep.yaml", testutil.ToYAML(chain, "leaf"))
	testutil.WriteTree(t, filepath.Join(dir, "tree"), chain)

	for _, source := range []string{docPath, filepath.Join(dir, "tree")} {
		top, err := Load(source)
		if err != nil {
			t.Fatal(err)
		}
		n, err := Find(top, chain.Path)
		if err != nil {
			t.Fatalf("%s: %v", source, err)
		}
		if n.Path() != chain.Path {
			t.Errorf("%s: Path() = %q, want %q", source, n.Path(), chain.Path)
		}
		tr := breadcrumb.Build(n, nil, nil)
		if top := tr.At(chain.Depth()); top == nil || top.Title != filepath.Base(source) {
			t.Errorf("%s: crumb %d = %+v, want the opened source", source, chain.Depth(), top)
		}
	}
}
