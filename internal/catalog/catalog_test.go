package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func weldCutCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New("1.0.0", []string{"Weld", "Cut"}, []ProviderNode{
		{ID: 1, Name: "A", Offerings: []Offering{{Quality: 3, Kind: 0}}},
		{ID: 2, Name: "B", Requires: 1, Offerings: []Offering{{Quality: 5, Kind: 0}, {Quality: 2, Kind: 1}}},
		{ID: 3, Name: "C", Offerings: []Offering{{Quality: 5, Kind: 1}}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_Lookups(t *testing.T) {
	c := weldCutCatalog(t)

	if c.Len() != 3 {
		t.Fatalf("expected 3 providers, got %d", c.Len())
	}
	if got := c.IDs(); !slices.Equal(got, []ProviderID{1, 2, 3}) {
		t.Fatalf("unexpected ids %v", got)
	}
	if id, ok := c.ProviderByName("  b "); !ok || id != 2 {
		t.Fatalf("expected case-insensitive lookup of B, got %d %v", id, ok)
	}
	if k, ok := c.KindByName("CUT"); !ok || k != 1 {
		t.Fatalf("expected kind Cut=1, got %d %v", k, ok)
	}
	if c.Prerequisite(2) != 1 || c.Prerequisite(1) != None {
		t.Fatalf("unexpected prerequisites")
	}
	if got := c.Chain(2); !slices.Equal(got, []ProviderID{2, 1}) {
		t.Fatalf("expected chain [2 1], got %v", got)
	}
	if c.ProviderName(None) != "<none>" || c.ProviderName(42) != "<invalid>" {
		t.Fatalf("unexpected placeholder names")
	}
}

func TestNew_Rejects(t *testing.T) {
	kinds := []string{"Weld"}
	tests := []struct {
		name    string
		kinds   []string
		nodes   []ProviderNode
		isCycle bool
	}{
		{
			name:  "reserved id",
			kinds: kinds,
			nodes: []ProviderNode{{ID: None, Name: "A"}},
		},
		{
			name:  "duplicate id",
			kinds: kinds,
			nodes: []ProviderNode{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}},
		},
		{
			name:  "duplicate name",
			kinds: kinds,
			nodes: []ProviderNode{{ID: 1, Name: "A"}, {ID: 2, Name: "a"}},
		},
		{
			name:  "duplicate capability",
			kinds: []string{"Weld", "weld"},
		},
		{
			name:  "unknown prerequisite",
			kinds: kinds,
			nodes: []ProviderNode{{ID: 1, Name: "A", Requires: 9}},
		},
		{
			name:  "quality out of range",
			kinds: kinds,
			nodes: []ProviderNode{{ID: 1, Name: "A", Offerings: []Offering{{Quality: 6, Kind: 0}}}},
		},
		{
			name:  "unknown capability",
			kinds: kinds,
			nodes: []ProviderNode{{ID: 1, Name: "A", Offerings: []Offering{{Quality: 1, Kind: 4}}}},
		},
		{
			name:    "self cycle",
			kinds:   kinds,
			nodes:   []ProviderNode{{ID: 1, Name: "A", Requires: 1}},
			isCycle: true,
		},
		{
			name:  "three cycle",
			kinds: kinds,
			nodes: []ProviderNode{
				{ID: 1, Name: "A", Requires: 3},
				{ID: 2, Name: "B", Requires: 1},
				{ID: 3, Name: "C", Requires: 2},
				{ID: 4, Name: "D"},
			},
			isCycle: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("", tt.kinds, tt.nodes)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
			if errors.Is(err, ErrCycle) != tt.isCycle {
				t.Fatalf("ErrCycle mismatch for %v", err)
			}
		})
	}
}

func TestBuiltin(t *testing.T) {
	c, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	if c.Len() != 25 {
		t.Fatalf("expected 25 engineers, got %d", c.Len())
	}
	if len(c.Kinds()) != 39 {
		t.Fatalf("expected 39 capability kinds, got %d", len(c.Kinds()))
	}
	if c.Version() != "3.4.0" {
		t.Fatalf("unexpected version %q", c.Version())
	}

	felicity, ok := c.ProviderByName("Felicity Farseer")
	if !ok || felicity != 1 {
		t.Fatalf("expected Felicity Farseer as id 1, got %d %v", felicity, ok)
	}
	bris, _ := c.ProviderByName("Bris Dekker")
	juri, _ := c.ProviderByName("Juri Ishmaak")
	if got := c.Chain(bris); !slices.Equal(got, []ProviderID{bris, juri, felicity}) {
		t.Fatalf("unexpected chain for Bris Dekker: %v", got)
	}
}

func TestSpecRoundTrip(t *testing.T) {
	c := weldCutCatalog(t)

	again, err := FromSpec(c.Spec())
	if err != nil {
		t.Fatalf("FromSpec: %v", err)
	}
	for _, id := range c.IDs() {
		a, _ := c.Provider(id)
		b, _ := again.Provider(id)
		if a.Name != b.Name || a.Requires != b.Requires || !slices.Equal(a.Offerings, b.Offerings) {
			t.Fatalf("provider %d differs after round trip: %+v vs %+v", id, a, b)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `
apiVersion: unlockpath.bayleafwalker.io/v1alpha1
kind: ProviderCatalog
metadata:
  name: shop
spec:
  version: "1.2.0"
  capabilities: ["Weld", "Cut"]
  providers:
    - name: A
      offerings: [{capability: Weld, quality: 3}]
    - name: B
      requires: A
      offerings: [{capability: weld, quality: 5}, {capability: Cut, quality: 2}]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	b, _ := c.ProviderByName("B")
	if c.Prerequisite(b) != 1 {
		t.Fatalf("expected B to require A")
	}
	if err := CheckVersion(c, "^1.0.0"); err != nil {
		t.Fatalf("CheckVersion: %v", err)
	}
	if err := CheckVersion(c, ">=2.0.0"); !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"wrong kind":         "kind: Something\nspec: {}\n",
		"unknown field":      "kind: ProviderCatalog\nspec:\n  colour: blue\n",
		"unknown requires":   "spec:\n  capabilities: [X]\n  providers: [{name: A, requires: Z}]\n",
		"unknown capability": "spec:\n  capabilities: [X]\n  providers: [{name: A, offerings: [{capability: Y, quality: 1}]}]\n",
		"bad quality":        "spec:\n  capabilities: [X]\n  providers: [{name: A, offerings: [{capability: X, quality: 9}]}]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}
