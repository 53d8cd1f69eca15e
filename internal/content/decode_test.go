package content

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDecodeJSONPreservesOrder(t *testing.T) {
	tree := mustJSON(t, `{"zeta": 1, "alpha": {"y": 1, "b": 2}, "mid": []}`)

	mapping, ok := tree.Mapping()
	if !ok {
		t.Fatalf("expected mapping root")
	}
	if got := strings.Join(mapping.Keys(), ","); got != "zeta,alpha,mid" {
		t.Fatalf("unexpected key order %q", got)
	}
	alpha, _ := mapping.Get("alpha")
	inner, _ := alpha.Mapping()
	if got := strings.Join(inner.Keys(), ","); got != "y,b" {
		t.Fatalf("unexpected nested key order %q", got)
	}
	mid, _ := mapping.Get("mid")
	if mid.Kind() != KindSequence || mid.Len() != 0 {
		t.Fatalf("expected empty sequence, got %s len %d", mid.Kind(), mid.Len())
	}
}

func TestDecodeJSONDuplicateKeys(t *testing.T) {
	tree := mustJSON(t, `{"a": 1, "b": 2, "a": 3}`)
	mapping, _ := tree.Mapping()

	if got := strings.Join(mapping.Keys(), ","); got != "a,b" {
		t.Fatalf("unexpected key order %q", got)
	}
	if got, _ := tree.Lookup("a").Value.Text(); got != "3" {
		t.Fatalf("expected last duplicate to win, got %q", got)
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	cases := map[string]string{
		"truncated": `{"a": `,
		"trailing":  `{"a": 1} {"b": 2}`,
		"garbage":   `{"a": 1} x`,
		"bad key":   `{1: 2}`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeJSON(strings.NewReader(src)); err == nil {
				t.Fatalf("expected error for %q", src)
			}
		})
	}

	if _, err := DecodeJSON(strings.NewReader("   ")); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestDecodeYAML(t *testing.T) {
	src := `
site:
  name: Studio
  founded: 2019
  rating: 4.5
  active: true
  motto: ~
services:
  items:
    - title: A
    - title: B
`
	tree, err := DecodeYAML([]byte(src))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}

	checks := map[string]string{
		"site.name":              "Studio",
		"site.founded":           "2019",
		"site.rating":            "4.5",
		"site.active":            "true",
		"site.motto":             "",
		"services.items.1.title": "B",
	}
	for path, want := range checks {
		res := tree.Lookup(path)
		got, ok := res.Value.Text()
		if !res.OK() || !ok || got != want {
			t.Fatalf("%s: got %q (%s) want %q", path, got, res.Status, want)
		}
	}

	site, _ := tree.Lookup("site").Value.Mapping()
	if got := strings.Join(site.Keys(), ","); got != "name,founded,rating,active,motto" {
		t.Fatalf("unexpected key order %q", got)
	}

	if _, err := DecodeYAML([]byte("\n")); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestFromAny(t *testing.T) {
	when := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)
	value := FromAny(map[string]any{
		"b":     2,
		"a":     "x",
		"tags":  []any{"one", 2.5},
		"when":  when,
		"inner": map[any]any{"k": "v"},
		"none":  nil,
	})

	mapping, ok := value.Mapping()
	if !ok {
		t.Fatalf("expected mapping")
	}
	if got := strings.Join(mapping.Keys(), ","); got != "a,b,inner,none,tags,when" {
		t.Fatalf("expected sorted keys, got %q", got)
	}
	if got, _ := value.Lookup("tags.1").Value.Text(); got != "2.5" {
		t.Fatalf("unexpected tags.1 %q", got)
	}
	if got, _ := value.Lookup("inner.k").Value.Text(); got != "v" {
		t.Fatalf("unexpected inner.k %q", got)
	}
	if got, _ := value.Lookup("when").Value.Text(); got != "2024-03-14T15:09:26Z" {
		t.Fatalf("unexpected when %q", got)
	}
	if !value.Lookup("none").Value.IsNull() {
		t.Fatalf("expected null")
	}
}
