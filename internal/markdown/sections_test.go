package markdown

import (
	"reflect"
	"testing"
)

func TestParseSections(t *testing.T) {
	cases := []struct {
		name     string
		document string
		keys     []string
		values   map[string]string
	}{
		{
			name:     "empty document",
			document: "",
			keys:     []string{},
			values:   map[string]string{},
		},
		{
			name:     "headings with bodies",
			document: "# Main Title\nHello\n\n# Subtitle\nWorld\n",
			keys:     []string{"Main Title", "Subtitle"},
			values:   map[string]string{"Main Title": "Hello", "Subtitle": "World"},
		},
		{
			name:     "preamble is discarded",
			document: "intro text\nmore intro\n# Title\nBody",
			keys:     []string{"Title"},
			values:   map[string]string{"Title": "Body"},
		},
		{
			name:     "heading without body",
			document: "# Empty\n# Next\ncontent",
			keys:     []string{"Empty", "Next"},
			values:   map[string]string{"Empty": "", "Next": "content"},
		},
		{
			name:     "blank lines inside body are kept",
			document: "# Content\n\nfirst paragraph\n\nsecond paragraph\n\n",
			keys:     []string{"Content"},
			values:   map[string]string{"Content": "first paragraph\n\nsecond paragraph"},
		},
		{
			name:     "second level headings are body text",
			document: "# Title\n## Not a section\ntext\n#also body",
			keys:     []string{"Title"},
			values:   map[string]string{"Title": "## Not a section\ntext\n#also body"},
		},
		{
			name:     "heading key is trimmed",
			document: "#   Call To Action   \nGo",
			keys:     []string{"Call To Action"},
			values:   map[string]string{"Call To Action": "Go"},
		},
		{
			name:     "repeated heading keeps first position and last body",
			document: "# A\none\n# B\ntwo\n# A\nthree",
			keys:     []string{"A", "B"},
			values:   map[string]string{"A": "three", "B": "two"},
		},
		{
			name:     "carriage returns",
			document: "# Title\r\nHello\r\n\r\n# Subtitle\r\nWorld\r\n",
			keys:     []string{"Title", "Subtitle"},
			values:   map[string]string{"Title": "Hello", "Subtitle": "World"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sections := ParseSections(tc.document)

			if got := sections.Keys(); !reflect.DeepEqual(got, tc.keys) {
				t.Fatalf("keys mismatch: got %#v want %#v", got, tc.keys)
			}
			if got := sections.Map(); !reflect.DeepEqual(got, tc.values) {
				t.Fatalf("values mismatch: got %#v want %#v", got, tc.values)
			}
			if sections.Len() != len(tc.keys) {
				t.Fatalf("expected %d sections, got %d", len(tc.keys), sections.Len())
			}
		})
	}
}

func TestParseSectionsHeroScenario(t *testing.T) {
	sections := ParseSections("# Main Title\nHello\n\n# Subtitle\nWorld\n")

	title, ok := sections.Get("Main Title")
	if !ok || title != "Hello" {
		t.Fatalf("expected Main Title=Hello, got %q (%v)", title, ok)
	}
	if sections.Has("Call To Action") {
		t.Fatalf("expected Call To Action to be absent")
	}
	if _, ok := sections.Get("Call To Action"); ok {
		t.Fatalf("expected lookup of absent key to report false")
	}
}

func TestParseSectionsIsIdempotent(t *testing.T) {
	document := string(readFixture(t, "testdata/content/about.md"))

	first := ParseSections(document)
	second := ParseSections(document)

	if !reflect.DeepEqual(first.Keys(), second.Keys()) || !reflect.DeepEqual(first.Map(), second.Map()) {
		t.Fatalf("expected identical results for identical input")
	}
}

func TestSectionsKeysReturnsCopy(t *testing.T) {
	sections := ParseSections("# A\n# B\n")
	keys := sections.Keys()
	keys[0] = "mutated"

	if sections.Keys()[0] != "A" {
		t.Fatalf("expected Keys to return a copy")
	}
}

func TestZeroSections(t *testing.T) {
	var sections Sections
	if sections.Len() != 0 || sections.Has("anything") {
		t.Fatalf("expected zero value to behave as empty")
	}
	if len(sections.Map()) != 0 {
		t.Fatalf("expected empty map from zero value")
	}
}
