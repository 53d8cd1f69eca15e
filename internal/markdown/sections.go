package markdown

import "strings"

const headingMarker = "# "

// Sections is the result of splitting a Markdown document on its top-level
// headings. Keys keep the position of their first occurrence; bodies follow
// the last occurrence.
type Sections struct {
	order  []string
	bodies map[string]string
}

// ParseSections splits document into sections keyed by top-level heading
// text. A heading is a line starting with "# "; the trimmed remainder of the
// line is the key. Body lines are kept verbatim until the next heading and
// the body is trimmed once the section closes. Text before the first heading
// is dropped and a repeated heading replaces the earlier body.
func ParseSections(document string) Sections {
	sections := Sections{bodies: map[string]string{}}
	if document == "" {
		return sections
	}

	var (
		current string
		open    bool
		body    []string
	)

	closeSection := func() {
		if !open {
			return
		}
		if _, seen := sections.bodies[current]; !seen {
			sections.order = append(sections.order, current)
		}
		sections.bodies[current] = strings.TrimSpace(strings.Join(body, "\n"))
	}

	for _, line := range strings.Split(document, "\n") {
		if strings.HasPrefix(line, headingMarker) {
			closeSection()
			current = strings.TrimSpace(line[len(headingMarker):])
			open = true
			body = body[:0]
			continue
		}
		if open {
			body = append(body, line)
		}
	}
	closeSection()

	return sections
}

// Get returns the body stored under key.
func (s Sections) Get(key string) (string, bool) {
	body, ok := s.bodies[key]
	return body, ok
}

// Has reports whether a section named key exists.
func (s Sections) Has(key string) bool {
	_, ok := s.bodies[key]
	return ok
}

// Keys returns section keys in document order.
func (s Sections) Keys() []string {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

// Len returns the number of distinct sections.
func (s Sections) Len() int {
	return len(s.order)
}

// Map returns a copy of the sections as a plain map.
func (s Sections) Map() map[string]string {
	out := make(map[string]string, len(s.bodies))
	for key, body := range s.bodies {
		out[key] = body
	}
	return out
}
