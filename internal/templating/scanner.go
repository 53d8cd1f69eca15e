package templating

import "strings"

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// marker is one "{{...}}" occurrence. start and end are byte offsets of the
// full marker in the source; inner is the trimmed text between delimiters.
type marker struct {
	start int
	end   int
	inner string
}

func (m marker) isOpen() bool  { return strings.HasPrefix(m.inner, "#") }
func (m marker) isClose() bool { return strings.HasPrefix(m.inner, "/") }

func (m marker) name() string {
	return strings.TrimSpace(m.inner[1:])
}

// nextMarker finds the first marker at or after offset. The marker ends at
// the first "}}" after its "{{".
func nextMarker(src string, offset int) (marker, bool) {
	if offset >= len(src) {
		return marker{}, false
	}
	open := strings.Index(src[offset:], openDelim)
	if open < 0 {
		return marker{}, false
	}
	start := offset + open
	body := start + len(openDelim)
	end := strings.Index(src[body:], closeDelim)
	if end < 0 {
		return marker{}, false
	}
	stop := body + end + len(closeDelim)
	return marker{
		start: start,
		end:   stop,
		inner: strings.TrimSpace(src[body : body+end]),
	}, true
}

type spanKind uint8

const (
	spanLiteral spanKind = iota
	spanBlock
	spanVariable
)

// span is a piece of scanned source. Literal spans carry text; block spans
// carry the block name and body; variable spans carry the marker text and
// its path.
type span struct {
	kind spanKind
	text string
	name string
	body string
}

// scanBlocks splits src into literal and block spans. A block opened by
// "{{#name}}" is closed by the first following "{{/name}}"; an open marker
// without a matching close stays in the literal text.
func scanBlocks(src string) []span {
	var (
		spans   []span
		literal strings.Builder
		offset  int
	)

	flush := func() {
		if literal.Len() > 0 {
			spans = append(spans, span{kind: spanLiteral, text: literal.String()})
			literal.Reset()
		}
	}

	for offset < len(src) {
		open, ok := nextMarker(src, offset)
		if !ok {
			break
		}
		if !open.isOpen() {
			literal.WriteString(src[offset:open.end])
			offset = open.end
			continue
		}

		name := open.name()
		closing, found := findClose(src, open.end, name)
		if !found {
			literal.WriteString(src[offset:open.end])
			offset = open.end
			continue
		}

		literal.WriteString(src[offset:open.start])
		flush()
		spans = append(spans, span{
			kind: spanBlock,
			text: src[open.start:closing.end],
			name: name,
			body: src[open.end:closing.start],
		})
		offset = closing.end
	}

	literal.WriteString(src[offset:])
	flush()
	return spans
}

func findClose(src string, offset int, name string) (marker, bool) {
	for {
		m, ok := nextMarker(src, offset)
		if !ok {
			return marker{}, false
		}
		if m.isClose() && m.name() == name {
			return m, true
		}
		offset = m.end
	}
}

// scanVariables splits literal text into literal and variable spans. Block
// markers left in literal text are not variables and stay literal.
func scanVariables(text string) []span {
	var (
		spans   []span
		literal strings.Builder
		offset  int
	)

	for offset < len(text) {
		m, ok := nextMarker(text, offset)
		if !ok {
			break
		}
		if m.isOpen() || m.isClose() {
			literal.WriteString(text[offset:m.end])
			offset = m.end
			continue
		}
		literal.WriteString(text[offset:m.start])
		if literal.Len() > 0 {
			spans = append(spans, span{kind: spanLiteral, text: literal.String()})
			literal.Reset()
		}
		spans = append(spans, span{
			kind: spanVariable,
			text: text[m.start:m.end],
			name: m.inner,
		})
		offset = m.end
	}

	literal.WriteString(text[offset:])
	if literal.Len() > 0 {
		spans = append(spans, span{kind: spanLiteral, text: literal.String()})
	}
	return spans
}
