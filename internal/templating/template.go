package templating

import (
	"strings"

	"github.com/goliatone/go-sitegen/internal/content"
)

const selfPath = "."

type nodeKind uint8

const (
	nodeText nodeKind = iota
	nodeVariable
	nodeBlock
)

type node struct {
	kind nodeKind
	// text holds literal text, or the verbatim marker for variables.
	text string
	path []string
	self bool
	body []node
}

// Template is a compiled template. It is immutable and safe for concurrent
// use.
type Template struct {
	name   string
	source string
	nodes  []node
}

// Compile parses src once. Parsing never fails: anything that is not a
// well formed marker is literal text.
func Compile(src string) *Template {
	return CompileNamed("", src)
}

// CompileNamed is Compile with a name used in diagnostics.
func CompileNamed(name, src string) *Template {
	return &Template{
		name:   name,
		source: src,
		nodes:  compileNodes(src),
	}
}

func compileNodes(src string) []node {
	var nodes []node
	for _, block := range scanBlocks(src) {
		switch block.kind {
		case spanBlock:
			nodes = append(nodes, node{
				kind: nodeBlock,
				text: block.text,
				path: content.SplitPath(block.name),
				self: block.name == selfPath,
				body: compileNodes(block.body),
			})
		default:
			for _, piece := range scanVariables(block.text) {
				if piece.kind == spanVariable {
					nodes = append(nodes, node{
						kind: nodeVariable,
						text: piece.text,
						path: content.SplitPath(piece.name),
						self: piece.name == selfPath,
					})
					continue
				}
				nodes = append(nodes, node{kind: nodeText, text: piece.text})
			}
		}
	}
	return nodes
}

func (t *Template) Name() string { return t.name }

// Source returns the text the template was compiled from.
func (t *Template) Source() string { return t.source }

// Render expands the template against scopes. Later scopes shadow earlier
// ones; block elements are pushed as the innermost scope.
func (t *Template) Render(scopes ...content.Value) string {
	out, _ := t.RenderReport(scopes...)
	return out
}

// Unresolved describes a marker left in the output, or a block dropped from
// it, because its path did not resolve.
type Unresolved struct {
	Marker string
	Path   string
	Status content.ResolutionStatus
	Block  bool
}

// RenderReport is Render that also lists every marker that failed to
// resolve, in output order.
func (t *Template) RenderReport(scopes ...content.Value) (string, []Unresolved) {
	r := renderer{}
	r.render(t.nodes, scopes)
	return r.out.String(), r.misses
}

// Render compiles src and renders it against data.
func Render(src string, data content.Value) string {
	return Compile(src).Render(data)
}

type renderer struct {
	out    strings.Builder
	misses []Unresolved
}

func (r *renderer) render(nodes []node, scopes []content.Value) {
	for _, n := range nodes {
		switch n.kind {
		case nodeText:
			r.out.WriteString(n.text)
		case nodeVariable:
			r.variable(n, scopes)
		case nodeBlock:
			r.block(n, scopes)
		}
	}
}

func (r *renderer) variable(n node, scopes []content.Value) {
	res := resolve(n, scopes)
	if res.OK() {
		if text, ok := res.Value.Text(); ok {
			r.out.WriteString(text)
			return
		}
		res.Status = content.WrongType
	}
	r.out.WriteString(n.text)
	r.misses = append(r.misses, Unresolved{
		Marker: n.text,
		Path:   strings.Join(n.path, "."),
		Status: res.Status,
	})
}

func (r *renderer) block(n node, scopes []content.Value) {
	res := resolve(n, scopes)
	if !res.OK() || res.Value.Kind() != content.KindSequence {
		status := res.Status
		if res.OK() {
			status = content.WrongType
		}
		r.misses = append(r.misses, Unresolved{
			Marker: n.text,
			Path:   strings.Join(n.path, "."),
			Status: status,
			Block:  true,
		})
		return
	}

	inner := make([]content.Value, len(scopes)+1)
	copy(inner, scopes)
	for _, item := range res.Value.Items() {
		inner[len(scopes)] = item
		r.render(n.body, inner)
	}
}

// resolve walks the scope chain from the innermost scope outwards and
// returns the first successful resolution, or the innermost failure.
func resolve(n node, scopes []content.Value) content.Resolution {
	if len(scopes) == 0 {
		return content.Resolution{Status: content.MissingPath}
	}
	if n.self {
		return content.Resolution{Status: content.Resolved, Value: scopes[len(scopes)-1]}
	}

	var first content.Resolution
	for i := len(scopes) - 1; i >= 0; i-- {
		res := scopes[i].LookupSegments(n.path)
		if res.OK() {
			return res
		}
		if i == len(scopes)-1 {
			first = res
		}
	}
	return first
}
