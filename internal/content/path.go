package content

import (
	"strconv"
	"strings"
)

// ResolutionStatus describes the outcome of a path walk.
type ResolutionStatus uint8

const (
	// Resolved means every segment was found.
	Resolved ResolutionStatus = iota
	// MissingPath means a mapping along the path lacks the next key.
	MissingPath
	// WrongType means the walk reached a node that cannot be descended into.
	WrongType
)

func (s ResolutionStatus) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case MissingPath:
		return "missing_path"
	default:
		return "wrong_type"
	}
}

// Resolution is the result of Lookup.
type Resolution struct {
	Status ResolutionStatus
	Value  Value
	// Segment is the index of the path segment where the walk stopped.
	Segment int
}

func (r Resolution) OK() bool { return r.Status == Resolved }

// SplitPath splits a dotted path into trimmed segments. An empty path yields
// no segments.
func SplitPath(path string) []string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// Lookup walks a dotted path from v. Mapping nodes descend by key and
// sequence nodes by decimal index. An empty path is a MissingPath.
func (v Value) Lookup(path string) Resolution {
	return v.LookupSegments(SplitPath(path))
}

// LookupSegments is Lookup over pre-split segments.
func (v Value) LookupSegments(segments []string) Resolution {
	if len(segments) == 0 {
		return Resolution{Status: MissingPath}
	}

	current := v
	for i, segment := range segments {
		switch current.kind {
		case KindMapping:
			next, ok := current.mapping.Get(segment)
			if !ok {
				return Resolution{Status: MissingPath, Segment: i}
			}
			current = next
		case KindSequence:
			index, err := strconv.Atoi(segment)
			if err != nil {
				return Resolution{Status: WrongType, Segment: i}
			}
			if index < 0 || index >= len(current.items) {
				return Resolution{Status: MissingPath, Segment: i}
			}
			current = current.items[index]
		default:
			return Resolution{Status: WrongType, Segment: i}
		}
	}

	return Resolution{Status: Resolved, Value: current, Segment: len(segments) - 1}
}

// WithPath returns a deep copy of v with value stored at path. Missing
// intermediate mappings are created and non-mapping intermediates are
// replaced by mappings. A non-mapping root is replaced as well.
func (v Value) WithPath(path string, value Value) Value {
	out := v.Clone()
	return setSegments(out, SplitPath(path), value)
}

// setSegments writes value into root in place and returns the root, which
// differs from the input only when the input was not a mapping.
func setSegments(root Value, segments []string, value Value) Value {
	if len(segments) == 0 {
		return value
	}
	if root.kind != KindMapping {
		root = FromMapping(NewMapping())
	}

	node := root.mapping
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node.Get(segment)
		if !ok || child.kind != KindMapping {
			child = FromMapping(NewMapping())
			node.Set(segment, child)
		}
		node = child.mapping
	}
	node.Set(segments[len(segments)-1], value)
	return root
}
