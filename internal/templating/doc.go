// Package templating implements the site's small template language.
//
// Templates contain two kinds of markers. A variable marker {{path}} is
// replaced by the text of the value found at the dotted path. A block marker
// pair {{#path}}...{{/path}} repeats its body once per element of the
// sequence at path, with the element as the innermost lookup scope. {{.}}
// names the current element.
//
// Lookups that fail leave variable markers in the output unchanged and drop
// blocks entirely. Substituted text is never scanned again.
package templating
