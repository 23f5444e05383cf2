// Package ast declares the types used to represent syntax trees for Beancount files.
//
// The types double as the grammar: struct tags are read by the parser package to
// build a participle parser, so every node produced by parsing is one of these
// structs. Nodes can also be built programmatically with the helpers in
// builders.go, which is how tests and synthetic entries are produced.
package ast

import (
	"golang.org/x/exp/slices"
)

// Directives is a slice of Directive ordered by date.
type Directives []Directive

func (d Directives) Len() int           { return len(d) }
func (d Directives) Swap(i, j int)      { d[i], d[j] = d[j], d[i] }
func (d Directives) Less(i, j int) bool { return compareDirectives(d[i], d[j]) < 0 }

// compareDirectives compares two directives by their date, then by type priority.
//
// For same-date directives the processing order is:
//  1. Open
//  2. Balance (assertions hold at the beginning of the day)
//  3. All other directives, in file order
//  4. Close
func compareDirectives(a, b Directive) int {
	if c := a.GetDate().Compare(b.GetDate().Time); c != 0 {
		return c
	}
	return directiveTypePriority(a) - directiveTypePriority(b)
}

func directiveTypePriority(d Directive) int {
	switch d.(type) {
	case *Open:
		return -2
	case *Balance:
		return -1
	case *Close:
		return 2
	default:
		return 0
	}
}

// AST represents a parsed Beancount file.
type AST struct {
	Directives Directives `parser:"( @@"`
	Options    []*Option  `parser:"| @@"`
	Includes   []*Include `parser:"| @@"`
	Plugins    []*Plugin  `parser:"| @@"`
	Pushtags   []*Pushtag `parser:"| @@"`
	Poptags    []*Poptag  `parser:"| @@ )*"`
}

// Option returns the values of every option directive with the given name,
// in file order.
func (a *AST) Option(name string) []string {
	var values []string
	for _, o := range a.Options {
		if o.Name == name {
			values = append(values, o.Value)
		}
	}
	return values
}

// OptionsMap groups option values by name.
func (a *AST) OptionsMap() map[string][]string {
	options := make(map[string][]string, len(a.Options))
	for _, o := range a.Options {
		options[o.Name] = append(options[o.Name], o.Value)
	}
	return options
}

// WithMetadata is implemented by nodes that can carry metadata.
type WithMetadata interface {
	AddMetadata(...*Metadata)
	GetMetadata() []*Metadata
}

type withMetadata struct {
	Metadata []*Metadata `parser:"@@*"`
}

func (w *withMetadata) AddMetadata(m ...*Metadata) {
	w.Metadata = append(w.Metadata, m...)
}

func (w *withMetadata) GetMetadata() []*Metadata {
	return w.Metadata
}

// Directive is the interface implemented by all dated Beancount entries.
type Directive interface {
	WithMetadata

	Position() Position
	GetDate() *Date
	Directive() string
}

// ApplyPushPopTags appends tags pushed with pushtag to every transaction that
// appears between the pushtag and its matching poptag in file order.
func ApplyPushPopTags(tree *AST) {
	if len(tree.Pushtags) == 0 {
		return
	}

	type marker struct {
		pos  Position
		push bool
		tag  Tag
	}
	var markers []marker
	for _, p := range tree.Pushtags {
		markers = append(markers, marker{pos: p.Pos, push: true, tag: p.Tag})
	}
	for _, p := range tree.Poptags {
		markers = append(markers, marker{pos: p.Pos, tag: p.Tag})
	}
	slices.SortFunc(markers, func(a, b marker) int { return a.pos.Offset - b.pos.Offset })

	for _, d := range tree.Directives {
		txn, ok := d.(*Transaction)
		if !ok {
			continue
		}
		var active []Tag
		for _, m := range markers {
			if m.pos.Offset > txn.Pos.Offset || m.pos.Filename != txn.Pos.Filename {
				continue
			}
			if m.push {
				active = append(active, m.tag)
				continue
			}
			if i := slices.Index(active, m.tag); i >= 0 {
				active = slices.Delete(active, i, i+1)
			}
		}
		for _, tag := range active {
			if !slices.Contains(txn.Tags, tag) {
				txn.Tags = append(txn.Tags, tag)
			}
		}
	}
}

// SortDirectives sorts directives by date and type priority. Directives that
// compare equal keep their file order.
func SortDirectives(tree *AST) {
	if slices.IsSortedFunc(tree.Directives, compareDirectives) {
		return
	}
	slices.SortStableFunc(tree.Directives, compareDirectives)
}
