// Package entity declares the admin sections: which endpoint each one talks
// to, how its list is filtered and sorted, and how its records are edited.
package entity

import (
	"github.com/byxorna/shipwright/pkg/draft"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
)

// Kind configures one collection of T
type Kind[T v1.Item] struct {
	Name     string
	Title    string
	Endpoint string

	// FilterField is the query parameter (and record field) the filter
	// value applies to; FilterChoices are the values offered for it.
	FilterField   string
	FilterChoices []string
	// SortKeys are offered in order; a leading - sorts descending
	SortKeys []string

	Schema draft.Schema

	// Markdown renders a long form preview, nil when the kind has none
	Markdown func(T) string
}

// Descriptor is the part of a Kind that does not depend on its item type
type Descriptor interface {
	Key() string
	Heading() string
	Path() string
	Filter() (field string, choices []string)
	Sorts() []string
}

func (k Kind[T]) Key() string     { return k.Name }
func (k Kind[T]) Heading() string { return k.Title }
func (k Kind[T]) Path() string    { return k.Endpoint }
func (k Kind[T]) Sorts() []string { return k.SortKeys }

func (k Kind[T]) Filter() (string, []string) {
	return k.FilterField, k.FilterChoices
}

func (k Kind[T]) HasPreview() bool { return k.Markdown != nil }

// Cycle returns the entry of options after current, wrapping to "" (unset)
// after the last one.
func Cycle(options []string, current string) string {
	if len(options) == 0 {
		return ""
	}
	if current == "" {
		return options[0]
	}
	for i, o := range options {
		if o == current {
			if i+1 < len(options) {
				return options[i+1]
			}
			return ""
		}
	}
	return ""
}

func statuses(list []v1.Status) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = string(s)
	}
	return out
}

var readOnly = []string{"id", "createdAt"}
