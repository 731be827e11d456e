package richtext

import (
	"encoding/json"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Text styles.
const (
	StyleItalic = "italic"
	StyleBold   = "bold"
)

// Paragraph styles. An entry with no paragraph style is normal body text.
const (
	StyleHeading1    = "heading1"
	StyleHeading2    = "heading2"
	StyleHeading3    = "heading3"
	StyleHeading4    = "heading4"
	StyleHeading5    = "heading5"
	StyleHeading6    = "heading6"
	StyleBlockquote  = "blockquote"
	StyleAlignRight  = "align-right"
	StyleAlignCentre = "align-centre"
)

// Styles is a set of style names.
// The zero value is an empty set ready for reads; use NewStyles before Add.
type Styles map[string]struct{}

// NewStyles returns a set holding names.
func NewStyles(names ...string) Styles {
	s := make(Styles, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s Styles) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts name.
func (s Styles) Add(name string) {
	s[name] = struct{}{}
}

// Remove deletes name and reports whether it was present.
func (s Styles) Remove(name string) bool {
	if _, ok := s[name]; !ok {
		return false
	}
	delete(s, name)
	return true
}

// Clone returns an independent copy. Cloning nil yields an empty set.
func (s Styles) Clone() Styles {
	c := make(Styles, len(s))
	for n := range s {
		c[n] = struct{}{}
	}
	return c
}

// Union returns a new set holding the members of s and other.
func (s Styles) Union(other Styles) Styles {
	u := s.Clone()
	for n := range other {
		u[n] = struct{}{}
	}
	return u
}

// Equal reports whether both sets hold the same members.
func (s Styles) Equal(other Styles) bool {
	if len(s) != len(other) {
		return false
	}
	for n := range s {
		if !other.Has(n) {
			return false
		}
	}
	return true
}

// Sorted returns the members in lexical order.
func (s Styles) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// String returns the members as "[a, b]".
func (s Styles) String() string {
	return "[" + strings.Join(s.Sorted(), ", ") + "]"
}

// MarshalJSON encodes the set as a sorted list.
func (s Styles) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a list of names.
func (s *Styles) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewStyles(names...)
	return nil
}

// MarshalYAML encodes the set as a sorted list.
func (s Styles) MarshalYAML() (any, error) {
	return s.Sorted(), nil
}

// UnmarshalYAML decodes a list of names.
func (s *Styles) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if err := node.Decode(&names); err != nil {
		return err
	}
	*s = NewStyles(names...)
	return nil
}
