package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jmylchreest/reprint/pkg/richtext"
)

// Metadata fields, as named to Require.
const (
	FieldTitle       = "title"
	FieldPublication = "publication"
	FieldDate        = "date"
)

var fieldNames = map[string]string{
	FieldTitle:       "Title",
	FieldPublication: "Publication",
	FieldDate:        "Date",
}

// Metadata describes the document being rendered. It is produced outside the
// core, typically from the source page's head.
type Metadata struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty" validate:"required"`
	Publication string `json:"publication,omitempty" yaml:"publication,omitempty" validate:"required"`
	Date        string `json:"date,omitempty" yaml:"date,omitempty" validate:"required"`
}

var validate = validator.New()

// Require fails with richtext.ErrTransformConfiguration when any of the named
// fields is empty or not a metadata field.
func (m Metadata) Require(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	structFields := make([]string, 0, len(fields))
	for _, f := range fields {
		name, ok := fieldNames[f]
		if !ok {
			return fmt.Errorf("%w: unknown metadata field %q", richtext.ErrTransformConfiguration, f)
		}
		structFields = append(structFields, name)
	}

	err := validate.StructPartial(m, structFields...)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", richtext.ErrTransformConfiguration, err)
	}

	missing := make([]string, 0, len(verrs))
	for _, e := range verrs {
		missing = append(missing, strings.ToLower(e.Field()))
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: missing metadata %s", richtext.ErrTransformConfiguration, strings.Join(missing, ", "))
}

// Merge returns m with empty fields filled from other.
func (m Metadata) Merge(other Metadata) Metadata {
	if m.Title == "" {
		m.Title = other.Title
	}
	if m.Publication == "" {
		m.Publication = other.Publication
	}
	if m.Date == "" {
		m.Date = other.Date
	}
	return m
}
