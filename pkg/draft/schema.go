package draft

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/byxorna/shipwright/pkg/text"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var emailFormat = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Schema describes how records of one kind are edited
type Schema struct {
	// Empty returns the field defaults of a new record
	Empty    func() v1.Fields
	// Editable is the order fields are presented in
	Editable []string
	Required []string
	// ReadOnly fields are never sent back, e.g. id and createdAt
	ReadOnly []string

	// SlugField is kept in sync with SlugSource while creating, until the
	// user edits it by hand. Both empty means the kind has no slug.
	SlugField  string
	SlugSource string

	// TagFields hold comma separated free text while editing
	TagFields []string
	Numbers   []string
	Emails    []string
	// Choices restricts fields to a closed set of values
	Choices   map[string][]string

	// ImageField receives confirmed uploads. A list field collects images
	// and, with Attachments set, is saved by a second request after the
	// record itself.
	ImageField  string
	ImageList   bool
	Attachments bool

	// ImageIDField, for single image kinds, receives the storage id
	ImageIDField string
}

func (s Schema) HasSlug() bool { return s.SlugField != "" && s.SlugSource != "" }

func (s Schema) IsTagField(key string) bool { return contains(s.TagFields, key) }

func (s Schema) IsNumber(key string) bool { return contains(s.Numbers, key) }

func (s Schema) IsRequired(key string) bool { return contains(s.Required, key) }

func (s Schema) empty() v1.Fields {
	if s.Empty == nil {
		return v1.Fields{}
	}
	return s.Empty().Clone()
}

// validate checks f after normalize has run
func (s Schema) validate(f v1.Fields) error {
	byKey := map[string][]validation.Rule{}
	var order []string
	add := func(k string, r validation.Rule) {
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], r)
	}

	for _, k := range s.Required {
		add(k, validation.By(notBlank))
	}
	for _, k := range s.Emails {
		add(k, validation.By(email))
	}
	for k, choices := range s.Choices {
		add(k, validation.By(oneOf(choices)))
	}
	if s.SlugField != "" {
		add(s.SlugField, validation.By(slug))
	}
	if len(order) == 0 {
		return nil
	}

	values := make(map[string]any, len(order))
	rules := make([]*validation.KeyRules, 0, len(order))
	for _, k := range order {
		values[k] = f[k]
		rules = append(rules, validation.Key(k, byKey[k]...))
	}
	return validation.Validate(values, validation.Map(rules...))
}

// normalize turns editing shapes into payload shapes: tag text becomes a
// list, slugs are slugified and numeric text becomes a number.
func (s Schema) normalize(f v1.Fields) validation.Errors {
	errs := validation.Errors{}
	for _, k := range s.TagFields {
		f[k] = tagsOf(f[k])
	}
	if s.SlugField != "" {
		if v := strings.TrimSpace(f.Text(s.SlugField)); v != "" {
			f[s.SlugField] = text.Slugify(v)
		} else if s.SlugSource != "" {
			f[s.SlugField] = text.Slugify(f.Text(s.SlugSource))
		}
	}
	for _, k := range s.Numbers {
		n, err := numberOf(f[k])
		if err != nil {
			errs[k] = err
			continue
		}
		f[k] = n
	}
	for k, v := range f {
		if str, ok := v.(string); ok {
			f[k] = strings.TrimSpace(str)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func tagsOf(v any) []string {
	switch t := v.(type) {
	case string:
		return text.ParseTags(t)
	case []string:
		return text.ParseTags(strings.Join(t, ","))
	case []any:
		return text.ParseTags(v1.Fields{"t": t}.Text("t"))
	default:
		return []string{}
	}
}

func numberOf(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return 0, nil
		}
		n, err := strconv.ParseFloat(strings.ReplaceAll(t, ",", ""), 64)
		if err != nil {
			return 0, errors.New("must be a number")
		}
		return n, nil
	default:
		return 0, fmt.Errorf("must be a number, not %T", v)
	}
}

// notBlank rejects nil, whitespace only text and empty lists
func notBlank(v any) error {
	blank := errors.New("cannot be blank")
	switch t := v.(type) {
	case nil:
		return blank
	case string:
		if strings.TrimSpace(t) == "" {
			return blank
		}
	case []string:
		if len(t) == 0 {
			return blank
		}
	case []any:
		if len(t) == 0 {
			return blank
		}
	case []v1.Image:
		if len(t) == 0 {
			return blank
		}
	}
	return nil
}

func email(v any) error {
	s, _ := v.(string)
	if s == "" || emailFormat.MatchString(s) {
		return nil
	}
	return errors.New("must be a valid email address")
}

func slug(v any) error {
	s, _ := v.(string)
	if s == "" || text.IsSlug(s) {
		return nil
	}
	return errors.New("must contain only a-z, 0-9 and hyphens")
}

func oneOf(choices []string) validation.RuleFunc {
	return func(v any) error {
		s := fmt.Sprint(v)
		if v == nil || s == "" {
			return nil
		}
		if contains(choices, s) {
			return nil
		}
		return fmt.Errorf("must be one of %s", strings.Join(choices, ", "))
	}
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
