package v1

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Fields is the loosely typed shape of a record while it is being edited and
// when it is sent to the API as a payload.
type Fields map[string]any

// FieldsOf copies every exported field of item into a new Fields value. The
// copy goes through JSON, so nested slices and maps never alias item.
func FieldsOf(item any) (Fields, error) {
	b, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal %T: %w", item, err)
	}
	f := Fields{}
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("unable to unmarshal %T into fields: %w", item, err)
	}
	return f, nil
}

// Decode builds a typed record out of f
func Decode[T any](f Fields) (T, error) {
	var out T
	b, err := json.Marshal(f)
	if err != nil {
		return out, fmt.Errorf("unable to marshal fields: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("unable to decode fields into %T: %w", out, err)
	}
	return out, nil
}

// Clone returns a deep copy of f
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Fields(t).Clone())
	case Fields:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []Image:
		return append([]Image(nil), t...)
	case []Spec:
		return append([]Spec(nil), t...)
	default:
		return v
	}
}

// Text renders the value under key the way a single line input shows it
func (f Fields) Text(key string) string {
	switch t := f[key].(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case []string:
		return strings.Join(t, ", ")
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Images reads an image list out of f, whatever shape it was stored in
func (f Fields) Images(key string) []Image {
	switch t := f[key].(type) {
	case []Image:
		return append([]Image(nil), t...)
	case []any:
		out := make([]Image, 0, len(t))
		for _, e := range t {
			m, ok := e.(map[string]any)
			if !ok {
				continue
			}
			img := Image{}
			img.URL, _ = m["url"].(string)
			img.PublicID, _ = m["publicId"].(string)
			img.Alt, _ = m["alt"].(string)
			out = append(out, img)
		}
		return out
	default:
		return nil
	}
}
