package beans

import (
	"reflect"
	"strings"
)

// TagName is the struct tag read by the default post-processors.
const TagName = "datapath"

// ValidateTagName carries expr-lang validation expressions.
const ValidateTagName = "validate"

// TagOptions are the parsed options of a datapath struct tag.
type TagOptions map[string]string

// Has reports whether the option is present.
func (o TagOptions) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Get returns an option value.
func (o TagOptions) Get(key string) string {
	return o[key]
}

func parseTag(tag string) TagOptions {
	opts := TagOptions{}
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		opts[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return opts
}

// gormOptions parses a gorm struct tag ("primaryKey;column:id") with
// case-insensitive keys.
func gormOptions(field reflect.StructField) map[string]string {
	opts := map[string]string{}
	tag, ok := field.Tag.Lookup("gorm")
	if !ok {
		return opts
	}
	for _, part := range strings.Split(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, ":")
		opts[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return opts
}

// snakeCase converts a Go field name to a column style name ("CategoryID" ->
// "category_id").
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z' || runes[i-1] >= '0' && runes[i-1] <= '9'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || (nextLower && runes[i-1] >= 'A' && runes[i-1] <= 'Z') {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
