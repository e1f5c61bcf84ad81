package toolkit

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// PropOption customizes a property schema built with Prop.
type PropOption func(map[string]any)

// Object builds an object schema from its properties and required names.
func Object(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Prop builds a property schema of the given JSON type.
func Prop(typ, description string, opts ...PropOption) map[string]any {
	prop := map[string]any{"type": typ}
	if description != "" {
		prop["description"] = description
	}
	for _, opt := range opts {
		opt(prop)
	}
	return prop
}

// Default sets the value used when the caller omits the property.
func Default(v any) PropOption {
	return func(p map[string]any) { p["default"] = v }
}

// Enum restricts the property to the given values.
func Enum(values ...any) PropOption {
	return func(p map[string]any) { p["enum"] = values }
}

// Minimum sets an inclusive lower bound for numeric properties.
func Minimum(n float64) PropOption {
	return func(p map[string]any) { p["minimum"] = n }
}

// Maximum sets an inclusive upper bound for numeric properties.
func Maximum(n float64) PropOption {
	return func(p map[string]any) { p["maximum"] = n }
}

// Items sets the element schema of an array property.
func Items(schema map[string]any) PropOption {
	return func(p map[string]any) { p["items"] = schema }
}

// Values sets the schema every value of an object property must match, for
// free-form maps such as metadata.
func Values(schema map[string]any) PropOption {
	return func(p map[string]any) { p["additionalProperties"] = schema }
}

// MinLength sets the minimum length of a string property.
func MinLength(n int) PropOption {
	return func(p map[string]any) { p["minLength"] = n }
}

// Decode copies validated params into a typed struct using its json tags.
func Decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}

// decodeError reports a params value the schema accepted but the typed
// struct cannot hold. mapstructure messages start with the quoted field name.
func decodeError(err error) *ValidationError {
	msg := err.Error()
	field := "(root)"
	if i := strings.Index(msg, "'"); i >= 0 {
		if name, desc, ok := strings.Cut(msg[i+1:], "' "); ok && name != "" {
			field = name
			msg, _, _ = strings.Cut(desc, "\n")
		}
	}
	return &ValidationError{Fields: []FieldError{{Field: field, Description: msg}}}
}
