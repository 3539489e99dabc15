package cognition

// Schema helpers for describing expected JSON output shapes. The
// description is serialized into the tool's user message so the model
// returns exactly one conforming JSON object.

// Object creates an object schema with the given properties.
func Object(properties map[string]interface{}) map[string]interface{} {
	return properties
}

// String describes a string property.
func String(description string) string {
	return "string (" + description + ")"
}

// StringEnum describes a string property with allowed values.
func StringEnum(values ...string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += " | "
		}
		out += v
	}
	return out
}

// Number describes a number property with a range hint.
func Number(description string) string {
	return "number (" + description + ")"
}

// Boolean describes a boolean property.
func Boolean() string {
	return "boolean"
}

// Array describes an array property with the given item shape.
func Array(item interface{}) []interface{} {
	return []interface{}{item}
}
