package common

// StringArg returns the string argument name. ok is false when the argument
// is absent, not a string, or empty.
func StringArg(args map[string]any, name string) (value string, ok bool) {
	value, ok = args[name].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// OptionalStringArg returns the string argument name, or def when it is
// absent or not a string. An explicit empty string is kept.
func OptionalStringArg(args map[string]any, name, def string) string {
	if value, ok := args[name].(string); ok {
		return value
	}
	return def
}
