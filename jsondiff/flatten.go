// Package jsondiff flattens nested JSON-like structures into comparable leaf
// paths and computes a structural similarity score between two of them.
package jsondiff

import "strconv"

// Flatten converts a nested structure into a single-level map whose keys are
// the dotted/indexed paths to every non-container leaf ("a.b.0.c"). Top-level
// keys and indices carry no leading dot. Non-container input produces an
// empty map.
func Flatten(v any) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", v)
	return out
}

func flattenInto(out map[string]any, path string, v any) {
	switch node := v.(type) {
	case map[string]any:
		for key, value := range node {
			flattenChild(out, join(path, key), value)
		}
	case []any:
		for i, value := range node {
			flattenChild(out, join(path, strconv.Itoa(i)), value)
		}
	}
}

func flattenChild(out map[string]any, path string, v any) {
	switch v.(type) {
	case map[string]any, []any:
		flattenInto(out, path, v)
	default:
		out[path] = v
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
