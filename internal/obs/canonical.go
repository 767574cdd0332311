package obs

import "strings"

// CanonicalPath collapses resource identifiers so metric labels stay low-cardinality.
func CanonicalPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || parts[0] != "v1" {
		return path
	}
	switch parts[1] {
	case "recommendations", "plans", "evidence":
		parts[2] = ":id"
	default:
		return path
	}
	return "/" + strings.Join(parts, "/")
}
