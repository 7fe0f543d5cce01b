package connector

import "strings"

// Resolve joins the work root and a caller-relative path with a single
// slash. Neither input is validated or cleaned.
func Resolve(workRoot, relPath string) string {
	return workRoot + "/" + relPath
}

// prefixes returns every growing prefix of p, from the root downwards.
// Empty components are skipped and a leading slash is kept.
func prefixes(p string) []string {
	lead := ""
	if strings.HasPrefix(p, "/") {
		lead = "/"
	}

	var out []string
	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part == "" {
			continue
		}
		parts = append(parts, part)
		out = append(out, lead+strings.Join(parts, "/"))
	}
	return out
}
