package client

import (
	"path"
	"strings"
)

// SplitPattern splits a delete pattern into its directory and the last
// component, which is the only one allowed to hold wildcards.
func SplitPattern(pattern string) (dir, base string) {
	i := strings.LastIndexAny(pattern, `/\`)
	if i < 0 {
		return "", pattern
	}
	return pattern[:i], pattern[i+1:]
}

// HasMeta reports whether a path component contains path.Match wildcards.
func HasMeta(component string) bool {
	return strings.ContainsAny(component, `*?[`)
}

// MatchEntries returns the entries whose name matches the wildcard pattern.
// A pattern without wildcards matches only the entry with exactly that name.
// Directories are included only when includeDirs is set.
func MatchEntries(entries []*RawEntry, pattern string, includeDirs bool) ([]*RawEntry, error) {
	literal := !HasMeta(pattern)
	var matched []*RawEntry
	for _, entry := range entries {
		if entry.Name == "." || entry.Name == ".." {
			continue
		}
		if entry.IsDir && !includeDirs {
			continue
		}
		if literal {
			if entry.Name == pattern {
				matched = append(matched, entry)
			}
			continue
		}
		ok, err := path.Match(pattern, entry.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}
