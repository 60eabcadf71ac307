package ingest

import "strings"

// Denylist stores exact hosts and suffix wildcards from configuration.
// Membership is checked before any network access: a denylisted URL is
// skipped outright and consumes no retry budget and no rate-gate slot.
type Denylist struct {
	exact    map[string]struct{}
	suffixes []string
}

// NewDenylist builds a matcher from patterns like "example.com",
// "*.example.com", or ".example.com".
func NewDenylist(patterns []string) *Denylist {
	d := &Denylist{exact: make(map[string]struct{})}
	for _, raw := range patterns {
		value := strings.TrimSpace(strings.ToLower(raw))
		if value == "" {
			continue
		}
		switch {
		case strings.HasPrefix(value, "*."):
			d.addSuffix(strings.TrimPrefix(value, "*."))
		case strings.HasPrefix(value, "."):
			d.addSuffix(strings.TrimPrefix(value, "."))
		default:
			d.exact[value] = struct{}{}
		}
	}
	return d
}

func (d *Denylist) addSuffix(suffix string) {
	if suffix == "" {
		return
	}
	for _, existing := range d.suffixes {
		if existing == suffix {
			return
		}
	}
	d.suffixes = append(d.suffixes, suffix)
}

// Blocked reports whether the host is denylisted.
func (d *Denylist) Blocked(host string) bool {
	if d == nil {
		return false
	}
	host = strings.TrimSpace(strings.ToLower(host))
	if host == "" {
		return false
	}
	if _, ok := d.exact[host]; ok {
		return true
	}
	for _, suffix := range d.suffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}
