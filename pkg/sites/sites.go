// Package sites holds the canonical site-identity rules: which fetched
// sites the panel shows, and the cleaned URL form used as the key for
// every per-site request.
package sites

import (
	"strings"

	"seopanel-go/pkg/backend"
)

// CleanURL strips the scheme and trailing slash from a site URL. The
// result is the canonical per-site key. Cleaning is idempotent.
func CleanURL(raw string) string {
	cleaned := strings.TrimPrefix(raw, "https://")
	cleaned = strings.TrimPrefix(cleaned, "http://")
	cleaned = strings.TrimPrefix(cleaned, "sc-domain:")
	return strings.TrimSuffix(cleaned, "/")
}

// Entry is one displayable site after filtering and cleaning.
type Entry struct {
	URL             string `json:"url"`
	PermissionLevel string `json:"permissionLevel"`
}

// Filter retains owner and full-user sites and cleans their URLs.
// Restricted users never see their sites listed. Order is preserved.
func Filter(raw []backend.Site) []Entry {
	entries := make([]Entry, 0, len(raw))
	for _, site := range raw {
		if site.PermissionLevel != backend.PermissionOwner && site.PermissionLevel != backend.PermissionFullUser {
			continue
		}
		entries = append(entries, Entry{
			URL:             CleanURL(site.SiteURL),
			PermissionLevel: site.PermissionLevel,
		})
	}
	return entries
}

// SelectDefault picks the site to preselect: the remembered last
// selection when it is still in the list, otherwise the first entry,
// otherwise empty.
func SelectDefault(entries []Entry, lastSelected string) string {
	if len(entries) == 0 {
		return ""
	}
	for _, entry := range entries {
		if entry.URL == lastSelected {
			return lastSelected
		}
	}
	return entries[0].URL
}
