package chat

import (
	"sort"
	"strings"

	profile "tabangi/internal/pkg/profile/domain"
)

// InboxEntry is one row of the conversation list: the conversation joined
// with the counterpart's profile summary.
type InboxEntry struct {
	Conversation Conversation
	Counterpart  profile.Summary
}

// SortByRecency orders entries by LastUpdated descending. Conversations that
// never recorded a timestamp sort last.
func SortByRecency(entries []InboxEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Conversation.LastUpdated, entries[j].Conversation.LastUpdated
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.After(b)
	})
}

// FilterByName keeps entries whose counterpart name contains query,
// case-insensitively. A blank query returns the input unchanged.
func FilterByName(entries []InboxEntry, query string) []InboxEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}
	filtered := make([]InboxEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Counterpart.Name()), q) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
