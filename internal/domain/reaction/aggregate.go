package reaction

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Summarize builds the detail view from entries ordered newest first.
// Top emojis are the first distinct emojis met in that order, not the most
// frequent ones.
func Summarize(entries []Entry, viewerID uint) Summary {
	summary := Summary{
		Total:     len(entries),
		TopEmojis: make([]string, 0, TopEmojiLimit),
		Groups:    make([]Group, 0),
		Reactors:  make([]Reactor, 0, min(len(entries), RecentLimit)),
	}

	groupIndex := make(map[string]int)
	for _, entry := range entries {
		if viewerID != 0 && entry.PersonID == viewerID {
			emoji := entry.Emoji
			summary.MyEmoji = &emoji
		}

		idx, ok := groupIndex[entry.Emoji]
		if !ok {
			if len(summary.TopEmojis) < TopEmojiLimit {
				summary.TopEmojis = append(summary.TopEmojis, entry.Emoji)
			}
			idx = len(summary.Groups)
			groupIndex[entry.Emoji] = idx
			summary.Groups = append(summary.Groups, Group{Emoji: entry.Emoji})
		}
		summary.Groups[idx].Names = append(summary.Groups[idx].Names, entry.PersonName)
		summary.Groups[idx].Count++

		if len(summary.Reactors) < RecentLimit {
			summary.Reactors = append(summary.Reactors, Reactor{
				Name:    entry.PersonName,
				Initial: Initial(entry.PersonName),
				Emoji:   entry.Emoji,
			})
		}
	}

	sort.SliceStable(summary.Groups, func(i, j int) bool {
		return summary.Groups[i].Count > summary.Groups[j].Count
	})
	return summary
}

// Badges computes feed badges for itemIDs in one pass over entries, which
// must be ordered newest first within each item. Every requested item gets
// a badge, empty when it has no reactions.
func Badges(entries []Entry, itemIDs []uint, viewerID uint) map[uint]Badge {
	badges := make(map[uint]Badge, len(itemIDs))
	for _, id := range itemIDs {
		badges[id] = Badge{Emojis: []string{}}
	}

	seen := make(map[uint]map[string]struct{})
	for _, entry := range entries {
		badge, ok := badges[entry.ItemID]
		if !ok {
			continue
		}
		badge.Total++

		if seen[entry.ItemID] == nil {
			seen[entry.ItemID] = make(map[string]struct{})
		}
		if _, dup := seen[entry.ItemID][entry.Emoji]; !dup && len(badge.Emojis) < TopEmojiLimit {
			seen[entry.ItemID][entry.Emoji] = struct{}{}
			badge.Emojis = append(badge.Emojis, entry.Emoji)
		}

		if viewerID != 0 && badge.Mine == nil && entry.PersonID == viewerID {
			emoji := entry.Emoji
			badge.Mine = &emoji
		}
		badges[entry.ItemID] = badge
	}
	return badges
}

// Initial is the upper-cased first character of name, or "?" for an empty name.
func Initial(name string) string {
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}
