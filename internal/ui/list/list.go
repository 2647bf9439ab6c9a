// Package list holds cursor and viewport state for the scrollable item lists
// the views render.
package list

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Item is one selectable row.
type Item struct {
	ID    string
	Label string
}

// List tracks the cursor and viewport offset over a slice of items.
type List struct {
	Items  []Item
	Cursor int
	Offset int
}

// SetItems replaces the items, keeping the cursor on a valid row.
func (l *List) SetItems(items []Item) {
	l.Items = append([]Item(nil), items...)
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.Offset = 0
		return
	}
	if l.Cursor >= len(l.Items) {
		l.Cursor = len(l.Items) - 1
	}
	if l.Offset > len(l.Items)-1 {
		l.Offset = 0
	}
}

// Current returns the item under the cursor.
func (l *List) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// MoveUp moves the cursor up one row, wrapping to the bottom.
func (l *List) MoveUp() bool {
	n := len(l.Items)
	if n == 0 {
		return false
	}
	if l.Cursor > 0 {
		l.Cursor--
	} else {
		l.Cursor = n - 1
	}
	return true
}

// MoveDown moves the cursor down one row, wrapping to the top.
func (l *List) MoveDown() bool {
	n := len(l.Items)
	if n == 0 {
		return false
	}
	if l.Cursor < n-1 {
		l.Cursor++
	} else {
		l.Cursor = 0
	}
	return true
}

// EnsureVisible adjusts the viewport offset so the cursor stays on screen
// given the number of visible rows.
func (l *List) EnsureVisible(maxVisible int) {
	if maxVisible <= 0 || len(l.Items) <= maxVisible {
		l.Offset = 0
		return
	}
	if l.Cursor < l.Offset {
		l.Offset = l.Cursor
	}
	if l.Cursor >= l.Offset+maxVisible {
		l.Offset = l.Cursor - maxVisible + 1
	}
	if l.Offset > len(l.Items)-maxVisible {
		l.Offset = len(l.Items) - maxVisible
	}
	if l.Offset < 0 {
		l.Offset = 0
	}
}

// Filter returns the items fuzzily matching the query, falling back to a
// case-insensitive substring scan when the fuzzy pass finds nothing.
func Filter(items []Item, query string) []Item {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return append([]Item(nil), items...)
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) > 0 {
		matched := make(map[int]struct{}, len(ranks))
		for _, r := range ranks {
			matched[r.OriginalIndex] = struct{}{}
		}
		out := make([]Item, 0, len(matched))
		for i, item := range items {
			if _, ok := matched[i]; ok {
				out = append(out, item)
			}
		}
		return out
	}
	lower := strings.ToLower(trimmed)
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Label), lower) || strings.Contains(strings.ToLower(item.ID), lower) {
			out = append(out, item)
		}
	}
	return out
}
