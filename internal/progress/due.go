package progress

import (
	"sort"
	"time"

	"github.com/example/hskstudio/internal/domain"
	"github.com/example/hskstudio/internal/srs"
)

// DefaultDueLimit caps a due-item query when the caller passes no limit.
const DefaultDueLimit = 40

// DueItem is one review-eligible item, tagged with its category and a
// display label resolved from the curriculum.
type DueItem struct {
	Category domain.Category `json:"category"`
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Due      time.Time       `json:"due"`
}

// LabelResolver maps an item id to its display label. The second return
// value is false when the curriculum no longer contains the item, in which
// case the record is skipped rather than reported as an error.
type LabelResolver func(category domain.Category, id string) (string, bool)

// DueItems collects items across all three categories that are eligible
// for review at now, sorted earliest-due first and capped at limit after
// sorting so the most overdue items win when over capacity. A limit <= 0
// means DefaultDueLimit.
func (p *Progress) DueItems(resolve LabelResolver, now time.Time, limit int) []DueItem {
	if limit <= 0 {
		limit = DefaultDueLimit
	}

	var items []DueItem
	items = append(items, dueFromStore(domain.CategoryRadical, p.Radicals, resolve, now)...)
	items = append(items, dueFromStore(domain.CategoryGrammar, p.Grammar, resolve, now)...)
	items = append(items, dueFromStore(domain.CategoryWord, p.Words, resolve, now)...)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Due.Before(items[j].Due)
	})

	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// dueFromStore scans one store in sorted-id order so results are stable
// across runs despite map iteration order.
func dueFromStore(category domain.Category, store srs.Store, resolve LabelResolver, now time.Time) []DueItem {
	ids := make([]string, 0, len(store))
	for id := range store {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var items []DueItem
	for _, id := range ids {
		rec := store[id]
		if !rec.IsDue(now) {
			continue
		}
		label, ok := resolve(category, id)
		if !ok {
			continue
		}
		items = append(items, DueItem{
			Category: category,
			ID:       id,
			Label:    label,
			Due:      *rec.NextDue,
		})
	}
	return items
}
