// Package notification holds the pure, client-side view logic over the
// notification stream: the all/unread filter, the free-text filter and
// the grouping by calendar day. None of it touches the backend and none
// of it can fail.
package notification

import (
	"sort"
	"strings"
	"time"

	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
)

// Filter selects which notifications to show.
type Filter string

const (
	// FilterAll keeps everything.
	FilterAll Filter = "all"
	// FilterUnread keeps only items explicitly marked unread.
	FilterUnread Filter = "unread"
)

// ParseFilter maps a query value onto a Filter, defaulting to all.
func ParseFilter(s string) Filter {
	if strings.EqualFold(s, string(FilterUnread)) {
		return FilterUnread
	}
	return FilterAll
}

// Apply filters items by read state and then by a case-insensitive
// substring match across title and message. Input order is preserved.
func Apply(items []models.Notification, filter Filter, query string) []models.Notification {
	out := make([]models.Notification, 0, len(items))
	q := strings.ToLower(strings.TrimSpace(query))
	for _, it := range items {
		if filter == FilterUnread && (it.IsRead == nil || *it.IsRead) {
			continue
		}
		if q != "" {
			haystack := strings.ToLower(it.Title + " " + it.Message)
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

// DayGroup is one calendar day of notifications, items in input order.
type DayGroup struct {
	Day   string                `json:"day"`
	Items []models.Notification `json:"items"`
}

// otherDay collects items with no parseable timestamp; it sorts last.
const otherDay = "Other"

// GroupByDay groups items by the calendar day of CreatedAt, most recent
// day first. Items without a timestamp end up in a trailing "Other"
// group.
func GroupByDay(items []models.Notification) []DayGroup {
	type bucket struct {
		day   time.Time
		items []models.Notification
	}
	byDay := make(map[string]*bucket)
	order := make([]string, 0)

	for _, it := range items {
		key := otherDay
		var day time.Time
		if !it.CreatedAt.IsZero() {
			// Midnight in the timestamp's own zone, so an offset-bearing
			// timestamp lands on its local calendar day.
			y, m, d := it.CreatedAt.Date()
			day = time.Date(y, m, d, 0, 0, 0, 0, it.CreatedAt.Location())
			key = it.CreatedAt.Format("2006-01-02")
		}
		b, ok := byDay[key]
		if !ok {
			b = &bucket{day: day}
			byDay[key] = b
			order = append(order, key)
		}
		b.items = append(b.items, it)
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := byDay[order[i]], byDay[order[j]]
		if a.day.IsZero() != b.day.IsZero() {
			return !a.day.IsZero()
		}
		return a.day.After(b.day)
	})

	groups := make([]DayGroup, 0, len(order))
	for _, key := range order {
		groups = append(groups, DayGroup{Day: key, Items: byDay[key].items})
	}
	return groups
}

// CountUnread counts items explicitly marked unread.
func CountUnread(items []models.Notification) int {
	n := 0
	for _, it := range items {
		if it.IsRead != nil && !*it.IsRead {
			n++
		}
	}
	return n
}
