package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenbachduyhoang/cafedaily/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02T15:04:05Z", s)
	return t
}

func sample() []models.Notification {
	return []models.Notification{
		{ID: "1", Title: "Order confirmed", Message: "Your Morning Brew is active", IsRead: boolPtr(true), CreatedAt: day("2026-03-02T09:00:00Z")},
		{ID: "2", Title: "Payment reminder", Message: "Transfer pending", IsRead: boolPtr(false), CreatedAt: day("2026-03-02T11:00:00Z")},
		{ID: "3", Title: "New blend", Message: "Try the dark roast", IsRead: boolPtr(false), CreatedAt: day("2026-03-01T08:00:00Z")},
		{ID: "4", Title: "Welcome", Message: "Thanks for joining"},
	}
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterUnread, ParseFilter("unread"))
	assert.Equal(t, FilterUnread, ParseFilter("UNREAD"))
	assert.Equal(t, FilterAll, ParseFilter("all"))
	assert.Equal(t, FilterAll, ParseFilter(""))
	assert.Equal(t, FilterAll, ParseFilter("garbage"))
}

func TestApply_UnreadFilter(t *testing.T) {
	got := Apply(sample(), FilterUnread, "")

	// Only explicit unread flags count; the flag-less item is excluded.
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestApply_Query(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{name: "matches title", query: "payment", wantIDs: []string{"2"}},
		{name: "matches message", query: "dark roast", wantIDs: []string{"3"}},
		{name: "case insensitive", query: "MORNING", wantIDs: []string{"1"}},
		{name: "blank keeps everything", query: "  ", wantIDs: []string{"1", "2", "3", "4"}},
		{name: "no match", query: "tea", wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sample(), FilterAll, tt.query)
			ids := make([]string, 0, len(got))
			for _, it := range got {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestGroupByDay(t *testing.T) {
	groups := GroupByDay(sample())

	require.Len(t, groups, 3)
	assert.Equal(t, "2026-03-02", groups[0].Day)
	assert.Equal(t, "2026-03-01", groups[1].Day)
	assert.Equal(t, "Other", groups[2].Day, "timestamp-less items sort last")

	// Input order preserved within a day.
	require.Len(t, groups[0].Items, 2)
	assert.Equal(t, "1", groups[0].Items[0].ID)
	assert.Equal(t, "2", groups[0].Items[1].ID)
}

func TestGroupByDay_OffsetTimestamps(t *testing.T) {
	early, err := time.Parse(time.RFC3339, "2026-03-02T01:00:00+07:00")
	require.NoError(t, err)
	noon, err := time.Parse(time.RFC3339, "2026-03-02T12:00:00+07:00")
	require.NoError(t, err)

	groups := GroupByDay([]models.Notification{
		{ID: "1", CreatedAt: early},
		{ID: "2", CreatedAt: noon},
	})

	// Both belong to March 2nd in their own zone even though the early
	// one is still March 1st in UTC.
	require.Len(t, groups, 1)
	assert.Equal(t, "2026-03-02", groups[0].Day)
	require.Len(t, groups[0].Items, 2)
	assert.Equal(t, "1", groups[0].Items[0].ID)
	assert.Equal(t, "2", groups[0].Items[1].ID)
}

func TestGroupByDay_Empty(t *testing.T) {
	assert.Empty(t, GroupByDay(nil))
}

func TestCountUnread(t *testing.T) {
	assert.Equal(t, 2, CountUnread(sample()))
	assert.Equal(t, 0, CountUnread(nil))
}
