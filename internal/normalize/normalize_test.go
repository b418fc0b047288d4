package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestList(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{name: "bare array", payload: `[{"id":1},{"id":2}]`, want: 2},
		{name: "wrapped in data", payload: `{"data":[{"id":1}]}`, want: 1},
		{name: "empty data", payload: `{"data":[]}`, want: 0},
		{name: "not a list", payload: `"oops"`, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, List([]byte(tt.payload)), tt.want)
		})
	}
}

func TestObject(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantID  string
	}{
		{name: "bare object", payload: `{"id":"abc"}`, wantID: "abc"},
		{name: "wrapped in data", payload: `{"data":{"id":"abc"}}`, wantID: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Object([]byte(tt.payload))
			assert.Equal(t, tt.wantID, String(r, "id"))
		})
	}
	assert.Nil(t, Object([]byte(`[1,2]`)))
}

func TestString_AliasPriorityAndCoercion(t *testing.T) {
	r := Raw{"subscriptionId": "sub-1", "id": "fallback", "planId": float64(7)}

	assert.Equal(t, "sub-1", String(r, SubscriptionAliases["id"]...))
	assert.Equal(t, "7", String(r, "planId"))
	assert.Equal(t, "", String(r, "missing"))
}

func TestString_DottedPath(t *testing.T) {
	r := Raw{"plan": map[string]any{"name": "Morning Brew"}}
	assert.Equal(t, "Morning Brew", String(r, SubscriptionAliases["planName"]...))

	// A nil nested object falls through to nothing, not a panic.
	r = Raw{"plan": nil}
	assert.Equal(t, "", String(r, "plan.name"))
}

func TestNumber(t *testing.T) {
	r := Raw{"price": "249000.5", "amount": float64(1)}
	assert.Equal(t, 249000.5, Number(r, SubscriptionAliases["price"]...))
	assert.Equal(t, float64(0), Number(r, "missing"))
	assert.Equal(t, float64(0), Number(Raw{"price": "abc"}, "price"))
}

func TestIntPtr(t *testing.T) {
	r := Raw{"remaining": float64(12)}
	got := IntPtr(r, SubscriptionAliases["remainingDays"]...)
	if assert.NotNil(t, got) {
		assert.Equal(t, 12, *got)
	}
	assert.Nil(t, IntPtr(Raw{}, "remainingDays"))
}

func TestBoolPtr(t *testing.T) {
	tests := []struct {
		name string
		r    Raw
		want *bool
	}{
		{name: "true", r: Raw{"isRead": true}, want: boolPtr(true)},
		{name: "false via alias", r: Raw{"read": false}, want: boolPtr(false)},
		{name: "absent", r: Raw{}, want: nil},
		{name: "non-boolean", r: Raw{"isRead": "yes"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BoolPtr(tt.r, NotificationAliases["isRead"]...)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestTime(t *testing.T) {
	tests := []struct {
		name  string
		r     Raw
		check func(t *testing.T, got time.Time)
	}{
		{
			name: "rfc3339",
			r:    Raw{"createdAt": "2026-03-01T10:30:00Z"},
			check: func(t *testing.T, got time.Time) {
				assert.Equal(t, 2026, got.Year())
				assert.Equal(t, 30, got.Minute())
			},
		},
		{
			name: "date only via alias",
			r:    Raw{"created_at": "2026-03-01"},
			check: func(t *testing.T, got time.Time) {
				assert.Equal(t, time.March, got.Month())
			},
		},
		{
			name: "garbage yields zero",
			r:    Raw{"createdAt": "soon"},
			check: func(t *testing.T, got time.Time) {
				assert.True(t, got.IsZero())
			},
		},
		{
			name: "absent yields zero",
			r:    Raw{},
			check: func(t *testing.T, got time.Time) {
				assert.True(t, got.IsZero())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Time(tt.r, NotificationAliases["createdAt"]...))
		})
	}
}

func TestEnsureHTTPS(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/a.png", EnsureHTTPS("http://cdn.example.com/a.png"))
	assert.Equal(t, "https://cdn.example.com/a.png", EnsureHTTPS("https://cdn.example.com/a.png"))
	assert.Equal(t, "/static/a.png", EnsureHTTPS("/static/a.png"))
	assert.Equal(t, "", EnsureHTTPS(""))
}

func boolPtr(b bool) *bool { return &b }
