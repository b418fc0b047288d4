// Package normalize maps loosely-typed backend JSON into stable values.
// The backend's field names vary across endpoints and deployments (a
// timestamp may arrive as createdAt, created_at or time; a flag as isRead
// or read), so every ambiguous field is resolved through a fixed priority
// list of known aliases. A missing optional field never fails, it resolves
// to the zero value.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Raw is one decoded backend object before alias resolution.
type Raw map[string]any

// Aliases for the subscription entity. Dotted keys descend into nested
// objects. Kept as data so the tables are testable on their own.
var SubscriptionAliases = map[string][]string{
	"id":            {"subscriptionId", "id"},
	"planId":        {"planId", "plan.planId"},
	"planName":      {"planName", "plan.name"},
	"status":        {"status"},
	"startDate":     {"startDate", "createdAt"},
	"endDate":       {"endDate"},
	"price":         {"price", "amount"},
	"remainingDays": {"remainingDays", "remaining"},
	"productName":   {"productName", "product.name"},
	"imageUrl":      {"imageUrl", "product.imageUrl"},
}

// Aliases for the notification entity.
var NotificationAliases = map[string][]string{
	"id":        {"id"},
	"title":     {"title", "subject"},
	"message":   {"message", "content"},
	"type":      {"type", "category"},
	"isRead":    {"isRead", "read"},
	"createdAt": {"createdAt", "created_at", "time"},
	"link":      {"link", "url"},
}

// Aliases for the customer profile entity.
var CustomerAliases = map[string][]string{
	"id":      {"id", "customerId"},
	"name":    {"name", "fullName"},
	"email":   {"email"},
	"phone":   {"phone", "phoneNumber"},
	"address": {"address"},
	"avatar":  {"avatar", "avatarUrl"},
}

// timeLayouts are tried in order when resolving a timestamp field.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// List extracts the item slice from a list payload, which the backend
// returns either as a bare JSON array or wrapped in {"data": [...]}.
func List(payload []byte) []Raw {
	var arr []Raw
	if err := json.Unmarshal(payload, &arr); err == nil {
		return arr
	}
	var wrapped struct {
		Data []Raw `json:"data"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil {
		return wrapped.Data
	}
	return nil
}

// Object extracts the object from a payload that is either a bare JSON
// object or wrapped in {"data": {...}}.
func Object(payload []byte) Raw {
	var r Raw
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil
	}
	if d, ok := r["data"].(map[string]any); ok {
		return Raw(d)
	}
	return r
}

// lookup resolves the first alias present in r, descending into nested
// objects for dotted keys.
func lookup(r Raw, aliases []string) (any, bool) {
	for _, key := range aliases {
		cur := r
		parts := strings.Split(key, ".")
		ok := true
		var val any
		for i, part := range parts {
			v, present := cur[part]
			if !present || v == nil {
				ok = false
				break
			}
			if i == len(parts)-1 {
				val = v
				break
			}
			child, isObj := v.(map[string]any)
			if !isObj {
				ok = false
				break
			}
			cur = Raw(child)
		}
		if ok && val != nil {
			return val, true
		}
	}
	return nil, false
}

// String resolves the first present alias as a string, stringifying
// numbers the way the backend sometimes sends ids.
func String(r Raw, aliases ...string) string {
	v, ok := lookup(r, aliases)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Number resolves the first present alias as a float64, accepting
// numeric strings.
func Number(r Raw, aliases ...string) float64 {
	v, ok := lookup(r, aliases)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Int resolves the first present alias as an int.
func Int(r Raw, aliases ...string) int {
	return int(Number(r, aliases...))
}

// IntPtr resolves the first present alias as an *int, nil when absent.
func IntPtr(r Raw, aliases ...string) *int {
	if _, ok := lookup(r, aliases); !ok {
		return nil
	}
	n := Int(r, aliases...)
	return &n
}

// BoolPtr resolves the first present alias as a *bool. Only genuine JSON
// booleans count, anything else stays nil.
func BoolPtr(r Raw, aliases ...string) *bool {
	v, ok := lookup(r, aliases)
	if !ok {
		return nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return nil
	}
	return &b
}

// Time resolves the first present alias as a timestamp, trying the known
// layouts. Unparseable values yield the zero time.
func Time(r Raw, aliases ...string) time.Time {
	s := String(r, aliases...)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// EnsureHTTPS upgrades plain http image URLs so pages served over TLS do
// not hit mixed-content blocking.
func EnsureHTTPS(url string) string {
	if strings.HasPrefix(strings.ToLower(url), "http://") {
		return "https://" + url[len("http://"):]
	}
	return url
}
