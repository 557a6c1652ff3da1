package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// placeholderToken marks seed/demo media URLs that must never leave the
// system. Stored rows keep them; every read path scrubs them.
const placeholderToken = "example.com"

// MediaList is an ordered list of media URLs stored as a JSON column.
// Legacy rows hold single bare URLs or malformed JSON; scanning normalizes
// those to a single-element or empty list instead of failing.
type MediaList []string

// ParseMediaList decodes a stored media value. A JSON array yields its
// elements, a bare non-empty string yields a one-element list, anything
// else yields an empty list.
func ParseMediaList(raw string) MediaList {
	if raw == "" {
		return MediaList{}
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err == nil {
		if urls == nil {
			return MediaList{}
		}
		return MediaList(urls)
	}
	// Legacy rows store a single URL without JSON quoting.
	if strings.HasPrefix(raw, "[") || strings.HasPrefix(raw, "{") {
		return MediaList{}
	}
	return MediaList{raw}
}

// Scan implements sql.Scanner with the parse-or-empty contract.
func (m *MediaList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = MediaList{}
	case []byte:
		*m = ParseMediaList(string(v))
	case string:
		*m = ParseMediaList(v)
	default:
		*m = MediaList{}
	}
	return nil
}

// Value implements driver.Valuer, always storing a JSON array.
func (m MediaList) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Sanitized returns the list with placeholder-domain URLs dropped.
// The filter applies only to output, never to stored rows.
func (m MediaList) Sanitized() MediaList {
	out := MediaList{}
	for _, u := range m {
		if !strings.Contains(u, placeholderToken) {
			out = append(out, u)
		}
	}
	return out
}

// SanitizeURL blanks a single URL if it carries the placeholder token.
// Used for avatar fields on read paths.
func SanitizeURL(u string) string {
	if strings.Contains(u, placeholderToken) {
		return ""
	}
	return u
}
