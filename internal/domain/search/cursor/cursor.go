// Package cursor encodes the opaque pagination token shared by search and related.
//
// A cursor carries an offset and a time boundary. The boundary is fixed on
// the first page and carried forward unchanged, so every page of one session
// filters out items created after the session began.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// MaxOffset is the deepest offset a cursor can address. It matches the
// engine's default result window (from + size <= 10000).
const MaxOffset = 10000

// Cursor is a pagination position.
type Cursor struct {
	Offset int
	Time   time.Time
}

type wire struct {
	Offset int    `json:"offset"`
	Time   string `json:"time"`
}

// Start returns the first-page cursor for a session beginning at now.
func Start(now time.Time) Cursor {
	return Cursor{Offset: 0, Time: now}
}

// Encode serializes the cursor into a URL-safe token.
func Encode(c Cursor) string {
	data, _ := json.Marshal(wire{
		Offset: c.Offset,
		Time:   c.Time.UTC().Format(time.RFC3339Nano),
	})
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses a token. Absent or malformed tokens yield Start(now);
// Decode never fails. An offset outside [0, MaxOffset] is malformed.
// A time boundary in the future is clamped to now.
func Decode(token string, now time.Time) Cursor {
	if token == "" {
		return Start(now)
	}
	data, err := decodeBase64(token)
	if err != nil {
		return Start(now)
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return Start(now)
	}
	if w.Offset < 0 || w.Offset > MaxOffset || w.Time == "" {
		return Start(now)
	}
	t, err := time.Parse(time.RFC3339Nano, w.Time)
	if err != nil {
		return Start(now)
	}
	if t.After(now) {
		t = now
	}
	return Cursor{Offset: w.Offset, Time: t}
}

// Next advances the offset by pageSize, keeping the time boundary.
// The offset saturates at MaxOffset.
func Next(c Cursor, pageSize int) Cursor {
	return Cursor{Offset: min(c.Offset+max(pageSize, 0), MaxOffset), Time: c.Time}
}

// decodeBase64 accepts URL-safe tokens and the legacy padded standard encoding.
func decodeBase64(token string) ([]byte, error) {
	if data, err := base64.RawURLEncoding.DecodeString(token); err == nil {
		return data, nil
	}
	return base64.StdEncoding.DecodeString(token) //nolint:wrapcheck // caller discards the error
}
