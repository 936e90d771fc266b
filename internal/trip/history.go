package trip

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EntryID identifies a history entry. The backend emits numeric ids, other
// deployments emit strings; both decode to the same textual form.
type EntryID string

// UnmarshalJSON accepts a JSON string or number.
func (id *EntryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = EntryID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("history id must be a string or number: %w", err)
	}
	*id = EntryID(n.String())
	return nil
}

// Timestamp decodes the creation times the backend emits, with or without a
// zone offset. Values without an offset are taken as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			t.Time = time.Time{}
			return nil
		}
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// HistoryEntry is a past plan request stored by the backend.
// Result is nil when the backend stored the query without a result.
type HistoryEntry struct {
	ID        EntryID   `json:"id"`
	Query     Request   `json:"query"`
	Result    *Result   `json:"result"`
	CreatedAt Timestamp `json:"created_at"`
}

// Label is a short one-line description of the entry, e.g. "北京 → 杭州 · 2026-11-01 · 3".
func (e HistoryEntry) Label() string {
	var b strings.Builder
	b.WriteString(e.Query.Origin)
	b.WriteString(" → ")
	b.WriteString(e.Query.Destination)
	if e.Query.StartDate != "" {
		b.WriteString(" · ")
		b.WriteString(e.Query.StartDate)
	}
	if e.Query.Days > 0 {
		fmt.Fprintf(&b, " · %dd", e.Query.Days)
	}
	return b.String()
}
