package handler

import "time"

// ParseTimestamp accepts RFC 3339 timestamps and bare dates.
func ParseTimestamp(raw string) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
