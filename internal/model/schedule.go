package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday keys used in WorkSchedule, indexed by time.Weekday (0=Sunday).
var weekdayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// WeekdayKey maps a time.Weekday to its schedule key.
func WeekdayKey(d time.Weekday) string {
	return weekdayKeys[int(d)]
}

// DaySchedule is one weekday's configured window. Open/Close are "HH:MM"
// 24-hour clock strings and are ignored when Closed is true.
type DaySchedule struct {
	Closed bool   `json:"closed"`
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
}

// WorkSchedule maps weekday keys (mon..sun) to day windows. A clinic with no
// stored schedule gets defaults from WindowOn.
type WorkSchedule map[string]DaySchedule

const (
	DefaultOpen  = "08:00"
	DefaultClose = "18:00"
)

// DayWindow is the resolved open/close window for a concrete date.
type DayWindow struct {
	Closed bool   `json:"closed"`
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
}

// WindowOn resolves the window for date's weekday. Unconfigured weekdays
// default to 08:00-18:00; unconfigured weekend days are closed, a clinic
// opts into weekends by configuring sat/sun explicitly.
func (ws WorkSchedule) WindowOn(date time.Time) DayWindow {
	wd := date.Weekday()
	if day, ok := ws[WeekdayKey(wd)]; ok {
		if day.Closed {
			return DayWindow{Closed: true}
		}
		return DayWindow{Open: day.Open, Close: day.Close}
	}
	if wd == time.Saturday || wd == time.Sunday {
		return DayWindow{Closed: true}
	}
	return DayWindow{Open: DefaultOpen, Close: DefaultClose}
}

// Contains reports whether the clock time of t falls inside the window,
// treating the close time as exclusive for a zero-length instant.
func (w DayWindow) Contains(t time.Time) bool {
	if w.Closed {
		return false
	}
	open, err := ParseClock(w.Open)
	if err != nil {
		return false
	}
	close, err := ParseClock(w.Close)
	if err != nil {
		return false
	}
	m := t.Hour()*60 + t.Minute()
	return m >= open && m < close
}

// Validate checks every configured day parses and closes after it opens.
func (ws WorkSchedule) Validate() error {
	for key, day := range ws {
		if !validWeekdayKey(key) {
			return fmt.Errorf("unknown weekday key %q", key)
		}
		if day.Closed {
			continue
		}
		open, err := ParseClock(day.Open)
		if err != nil {
			return fmt.Errorf("%s open: %w", key, err)
		}
		close, err := ParseClock(day.Close)
		if err != nil {
			return fmt.Errorf("%s close: %w", key, err)
		}
		if close <= open {
			return fmt.Errorf("%s: close %q must be after open %q", key, day.Close, day.Open)
		}
	}
	return nil
}

func validWeekdayKey(key string) bool {
	for _, k := range weekdayKeys {
		if k == key {
			return true
		}
	}
	return false
}

// ParseClock parses an "HH:MM" 24-hour string into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
