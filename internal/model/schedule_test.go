package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowOnDefaults(t *testing.T) {
	var ws WorkSchedule

	// 2026-09-02 is a Wednesday.
	wednesday := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	window := ws.WindowOn(wednesday)
	assert.False(t, window.Closed)
	assert.Equal(t, DefaultOpen, window.Open)
	assert.Equal(t, DefaultClose, window.Close)

	saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	assert.True(t, ws.WindowOn(saturday).Closed)

	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	assert.True(t, ws.WindowOn(sunday).Closed)
}

func TestWindowOnConfigured(t *testing.T) {
	ws := WorkSchedule{
		"mon": {Open: "09:00", Close: "13:00"},
		"wed": {Closed: true},
		"sat": {Open: "10:00", Close: "14:00"},
	}

	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	window := ws.WindowOn(monday)
	assert.Equal(t, "09:00", window.Open)
	assert.Equal(t, "13:00", window.Close)

	// Explicitly closed weekday.
	wednesday := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	assert.True(t, ws.WindowOn(wednesday).Closed)

	// Weekend opted in.
	saturday := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)
	assert.False(t, ws.WindowOn(saturday).Closed)

	// Unconfigured weekday still defaults.
	tuesday := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, DefaultOpen, ws.WindowOn(tuesday).Open)
}

func TestDayWindowContains(t *testing.T) {
	window := DayWindow{Open: "09:00", Close: "17:00"}

	at := func(h, m int) time.Time {
		return time.Date(2026, 8, 31, h, m, 0, 0, time.UTC)
	}

	assert.True(t, window.Contains(at(9, 0)))
	assert.True(t, window.Contains(at(16, 59)))
	assert.False(t, window.Contains(at(17, 0)))
	assert.False(t, window.Contains(at(8, 59)))
	assert.False(t, DayWindow{Closed: true}.Contains(at(12, 0)))
}

func TestWorkScheduleValidate(t *testing.T) {
	valid := WorkSchedule{
		"mon": {Open: "08:00", Close: "18:00"},
		"sun": {Closed: true},
	}
	require.NoError(t, valid.Validate())

	assert.Error(t, WorkSchedule{"funday": {Closed: true}}.Validate())
	assert.Error(t, WorkSchedule{"mon": {Open: "18:00", Close: "08:00"}}.Validate())
	assert.Error(t, WorkSchedule{"mon": {Open: "8am", Close: "18:00"}}.Validate())
	assert.Error(t, WorkSchedule{"mon": {Open: "10:00", Close: "10:00"}}.Validate())
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, 510, m)

	_, err = ParseClock("24:00")
	assert.Error(t, err)
	_, err = ParseClock("12:60")
	assert.Error(t, err)
	_, err = ParseClock("noon")
	assert.Error(t, err)

	assert.Equal(t, "08:30", FormatClock(510))
}
