package codec

import (
	"math"
	"time"
)

// serialEpoch is the OLE automation date epoch (1899-12-30 UTC), the native
// date representation of spreadsheet backends: a date is the fractional
// number of days since this epoch.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ToSerial converts a point in time to a serial day-number. The zero time
// maps to serial 0, which FromSerial maps back to the zero time; everything
// in between round-trips at millisecond resolution.
func ToSerial(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.Sub(serialEpoch)) / float64(24*time.Hour)
}

// FromSerial converts a serial day-number back to a point in time, rounded
// to the nearest millisecond (the resolution a spreadsheet backend
// preserves). Serial 0 returns the zero time, which callers treat as "no
// date".
func FromSerial(serial float64) time.Time {
	if serial == 0 {
		return time.Time{}
	}
	ms := math.Round(serial * 24 * 60 * 60 * 1000)
	return serialEpoch.Add(time.Duration(ms) * time.Millisecond)
}
