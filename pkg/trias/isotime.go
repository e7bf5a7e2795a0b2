package trias

import (
	"fmt"
	"strings"
	"time"

	iso8601 "github.com/senseyeio/duration"

	_ "time/tzdata"
)

const DefaultDisplayZone = "Europe/Berlin"

const (
	timestampLayout      = "2006-01-02T15:04:05-07:00"
	naiveTimestampLayout = "2006-01-02T15:04:05.999999999"
)

// Now is the clock used for request timestamps
var Now = time.Now

var displayLocation = mustLoadLocation(DefaultDisplayZone)

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}

	return location
}

// SetDisplayLocation changes the zone that protocol timestamps are converted into
func SetDisplayLocation(name string) error {
	location, err := time.LoadLocation(name)
	if err != nil {
		return err
	}

	displayLocation = location

	return nil
}

func DisplayLocation() *time.Location {
	return displayLocation
}

// Timestamp returns the current UTC time in whole seconds, shifted forward by offsetSeconds
func Timestamp(offsetSeconds int) string {
	ts := Now().UTC().Truncate(time.Second)

	if offsetSeconds > 0 {
		ts = ts.Add(time.Duration(offsetSeconds) * time.Second)
	}

	return ts.Format(timestampLayout)
}

// LocalTime converts a protocol timestamp into the display zone. A nil timestamp stays nil.
func LocalTime(ts *string) (*time.Time, error) {
	if ts == nil {
		return nil, nil
	}

	value := strings.TrimSpace(*ts)
	if strings.HasSuffix(value, "Z") {
		value = strings.TrimSuffix(value, "Z") + "+00:00"
	}

	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		// Timestamps without an offset are taken as UTC
		var naiveErr error
		parsed, naiveErr = time.ParseInLocation(naiveTimestampLayout, value, time.UTC)
		if naiveErr != nil {
			return nil, fmt.Errorf("invalid timestamp %q: %w", *ts, err)
		}
	}

	local := parsed.In(displayLocation)

	return &local, nil
}

// Interval renders an ISO-8601 duration literal. Zero components are left out but the
// P and T designators are always written.
func Interval(d iso8601.Duration) string {
	var b strings.Builder

	b.WriteString("P")
	writeComponent(&b, d.Y, "Y")
	writeComponent(&b, d.M, "M")
	writeComponent(&b, d.D+d.W*7, "D")

	b.WriteString("T")
	writeComponent(&b, d.TH, "H")
	writeComponent(&b, d.TM, "M")
	writeComponent(&b, d.TS, "S")

	return b.String()
}

func writeComponent(b *strings.Builder, value int, designator string) {
	if value > 0 {
		fmt.Fprintf(b, "%d%s", value, designator)
	}
}
