package util

import (
	"fmt"
	"strings"
	"time"
)

// LocalDateTime reads zone-less timestamps (as sent by datetime-local inputs) in the campus time zone.
type LocalDateTime struct {
	time.Time
}

const layout = "2006-01-02T15:04:05"

var inputLayouts = []string{layout, "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"}

var location = time.FixedZone("PHT", 8*60*60)

// SetLocation changes the campus time zone; unknown names keep the current one.
func SetLocation(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	location = loc
	return nil
}

func Location() *time.Location {
	return location
}

func ToTimePtr(ldt *LocalDateTime) *time.Time {
	if ldt == nil || ldt.IsZero() {
		return nil
	}
	t := ldt.Time
	return &t
}

func FromTimePtr(t *time.Time) *LocalDateTime {
	if t == nil {
		return nil
	}
	return &LocalDateTime{Time: *t}
}

func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, l := range inputLayouts {
		if t, err := time.ParseInLocation(l, s, location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date time %q, expected %s", s, layout)
}

func (ldt *LocalDateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := Parse(s)
	if err != nil {
		return err
	}
	ldt.Time = t
	return nil
}

func (ldt LocalDateTime) MarshalJSON() ([]byte, error) {
	if ldt.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + ldt.In(location).Format(layout) + `"`), nil
}
