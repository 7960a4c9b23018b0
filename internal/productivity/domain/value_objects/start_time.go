package value_objects

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidStartTime = errors.New("start time must be HH:MM")

// StartTime is a preferred time of day for working on a task.
type StartTime struct {
	hour   int
	minute int
}

// ParseStartTime parses "HH:MM" (24h). A bare hour such as "9" is also accepted.
func ParseStartTime(s string) (StartTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StartTime{}, ErrInvalidStartTime
	}

	hourPart, minutePart, hasMinutes := strings.Cut(s, ":")
	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 23 {
		return StartTime{}, fmt.Errorf("%w: %q", ErrInvalidStartTime, s)
	}

	minute := 0
	if hasMinutes {
		minute, err = strconv.Atoi(minutePart)
		if err != nil || minute < 0 || minute > 59 {
			return StartTime{}, fmt.Errorf("%w: %q", ErrInvalidStartTime, s)
		}
	}

	return StartTime{hour: hour, minute: minute}, nil
}

// Hour returns the hour component (0-23).
func (s StartTime) Hour() int { return s.hour }

// Minute returns the minute component (0-59).
func (s StartTime) Minute() int { return s.minute }

// String formats the time as HH:MM.
func (s StartTime) String() string {
	return fmt.Sprintf("%02d:%02d", s.hour, s.minute)
}
