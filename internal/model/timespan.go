package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timespan is a closed interval [start, end] with start <= end.
type Timespan struct {
	start time.Time
	end   time.Time
}

// NewTimespan builds a timespan, rejecting start > end
func NewTimespan(start, end time.Time) (Timespan, error) {
	if start.After(end) {
		return Timespan{}, fmt.Errorf("%w: timespan start %s is after end %s",
			ErrInvalidArgument, start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano))
	}
	return Timespan{start: start, end: end}, nil
}

// MustTimespan is like NewTimespan but panics on an inverted interval.
// Intended for fixtures.
func MustTimespan(start, end time.Time) Timespan {
	span, err := NewTimespan(start, end)
	if err != nil {
		panic(err)
	}
	return span
}

// Start returns the beginning of the interval
func (s Timespan) Start() time.Time { return s.start }

// End returns the end of the interval
func (s Timespan) End() time.Time { return s.end }

// Duration returns end - start
func (s Timespan) Duration() time.Duration { return s.end.Sub(s.start) }

// Contains reports whether t lies inside the interval, boundaries included
func (s Timespan) Contains(t time.Time) bool {
	return !t.Before(s.start) && !t.After(s.end)
}

func (s Timespan) String() string {
	return fmt.Sprintf("[%s, %s]", s.start.Format(time.RFC3339Nano), s.end.Format(time.RFC3339Nano))
}

type timespanJSON struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MarshalJSON encodes the interval as {"start": ..., "end": ...}
func (s Timespan) MarshalJSON() ([]byte, error) {
	return json.Marshal(timespanJSON{Start: s.start, End: s.end})
}

// UnmarshalJSON decodes and validates an interval
func (s *Timespan) UnmarshalJSON(data []byte) error {
	var raw timespanJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	span, err := NewTimespan(raw.Start, raw.End)
	if err != nil {
		return err
	}
	*s = span
	return nil
}
