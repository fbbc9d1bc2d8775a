package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var Sessions = []string{"morning", "evening"}

// Price is an optional amount. Empty strings and null decode as unset.
type Price struct {
	decimal.NullDecimal
}

func NewPrice(d decimal.Decimal) Price {
	return Price{decimal.NullDecimal{Decimal: d, Valid: true}}
}

func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Price{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	if d.IsNegative() {
		return Price{}, fmt.Errorf("price %q must not be negative", s)
	}
	return NewPrice(d), nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		*p = Price{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid price %s: %w", s, err)
		}
		s = unquoted
	}
	parsed, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return []byte(p.Decimal.String()), nil
}

func (p Price) String() string {
	if !p.Valid {
		return ""
	}
	return p.Decimal.String()
}

type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	PerDay    Price  `json:"perDay"`
}

type DaySchedule struct {
	Morning Slot `json:"morning"`
	Evening Slot `json:"evening"`
}

func (d DaySchedule) Slot(session string) Slot {
	if session == "evening" {
		return d.Evening
	}
	return d.Morning
}

// PricingSchedule is keyed by lower case weekday name.
type PricingSchedule map[string]DaySchedule

// Normalize returns a full 7x2 grid, lower casing keys and filling missing
// days with empty slots.
func (p PricingSchedule) Normalize() PricingSchedule {
	out := make(PricingSchedule, len(Weekdays))
	for day, sched := range p {
		out[strings.ToLower(day)] = sched
	}
	for _, day := range Weekdays {
		if _, ok := out[day]; !ok {
			out[day] = DaySchedule{}
		}
	}
	return out
}

func (p PricingSchedule) Day(day string) DaySchedule {
	return p[strings.ToLower(day)]
}

// Set writes one slot; session is "morning" or "evening".
func (p PricingSchedule) Set(day, session string, slot Slot) {
	day = strings.ToLower(day)
	sched := p[day]
	if session == "evening" {
		sched.Evening = slot
	} else {
		sched.Morning = slot
	}
	p[day] = sched
}

// LowestPerDay is the cheapest set price across the grid.
func (p PricingSchedule) LowestPerDay() (decimal.Decimal, bool) {
	var lowest decimal.Decimal
	found := false
	for _, day := range Weekdays {
		sched, ok := p[day]
		if !ok {
			continue
		}
		for _, slot := range []Slot{sched.Morning, sched.Evening} {
			if !slot.PerDay.Valid {
				continue
			}
			if !found || slot.PerDay.Decimal.LessThan(lowest) {
				lowest = slot.PerDay.Decimal
				found = true
			}
		}
	}
	return lowest, found
}
