// Package calendar formats dates for display in the configured calendar
// system. Patterns use the tokens yyyy, MM, dd, HH and mm; any other
// character is copied as-is.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

const (
	NameGregorian = "gregorian"
	NamePersian   = "persian"
)

// DayKey is the pattern used to bucket tasks by day
const DayKey = "yyyy-MM-dd"

type Formatter interface {
	Name() string
	Format(t time.Time, pattern string) string
	DifferenceInDays(a, b time.Time) int
}

// New returns the formatter for a calendar name
func New(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", NameGregorian:
		return Gregorian{}, nil
	case NamePersian:
		return Persian{}, nil
	}
	return nil, fmt.Errorf("unknown calendar %q", name)
}

// date holds the calendar-specific parts of an instant
type date struct {
	year, month, day, hour, minute int
}

type Gregorian struct{}

func (Gregorian) Name() string { return NameGregorian }

func (Gregorian) Format(t time.Time, pattern string) string {
	return render(date{t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute()}, pattern)
}

func (Gregorian) DifferenceInDays(a, b time.Time) int {
	return differenceInDays(a, b)
}

// Persian renders dates in the Solar Hijri calendar
type Persian struct{}

func (Persian) Name() string { return NamePersian }

func (Persian) Format(t time.Time, pattern string) string {
	p := ptime.New(t)
	return render(date{p.Year(), int(p.Month()), p.Day(), t.Hour(), t.Minute()}, pattern)
}

func (Persian) DifferenceInDays(a, b time.Time) int {
	return differenceInDays(a, b)
}

// differenceInDays counts whole days between a and b, truncated toward zero
func differenceInDays(a, b time.Time) int {
	return int(a.Sub(b) / (24 * time.Hour))
}

var tokens = []string{"yyyy", "MM", "dd", "HH", "mm"}

func render(d date, pattern string) string {
	var sb strings.Builder
	for i := 0; i < len(pattern); {
		matched := false
		for _, tok := range tokens {
			if !strings.HasPrefix(pattern[i:], tok) {
				continue
			}
			sb.WriteString(value(d, tok))
			i += len(tok)
			matched = true
			break
		}
		if !matched {
			sb.WriteByte(pattern[i])
			i++
		}
	}
	return sb.String()
}

func value(d date, tok string) string {
	switch tok {
	case "yyyy":
		return fmt.Sprintf("%04d", d.year)
	case "MM":
		return pad(d.month)
	case "dd":
		return pad(d.day)
	case "HH":
		return pad(d.hour)
	case "mm":
		return pad(d.minute)
	}
	return tok
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
