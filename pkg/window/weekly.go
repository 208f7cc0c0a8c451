package window

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidRange   = errors.New("end date before start date")
	ErrInvalidWeekday = errors.New("invalid weekday")
)

// Week is one journal submission window.
type Week struct {
	Number int       `json:"week_number"`
	Start  time.Time `json:"start_date"`
	End    time.Time `json:"end_date"`
}

// GenerateWeekly walks every calendar day from start to end inclusive. A day
// falling on weekday opens week N (N counts every match, skipped or not) that
// ends six days later. Weeks listed in skip are left out of the result.
func GenerateWeekly(start, end string, weekday time.Weekday, skip []int, loc *time.Location) ([]Week, error) {
	if loc == nil {
		loc = time.UTC
	}
	from, err := time.ParseInLocation(DateLayout, start, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: start %q", ErrInvalidDate, start)
	}
	to, err := time.ParseInLocation(DateLayout, end, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: end %q", ErrInvalidDate, end)
	}
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	skipped := make(map[int]struct{}, len(skip))
	for _, n := range skip {
		skipped[n] = struct{}{}
	}

	var (
		weeks  []Week
		number int
	)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if day.Weekday() != weekday {
			continue
		}
		number++
		if _, ok := skipped[number]; ok {
			continue
		}
		weeks = append(weeks, Week{
			Number: number,
			Start:  day,
			End:    day.AddDate(0, 0, 6),
		})
	}
	return weeks, nil
}

// ParseWeekday accepts english day names ("monday", "Mon") or 0-6 with Sunday as 0.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return time.Weekday(s[0] - '0'), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// Classify buckets week numbers into past, current and future against now.
func Classify(now time.Time, weeks []Week) (past, current, future []int) {
	past, current, future = []int{}, []int{}, []int{}
	for _, w := range weeks {
		switch StateAt(now, w.Start, w.End) {
		case Closed:
			past = append(past, w.Number)
		case Open:
			current = append(current, w.Number)
		default:
			future = append(future, w.Number)
		}
	}
	return
}
