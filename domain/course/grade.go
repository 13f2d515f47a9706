package course

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// German grading scale: 1.0 is best, 5.0 is fail, anything up to 4.0 passes.
const (
	BestGrade     = 1.0
	WorstGrade    = 5.0
	PassThreshold = 4.0
)

// Result labels written to the grade table
const (
	LabelPass = "pass"
	LabelFail = "fail"
)

// Grade is a grade on the German scale, held in tenths so the pass
// boundary compares exactly. Values that are not whole tenths are rejected.
type Grade struct {
	tenths int
}

// ParseGrade accepts "2.3", "2,3" and spreadsheet renderings like "2.30"
func ParseGrade(s string) (Grade, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Grade{}, fmt.Errorf("grade is empty")
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return Grade{}, fmt.Errorf("grade %q is not a number", s)
	}
	return NewGrade(v)
}

// tenthsTolerance absorbs float noise from spreadsheet cells such as 2.3000000000000003
const tenthsTolerance = 1e-6

// NewGrade validates v against the scale bounds and the one-decimal scale
func NewGrade(v float64) (Grade, error) {
	if math.IsNaN(v) || v < BestGrade || v > WorstGrade {
		return Grade{}, fmt.Errorf("grade %v outside %.1f..%.1f", v, BestGrade, WorstGrade)
	}
	tenths := math.Round(v * 10)
	if math.Abs(v*10-tenths) > tenthsTolerance {
		return Grade{}, fmt.Errorf("grade %v has more than one decimal place", v)
	}
	return Grade{tenths: int(tenths)}, nil
}

// Value returns the grade as a float
func (g Grade) Value() float64 {
	return float64(g.tenths) / 10
}

// Passed reports whether the grade is at or better than the threshold
func (g Grade) Passed() bool {
	return g.tenths <= int(PassThreshold*10)
}

// Label returns "pass" or "fail"
func (g Grade) Label() string {
	if g.Passed() {
		return LabelPass
	}
	return LabelFail
}

// German formats the grade with a decimal comma, e.g. "2,3"
func (g Grade) German() string {
	return fmt.Sprintf("%d,%d", g.tenths/10, g.tenths%10)
}

func (g Grade) String() string {
	return fmt.Sprintf("%d.%d", g.tenths/10, g.tenths%10)
}
