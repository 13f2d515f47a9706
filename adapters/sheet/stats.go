package sheet

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"scheintool/domain/course"
)

// Statistics summarizes the grades of one run
type Statistics struct {
	Count  int
	Passed int
	Mean   float64
	Median float64
	StdDev float64 // sample standard deviation, 0 for fewer than two grades
}

// ComputeStatistics summarizes rows. Averages are rounded to two places.
func ComputeStatistics(rows []course.MergedRow) Statistics {
	s := Statistics{Count: len(rows)}
	if len(rows) == 0 {
		return s
	}

	grades := make(stats.Float64Data, len(rows))
	for i, r := range rows {
		grades[i] = r.Grade().Value()
		if r.Grade().Passed() {
			s.Passed++
		}
	}

	mean, _ := grades.Mean()
	median, _ := grades.Median()
	s.Mean = round2(mean)
	s.Median = round2(median)
	if len(grades) > 1 {
		s.StdDev = round2(stat.StdDev(grades, nil))
	}
	return s
}

func round2(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil {
		return v
	}
	return r
}
