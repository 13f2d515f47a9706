package app

import (
	"fmt"
	"strings"

	"scheintool/domain/course"
	"scheintool/internal"
	"scheintool/internal/errors"
)

// JoinPolicy decides what happens to identifiers found on one side only
type JoinPolicy string

const (
	// JoinStrict fails the merge on any unmatched identifier
	JoinStrict JoinPolicy = "strict"
	// JoinLenient drops unmatched rows and reports them
	JoinLenient JoinPolicy = "lenient"
)

// ParseJoinPolicy parses "strict" or "lenient"; empty means strict
func ParseJoinPolicy(s string) (JoinPolicy, error) {
	switch JoinPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", JoinStrict:
		return JoinStrict, nil
	case JoinLenient:
		return JoinLenient, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown join policy %q", s))
}

// fields taken from the grades table; everything else comes from enrollment
var gradeFields = []course.Field{course.FieldGrade, course.FieldExamDate, course.FieldSupervisor}

// Unmatched lists identifiers that were present on one side of the join only
type Unmatched struct {
	EnrollmentOnly []string // enrolled but no grade
	GradesOnly     []string // graded but not enrolled
}

// Empty reports whether the join was complete
func (u Unmatched) Empty() bool {
	return len(u.EnrollmentOnly) == 0 && len(u.GradesOnly) == 0
}

func (u Unmatched) String() string {
	return fmt.Sprintf("enrollment only: [%s]; grades only: [%s]",
		strings.Join(u.EnrollmentOnly, ", "), strings.Join(u.GradesOnly, ", "))
}

// MergeResult is the output of a merge
type MergeResult struct {
	Rows      []course.MergedRow
	Unmatched Unmatched
}

// MergeOptions configures a Merger
type MergeOptions struct {
	Policy   JoinPolicy
	Location string // run location written to every row
}

// Merger joins enrollment and grades on the identifier
type Merger struct {
	opts   MergeOptions
	logger *internal.Logger
}

// NewMerger creates a merger
func NewMerger(opts MergeOptions, logger *internal.Logger) *Merger {
	if opts.Policy == "" {
		opts.Policy = JoinStrict
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Merger{opts: opts, logger: logger}
}

// Merge is Merger.Merge with the default logger
func Merge(enrollment, grades *course.Table, info course.CourseInfo, opts MergeOptions) (*MergeResult, error) {
	return NewMerger(opts, nil).Merge(enrollment, grades, info)
}

// Merge produces one row per enrollment row whose identifier also appears in
// grades, in enrollment order. Empty fields are filled from info; place,
// type and semester are set on every row.
func (m *Merger) Merge(enrollment, grades *course.Table, info course.CourseInfo) (*MergeResult, error) {
	if !enrollment.HasField(course.FieldMNR) {
		return nil, errors.InvalidInput(fmt.Sprintf("enrollment table %s has no identifier column", enrollment.Source))
	}
	if !grades.HasField(course.FieldMNR) {
		return nil, errors.InvalidInput(fmt.Sprintf("grades table %s has no identifier column", grades.Source))
	}
	if !grades.HasField(course.FieldGrade) {
		return nil, errors.InvalidInput(fmt.Sprintf("grades table %s has no grade column", grades.Source))
	}

	byID := make(map[string]course.Row, len(grades.Rows))
	for _, row := range grades.Rows {
		byID[row.ID()] = row
	}

	result := &MergeResult{}
	enrolled := make(map[string]bool, len(enrollment.Rows))
	joined := make([]map[course.Field]string, 0, len(enrollment.Rows))
	for _, row := range enrollment.Rows {
		id := row.ID()
		enrolled[id] = true
		g, ok := byID[id]
		if !ok {
			result.Unmatched.EnrollmentOnly = append(result.Unmatched.EnrollmentOnly, id)
			continue
		}
		values := make(map[course.Field]string, len(row.Values)+len(gradeFields))
		for f, v := range row.Values {
			values[f] = v
		}
		for _, f := range gradeFields {
			if g.Has(f) {
				values[f] = g.Get(f)
			}
		}
		joined = append(joined, values)
	}
	for _, row := range grades.Rows {
		if !enrolled[row.ID()] {
			result.Unmatched.GradesOnly = append(result.Unmatched.GradesOnly, row.ID())
		}
	}

	if !result.Unmatched.Empty() {
		if m.opts.Policy == JoinStrict {
			return nil, errors.JoinMiss("unmatched identifiers: " + result.Unmatched.String())
		}
		m.logger.Warn("[Merger] Dropping unmatched identifiers (%s)", result.Unmatched)
	}

	result.Rows = make([]course.MergedRow, 0, len(joined))
	for _, values := range joined {
		for _, f := range info.Fields() {
			if strings.TrimSpace(values[f]) == "" {
				values[f] = info.Get(f)
			}
		}
		values[course.FieldLocation] = m.opts.Location
		values[course.FieldLectureType] = info.Get(course.FieldLectureType)
		values[course.FieldSemester] = info.Get(course.FieldSemester)

		merged, err := course.NewMergedRow(values)
		if err != nil {
			return nil, errors.MalformedField(string(course.FieldGrade), values[course.FieldMNR], err.Error())
		}
		result.Rows = append(result.Rows, merged)
	}

	m.logger.Info("[Merger] Merged %d of %d enrolled students (policy %s)",
		len(result.Rows), len(enrollment.Rows), m.opts.Policy)
	return result, nil
}
