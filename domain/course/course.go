package course

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Degree selects the certificate template variant
type Degree string

const (
	DegreeBachelor Degree = "bachelor"
	DegreeMaster   Degree = "master"
)

// ParseDegree accepts bachelor/master in any case
func ParseDegree(s string) (Degree, error) {
	switch Degree(strings.ToLower(strings.TrimSpace(s))) {
	case DegreeBachelor:
		return DegreeBachelor, nil
	case DegreeMaster:
		return DegreeMaster, nil
	}
	return "", fmt.Errorf("unknown degree %q (want bachelor or master)", s)
}

// LectureType is the course format printed as a ticked box on the certificate
type LectureType int

const (
	LectureWithExercises LectureType = 1
	Lecture              LectureType = 2
	Seminar              LectureType = 3
	Practical            LectureType = 4
)

// LectureTypes lists all formats in form order
var LectureTypes = []LectureType{LectureWithExercises, Lecture, Seminar, Practical}

// ParseLectureType parses the numeric code 1..4
func ParseLectureType(s string) (LectureType, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("lecture type %q is not a number", s)
	}
	lt := LectureType(n)
	if !lt.Valid() {
		return 0, fmt.Errorf("lecture type %d out of range 1..4", n)
	}
	return lt, nil
}

func (t LectureType) Valid() bool { return t >= LectureWithExercises && t <= Practical }

// Label returns the German name used on the form
func (t LectureType) Label() string {
	switch t {
	case LectureWithExercises:
		return "Vorlesung mit Übungen"
	case Lecture:
		return "Vorlesung"
	case Seminar:
		return "Seminar"
	case Practical:
		return "Praktikum"
	}
	return ""
}

func (t LectureType) String() string { return strconv.Itoa(int(t)) }

// Semester is the summer (SS) or winter (WS) term
type Semester string

const (
	SummerTerm Semester = "SS"
	WinterTerm Semester = "WS"
)

// ParseSemester accepts SS/WS in any case
func ParseSemester(s string) (Semester, error) {
	switch Semester(strings.ToUpper(strings.TrimSpace(s))) {
	case SummerTerm:
		return SummerTerm, nil
	case WinterTerm:
		return WinterTerm, nil
	}
	return "", fmt.Errorf("unknown semester %q (want SS or WS)", s)
}

// CourseInfo is the run-level metadata applied to every output row that
// lacks a value of its own.
type CourseInfo struct {
	values map[Field]string
	Degree Degree
}

// NewCourseInfo creates an empty CourseInfo for the given degree
func NewCourseInfo(degree Degree) CourseInfo {
	return CourseInfo{values: make(map[Field]string), Degree: degree}
}

// DefaultCourseInfo returns the values the entry form starts with: the term
// switches to WS from October on, ECTS 6, SWS 4 and today's date.
func DefaultCourseInfo(now time.Time) CourseInfo {
	info := NewCourseInfo(DegreeMaster)
	semester := SummerTerm
	if now.Month() >= time.October {
		semester = WinterTerm
	}
	info.Set(FieldSemester, string(semester))
	info.Set(FieldYear, strconv.Itoa(now.Year()))
	info.Set(FieldTitleEN, "")
	info.Set(FieldTitleDE, "")
	info.Set(FieldLecturer, "")
	info.Set(FieldECTS, "6")
	info.Set(FieldSWS, "4")
	info.Set(FieldDate, fmt.Sprintf("%d.%d.%d", now.Day(), int(now.Month()), now.Year()))
	info.Set(FieldLectureType, LectureWithExercises.String())
	return info
}

// Set stores a value; blank values are kept so the field still round-trips
// through course files, but they do not count as defined.
func (c *CourseInfo) Set(f Field, v string) {
	if c.values == nil {
		c.values = make(map[Field]string)
	}
	c.values[f] = strings.TrimSpace(v)
}

// Get returns the value for f or ""
func (c CourseInfo) Get(f Field) string {
	return c.values[f]
}

// Defines reports whether CourseInfo supplies a non-blank value for f
func (c CourseInfo) Defines(f Field) bool {
	return c.values[f] != ""
}

// Fields lists the fields that have an entry, in CourseFields order
func (c CourseInfo) Fields() []Field {
	var out []Field
	for _, f := range CourseFields {
		if _, ok := c.values[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// LectureType returns the parsed course format
func (c CourseInfo) LectureType() (LectureType, error) {
	return ParseLectureType(c.values[FieldLectureType])
}

// Semester returns the parsed term
func (c CourseInfo) Semester() (Semester, error) {
	return ParseSemester(c.values[FieldSemester])
}

// Clone returns an independent copy
func (c CourseInfo) Clone() CourseInfo {
	out := NewCourseInfo(c.Degree)
	for k, v := range c.values {
		out.values[k] = v
	}
	return out
}

// Validate checks the fields the renderers rely on
func (c CourseInfo) Validate() error {
	if _, err := ParseDegree(string(c.Degree)); err != nil {
		return err
	}
	if _, err := c.LectureType(); err != nil {
		return err
	}
	if _, err := c.Semester(); err != nil {
		return err
	}
	if y := c.values[FieldYear]; y != "" {
		if _, err := strconv.Atoi(y); err != nil {
			return fmt.Errorf("year %q is not a number", y)
		}
	}
	for _, f := range []Field{FieldECTS, FieldSWS} {
		if v := c.values[f]; v != "" {
			if _, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64); err != nil {
				return fmt.Errorf("%s %q is not a number", f, v)
			}
		}
	}
	return nil
}
