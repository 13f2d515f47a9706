package course

import (
	"fmt"
	"strings"
)

// Field is a canonical column name. Every value that flows through the
// pipeline is addressed by one of these.
type Field string

// Row fields, supplied by the enrollment and grades exports
const (
	FieldMNR       Field = "mnr" // identifier (Matrikelnummer)
	FieldLastName  Field = "lastname"
	FieldFirstName Field = "firstname"
	FieldAddress   Field = "address"
	FieldBirth     Field = "birth" // combined "date in place", split into dob/pob
	FieldDOB       Field = "dob"
	FieldPOB       Field = "pob"
	FieldMajor     Field = "major"
	FieldGrade     Field = "grade"
	FieldExamDate  Field = "examdate"
	FieldGender    Field = "gender"
	FieldEmail     Field = "email"
)

// Course fields, supplied once per run
const (
	FieldTitleEN     Field = "title_en"
	FieldTitleDE     Field = "title_de"
	FieldLecturer    Field = "lecturer"
	FieldECTS        Field = "ECTS"
	FieldSWS         Field = "SWS"
	FieldDate        Field = "date" // certificate date
	FieldSemester    Field = "semester"
	FieldYear        Field = "year"
	FieldLectureType Field = "type"
	FieldSupervisor  Field = "beisitzer"
	FieldLocation    Field = "place" // run location, constant per run
)

// RowFields lists the per-student fields in certificate order
var RowFields = []Field{
	FieldMNR, FieldLastName, FieldFirstName, FieldAddress, FieldDOB, FieldPOB,
	FieldMajor, FieldGrade, FieldExamDate, FieldGender, FieldEmail,
}

// CourseFields lists the fields a CourseInfo may define
var CourseFields = []Field{
	FieldSemester, FieldYear, FieldTitleEN, FieldTitleDE, FieldLecturer,
	FieldECTS, FieldSWS, FieldDate, FieldExamDate, FieldLectureType, FieldSupervisor,
}

var knownFields = func() map[string]Field {
	m := make(map[string]Field)
	for _, f := range RowFields {
		m[strings.ToLower(string(f))] = f
	}
	for _, f := range CourseFields {
		m[strings.ToLower(string(f))] = f
	}
	m[string(FieldBirth)] = FieldBirth
	m[string(FieldLocation)] = FieldLocation
	return m
}()

// ParseField resolves a canonical field name, ignoring case
func ParseField(s string) (Field, error) {
	if f, ok := knownFields[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown field: %q", s)
}

// IsCourseField reports whether f can be supplied by CourseInfo
func IsCourseField(f Field) bool {
	for _, c := range CourseFields {
		if c == f {
			return true
		}
	}
	return false
}

func (f Field) String() string { return string(f) }
