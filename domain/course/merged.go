package course

// MergedRow is one enrollment row joined with its grades row, with empty
// fields filled from CourseInfo. It is read-only once built.
type MergedRow struct {
	values map[Field]string
	grade  Grade
}

// NewMergedRow copies values and parses the grade field
func NewMergedRow(values map[Field]string) (MergedRow, error) {
	g, err := ParseGrade(values[FieldGrade])
	if err != nil {
		return MergedRow{}, err
	}
	cp := make(map[Field]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return MergedRow{values: cp, grade: g}, nil
}

// Get returns the value of f or ""
func (m MergedRow) Get(f Field) string {
	return m.values[f]
}

// ID returns the identifier
func (m MergedRow) ID() string {
	return m.values[FieldMNR]
}

// Grade returns the parsed grade
func (m MergedRow) Grade() Grade {
	return m.grade
}

// Gender returns the parsed gender, GenderUnknown if unset or unrecognized
func (m MergedRow) Gender() Gender {
	return ParseGender(m.values[FieldGender])
}

// LectureType returns the row's course format, 0 if unset
func (m MergedRow) LectureType() LectureType {
	lt, err := ParseLectureType(m.values[FieldLectureType])
	if err != nil {
		return 0
	}
	return lt
}
