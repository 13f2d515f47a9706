package pdf

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"scheintool/domain/course"
	"scheintool/internal/errors"
)

// MillimetresToPoints is the default layout scale: positions are measured
// on the paper form in millimetres, PDF user space is in points.
const MillimetresToPoints = 72.0 / 25.4

// Position is a bottom-left anchored coordinate in layout units
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Layout is the fixed lookup table used to stamp one certificate template.
// Layouts are built once and only read afterwards.
type Layout struct {
	Template     string                          `yaml:"template"` // file name inside the template directory
	Scale        float64                         `yaml:"scale"`    // layout units to points
	Font         string                          `yaml:"font"`
	FontSize     int                             `yaml:"font_size"`
	Marker       string                          `yaml:"marker"` // text placed in ticked boxes
	Fields       map[course.Field]Position       `yaml:"fields"`
	Gender       map[course.Gender]Position      `yaml:"gender"`
	LectureTypes map[course.LectureType]Position `yaml:"lecture_types"`
	Required     []course.Field                  `yaml:"required"`
}

// Point converts a layout position to page coordinates
func (l Layout) Point(p Position) (x, y float64) {
	return p.X * l.Scale, p.Y * l.Scale
}

// OrderedFields returns the stamped fields in a stable order
func (l Layout) OrderedFields() []course.Field {
	fields := make([]course.Field, 0, len(l.Fields))
	for f := range l.Fields {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// Validate checks that the layout can be used for stamping
func (l Layout) Validate() error {
	if l.Template == "" {
		return errors.ConfigInvalid("layout has no template")
	}
	if l.Scale <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("layout %s: scale must be positive", l.Template))
	}
	if l.FontSize <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("layout %s: font size must be positive", l.Template))
	}
	for g := range l.Gender {
		if g != course.GenderMale && g != course.GenderFemale {
			return errors.ConfigInvalid(fmt.Sprintf("layout %s: unknown gender marker %q", l.Template, g))
		}
	}
	for lt := range l.LectureTypes {
		if !lt.Valid() {
			return errors.ConfigInvalid(fmt.Sprintf("layout %s: unknown lecture type marker %d", l.Template, lt))
		}
	}
	return nil
}

func (l Layout) clone() Layout {
	out := l
	out.Fields = make(map[course.Field]Position, len(l.Fields))
	for k, v := range l.Fields {
		out.Fields[k] = v
	}
	out.Gender = make(map[course.Gender]Position, len(l.Gender))
	for k, v := range l.Gender {
		out.Gender[k] = v
	}
	out.LectureTypes = make(map[course.LectureType]Position, len(l.LectureTypes))
	for k, v := range l.LectureTypes {
		out.LectureTypes[k] = v
	}
	out.Required = append([]course.Field(nil), l.Required...)
	return out
}

// both certificate forms share the student and course blocks; they differ in
// template and in where the degree-specific boxes sit
var sharedFields = map[course.Field]Position{
	course.FieldLastName:  {X: 30, Y: 218},
	course.FieldFirstName: {X: 110, Y: 218},
	course.FieldMNR:       {X: 160, Y: 218},
	course.FieldDOB:       {X: 30, Y: 207},
	course.FieldPOB:       {X: 80, Y: 207},
	course.FieldMajor:     {X: 30, Y: 196},
	course.FieldTitleDE:   {X: 30, Y: 160},
	course.FieldTitleEN:   {X: 30, Y: 153},
	course.FieldSemester:  {X: 30, Y: 141},
	course.FieldYear:      {X: 45, Y: 141},
	course.FieldSWS:       {X: 110, Y: 141},
	course.FieldECTS:      {X: 160, Y: 141},
	course.FieldGrade:     {X: 30, Y: 104},
	course.FieldExamDate:  {X: 110, Y: 104},
	course.FieldLecturer:  {X: 110, Y: 52},
	course.FieldLocation:  {X: 30, Y: 52},
	course.FieldDate:      {X: 60, Y: 52},
}

var defaultRequired = []course.Field{
	course.FieldMNR, course.FieldLastName, course.FieldFirstName, course.FieldGrade,
}

// DefaultLayouts returns the built-in layouts for both degree variants
func DefaultLayouts() map[course.Degree]Layout {
	base := Layout{
		Scale:    MillimetresToPoints,
		Font:     "Helvetica",
		FontSize: 11,
		Marker:   "X",
		Fields:   sharedFields,
		Gender: map[course.Gender]Position{
			course.GenderMale:   {X: 30.5, Y: 231},
			course.GenderFemale: {X: 51.5, Y: 231},
		},
		Required: defaultRequired,
	}

	master := base.clone()
	master.Template = "schein_master.pdf"
	master.LectureTypes = map[course.LectureType]Position{
		course.LectureWithExercises: {X: 30.5, Y: 127},
		course.Lecture:              {X: 80.5, Y: 127},
		course.Seminar:              {X: 120.5, Y: 127},
		course.Practical:            {X: 155.5, Y: 127},
	}

	bachelor := base.clone()
	bachelor.Template = "schein_bachelor.pdf"
	bachelor.Fields[course.FieldMajor] = Position{X: 30, Y: 194}
	bachelor.LectureTypes = map[course.LectureType]Position{
		course.LectureWithExercises: {X: 30.5, Y: 124},
		course.Lecture:              {X: 80.5, Y: 124},
		course.Seminar:              {X: 120.5, Y: 124},
		course.Practical:            {X: 155.5, Y: 124},
	}

	return map[course.Degree]Layout{
		course.DegreeMaster:   master,
		course.DegreeBachelor: bachelor,
	}
}

// LoadLayout reads a YAML layout. Missing scale, font and marker fall back
// to the built-in defaults.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.FileNotFound(path)
		}
		return Layout{}, errors.Wrapf(err, "failed to read layout %s", path)
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("parse layout %s: %w", path, err))
	}
	if l.Scale == 0 {
		l.Scale = MillimetresToPoints
	}
	if l.Font == "" {
		l.Font = "Helvetica"
	}
	if l.FontSize == 0 {
		l.FontSize = 11
	}
	if l.Marker == "" {
		l.Marker = "X"
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l.clone(), nil
}

// SaveLayout writes l as YAML, the format LoadLayout reads
func SaveLayout(l Layout, path string) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return errors.Wrap(err, "failed to encode layout")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WriteError("failed to write layout "+path, err)
	}
	return nil
}
