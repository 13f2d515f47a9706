package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scheintool/domain/course"
)

func TestCanonicalField(t *testing.T) {
	tests := []struct {
		header string
		want   course.Field
		ok     bool
	}{
		{"Matrikelnummer", course.FieldMNR, true},
		{"  MATR.-NR. ", course.FieldMNR, true},
		{"Note:", course.FieldGrade, true},
		{"Geburtsdatum/-ort", course.FieldBirth, true},
		{"Geburtsdatum", course.FieldDOB, true},
		{"E-Mail", course.FieldEmail, true},
		{"Prüfungsdatum", course.FieldExamDate, true},
		{"first   name", course.FieldFirstName, true},
		{"ECTS", course.FieldECTS, true},
		{"title_en", course.FieldTitleEN, true},
		{"Semesterzahl", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := CanonicalField(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSynonymsAreUnambiguous(t *testing.T) {
	owner := make(map[string]course.Field)
	for field, spellings := range columnSynonyms {
		for _, s := range spellings {
			key := normalizeHeader(s)
			if prev, ok := owner[key]; ok && prev != field {
				t.Errorf("spelling %q maps to both %s and %s", s, prev, field)
			}
			owner[key] = field
		}
	}
}
