package tabular

import (
	"strings"

	"scheintool/domain/course"
)

// columnSynonyms maps the header spellings seen in LSF enrollment exports and
// lecturers' grade sheets to canonical fields. Matching is case-insensitive
// on the normalized header.
var columnSynonyms = map[course.Field][]string{
	course.FieldMNR: {
		"mnr", "matrikelnummer", "matrikelnr", "matrikel-nr", "matr.-nr", "matr.nr", "matrnr",
		"matrikel", "registration number", "student id", "student number", "identifier", "id",
	},
	course.FieldLastName: {
		"nachname", "name", "familienname", "lastname", "last name", "surname", "family name",
	},
	course.FieldFirstName: {
		"vorname", "vornamen", "firstname", "first name", "given name", "given names",
	},
	course.FieldAddress: {
		"adresse", "anschrift", "wohnort", "address", "postanschrift", "heimatanschrift",
	},
	course.FieldBirth: {
		"geburtsdatum/-ort", "geburtsdatum/ort", "geburtsdatum und -ort", "geburtsdatum und ort",
		"geburtsangaben", "geburt", "birth", "birth info", "date and place of birth",
	},
	course.FieldDOB: {
		"geburtsdatum", "geb.-datum", "dob", "date of birth", "birth date", "birthday",
	},
	course.FieldPOB: {
		"geburtsort", "pob", "place of birth", "birthplace", "birth place",
	},
	course.FieldMajor: {
		"studiengang", "studienfach", "fach", "abschluss/studiengang", "major", "program", "programme", "degree program",
	},
	course.FieldGrade: {
		"note", "endnote", "gesamtnote", "bewertung", "grade", "final grade", "mark",
	},
	course.FieldExamDate: {
		"prüfungsdatum", "pruefungsdatum", "datum der prüfung", "examdate", "exam date", "date of exam",
	},
	course.FieldGender: {
		"geschlecht", "anrede", "gender", "sex", "salutation",
	},
	course.FieldEmail: {
		"email", "e-mail", "mail", "e-mail-adresse", "email address", "e-mail address",
	},
	course.FieldSupervisor: {
		"beisitzer", "beisitzerin", "supervisor", "assessor", "second examiner",
	},
}

var synonymIndex = func() map[string]course.Field {
	idx := make(map[string]course.Field)
	for field, spellings := range columnSynonyms {
		for _, s := range spellings {
			idx[normalizeHeader(s)] = field
		}
	}
	return idx
}()

// normalizeHeader lowercases, collapses whitespace and drops trailing
// punctuation that exports like to append ("Note:", "Matr.-Nr.").
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.Join(strings.Fields(h), " "))
	return strings.TrimRight(h, ":*. ")
}

// CanonicalField resolves a source header to a canonical field
func CanonicalField(header string) (course.Field, bool) {
	key := normalizeHeader(header)
	if key == "" {
		return "", false
	}
	if f, ok := synonymIndex[key]; ok {
		return f, true
	}
	if f, err := course.ParseField(key); err == nil {
		return f, true
	}
	return "", false
}
