package course

import "strings"

// Gender selects one of the two salutation boxes on the certificate
type Gender string

const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "m"
	GenderFemale  Gender = "f"
)

var genderSpellings = map[string]Gender{
	"m":         GenderMale,
	"male":      GenderMale,
	"männlich":  GenderMale,
	"maennlich": GenderMale,
	"herr":      GenderMale,
	"mr":        GenderMale,
	"w":         GenderFemale,
	"f":         GenderFemale,
	"female":    GenderFemale,
	"weiblich":  GenderFemale,
	"frau":      GenderFemale,
	"ms":        GenderFemale,
}

// ParseGender maps the spellings found in LSF exports; anything else is unknown
func ParseGender(s string) Gender {
	key := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
	return genderSpellings[key]
}
