package courseinfo

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"scheintool/domain/course"
	"scheintool/internal/errors"
)

// Keys that are not course fields
const (
	keyLectureType = "type"
	keyDegree      = "mb" // master/bachelor
)

// Format is a course file encoding
type Format string

const (
	FormatCSV  Format = "csv" // two columns, name and value
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the format by extension
func FormatForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.UnsupportedFormat(path, ext)
}

// entry is one name/value line of a course file
type entry struct {
	name  string
	value string
}

// entries lists info in file order: the form fields, then type and degree
func entries(info course.CourseInfo) []entry {
	var out []entry
	for _, f := range info.Fields() {
		if f == course.FieldLectureType {
			continue
		}
		out = append(out, entry{string(f), info.Get(f)})
	}
	out = append(out,
		entry{keyLectureType, info.Get(course.FieldLectureType)},
		entry{keyDegree, string(info.Degree)},
	)
	return out
}

// apply sets every entry on a copy of base. Unknown names are an error.
func apply(base course.CourseInfo, list []entry) (course.CourseInfo, error) {
	info := base.Clone()
	for _, e := range list {
		switch e.name {
		case keyDegree:
			d, err := course.ParseDegree(e.value)
			if err != nil {
				return info, errors.InvalidInput(err.Error())
			}
			info.Degree = d
		case keyLectureType:
			lt, err := course.ParseLectureType(e.value)
			if err != nil {
				return info, errors.InvalidInput(err.Error())
			}
			info.Set(course.FieldLectureType, lt.String())
		default:
			f, err := course.ParseField(e.name)
			if err != nil || !course.IsCourseField(f) {
				return info, errors.InvalidInput(fmt.Sprintf("unknown entry: %s", e.name))
			}
			info.Set(f, e.value)
		}
	}
	if err := info.Validate(); err != nil {
		return info, errors.InvalidInput(err.Error())
	}
	return info, nil
}

// Load reads a course file and applies it on top of base
func Load(path string, base course.CourseInfo) (course.CourseInfo, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return base, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, errors.FileNotFound(path)
		}
		return base, errors.Wrapf(err, "failed to read course file %s", path)
	}

	var list []entry
	switch format {
	case FormatCSV:
		list, err = decodeCSV(data)
	case FormatYAML:
		var m map[string]interface{}
		err = yaml.Unmarshal(data, &m)
		list = fromMap(m)
	case FormatTOML:
		var m map[string]interface{}
		err = toml.Unmarshal(data, &m)
		list = fromMap(m)
	}
	if err != nil {
		return base, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("parse course file %s: %w", path, err))
	}
	return apply(base, list)
}

// Save writes info in the format chosen by the extension of path
func Save(info course.CourseInfo, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	list := entries(info)
	var data []byte
	switch format {
	case FormatCSV:
		data, err = encodeCSV(list)
	case FormatYAML:
		data, err = yaml.Marshal(toMap(list))
	case FormatTOML:
		data, err = toml.Marshal(toMap(list))
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode course file")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WriteError("failed to write course file "+path, err)
	}
	return nil
}

func decodeCSV(data []byte) ([]entry, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	list := make([]entry, 0, len(records))
	for i, rec := range records {
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: want name,value", i+1)
		}
		list = append(list, entry{strings.TrimSpace(rec[0]), rec[1]})
	}
	return list, nil
}

func encodeCSV(list []entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, e := range list {
		if err := w.Write([]string{e.name, e.value}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// fromMap converts a decoded document; scalars such as ECTS: 6 become strings
func fromMap(m map[string]interface{}) []entry {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	list := make([]entry, 0, len(m))
	for _, k := range names {
		v := ""
		if m[k] != nil {
			v = fmt.Sprint(m[k])
		}
		list = append(list, entry{k, v})
	}
	return list
}

func toMap(list []entry) map[string]string {
	m := make(map[string]string, len(list))
	for _, e := range list {
		m[e.name] = e.value
	}
	return m
}
