package app

import (
	"fmt"
	"strings"

	"scheintool/domain/course"
	"scheintool/internal"
	"scheintool/internal/errors"
)

// FieldSplitter splits the combined birth field of an enrollment export
type FieldSplitter struct {
	marker string
	logger *internal.Logger
}

// NewFieldSplitter creates a splitter for the given language marker, e.g. " in "
func NewFieldSplitter(marker string, logger *internal.Logger) *FieldSplitter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &FieldSplitter{marker: marker, logger: logger}
}

// SplitBirth is FieldSplitter.Split with the default logger
func SplitBirth(table *course.Table, marker string) (*course.Table, error) {
	return NewFieldSplitter(marker, nil).Split(table)
}

// Split returns a copy of table where the birth column is replaced by dob
// and pob at the same position. Tables without a birth column are returned
// unchanged. The input table is not modified.
func (s *FieldSplitter) Split(table *course.Table) (*course.Table, error) {
	idx := table.ColumnIndex(course.FieldBirth)
	if idx < 0 {
		return table, nil
	}
	if s.marker == "" {
		return nil, errors.InvalidInput("birth marker must not be empty")
	}

	out := &course.Table{Source: table.Source}
	out.Columns = append(out.Columns, table.Columns[:idx]...)
	for _, f := range []course.Field{course.FieldDOB, course.FieldPOB} {
		// a source that carries both forms keeps its explicit columns
		if !table.HasField(f) {
			out.Columns = append(out.Columns, course.Column{Field: f, Header: string(f)})
		}
	}
	out.Columns = append(out.Columns, table.Columns[idx+1:]...)

	out.Rows = make([]course.Row, 0, len(table.Rows))
	for _, row := range table.Rows {
		split := course.NewRow()
		for f, v := range row.Values {
			if f != course.FieldBirth {
				split.Set(f, v)
			}
		}
		for k, v := range row.Extra {
			split.Extra[k] = v
		}

		birth := strings.TrimSpace(row.Get(course.FieldBirth))
		if birth == "" {
			s.logger.Warn("[FieldSplitter] Row %s has no birth information", row.ID())
			out.Rows = append(out.Rows, split)
			continue
		}
		dob, pob, ok := strings.Cut(birth, s.marker)
		if !ok {
			return nil, errors.MalformedField(string(course.FieldBirth), row.ID(),
				fmt.Sprintf("marker %q not found in %q", s.marker, birth))
		}
		if !split.Has(course.FieldDOB) {
			split.Set(course.FieldDOB, strings.TrimSpace(dob))
		}
		if !split.Has(course.FieldPOB) {
			split.Set(course.FieldPOB, strings.TrimSpace(pob))
		}
		out.Rows = append(out.Rows, split)
	}

	s.logger.Debug("[FieldSplitter] Split birth field of %d rows", len(out.Rows))
	return out, nil
}

// JoinBirth is the inverse of the split for parts without surrounding spaces
func JoinBirth(dob, pob, marker string) string {
	return dob + marker + pob
}
