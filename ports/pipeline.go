package ports

import (
	"context"

	"scheintool/domain/course"
)

// TableReader loads a delimited or spreadsheet file into a canonical table
type TableReader interface {
	Read(ctx context.Context, path string) (*course.Table, error)
}

// DocumentFiller renders one certificate page per row into a single PDF at
// path and returns the number of pages written.
type DocumentFiller interface {
	FillFile(ctx context.Context, rows []course.MergedRow, degree course.Degree, path string) (int, error)
}

// TableWriter writes the grade summary workbook to path
type TableWriter interface {
	WriteFile(ctx context.Context, rows []course.MergedRow, info course.CourseInfo, path string) error
}
