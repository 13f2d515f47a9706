package ports

import "context"

// Converter turns a legacy spreadsheet into an .xlsx file and returns the
// path of the converted copy.
type Converter interface {
	ToXLSX(ctx context.Context, path string) (string, error)
}
