package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"scheintool/domain/course"
	"scheintool/internal"
	"scheintool/internal/errors"
	"scheintool/ports"
)

// FileKind is the declared type of a source file
type FileKind string

const (
	KindAuto FileKind = "auto" // decide by extension
	KindCSV  FileKind = "csv"
	KindXLSX FileKind = "xlsx"
	KindXLS  FileKind = "xls" // legacy binary workbook, converted before reading
)

// DataReader handles reading one Excel or CSV file into a canonical table
type DataReader struct {
	filePath  string
	fileKind  FileKind
	converter ports.Converter
	logger    *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, kind FileKind) *DataReader {
	if kind == "" {
		kind = KindAuto
	}
	return &DataReader{filePath: filePath, fileKind: kind, logger: internal.DefaultLogger}
}

// WithConverter enables reading legacy .xls files
func (r *DataReader) WithConverter(c ports.Converter) *DataReader {
	r.converter = c
	return r
}

// WithLogger replaces the default logger
func (r *DataReader) WithLogger(l *internal.Logger) *DataReader {
	if l != nil {
		r.logger = l
	}
	return r
}

// KindForPath maps a file extension to a FileKind
func KindForPath(path string) (FileKind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".tsv", ".txt":
		return KindCSV, nil
	case ".xlsx", ".xlsm":
		return KindXLSX, nil
	case ".xls":
		return KindXLS, nil
	}
	return "", errors.UnsupportedFormat(path, ext)
}

// ReadTable reads the file and renames its columns to canonical fields
func (r *DataReader) ReadTable(ctx context.Context) (*course.Table, error) {
	kind := r.fileKind
	if kind == KindAuto {
		k, err := KindForPath(r.filePath)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	r.logger.Debug("[DataReader] Starting to read %s file: %s", kind, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.FileNotFound(r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	switch kind {
	case KindCSV:
		rows, err = r.readCSVRows()
	case KindXLSX:
		rows, err = r.readExcelRows(r.filePath)
	case KindXLS:
		rows, err = r.readLegacyExcelRows(ctx)
	default:
		return nil, errors.UnsupportedFormat(r.filePath, string(kind))
	}
	if err != nil {
		return nil, err
	}

	table, err := r.processRows(rows)
	if err != nil {
		return nil, err
	}
	table.Source = r.filePath
	return table, nil
}

// readExcelRows reads the first sheet of a workbook
func (r *DataReader) readExcelRows(path string) ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open Excel file %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("workbook has no sheets: %s", path))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", sheets[0])
	}
	r.logger.Debug("[DataReader] Sheet %q read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

func (r *DataReader) readLegacyExcelRows(ctx context.Context) ([][]string, error) {
	if r.converter == nil {
		return nil, errors.New(errors.CodeUnsupportedFormat,
			fmt.Sprintf("legacy .xls needs LibreOffice for conversion, none configured: %s", r.filePath))
	}
	converted, err := r.converter.ToXLSX(ctx, r.filePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeUnsupportedFormat, err)
	}
	r.logger.Info("[DataReader] Converted %s to %s", r.filePath, converted)
	return r.readExcelRows(converted)
}

// readCSVRows reads delimited text. LSF exports come as UTF-8 with BOM or as
// Windows-1252, separated by semicolons; both are handled here.
func (r *DataReader) readCSVRows() ([][]string, error) {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open CSV file %s", r.filePath)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode CSV file %s", r.filePath)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV file %s: %w", r.filePath, err))
	}
	r.logger.Debug("[DataReader] CSV file read (%d rows, delimiter %q)", len(rows), reader.Comma)
	return rows, nil
}

// sniffDelimiter picks the most frequent of ; , and tab in the first line
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', 0
	for _, d := range []rune{';', ',', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

var floatID = regexp.MustCompile(`^(\d+)\.0+$`)

// normalizeID undoes numeric formatting that spreadsheets apply to
// identifiers, e.g. "12345678.0".
func normalizeID(s string) string {
	s = strings.TrimSpace(s)
	if m := floatID.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// processRows converts raw string rows into a canonical table. The first
// non-blank row is the header.
func (r *DataReader) processRows(rows [][]string) (*course.Table, error) {
	start := 0
	for start < len(rows) && isBlank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, errors.InvalidInput(fmt.Sprintf("no header row found in %s", r.filePath))
	}

	headerRow := rows[start]
	table := &course.Table{Columns: make([]course.Column, len(headerRow))}
	seen := make(map[course.Field]bool)
	for i, header := range headerRow {
		header = strings.TrimSpace(header)
		col := course.Column{Header: header}
		if field, ok := CanonicalField(header); ok {
			if seen[field] {
				r.logger.Warn("[DataReader] Column %q maps to %s a second time, keeping it as pass-through", header, field)
			} else {
				col.Field = field
				seen[field] = true
			}
		} else if header != "" {
			r.logger.Debug("[DataReader] Column %q has no canonical field, passing through", header)
		}
		table.Columns[i] = col
	}

	for i := start + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		rec := course.NewRow()
		for j, cell := range row {
			if j >= len(table.Columns) {
				break
			}
			col := table.Columns[j]
			cell = strings.TrimSpace(cell)
			switch {
			case col.Canonical():
				if col.Field == course.FieldMNR {
					cell = normalizeID(cell)
				}
				rec.Set(col.Field, cell)
			case col.Header != "":
				rec.Extra[col.Header] = cell
			}
		}
		table.Rows = append(table.Rows, rec)
	}

	if err := validateIdentifiers(table, start+1); err != nil {
		return nil, err
	}

	r.logger.Info("[DataReader] %s processed (%d columns, %d rows)",
		filepath.Base(r.filePath), len(table.Columns), len(table.Rows))
	return table, nil
}

// validateIdentifiers enforces that identifiers, when present, are non-empty
// and unique within the table.
func validateIdentifiers(table *course.Table, headerLine int) error {
	if !table.HasField(course.FieldMNR) {
		return nil
	}
	seen := make(map[string]int, len(table.Rows))
	for i, row := range table.Rows {
		id := row.ID()
		if id == "" {
			return errors.InvalidInput(fmt.Sprintf("row %d after the header (line %d) has no identifier", i+1, headerLine))
		}
		if prev, ok := seen[id]; ok {
			return errors.InvalidInput(fmt.Sprintf("identifier %s appears in rows %d and %d", id, prev+1, i+1))
		}
		seen[id] = i
	}
	return nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Reader is the ports.TableReader used by the pipeline
type Reader struct {
	converter ports.Converter
	logger    *internal.Logger
}

// NewReader creates a table reader; converter may be nil
func NewReader(converter ports.Converter, logger *internal.Logger) *Reader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Reader{converter: converter, logger: logger}
}

// Read loads path, choosing the format by extension
func (r *Reader) Read(ctx context.Context, path string) (*course.Table, error) {
	return NewDataReader(path, KindAuto).
		WithConverter(r.converter).
		WithLogger(r.logger).
		ReadTable(ctx)
}
