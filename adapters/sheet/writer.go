package sheet

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"scheintool/domain/course"
	"scheintool/internal"
	"scheintool/internal/errors"
)

// SheetName is the name of the only sheet in the grade table
const SheetName = "Scheine"

var baseColumns = []string{"MNR", "Nachname", "Vorname", "Studiengang", "Note", "Ergebnis"}

// Writer emits the grade summary workbook
type Writer struct {
	now    func() time.Time
	logger *internal.Logger
}

// NewWriter creates a writer stamping workbooks with the current time
func NewWriter(logger *internal.Logger) *Writer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Writer{now: time.Now, logger: logger}
}

// WithClock replaces the clock used for the workbook's created timestamp
func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// Write renders the workbook to out
func (w *Writer) Write(ctx context.Context, rows []course.MergedRow, info course.CourseInfo, out io.Writer) error {
	f, err := w.build(ctx, rows, info)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return errors.WriteError("failed to write grade table", err)
	}
	return nil
}

// WriteFile renders the workbook to path
func (w *Writer) WriteFile(ctx context.Context, rows []course.MergedRow, info course.CourseInfo, path string) error {
	f, err := w.build(ctx, rows, info)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return errors.WriteError("failed to save grade table "+path, err)
	}
	w.logger.Info("[Writer] Grade table with %d rows written to %s", len(rows), path)
	return nil
}

// layout of the sheet: header block, blank line, column headers, rows,
// blank line, statistics
func (w *Writer) build(ctx context.Context, rows []course.MergedRow, info course.CourseInfo) (*excelize.File, error) {
	f := excelize.NewFile()
	fail := func(msg string, err error) (*excelize.File, error) {
		_ = f.Close()
		return nil, errors.WriteError(msg, err)
	}

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fail("failed to name sheet", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fail("failed to create header style", err)
	}
	gradeFormat := "0.0"
	gradeStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &gradeFormat})
	if err != nil {
		return fail("failed to create grade style", err)
	}

	line := 1
	put := func(values ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		line++
		return f.SetSheetRow(SheetName, cell, &values)
	}
	// bold label in column A of the row just written
	boldLabel := func() error {
		cell, _ := excelize.CoordinatesToCellName(1, line-1)
		return f.SetCellStyle(SheetName, cell, cell, bold)
	}

	for _, h := range headerBlock(info) {
		if err := put(h.label, h.value); err != nil {
			return fail("failed to write header block", err)
		}
		if err := boldLabel(); err != nil {
			return fail("failed to style header block", err)
		}
	}
	line++

	columns := append([]string(nil), baseColumns...)
	withExamDate := !info.Defines(course.FieldExamDate)
	withSupervisor := !info.Defines(course.FieldSupervisor)
	if withExamDate {
		columns = append(columns, "Prüfungsdatum")
	}
	if withSupervisor {
		columns = append(columns, "Beisitzer")
	}
	headerRow := line
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := put(header...); err != nil {
		return fail("failed to write column headers", err)
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(columns), headerRow)
	if err := f.SetCellStyle(SheetName, first, last, bold); err != nil {
		return fail("failed to style column headers", err)
	}

	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			_ = f.Close()
			return nil, err
		}
		values := []interface{}{
			r.ID(),
			r.Get(course.FieldLastName),
			r.Get(course.FieldFirstName),
			r.Get(course.FieldMajor),
			r.Grade().Value(),
			r.Grade().Label(),
		}
		if withExamDate {
			values = append(values, r.Get(course.FieldExamDate))
		}
		if withSupervisor {
			values = append(values, r.Get(course.FieldSupervisor))
		}
		if err := put(values...); err != nil {
			return fail("failed to write row "+r.ID(), err)
		}
		cell, _ := excelize.CoordinatesToCellName(5, line-1)
		if err := f.SetCellStyle(SheetName, cell, cell, gradeStyle); err != nil {
			return fail("failed to style grade of row "+r.ID(), err)
		}
	}

	if len(rows) > 0 {
		line++
		s := ComputeStatistics(rows)
		for _, h := range []struct {
			label string
			value interface{}
		}{
			{"Anzahl", s.Count},
			{"Bestanden", s.Passed},
			{"Mittelwert", s.Mean},
			{"Median", s.Median},
			{"Standardabweichung", s.StdDev},
		} {
			if err := put(h.label, h.value); err != nil {
				return fail("failed to write statistics", err)
			}
			if err := boldLabel(); err != nil {
				return fail("failed to style statistics", err)
			}
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	if err := f.SetColWidth(SheetName, "A", lastCol, 16); err != nil {
		return fail("failed to set column widths", err)
	}
	created := w.now().UTC().Format(time.RFC3339)
	if err := f.SetDocProps(&excelize.DocProperties{
		Created:  created,
		Modified: created,
		Creator:  "scheintool",
		Title:    info.Get(course.FieldTitleDE),
	}); err != nil {
		return fail("failed to set document properties", err)
	}
	return f, nil
}

type headerEntry struct {
	label string
	value string
}

// headerBlock lists the course fields shown above the table. Exam date and
// supervisor only appear here when they are shared by the whole course.
func headerBlock(info course.CourseInfo) []headerEntry {
	lectureType := info.Get(course.FieldLectureType)
	if lt, err := info.LectureType(); err == nil {
		lectureType = lt.Label()
	}
	entries := []headerEntry{
		{"Lehrveranstaltung", info.Get(course.FieldTitleDE)},
		{"Course", info.Get(course.FieldTitleEN)},
		{"Dozent/in", info.Get(course.FieldLecturer)},
		{"Semester", fmt.Sprintf("%s %s", info.Get(course.FieldSemester), info.Get(course.FieldYear))},
		{"Art", lectureType},
		{"Abschluss", string(info.Degree)},
		{"ECTS", info.Get(course.FieldECTS)},
		{"SWS", info.Get(course.FieldSWS)},
		{"Datum", info.Get(course.FieldDate)},
	}
	if info.Defines(course.FieldExamDate) {
		entries = append(entries, headerEntry{"Prüfungsdatum", info.Get(course.FieldExamDate)})
	}
	if info.Defines(course.FieldSupervisor) {
		entries = append(entries, headerEntry{"Beisitzer", info.Get(course.FieldSupervisor)})
	}
	return entries
}
