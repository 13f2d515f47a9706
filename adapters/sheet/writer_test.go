package sheet

import (
	"bytes"
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"scheintool/domain/course"
	"scheintool/internal"
	"scheintool/internal/errors"
)

var fixedNow = time.Date(2024, time.July, 15, 9, 30, 0, 0, time.UTC)

func testInfo() course.CourseInfo {
	info := course.DefaultCourseInfo(fixedNow)
	info.Set(course.FieldTitleDE, "Theoretische Astrophysik")
	info.Set(course.FieldTitleEN, "Theoretical Astrophysics")
	info.Set(course.FieldLecturer, "Prof. Dr. Beispiel")
	return info
}

func row(t *testing.T, id, last, grade, examDate string) course.MergedRow {
	t.Helper()
	r, err := course.NewMergedRow(map[course.Field]string{
		course.FieldMNR:       id,
		course.FieldLastName:  last,
		course.FieldFirstName: "Vorname " + id,
		course.FieldMajor:     "Physik",
		course.FieldGrade:     grade,
		course.FieldExamDate:  examDate,
	})
	require.NoError(t, err)
	return r
}

func newTestWriter() *Writer {
	return NewWriter(internal.NewNopLogger()).WithClock(func() time.Time { return fixedNow })
}

func readBack(t *testing.T, data []byte) (*excelize.File, [][]string) {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	rows, err := f.GetRows(SheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return f, rows
}

// findRow returns the index of the first row whose first cell is label
func findRow(rows [][]string, label string) int {
	for i, r := range rows {
		if len(r) > 0 && r[0] == label {
			return i
		}
	}
	return -1
}

// pad extends r with empty cells, GetRows drops trailing blanks
func pad(r []string, n int) []string {
	for len(r) < n {
		r = append(r, "")
	}
	return r
}

func TestWriteRowsWithLabels(t *testing.T) {
	rows := []course.MergedRow{
		row(t, "11", "Adler", "2.3", "12.02.2024"),
		row(t, "22", "Berg", "4,0", "12.02.2024"),
		row(t, "33", "Claus", "5.0", "13.02.2024"),
	}

	var buf bytes.Buffer
	require.NoError(t, newTestWriter().Write(context.Background(), rows, testInfo(), &buf))
	f, got := readBack(t, buf.Bytes())

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	h := findRow(got, "MNR")
	require.GreaterOrEqual(t, h, 0)
	want := [][]string{
		{"MNR", "Nachname", "Vorname", "Studiengang", "Note", "Ergebnis", "Prüfungsdatum", "Beisitzer"},
		{"11", "Adler", "Vorname 11", "Physik", "2.3", "pass", "12.02.2024", ""},
		{"22", "Berg", "Vorname 22", "Physik", "4", "pass", "12.02.2024", ""},
		{"33", "Claus", "Vorname 33", "Physik", "5", "fail", "13.02.2024", ""},
	}
	table := make([][]string, 0, 4)
	for _, r := range got[h : h+4] {
		table = append(table, pad(r, 8))
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"Lehrveranstaltung", "Theoretische Astrophysik"}, got[0])
	s := findRow(got, "Bestanden")
	require.Greater(t, s, h)
	assert.Equal(t, "2", got[s][1])
}

func TestWriteSharedExamDateMovesToHeader(t *testing.T) {
	info := testInfo()
	info.Set(course.FieldExamDate, "12.02.2024")
	info.Set(course.FieldSupervisor, "Dr. Zweit")

	var buf bytes.Buffer
	require.NoError(t, newTestWriter().Write(context.Background(), []course.MergedRow{row(t, "1", "A", "1.0", "")}, info, &buf))
	_, got := readBack(t, buf.Bytes())

	h := findRow(got, "MNR")
	require.GreaterOrEqual(t, h, 0)
	assert.Equal(t, baseColumns, got[h])

	e := findRow(got, "Prüfungsdatum")
	require.GreaterOrEqual(t, e, 0)
	assert.Less(t, e, h)
	assert.Equal(t, "12.02.2024", got[e][1])
	assert.Equal(t, "Dr. Zweit", got[findRow(got, "Beisitzer")][1])
}

func TestWriteZeroRowsIsHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestWriter().Write(context.Background(), nil, testInfo(), &buf))
	_, got := readBack(t, buf.Bytes())

	h := findRow(got, "MNR")
	require.GreaterOrEqual(t, h, 0)
	assert.Equal(t, len(got)-1, h, "column headers must be the last row")
	assert.Equal(t, -1, findRow(got, "Anzahl"))
}

func TestWriteIsDeterministic(t *testing.T) {
	rows := []course.MergedRow{row(t, "1", "A", "1.3", "x"), row(t, "2", "B", "2.7", "y")}

	var first, second bytes.Buffer
	require.NoError(t, newTestWriter().Write(context.Background(), rows, testInfo(), &first))
	require.NoError(t, newTestWriter().Write(context.Background(), rows, testInfo(), &second))

	f1, rows1 := readBack(t, first.Bytes())
	f2, rows2 := readBack(t, second.Bytes())
	if diff := cmp.Diff(rows1, rows2); diff != "" {
		t.Errorf("re-run changed content (-first +second):\n%s", diff)
	}

	props1, err := f1.GetDocProps()
	require.NoError(t, err)
	props2, err := f2.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Format(time.RFC3339), props1.Created)
	assert.Equal(t, props1.Created, props2.Created)
}

func TestWriteFileFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "scheine.xlsx")

	err := newTestWriter().WriteFile(context.Background(), nil, testInfo(), path)

	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrWriteError))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheine.xlsx")

	require.NoError(t, newTestWriter().WriteFile(context.Background(), []course.MergedRow{row(t, "1", "A", "1.0", "")}, testInfo(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Lehrveranstaltung", v)
}

func TestComputeStatistics(t *testing.T) {
	tests := []struct {
		name   string
		grades []string
		want   Statistics
	}{
		{"empty", nil, Statistics{}},
		{"single", []string{"1.7"}, Statistics{Count: 1, Passed: 1, Mean: 1.7, Median: 1.7}},
		{"mixed", []string{"1.0", "2.3", "5.0"}, Statistics{Count: 3, Passed: 2, Mean: 2.77, Median: 2.3, StdDev: 2.04}},
		{"even", []string{"1.3", "1.7", "2.0", "4.0"}, Statistics{Count: 4, Passed: 4, Mean: 2.25, Median: 1.85, StdDev: 1.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []course.MergedRow
			for i, g := range tt.grades {
				rows = append(rows, row(t, string(rune('a'+i)), "X", g, ""))
			}
			got := ComputeStatistics(rows)
			assert.Equal(t, tt.want.Count, got.Count)
			assert.Equal(t, tt.want.Passed, got.Passed)
			assert.InDelta(t, tt.want.Mean, got.Mean, 1e-9)
			assert.InDelta(t, tt.want.Median, got.Median, 1e-9)
			assert.InDelta(t, tt.want.StdDev, got.StdDev, 1e-9)
		})
	}
}
