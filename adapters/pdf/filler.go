package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"scheintool/domain/course"
	"scheintool/internal"
	"scheintool/internal/errors"
)

var disableConfigDir sync.Once

// Filler stamps merged rows onto certificate templates
type Filler struct {
	templateDir string
	layouts     map[course.Degree]Layout
	logger      *internal.Logger
}

// NewFiller creates a filler reading templates from templateDir. A nil
// layouts map selects DefaultLayouts.
func NewFiller(templateDir string, layouts map[course.Degree]Layout, logger *internal.Logger) *Filler {
	// pdfcpu would otherwise create a config directory in the user's home
	disableConfigDir.Do(api.DisableConfigDir)
	if layouts == nil {
		layouts = DefaultLayouts()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Filler{templateDir: templateDir, layouts: layouts, logger: logger}
}

// Layout returns the layout used for degree
func (f *Filler) Layout(degree course.Degree) (Layout, bool) {
	l, ok := f.layouts[degree]
	return l, ok
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Fill renders one page per row, in row order, and writes the concatenated
// document to w. It returns the number of pages written.
func (f *Filler) Fill(ctx context.Context, rows []course.MergedRow, degree course.Degree, w io.Writer) (int, error) {
	layout, ok := f.layouts[degree]
	if !ok {
		return 0, errors.RenderError(fmt.Sprintf("no layout for degree %q", degree), nil)
	}

	if len(rows) == 0 {
		f.logger.Info("[Filler] No rows, writing an empty document")
		if _, err := w.Write(blankPDF(0, A4Width, A4Height)); err != nil {
			return 0, errors.RenderError("failed to write empty document", err)
		}
		return 0, nil
	}

	template, err := f.loadTemplate(layout)
	if err != nil {
		return 0, err
	}

	pages := make([]io.ReadSeeker, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		page, err := f.stamp(template, layout, row)
		if err != nil {
			return 0, err
		}
		pages = append(pages, bytes.NewReader(page))
	}

	if len(pages) == 1 {
		if _, err := io.Copy(w, pages[0]); err != nil {
			return 0, errors.RenderError("failed to write certificate", err)
		}
	} else if err := api.MergeRaw(pages, w, false, newConfiguration()); err != nil {
		return 0, errors.RenderError("failed to concatenate certificates", err)
	}

	f.logger.Info("[Filler] Rendered %d certificates from %s", len(rows), layout.Template)
	return len(rows), nil
}

// FillFile renders into path. The document is written to a temporary file
// next to path and renamed on success.
func (f *Filler) FillFile(ctx context.Context, rows []course.MergedRow, degree course.Degree, path string) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".scheine-*.pdf")
	if err != nil {
		return 0, errors.RenderError("failed to create output file", err)
	}
	defer os.Remove(tmp.Name())

	n, err := f.Fill(ctx, rows, degree, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = errors.RenderError("failed to close output file", cerr)
	}
	if err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, errors.RenderError("failed to move output into place", err)
	}
	return n, nil
}

// loadTemplate reads the template and checks it is a single page
func (f *Filler) loadTemplate(layout Layout) ([]byte, error) {
	path := filepath.Join(f.templateDir, layout.Template)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.RenderError("cannot open template "+path, err)
	}
	n, err := api.PageCount(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return nil, errors.RenderError("cannot read template "+path, err)
	}
	if n != 1 {
		return nil, errors.RenderError(fmt.Sprintf("template %s has %d pages, want 1", path, n), nil)
	}
	f.logger.Debug("[Filler] Loaded template %s (%d bytes)", path, len(data))
	return data, nil
}

// stamp applies a fresh set of stamps to a copy of the template
func (f *Filler) stamp(template []byte, layout Layout, row course.MergedRow) ([]byte, error) {
	for _, field := range layout.Required {
		if strings.TrimSpace(fieldText(row, field)) == "" {
			return nil, errors.RenderError(fmt.Sprintf("row %s: required field %s is empty", row.ID(), field), nil)
		}
	}

	var wms []*model.Watermark
	add := func(text string, p Position) error {
		x, y := layout.Point(p)
		desc := fmt.Sprintf("fontname:%s, points:%d, position:bl, offset:%.2f %.2f, scalefactor:1 abs, rotation:0, fillcolor:#000000, opacity:1",
			layout.Font, layout.FontSize, x, y)
		wm, err := api.TextWatermark(text, desc, true, false, types.POINTS)
		if err != nil {
			return err
		}
		wms = append(wms, wm)
		return nil
	}

	for _, field := range layout.OrderedFields() {
		text := fieldText(row, field)
		if text == "" {
			continue
		}
		if err := add(text, layout.Fields[field]); err != nil {
			return nil, errors.RenderError(fmt.Sprintf("row %s: cannot stamp %s", row.ID(), field), err)
		}
	}
	if p, ok := layout.Gender[row.Gender()]; ok {
		if err := add(layout.Marker, p); err != nil {
			return nil, errors.RenderError(fmt.Sprintf("row %s: cannot mark gender", row.ID()), err)
		}
	}
	if p, ok := layout.LectureTypes[row.LectureType()]; ok {
		if err := add(layout.Marker, p); err != nil {
			return nil, errors.RenderError(fmt.Sprintf("row %s: cannot mark lecture type", row.ID()), err)
		}
	}

	if len(wms) == 0 {
		return append([]byte(nil), template...), nil
	}

	var out bytes.Buffer
	m := map[int][]*model.Watermark{1: wms}
	if err := api.AddWatermarksSliceMap(bytes.NewReader(template), &out, m, newConfiguration()); err != nil {
		return nil, errors.RenderError(fmt.Sprintf("row %s: stamping failed", row.ID()), err)
	}
	return out.Bytes(), nil
}

// fieldText returns the text printed for field
func fieldText(row course.MergedRow, field course.Field) string {
	if field == course.FieldGrade {
		return row.Grade().German()
	}
	return strings.TrimSpace(row.Get(field))
}
