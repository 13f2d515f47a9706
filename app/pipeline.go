package app

import (
	"context"
	"path/filepath"
	"strings"

	"scheintool/domain/core"
	"scheintool/domain/course"
	"scheintool/internal"
	"scheintool/internal/errors"
	"scheintool/ports"
)

// DefaultOutput is the certificate file name used when none is given
const DefaultOutput = "scheine.pdf"

// Request is the input of one run
type Request struct {
	EnrollmentPath string
	GradesPath     string
	OutputPath     string // certificates; the grade table goes next to it as .xlsx
	Info           course.CourseInfo
}

// TablePath returns the grade table path belonging to a certificate path
func TablePath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".xlsx"
}

// PipelineOptions holds the run-independent settings
type PipelineOptions struct {
	BirthMarker string
	Location    string
	Policy      JoinPolicy
}

// Pipeline reads, splits and merges the two exports, then renders the
// certificates and the grade table
type Pipeline struct {
	reader   ports.TableReader
	filler   ports.DocumentFiller
	writer   ports.TableWriter
	splitter *FieldSplitter
	merger   *Merger
	logger   *internal.Logger
}

// NewPipeline wires a pipeline
func NewPipeline(reader ports.TableReader, filler ports.DocumentFiller, writer ports.TableWriter, opts PipelineOptions, logger *internal.Logger) *Pipeline {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Pipeline{
		reader:   reader,
		filler:   filler,
		writer:   writer,
		splitter: NewFieldSplitter(opts.BirthMarker, logger),
		merger:   NewMerger(MergeOptions{Policy: opts.Policy, Location: opts.Location}, logger),
		logger:   logger,
	}
}

// Run executes one request. Reading, splitting and merging errors abort the
// run; render errors are recorded in the report.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	report := &Report{RunID: core.NewRunID()}
	log := p.logger.With("run", report.RunID.Short())

	if err := req.Info.Validate(); err != nil {
		return nil, errors.InvalidInput("course info: " + err.Error())
	}
	output := req.OutputPath
	if output == "" {
		output = DefaultOutput
	}
	report.CertificatePath = output
	report.TablePath = TablePath(output)

	log.Info("[Pipeline] Reading enrollment %s", req.EnrollmentPath)
	enrollment, err := p.reader.Read(ctx, req.EnrollmentPath)
	if err != nil {
		return nil, err
	}
	enrollment, err = p.splitter.Split(enrollment)
	if err != nil {
		return nil, err
	}

	log.Info("[Pipeline] Reading grades %s", req.GradesPath)
	grades, err := p.reader.Read(ctx, req.GradesPath)
	if err != nil {
		return nil, err
	}

	if report.EnrollmentHash, err = core.HashFile(req.EnrollmentPath); err != nil {
		log.Debug("[Pipeline] Could not hash enrollment %s: %v", req.EnrollmentPath, err)
	}
	if report.GradesHash, err = core.HashFile(req.GradesPath); err != nil {
		log.Debug("[Pipeline] Could not hash grades %s: %v", req.GradesPath, err)
	}
	log.Debug("[Pipeline] Input hashes enrollment=%s grades=%s", report.EnrollmentHash.Short(), report.GradesHash.Short())

	merged, err := p.merger.Merge(enrollment, grades, req.Info)
	if err != nil {
		return nil, err
	}
	report.Rows = len(merged.Rows)
	report.Unmatched = merged.Unmatched

	// certificates first, then the table; a failure in one does not skip the other
	report.Pages, report.CertificateErr = p.filler.FillFile(ctx, merged.Rows, req.Info.Degree, report.CertificatePath)
	if report.CertificateErr != nil {
		log.Error("[Pipeline] Certificates failed: %v", report.CertificateErr)
	}
	report.TableErr = p.writer.WriteFile(ctx, merged.Rows, req.Info, report.TablePath)
	if report.TableErr != nil {
		log.Error("[Pipeline] Grade table failed: %v", report.TableErr)
	}

	log.Info("[Pipeline] Run finished (%d rows, certificates ok=%t, table ok=%t)",
		report.Rows, report.CertificateErr == nil, report.TableErr == nil)
	return report, nil
}
