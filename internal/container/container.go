package container

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"scheintool/adapters/convert"
	"scheintool/adapters/pdf"
	"scheintool/adapters/settings"
	"scheintool/adapters/sheet"
	"scheintool/adapters/tabular"
	"scheintool/app"
	"scheintool/domain/course"
	"scheintool/internal"
	"scheintool/internal/config"
	"scheintool/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Host settings
	SettingsProvider *settings.FileProvider
	Settings         ports.Settings

	// Adapters
	Converter ports.Converter // nil when LibreOffice is not available
	Reader    *tabular.Reader
	Filler    *pdf.Filler
	Writer    *sheet.Writer

	Pipeline *app.Pipeline
}

// New creates a container; call Init before using the pipeline
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))
	}

	path := cfg.Paths.SettingsFile
	if path == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	return &Container{
		Config:           cfg,
		Logger:           logger,
		SettingsProvider: settings.NewFileProvider(path, logger),
	}, nil
}

// Init resolves host settings and wires the adapters into the pipeline
func (c *Container) Init(ctx context.Context) error {
	s, err := c.SettingsProvider.Settings(ctx)
	if err != nil {
		return err
	}
	c.Settings = s
	if s.Complete() {
		c.Converter = convert.NewSofficeConverter(s.LibreOfficeExec, "", c.Logger)
	}

	layouts, err := c.Layouts()
	if err != nil {
		return err
	}

	policy, err := app.ParseJoinPolicy(c.Config.Pipeline.JoinPolicy)
	if err != nil {
		return err
	}

	c.Reader = tabular.NewReader(c.Converter, c.Logger)
	c.Filler = pdf.NewFiller(c.Config.Paths.TemplateDir, layouts, c.Logger)
	c.Writer = sheet.NewWriter(c.Logger)
	c.Pipeline = app.NewPipeline(c.Reader, c.Filler, c.Writer, app.PipelineOptions{
		BirthMarker: c.Config.Pipeline.BirthMarker,
		Location:    c.Config.Pipeline.Location,
		Policy:      policy,
	}, c.Logger)

	c.Logger.Debug("[Container] Initialized (templates=%s, converter=%t, policy=%s)",
		c.Config.Paths.TemplateDir, c.Converter != nil, policy)
	return nil
}

// Layouts returns the built-in layouts, replaced by <degree>.yaml files from
// the layout directory where present
func (c *Container) Layouts() (map[course.Degree]pdf.Layout, error) {
	layouts := pdf.DefaultLayouts()
	dir := c.Config.Paths.LayoutDir
	if dir == "" {
		return layouts, nil
	}
	for _, degree := range []course.Degree{course.DegreeBachelor, course.DegreeMaster} {
		path := filepath.Join(dir, string(degree)+".yaml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		l, err := pdf.LoadLayout(path)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("[Container] Using layout %s for %s certificates", path, degree)
		layouts[degree] = l
	}
	return layouts, nil
}
