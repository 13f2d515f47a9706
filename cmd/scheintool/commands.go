package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"scheintool/adapters/courseinfo"
	"scheintool/adapters/pdf"
	"scheintool/app"
	"scheintool/domain/course"
	"scheintool/internal/config"
)

func newGenerateCmd() *cobra.Command {
	var (
		lsfFile     string
		gradesFile  string
		output      string
		courseFile  string
		degree      string
		lectureType int
		semester    string
		policy      string
		location    string
		templateDir string
		layoutDir   string
		logLevel    string
		fields      = map[course.Field]*string{}
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Merge the exports and write certificates plus grade table",
		Long: `Read the LSF enrollment export and the grades export, merge them on the
registration number and render one certificate page per student into a single PDF.
A grade table is written next to it with the .xlsx extension.

The join policy is strict by default: a registration number found in only one
of the two exports stops the run and lists the misses. Use --policy lenient to
drop those students and continue.

Course information starts from today's defaults, is overlaid with --course and
then with the individual flags.

Example: scheintool generate --lsf teilnehmer.xls --grades noten.csv --course kurs.yaml --out scheine.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := course.DefaultCourseInfo(time.Now())
			if courseFile != "" {
				loaded, err := courseinfo.Load(courseFile, info)
				if err != nil {
					return err
				}
				info = loaded
			}
			for f, v := range fields {
				if cmd.Flags().Changed(flagName(f)) {
					info.Set(f, *v)
				}
			}
			if cmd.Flags().Changed("degree") {
				d, err := course.ParseDegree(degree)
				if err != nil {
					return err
				}
				info.Degree = d
			}
			if cmd.Flags().Changed("type") {
				info.Set(course.FieldLectureType, fmt.Sprint(lectureType))
			}
			if cmd.Flags().Changed("semester") {
				info.Set(course.FieldSemester, strings.ToUpper(semester))
			}

			c, err := loadContainer(func(cfg *config.Config) {
				if policy != "" {
					cfg.Pipeline.JoinPolicy = strings.ToLower(policy)
				}
				if location != "" {
					cfg.Pipeline.Location = location
				}
				if templateDir != "" {
					cfg.Paths.TemplateDir = templateDir
				}
				if layoutDir != "" {
					cfg.Paths.LayoutDir = layoutDir
				}
				if logLevel != "" {
					cfg.Logging.Level = logLevel
				}
			})
			if err != nil {
				return err
			}
			defer c.Logger.Sync()
			if err := c.Init(cmd.Context()); err != nil {
				return err
			}

			report, err := c.Pipeline.Run(cmd.Context(), app.Request{
				EnrollmentPath: lsfFile,
				GradesPath:     gradesFile,
				OutputPath:     output,
				Info:           info,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Summary())
			fmt.Fprint(out, report.Details())
			if !report.Complete() {
				return fmt.Errorf("run %s finished with errors", report.RunID.Short())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&lsfFile, "lsf", "", "LSF enrollment export (.csv, .xlsx or .xls)")
	cmd.Flags().StringVar(&gradesFile, "grades", "", "Grades export (.csv, .xlsx or .xls)")
	cmd.Flags().StringVarP(&output, "out", "o", app.DefaultOutput, "Certificate PDF; the grade table is written next to it")
	cmd.Flags().StringVar(&courseFile, "course", "", "Course file (.csv/.txt, .yaml or .toml)")
	cmd.Flags().StringVar(&degree, "degree", string(course.DegreeMaster), "Certificate variant: master or bachelor")
	cmd.Flags().IntVar(&lectureType, "type", int(course.LectureWithExercises), "Lecture type: 1 lecture with exercises, 2 lecture, 3 seminar, 4 practical")
	cmd.Flags().StringVar(&semester, "semester", "", "Semester: SS or WS")
	cmd.Flags().StringVar(&policy, "policy", "", "Join policy: strict (default) fails on unmatched students, lenient drops them; SCHEINTOOL_JOIN_POLICY sets the default")
	cmd.Flags().StringVar(&location, "location", "", "Location printed on every certificate")
	cmd.Flags().StringVar(&templateDir, "templates", "", "Directory holding the certificate templates")
	cmd.Flags().StringVar(&layoutDir, "layouts", "", "Directory with bachelor.yaml / master.yaml layout overrides")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE")
	for _, f := range []course.Field{
		course.FieldTitleEN, course.FieldTitleDE, course.FieldLecturer, course.FieldECTS,
		course.FieldSWS, course.FieldYear, course.FieldDate, course.FieldExamDate, course.FieldSupervisor,
	} {
		v := new(string)
		fields[f] = v
		cmd.Flags().StringVar(v, flagName(f), "", fmt.Sprintf("Course field %s", f))
	}
	_ = cmd.MarkFlagRequired("lsf")
	_ = cmd.MarkFlagRequired("grades")

	return cmd
}

// flagName turns a field into a flag, e.g. title_en -> title-en
func flagName(f course.Field) string {
	return strings.ReplaceAll(strings.ToLower(string(f)), "_", "-")
}

func newCourseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Create and inspect course files",
	}

	var degree string
	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write a course file with today's defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info := course.DefaultCourseInfo(time.Now())
			d, err := course.ParseDegree(degree)
			if err != nil {
				return err
			}
			info.Degree = d
			if err := courseinfo.Save(info, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Course file written to %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&degree, "degree", string(course.DegreeMaster), "master or bachelor")

	showCmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Validate a course file and print its values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := courseinfo.Load(args[0], course.DefaultCourseInfo(time.Now()))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-12s %s\n", "degree", info.Degree)
			for _, f := range info.Fields() {
				value := info.Get(f)
				if f == course.FieldLectureType {
					if lt, err := info.LectureType(); err == nil {
						value = fmt.Sprintf("%s (%s)", lt, lt.Label())
					}
				}
				fmt.Fprintf(out, "%-12s %s\n", f, value)
			}
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect the host settings file",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the settings file location and its values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(nil)
			if err != nil {
				return err
			}
			s, err := c.SettingsProvider.Load()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", c.SettingsProvider.Path(), data)
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Locate LibreOffice and store its path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(nil)
			if err != nil {
				return err
			}
			s, err := c.SettingsProvider.Settings(cmd.Context())
			if err != nil {
				return err
			}
			if !s.Complete() {
				return fmt.Errorf("LibreOffice not found; set libreoffice_exec in %s", c.SettingsProvider.Path())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "libreoffice_exec: %s\n", s.LibreOfficeExec)
			return nil
		},
	}

	cmd.AddCommand(showCmd, initCmd)
	return cmd
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Work with certificate layouts",
	}

	dumpCmd := &cobra.Command{
		Use:   "dump [dir]",
		Short: "Write the built-in layouts as bachelor.yaml and master.yaml",
		Long: `Write the built-in layouts so they can be adjusted and passed back
with --layouts or SCHEINTOOL_LAYOUT_DIR.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(args[0], 0o755); err != nil {
				return err
			}
			for degree, l := range pdf.DefaultLayouts() {
				path := filepath.Join(args[0], string(degree)+".yaml")
				if err := pdf.SaveLayout(l, path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s layout written to %s\n", degree, path)
			}
			return nil
		},
	}

	cmd.AddCommand(dumpCmd)
	return cmd
}
