package main

import (
	"github.com/spf13/cobra"
	"github.com/terassyi/coredump/internal/capture"
	"github.com/terassyi/coredump/internal/config"
	"github.com/terassyi/coredump/internal/datafile"
	"github.com/terassyi/coredump/internal/path"
	"github.com/terassyi/coredump/internal/report"
	"github.com/terassyi/coredump/internal/source"
)

// snapshotFlags are shared by capture and render.
type snapshotFlags struct {
	errMessage string
	errCode    int
	fault      bool
	data       []string
	env        bool
	noEnv      bool
}

func (f *snapshotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.errMessage, "error", "", "Record an error with this message")
	cmd.Flags().IntVar(&f.errCode, "code", 0, "Error code recorded with --error")
	cmd.Flags().BoolVar(&f.fault, "fault", false, "Record --error as a fault (Error) instead of an Exception")
	cmd.Flags().StringArrayVar(&f.data, "data", nil, "Add a section from a YAML/JSON file (name=file, repeatable)")
	cmd.Flags().BoolVar(&f.env, "env", false, "Include the process environment ($_ENV)")
	cmd.Flags().BoolVar(&f.noEnv, "no-env", false, "Exclude the process environment even if enabled in config")
}

// build assembles a report from the flags.
func (f *snapshotFlags) build(cfg *config.Config) (*report.Report, error) {
	entries, err := datafile.LoadSpecs(f.data)
	if err != nil {
		return nil, err
	}

	var opts []report.Option
	if f.errMessage != "" {
		d := capture.FromError(&cliError{message: f.errMessage, code: f.errCode})
		if f.fault {
			d.Kind = report.KindError
		}
		opts = append(opts, report.WithError(d))
	}
	if (f.env || cfg.ProcessEnv) && !f.noEnv {
		opts = append(opts, report.WithEnvironment(report.Environment{Env: source.Process()}))
	}

	r := report.New(opts...)
	for _, e := range entries {
		r.Add(e.Name, e.Value)
	}
	return r, nil
}

// cliError is the error recorded by --error.
type cliError struct {
	message string
	code    int
}

func (e *cliError) Error() string { return e.message }
func (e *cliError) Code() int     { return e.code }

var (
	captureFlags  snapshotFlags
	captureStdout bool
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a snapshot and save it",
	Long: `Capture a snapshot and save it to a file.

The destination comes from --dir or the dumpDir config setting:
  - a directory: a uniquely named <token>.coredump is created inside it
  - a file template: used as-is, every '#' replaced by a unique token

Examples:
  coredump capture --error "payment failed" --code 402
  coredump capture --data order=order.yaml --env
  coredump capture --dir /tmp/crash-#.txt`,
	Args: cobra.NoArgs,
	RunE: runCapture,
}

func init() {
	captureFlags.register(captureCmd)
	captureCmd.Flags().BoolVar(&captureStdout, "stdout", false, "Print the report instead of saving it")
}

func runCapture(cmd *cobra.Command, _ []string) error {
	cfg, paths, err := loadPaths()
	if err != nil {
		return err
	}

	r, err := captureFlags.build(cfg)
	if err != nil {
		return err
	}

	if captureStdout {
		cmd.Print(r.Render())
		return nil
	}

	hint := paths.DumpDir()
	if cfg.DumpDir == config.DefaultDumpDir {
		// The default directory may not exist yet.
		if err := path.EnsureDir(hint); err != nil {
			return err
		}
	}

	p, err := r.Save(hint)
	if err != nil {
		return err
	}

	cmd.Println(p)
	return nil
}

var (
	renderFlags snapshotFlags
	renderNames bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print a snapshot without saving it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		r, err := renderFlags.build(cfg)
		if err != nil {
			return err
		}

		if renderNames {
			for _, s := range r.Sections() {
				cmd.Println(s.Name)
			}
			return nil
		}

		cmd.Print(r.Render())
		return nil
	},
}

func init() {
	renderFlags.register(renderCmd)
	renderCmd.Flags().BoolVar(&renderNames, "names", false, "Print only the section names, in render order")
}
