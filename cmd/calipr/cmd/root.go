package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/calipr/calipr/internal/config"
	"github.com/calipr/calipr/internal/report"
	"github.com/calipr/calipr/internal/scheduler"
	"github.com/calipr/calipr/presets"
)

var rootCmd = &cobra.Command{
	Use:   "calipr",
	Short: "calipr — regex-driven source code survey engine",
	Long:  "Line metrics, routine complexity, and regex search across whole source trees.",
}

// Flags shared by every survey verb.
var (
	flagPreset      string
	flagOverrides   []string
	flagSkipUnknown bool
	flagWorkers     int
	flagHalt        bool
	flagCSVPath     string
)

func addSurveyFlags(f *pflag.FlagSet) {
	f.StringVar(&flagPreset, "preset", "", "Force one preset for every file (default: resolve by extension)")
	f.StringArrayVarP(&flagOverrides, "opt", "O", nil, "Option override NAME=VALUE (repeatable)")
	f.BoolVar(&flagSkipUnknown, "skip-unknown", false, "Skip files no preset claims instead of using the default preset")
	f.IntVarP(&flagWorkers, "workers", "j", 0, "Worker goroutines (default: CPU count)")
	f.BoolVar(&flagHalt, "halt", false, "Stop on the first file error")
	f.StringVar(&flagCSVPath, "csv", "", "Write CSV to this path ('-' for stdout) instead of a table")
}

// surveyRoot resolves the optional positional path argument.
func surveyRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

func loadPresets() (*config.Presets, error) {
	return config.LoadPresets(presets.FS, "v1")
}

// parseOverrides turns -O NAME=VALUE flags into option applications. A bare
// NAME is shorthand for NAME=True.
func parseOverrides(raw []string) ([]config.OptionSetting, error) {
	out := make([]config.OptionSetting, 0, len(raw))
	for _, s := range raw {
		name, value, found := strings.Cut(s, "=")
		if !found {
			value = "True"
		}
		if name == "" {
			return nil, fmt.Errorf("bad option override %q", s)
		}
		out = append(out, config.OptionSetting{Name: name, Value: value})
	}
	return out, nil
}

// runSurvey fills the shared job fields, runs it, and emits the result.
func runSurvey(job scheduler.Job) error {
	overrides, err := parseOverrides(flagOverrides)
	if err != nil {
		return err
	}
	job.Preset = flagPreset
	job.Overrides = overrides
	job.SkipUnknown = flagSkipUnknown
	job.Workers = flagWorkers
	job.HaltOnError = flagHalt

	ps, err := loadPresets()
	if err != nil {
		return err
	}
	res, err := scheduler.New(ps).Run(job)
	if err != nil {
		return err
	}
	return emit(res)
}

func emit(res *scheduler.RunResult) error {
	switch flagCSVPath {
	case "":
		fmt.Println(report.RenderTable(res))
	case "-":
		if err := report.WriteCSV(os.Stdout, res); err != nil {
			return err
		}
	default:
		f, err := os.Create(flagCSVPath)
		if err != nil {
			return err
		}
		if err := report.WriteCSV(f, res); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("%d files failed", len(res.Errors))
	}
	return nil
}

// cacheDir is where per-project state lives, relative to the survey root.
func cacheDir(root string) string {
	return filepath.Join(root, ".calipr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(measureCmd)
	rootCmd.AddCommand(routinesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(versionCmd)
}
