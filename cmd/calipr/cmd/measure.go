package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/calipr/calipr/internal/adapters/bbolt"
	"github.com/calipr/calipr/internal/common"
	"github.com/calipr/calipr/internal/domain/survey"
	"github.com/calipr/calipr/internal/ports"
	"github.com/calipr/calipr/internal/scheduler"
)

var (
	measureNoCache   bool
	measureWipeCache bool
	measureTemplates []string
)

var measureCmd = &cobra.Command{
	Use:   "measure [path]",
	Short: "Count lines, comments, and NBNC size per file",
	Long: "Surveys every recognized file under the path (default: cwd) and reports " +
		"line counts, comment density, imports, and size ranks. With --template, " +
		"lines matching the given regexes count as generated template output.",
	Args: cobra.MaximumNArgs(1),
	RunE: runMeasure,
}

func init() {
	addSurveyFlags(measureCmd.Flags())
	measureCmd.Flags().BoolVar(&measureNoCache, "no-cache", false, "Re-survey every file, ignoring cached measures")
	measureCmd.Flags().BoolVar(&measureWipeCache, "wipe-cache", false, "Drop the cached measures for this project first")
	measureCmd.Flags().StringArrayVar(&measureTemplates, "template", nil, "Template line regex (repeatable; switches to template measurement)")
}

func runMeasure(cmd *cobra.Command, args []string) error {
	root := surveyRoot(args)

	job := scheduler.Job{Root: root, Verb: survey.VerbMeasure}
	if len(measureTemplates) > 0 {
		job.Verb = survey.VerbTempMeasure
		job.Params = measureTemplates
	}

	if !measureNoCache && job.Verb == survey.VerbMeasure {
		cache := openCache(root)
		if cache != nil {
			defer cache.Close()
			if measureWipeCache {
				if err := cache.Wipe(); err != nil {
					return err
				}
			}
			job.Cache = cache
		}
	}
	return runSurvey(job)
}

// openCache opens the per-project measure store. Cache failures degrade to
// an uncached run rather than failing the survey.
func openCache(root string) ports.MeasureCache {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil
	}
	base := abs
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		base = filepath.Dir(abs)
	}
	dir := cacheDir(base)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		common.Logger().Warn("cache disabled", "err", err)
		return nil
	}
	cache, err := bbolt.NewCache(filepath.Join(dir, "measures.db"), base)
	if err != nil {
		common.Logger().Warn("cache disabled", "err", err)
		return nil
	}
	return cache
}
