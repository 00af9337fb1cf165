package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calipr/calipr/internal/domain/depends"
	"github.com/calipr/calipr/internal/domain/dupes"
	"github.com/calipr/calipr/internal/domain/survey"
	"github.com/calipr/calipr/internal/ports"
	"github.com/calipr/calipr/internal/scheduler"
)

var (
	analyzeDupes   bool
	analyzeDepends bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Run a per-line analysis module over the tree",
	Long: "Feeds measured code lines through an analysis module. --dupes groups " +
		"repeated lines by content checksum; --depends collects import statements " +
		"per file.",
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	addSurveyFlags(analyzeCmd.Flags())
	analyzeCmd.Flags().BoolVar(&analyzeDupes, "dupes", false, "Report duplicated lines")
	analyzeCmd.Flags().BoolVar(&analyzeDepends, "depends", false, "Report import dependencies")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeDupes == analyzeDepends {
		return fmt.Errorf("analyze needs exactly one of --dupes or --depends")
	}

	var analyzerFor func(*survey.Engine) ports.LineAnalyzer
	if analyzeDupes {
		analyzerFor = func(*survey.Engine) ports.LineAnalyzer { return dupes.New() }
	} else {
		analyzerFor = func(eng *survey.Engine) ports.LineAnalyzer {
			return depends.New(eng.Patterns().Imports)
		}
	}
	return runSurvey(scheduler.Job{
		Root:        surveyRoot(args),
		Verb:        survey.VerbAnalyze,
		AnalyzerFor: analyzerFor,
	})
}
