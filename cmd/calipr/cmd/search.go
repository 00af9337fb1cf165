package cmd

import (
	"github.com/spf13/cobra"

	"github.com/calipr/calipr/internal/domain/survey"
	"github.com/calipr/calipr/internal/scheduler"
)

var searchPath string

var searchCmd = &cobra.Command{
	Use:   "search <regex> [regex ...]",
	Short: "Find lines matching regex rules across the tree",
	Long: "Matches each measured code line against the given rules, first match " +
		"wins. A rule prefixed NEGATIVE__ vetoes lines the positive rules would " +
		"report. String literals and inline comments are stripped before matching " +
		"unless the preset says otherwise.",
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	addSurveyFlags(searchCmd.Flags())
	searchCmd.Flags().StringVarP(&searchPath, "path", "p", "", "File or directory to survey (default: cwd)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	var roots []string
	if searchPath != "" {
		roots = append(roots, searchPath)
	}
	return runSurvey(scheduler.Job{
		Root:   surveyRoot(roots),
		Verb:   survey.VerbSearch,
		Params: args,
	})
}
