package cmd

import (
	"github.com/spf13/cobra"

	"github.com/calipr/calipr/internal/domain/survey"
	"github.com/calipr/calipr/internal/scheduler"
)

var routineRules []string

var routinesCmd = &cobra.Command{
	Use:   "routines [path]",
	Short: "Report per-routine size, comments, and complexity",
	Long: "Splits each file into routines at its preset's routine-start pattern " +
		"and reports NBNC size, comment count, cyclomatic complexity, and nesting " +
		"depth per routine. --rule overrides the start pattern; prefix a rule with " +
		"NEGATIVE__ to veto lines a positive rule would otherwise start a routine on.",
	Args: cobra.MaximumNArgs(1),
	RunE: runRoutines,
}

func init() {
	addSurveyFlags(routinesCmd.Flags())
	routinesCmd.Flags().StringArrayVarP(&routineRules, "rule", "e", nil, "Routine-start regex, optional POSITIVE__/NEGATIVE__ prefix (repeatable)")
}

func runRoutines(cmd *cobra.Command, args []string) error {
	return runSurvey(scheduler.Job{
		Root:   surveyRoot(args),
		Verb:   survey.VerbRoutines,
		Params: routineRules,
	})
}
