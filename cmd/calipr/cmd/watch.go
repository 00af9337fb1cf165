package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/calipr/calipr/internal/adapters/fsnotify"
	"github.com/calipr/calipr/internal/common"
	"github.com/calipr/calipr/internal/domain/survey"
	"github.com/calipr/calipr/internal/scheduler"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-survey files as they change",
	Long: "Measures the whole tree once, then watches it and re-measures each " +
		"file as it changes. Ctrl-C stops.",
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	addSurveyFlags(watchCmd.Flags())
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := surveyRoot(args)

	overrides, err := parseOverrides(flagOverrides)
	if err != nil {
		return err
	}
	ps, err := loadPresets()
	if err != nil {
		return err
	}
	sched := scheduler.New(ps)

	cache := openCache(root)
	if cache != nil {
		defer cache.Close()
	}

	job := scheduler.Job{
		Root:        root,
		Verb:        survey.VerbMeasure,
		Preset:      flagPreset,
		Overrides:   overrides,
		SkipUnknown: flagSkipUnknown,
		Workers:     flagWorkers,
		Cache:       cache,
	}
	res, err := sched.Run(job)
	if err != nil {
		return err
	}
	if err := emit(res); err != nil {
		common.Logger().Warn("initial survey", "err", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Stop()

	onChange := func(path string) {
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return
		}
		single := job
		single.Root = path
		res, err := sched.Run(single)
		if err != nil {
			common.Logger().Warn("re-survey failed", "path", path, "err", err)
			return
		}
		if err := emit(res); err != nil {
			common.Logger().Warn("re-survey", "path", path, "err", err)
		}
	}
	if err := watcher.Watch(root, onChange); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "watching %s — Ctrl-C to stop\n", root)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
