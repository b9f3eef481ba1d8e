package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/oneconcern/nr/pkg/errors"
	"github.com/oneconcern/nr/pkg/gitignore"
	"github.com/oneconcern/nr/pkg/jobs"
	"github.com/oneconcern/nr/pkg/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch [PATHS...] -- COMMAND [ARGS...]",
	Short: "Run a command whenever files change",
	Long: `Run a command whenever files change under PATHS (the current directory by default).

Changes are collected until nothing changed for the debounce delay. Files
ignored by .gitignore files and .git directories are not watched, unless
--gitignore=false. Only one instance of the command runs at a time.`,
	Example: `% nr watch src -- go test ./...`,
	Run: func(cmd *cobra.Command, args []string) {
		dash := cmd.ArgsLenAtDash()
		if dash < 0 || dash == len(args) {
			wrapFatalln("a command is required after --", nil)
			return
		}
		roots, command := args[:dash], args[dash:]
		if len(roots) == 0 {
			roots = []string{"."}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := runWatch(ctx, cmd, roots, command); err != nil {
			wrapFatalln("watch", err)
		}
	},
}

func runWatch(ctx context.Context, cmd *cobra.Command, roots, command []string) error {
	filter, err := watchFilter(roots)
	if err != nil {
		return err
	}
	w, err := watch.NewWatcher(watch.WithFilter(filter), watch.WithLogger(logger))
	if err != nil {
		return err
	}
	defer w.Close()
	for _, root := range roots {
		if err := w.Add(root); err != nil {
			return err
		}
	}
	logger.Info("watching", zap.Strings("roots", roots), zap.Int("dirs", w.Dirs()))

	sched := jobs.NewScheduler(ctx, jobs.MaxWorkers(1), jobs.Logger(logger))
	runner := watch.NewRunner(sched,
		watch.Command(cmd.OutOrStdout(), cmd.ErrOrStderr(), command[0], command[1:]...),
		nrFlags.watch.restart, logger)
	trigger := func(changed []string) {
		if _, err := runner.Trigger(changed); err != nil {
			logger.Warn("cannot run command", zap.Error(err))
		}
	}
	if nrFlags.watch.initial {
		trigger(nil)
	}

	debouncer := watch.NewDebouncer(nrFlags.watch.debounce, trigger)
	queue := jobs.NewEventQueue(ctx, logger, 64)
	queue.Register(watch.EventChange, debouncer.Handle)

	runErr := w.Run(ctx, queue)
	debouncer.Stop()
	if err := sched.Shutdown(context.Background(), true); err != nil {
		logger.Debug("runs interrupted", zap.Error(err))
	}
	return errors.Combine(runErr, queue.Close())
}

func watchFilter(roots []string) (watch.Filter, error) {
	if !nrFlags.watch.gitignore {
		return func(string, bool) bool { return true }, nil
	}
	stacks := make([]*gitignore.Stack, 0, len(roots))
	for _, root := range roots {
		canonical, err := paths.Canonical(root, "")
		if err != nil {
			return nil, err
		}
		stack, err := gitignore.LoadTree(appFs, canonical)
		if err != nil {
			return nil, err
		}
		stacks = append(stacks, stack)
	}
	return func(p string, isDir bool) bool {
		if isDir && filepath.Base(p) == ".git" {
			return false
		}
		canonical, err := paths.Canonical(p, "")
		if err != nil {
			return true
		}
		for _, stack := range stacks {
			if stack.Ignored(canonical, isDir) {
				return false
			}
		}
		return true
	}, nil
}

func init() {
	addDebounceFlag(watchCmd)
	addWatchGitignoreFlag(watchCmd)
	addInitialFlag(watchCmd)
	addRestartFlag(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
