package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/preprints/internal/buildinfo"
	"github.com/aalvaropc/preprints/internal/infra/fsworkspace"
	"github.com/aalvaropc/preprints/internal/infra/logger"
	"github.com/aalvaropc/preprints/internal/infra/notify"
	"github.com/aalvaropc/preprints/internal/infra/workspacefinder"
	"github.com/aalvaropc/preprints/internal/ui/tui"
	"github.com/aalvaropc/preprints/internal/usecase"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool
	var cleanup func() error

	cmd := &cobra.Command{
		Use:          "preprints",
		Short:        "preprints: browse subjects and submit preprints",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			cleanup, _ = logger.Setup(logger.Config{
				Root:  logRoot(),
				Debug: debug,
			})
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if cleanup != nil {
				_ = cleanup()
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			finder := workspacefinder.NewFinder()
			recorder := &notify.Recorder{}

			deps := tui.Deps{
				Locator:       finder,
				Initializer:   fsworkspace.NewInitializer(),
				Notifications: recorder,
				Logger:        logger.L(),
				Debug:         debug,
			}

			// Without a workspace the TUI still starts and offers Init.
			if ws, err := loadWorkspace(""); err == nil {
				deps.Submission = ws.addPreprint(recorder, "")
			} else {
				logger.L().Info("tui.no_workspace", "err", err)
			}

			return tui.Run(deps)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .preprints/logs/preprints.log")

	cmd.AddCommand(
		initCmd(),
		versionCmd(),
		subjectsCmd(),
		countCmd(),
		contributorsCmd(),
		validateCmd(),
		submitCmd(),
		serveCmd(),
	)
	return cmd
}

func logRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	wd, _ = filepath.Abs(wd)
	if root, ferr := workspacefinder.NewFinder().FindRoot(wd); ferr == nil && root != "" {
		return root
	}
	return wd
}

func initCmd() *cobra.Command {
	var path string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Create preprints.yaml and an example draft",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}
			if err := usecase.NewInitWorkspace(fsworkspace.NewInitializer()).Execute(root, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Workspace initialized at %s\n", root)
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", ".", "Directory to initialize")
	c.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return c
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
