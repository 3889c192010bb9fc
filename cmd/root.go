// Package cmd implements the gitlanes command line interface.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/gitlanes/internal/config"
	gitinfra "github.com/zjrosen/gitlanes/internal/git/infrastructure"
	"github.com/zjrosen/gitlanes/internal/infrastructure/sqlite"
	"github.com/zjrosen/gitlanes/internal/log"
	"github.com/zjrosen/gitlanes/internal/paths"
	"github.com/zjrosen/gitlanes/internal/trace"
	"github.com/zjrosen/gitlanes/internal/ui/app"
	"github.com/zjrosen/gitlanes/internal/ui/styles"
)

var (
	cfg config.Config

	flagRepo        string
	flagConfigFile  string
	flagBranch      string
	flagAll         bool
	flagFirstParent bool
	flagLimit       int
	flagDebug       bool
)

var rootCmd = &cobra.Command{
	Use:   "gitlanes",
	Short: "Commit graph viewer for the terminal",
	Long: `gitlanes renders a repository's commit history as a lane-based
graph with a details pane, keyboard navigation, and live refresh when
refs move.`,
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagRepo, "repo", "r", "", "repository path (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "config file (default: user config dir)")
	rootCmd.Flags().StringVarP(&flagBranch, "branch", "b", "", "start from this branch or ref")
	rootCmd.Flags().BoolVarP(&flagAll, "all", "a", false, "include all branches")
	rootCmd.Flags().BoolVar(&flagFirstParent, "first-parent", false, "follow first parents only")
	rootCmd.Flags().IntVarP(&flagLimit, "limit", "n", 0, "initial commit count (default: config page size)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the config file into cfg, starting from defaults.
// A missing file is not an error; the defaults template is written in
// its place so users have something to edit.
func loadConfig() error {
	cfg = config.Defaults()

	path := flagConfigFile
	if path == "" {
		p, err := paths.ConfigPath()
		if err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if werr := config.WriteDefaultConfig(path); werr != nil {
			log.Warn(log.CatApp, "Could not write default config", "path", path, "error", werr)
		}
		return cfg.Validate()
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg.Validate()
}

// resolveRepoPath picks the repository directory from the flag, the
// config file, or the working directory, in that order.
func resolveRepoPath() (string, error) {
	repo := flagRepo
	if repo == "" {
		repo = cfg.RepoPath
	}
	if repo == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		repo = cwd
	}
	return filepath.Abs(repo)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	repoPath, err := resolveRepoPath()
	if err != nil {
		return err
	}

	executor := gitinfra.NewCLIExecutor(repoPath)
	if !executor.IsGitRepo(cmd.Context()) {
		return fmt.Errorf("%s is not a git repository", repoPath)
	}

	stateDir := paths.ResolveStateDir(repoPath)
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	level := slog.LevelInfo
	if flagDebug {
		level = slog.LevelDebug
	}
	if err := log.Init(paths.LogPath(stateDir), level); err != nil {
		return fmt.Errorf("initializing log: %w", err)
	}
	defer log.Close()

	if err := styles.ApplyBackground(cfg.Theme.Background); err != nil {
		return err
	}
	if err := styles.ApplyTheme(cfg.Theme); err != nil {
		return err
	}

	if cfg.Trace.Enabled {
		shutdown, err := trace.Init(cmd.Context(), trace.Options{Endpoint: cfg.Trace.Endpoint})
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	db, err := sqlite.NewDB(paths.DBPath(stateDir))
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer db.Close()

	cached := gitinfra.NewCachedSource(executor, cfg.Graph.CacheTTL)
	source := gitinfra.NewTracedSource(cached)

	zone.NewGlobal()

	pageSize := cfg.Graph.PageSize
	if flagLimit > 0 {
		pageSize = flagLimit
	}

	model := app.New(app.Options{
		Source:   source,
		Diffs:    executor,
		Actions:  executor,
		States:   db.ViewStateRepository(),
		RepoPath: repoPath,
		PageSize: pageSize,
		Overscan: cfg.Graph.Overscan,
	})
	if flagBranch != "" || flagAll || flagFirstParent {
		model = model.WithQuery(flagBranch, flagAll, flagFirstParent)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	watchCtx, cancelWatch := context.WithCancel(cmd.Context())
	defer cancelWatch()
	if cfg.AutoRefresh {
		watcher := gitinfra.NewRepoWatcher(repoPath, cfg.AutoRefreshDebounce, func() {
			p.Send(app.RepoChangedMsg{})
		})
		if err := watcher.Start(watchCtx); err != nil {
			log.Warn(log.CatWatch, "Auto-refresh disabled", "error", err)
		}
	}

	log.Info(log.CatApp, "Starting gitlanes", "repo", repoPath)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
