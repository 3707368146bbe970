package root

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/habitd/internal/companion"
	"github.com/sandeepkv93/habitd/internal/config"
	"github.com/sandeepkv93/habitd/internal/engine"
	"github.com/sandeepkv93/habitd/internal/logging"
	"github.com/sandeepkv93/habitd/internal/scheduler"
	"github.com/sandeepkv93/habitd/internal/storage"
	"github.com/sandeepkv93/habitd/internal/tracker"
	"github.com/sandeepkv93/habitd/internal/update"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const Version = "0.3.0"

var (
	configPath string
	dbPath     string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "habitd",
	Short:         "habitd - a terminal habit tracker with XP, streaks and a hard-to-please companion",
	Long:          "habitd tracks daily habits, awards XP and levels, and lets an AI companion comment on your progress.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			loaded.DBPath = dbPath
		}
		if verbose {
			loaded.LogLevel = "debug"
		}
		cfg = loaded

		logger, err = logging.New(cfg.LogLevel, cfg.LogFile)
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default habitd.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if logger != nil {
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "habitd: "+err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	repo, err := storage.OpenSQLite(cfg.SQLiteDriver, cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	t := tracker.New(repo,
		tracker.WithRules(engine.Rules{CheatDays: cfg.CheatDays, LevelDown: cfg.LevelDown}),
		tracker.WithLogger(logger.Named("tracker")),
	)
	if err := t.Load(ctx); err != nil {
		return err
	}

	dispatcher := companion.NewDispatcher(newGateway(cfg),
		companion.WithModel(cfg.Model),
		companion.WithCompanionName(cfg.CompanionName),
		companion.WithTimeout(cfg.RequestTimeout),
		companion.WithDispatcherLogger(logger.Named("companion")),
	)
	defer dispatcher.Wait()

	sched := scheduler.NewEngine(cfg.SchedulerBuffer)
	sched.Start()
	defer sched.Stop()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	runtimeCfg := update.DefaultRuntimeConfig()
	runtimeCfg.DesktopNotifications = cfg.DesktopNotifications
	runtimeCfg.CompanionName = cfg.CompanionName
	runtimeCfg.Logger = logger.Named("ui")

	logger.Info("starting",
		zap.String("db", cfg.DBPath),
		zap.String("driver", cfg.SQLiteDriver),
		zap.String("backend", cfg.AIBackend),
		zap.String("model", cfg.Model),
	)
	m := update.NewModel(t, dispatcher, sched, notifier, runtimeCfg).WithContext(ctx)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func newGateway(cfg config.Config) companion.Gateway {
	if cfg.AIBackend == config.BackendGenAI {
		return companion.NewGenAIClient(cfg.GenAIBaseURL)
	}
	return companion.NewProxyClient(cfg.ProxyURL, cfg.ModelsURL, &http.Client{})
}
