package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/theirongolddev/capflow/internal/config"
	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/logging"
	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/planfile"
	"github.com/theirongolddev/capflow/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagStatePath string
	flagBackend   string
	flagSeed      uint64
	flagLogLevel  string
	flagPlanFile  string
	flagQuiet     bool
)

var rootCmd = &cobra.Command{
	Use:   "capflow",
	Short: "Toy capital sandbox",
	Long:  "Define incomes and expenses, tune a scenario, and watch capital move tick by tick.",
	RunE:  runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagStatePath, "state", "", "State file or database path (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Storage backend: sqlite or json")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Random seed for reproducible runs (0 = time based)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Operator log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagPlanFile, "plan", "", "YAML plan file with custom presets")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
}

// session is one opened sandbox: config, store and the engine around the
// loaded state. Commands open it, mutate through the engine and commit.
type session struct {
	cfg     config.Config
	logger  *slog.Logger
	store   store.Persister
	journal store.Journal
	eng     *engine.Engine
}

// loadConfig reads the config file and layers command-line flags over it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: %v, using defaults\n", err)
		cfg = config.DefaultConfig()
	}
	if flagBackend != "" {
		cfg.Storage.Backend = flagBackend
	}
	if flagStatePath != "" {
		cfg.Storage.Path = flagStatePath
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagPlanFile != "" {
		cfg.Scenario.PlanFile = flagPlanFile
	}
	if flagSeed != 0 {
		cfg.General.Seed = flagSeed
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openSession() (*session, error) {
	return openSessionLogging(os.Stderr)
}

// openSessionLogging is openSession with operator logs sent to w.
func openSessionLogging(w io.Writer) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := logging.NewLogger(cfg.Logging.Level, w)

	p, err := store.Open(cfg.Storage.Backend, cfg.StatePath())
	if err != nil {
		return nil, fmt.Errorf("opening state: %w", err)
	}
	st := store.LoadOrDefault(p, logger)

	// A sandbox that has never ticked adopts the configured speed.
	if st.TickCount == 0 && st.TickInterval == model.DefaultTickInterval {
		st.TickInterval = cfg.General.TickIntervalMs
	}

	opts := []engine.Option{
		engine.WithSource(engine.NewSource(cfg.General.Seed)),
		engine.WithLogger(logger),
	}
	if cfg.Scenario.PlanFile != "" {
		presets, err := planfile.LoadPresets(cfg.Scenario.PlanFile)
		if err != nil {
			logger.Warn("plan presets unavailable", "path", cfg.Scenario.PlanFile, "error", err)
		} else {
			opts = append(opts, engine.WithPresets(presets))
		}
	}

	return &session{
		cfg:     cfg,
		logger:  logger,
		store:   p,
		journal: store.JournalOf(p),
		eng:     engine.New(st, opts...),
	}, nil
}

// commit persists the engine's current state.
func (s *session) commit() error {
	if err := s.store.Save(s.eng.State()); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("closing store", "error", err)
	}
}

// withSession opens the sandbox, runs fn and closes the store again.
func withSession(fn func(s *session) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()
	return fn(s)
}

// errWatcherOwns is returned when a watcher would overwrite our changes.
func errWatcherOwns(pid int) error {
	return fmt.Errorf("a watcher (pid %d) owns this sandbox; stop it first with `capflow watch stop`", pid)
}

// mutate runs fn and commits when it reports a change. It refuses to run
// while a watcher holds the same state.
func mutate(fn func(s *session) (bool, error)) error {
	return withSession(func(s *session) error {
		if pid := runningWatcher(s.cfg); pid != 0 {
			return errWatcherOwns(pid)
		}
		changed, err := fn(s)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return s.commit()
	})
}

// say prints an indented informational line unless --quiet is set.
func say(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Printf("  "+format+"\n", args...)
}
