package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/capflow/internal/cli"
	"github.com/theirongolddev/capflow/internal/config"
	"github.com/theirongolddev/capflow/internal/engine"
	"github.com/theirongolddev/capflow/internal/model"
	"github.com/theirongolddev/capflow/internal/scheduler"

	"github.com/spf13/cobra"
)

type watchRuntimeState struct {
	PID        int       `json:"pid"`
	StartedAt  time.Time `json:"started_at"`
	StatePath  string    `json:"state_path"`
	Checkpoint string    `json:"checkpoint,omitempty"`
	Persist    bool      `json:"persist"`
}

var (
	flagWatchTicks   int
	flagWatchPersist bool
	flagWatchResume  bool
	flagWatchDetach  bool
	flagWatchChild   bool
	flagWatchPIDFile string
	flagWatchLogFile string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the simulation in the foreground, one line per tick",
	Long: "Ticks at the sandbox's interval until interrupted. State is saved on every\n" +
		"checkpoint (schedule.checkpoint) and on exit, or after every tick with --persist.\n" +
		"Send SIGHUP to save without stopping.",
	RunE: runWatch,
}

var watchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a watcher is running",
	RunE:  runWatchStatus,
}

var watchStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running watcher",
	RunE:  runWatchStop,
}

func init() {
	watchCmd.PersistentFlags().StringVar(&flagWatchPIDFile, "pid-file", "", "PID file path (default next to the state)")
	watchCmd.PersistentFlags().StringVar(&flagWatchLogFile, "log-file", "", "Log file for detached mode (default next to the state)")

	watchCmd.Flags().IntVarP(&flagWatchTicks, "ticks", "n", 0, "Stop after N ticks (0 = run until interrupted)")
	watchCmd.Flags().BoolVar(&flagWatchPersist, "persist", false, "Save state after every tick")
	watchCmd.Flags().BoolVar(&flagWatchResume, "resume", false, "Resume a paused sandbox before watching")
	watchCmd.Flags().BoolVar(&flagWatchDetach, "detach", false, "Run the watcher as a background process")
	watchCmd.Flags().BoolVar(&flagWatchChild, "child", false, "Internal: mark detached child process")
	_ = watchCmd.Flags().MarkHidden("child")

	watchCmd.AddCommand(watchStatusCmd)
	watchCmd.AddCommand(watchStopCmd)
	rootCmd.AddCommand(watchCmd)
}

// watchPIDFile resolves the pid file for the configured state.
func watchPIDFile(cfg config.Config) string {
	if flagWatchPIDFile != "" {
		return flagWatchPIDFile
	}
	return cfg.StatePath() + ".watch.pid"
}

func watchLogFile(cfg config.Config) string {
	if flagWatchLogFile != "" {
		return flagWatchLogFile
	}
	return cfg.StatePath() + ".watch.log"
}

// formatTickLine renders one tick for line-oriented output.
func formatTickLine(res engine.TickResult) string {
	line := fmt.Sprintf("  tick %-6s %14s  %s",
		cli.FormatNumber(int64(res.Tick)),
		cli.Colorize(res.Delta, cli.FormatSigned(res.Delta)),
		cli.FormatMoney(res.Capital))
	if res.Event != "" {
		line += "  " + cli.Header(res.Event)
	}
	return line
}

func runWatch(_ *cobra.Command, _ []string) error {
	if flagWatchDetach && flagWatchChild {
		return errors.New("invalid watch launch mode")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagWatchDetach {
		return startWatchDetached(cfg)
	}
	return runWatchForeground(cfg)
}

func startWatchDetached(cfg config.Config) error {
	pidFile, logFile := watchPIDFile(cfg), watchLogFile(cfg)
	if err := ensureWatchNotRunning(pidFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	args := filterDetachArg(os.Args[1:])
	args = append(args, "--child")

	if err := os.MkdirAll(filepath.Dir(logFile), 0o750); err != nil {
		return fmt.Errorf("create watch log directory: %w", err)
	}

	//nolint:gosec // watch log path is configured by the local user
	logf, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open watch log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	cmd := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	cmd.Stdout = logf
	cmd.Stderr = logf
	cmd.Stdin = nil
	cmd.Env = os.Environ()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached watcher: %w", err)
	}

	fmt.Printf("  Started watcher (pid %d)\n", cmd.Process.Pid)
	fmt.Printf("  PID file: %s\n", pidFile)
	fmt.Printf("  Log: %s\n", logFile)
	return nil
}

func runWatchForeground(cfg config.Config) error {
	pidFile := watchPIDFile(cfg)
	if err := ensureWatchNotRunning(pidFile); err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	if err := os.MkdirAll(filepath.Dir(pidFile), 0o750); err != nil {
		return fmt.Errorf("create watch directory: %w", err)
	}
	pid := os.Getpid()
	if err := writePID(pidFile, pid); err != nil {
		return err
	}
	defer func() { _ = os.Remove(pidFile) }()

	_ = writeWatchState(watchStatePath(pidFile), watchRuntimeState{
		PID:        pid,
		StartedAt:  time.Now(),
		StatePath:  s.cfg.StatePath(),
		Checkpoint: s.cfg.Schedule.Checkpoint,
		Persist:    flagWatchPersist,
	})
	defer func() { _ = os.Remove(watchStatePath(pidFile)) }()

	st := s.eng.State()
	if !st.IsFlowing {
		if flagWatchResume {
			s.eng.ToggleFlow()
		} else {
			fmt.Println("  Flow is paused; ticks will be skipped. Use --resume to start it.")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	saveErrs := 0
	save := func(st *model.State) {
		if err := s.store.Save(st); err != nil {
			saveErrs++
			s.logger.Warn("saving state", "error", err)
		}
	}

	startTick := st.TickCount
	var hooks scheduler.Config
	hooks.Checkpoint = s.cfg.Schedule.Checkpoint
	hooks.Logger = s.logger
	hooks.OnTick = func(res engine.TickResult) {
		if res.Skipped {
			return
		}
		if err := s.journal.RecordTick(res); err != nil {
			s.logger.Warn("recording tick", "error", err)
		}
		if !flagQuiet {
			fmt.Println(formatTickLine(res))
		}
		if flagWatchTicks > 0 && res.Tick >= startTick+flagWatchTicks {
			stop()
		}
	}
	hooks.OnCheckpoint = save
	if flagWatchPersist {
		hooks.After = save
	}

	sched, err := scheduler.New(s.eng, hooks)
	if err != nil {
		return err
	}

	fmt.Printf("  Watching %s, capital %s, every %s\n",
		s.cfg.StatePath(), cli.FormatMoney(st.Capital), cli.FormatInterval(st.TickInterval))
	fmt.Printf("  Stop with Ctrl+C or: capflow watch stop\n\n")

	// SIGHUP saves immediately without stopping.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				var tick int
				err := sched.Do(ctx, func(e *engine.Engine) {
					save(e.State())
					tick = e.State().TickCount
				})
				if err != nil {
					return
				}
				s.logger.Info("state saved on SIGHUP", "tick", tick, "interval", sched.Interval())
			}
		}
	}()

	if err := sched.Run(ctx); err != nil {
		return err
	}

	if err := s.commit(); err != nil {
		return err
	}
	final := s.eng.State()
	fmt.Printf("\n  Stopped after %d ticks, capital %s\n", sched.Ticks(), cli.FormatMoney(final.Capital))
	if saveErrs > 0 {
		return fmt.Errorf("%d saves failed during the run", saveErrs)
	}
	return nil
}

func runWatchStatus(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pidFile := watchPIDFile(cfg)
	pid, err := readPID(pidFile)
	if err != nil {
		fmt.Printf("  Watcher: not running (pid file not found)\n")
		return nil
	}

	if !processAlive(pid) {
		fmt.Printf("  Watcher: stale pid file (pid %d not alive)\n", pid)
		return nil
	}

	fmt.Printf("  Watcher PID: %d\n", pid)
	if st, err := readWatchState(watchStatePath(pidFile)); err == nil {
		fmt.Printf("  State:       %s\n", st.StatePath)
		fmt.Printf("  Started:     %s\n", cli.FormatAgo(st.StartedAt))
		if st.Checkpoint != "" {
			fmt.Printf("  Checkpoint:  %s\n", st.Checkpoint)
		}
		fmt.Printf("  Persist:     %v\n", st.Persist)
	}
	return nil
}

func runWatchStop(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pidFile := watchPIDFile(cfg)
	pid, err := readPID(pidFile)
	if err != nil {
		return errors.New("watcher is not running")
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("find watcher process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal watcher process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			_ = os.Remove(pidFile)
			_ = os.Remove(watchStatePath(pidFile))
			fmt.Printf("  Stopped watcher (pid %d)\n", pid)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}

	return fmt.Errorf("watcher (pid %d) did not exit in time", pid)
}

// runningWatcher returns the pid of a live watcher for cfg's state, or 0.
func runningWatcher(cfg config.Config) int {
	pid, err := readPID(watchPIDFile(cfg))
	if err != nil || !processAlive(pid) {
		return 0
	}
	return pid
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func ensureWatchNotRunning(pidFile string) error {
	pid, err := readPID(pidFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if processAlive(pid) {
		return fmt.Errorf("watcher already running (pid %d)", pid)
	}
	_ = os.Remove(pidFile)
	_ = os.Remove(watchStatePath(pidFile))
	return nil
}

func writePID(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)+"\n"), 0o600)
}

func readPID(path string) (int, error) {
	//nolint:gosec // watch pid path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", path)
	}
	return pid, nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

func watchStatePath(pidFile string) string {
	return pidFile + ".json"
}

func writeWatchState(path string, st watchRuntimeState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readWatchState(path string) (watchRuntimeState, error) {
	var st watchRuntimeState
	//nolint:gosec // watch state path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, err
	}
	return st, nil
}
