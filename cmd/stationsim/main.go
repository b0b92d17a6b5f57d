package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spacestation/sim/internal/channel"
	"github.com/spacestation/sim/internal/config"
	"github.com/spacestation/sim/internal/core/clock"
	"github.com/spacestation/sim/internal/core/event"
	coresys "github.com/spacestation/sim/internal/core/system"
	"github.com/spacestation/sim/internal/data"
	"github.com/spacestation/sim/internal/persist"
	"github.com/spacestation/sim/internal/scripting"
	"github.com/spacestation/sim/internal/system"
	"github.com/spacestation/sim/internal/world"
)

type options struct {
	configPath string
	scenario   string
	ticks      int64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{configPath: "config/stationsim.toml"}
	if p := os.Getenv("STATIONSIM_CONFIG"); p != "" {
		opts.configPath = p
	}

	cmd := &cobra.Command{
		Use:           "stationsim",
		Short:         "Run the station simulation kernel",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", opts.configPath, "path to the TOML config (env STATIONSIM_CONFIG)")
	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "scenario YAML, overrides [data] scenario")
	cmd.Flags().Int64Var(&opts.ticks, "ticks", 0, "stop after N fixed steps (0 = run until signalled)")
	return cmd
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m          Station Sim kernel  v0.1.0       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mSimulation:\033[0m %s \033[90m(step %.3f ms)\033[0m\n\n", name, clock.FixedStepMs)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Simulation boot ───────────────────────────────────────────────

func run(parent context.Context, opts *options) error {
	if parent == nil {
		parent = context.Background()
	}

	// 1. Load config
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.scenario != "" {
		cfg.Data.Scenario = opts.scenario
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Simulation.Name)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Build the world from scenario data
	printSection("World")
	scenario, err := data.LoadScenario(cfg.Data.Scenario)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	store := world.NewStore()
	built, err := world.Build(store, scenario)
	if err != nil {
		return err
	}
	printStat("Resource types", len(built.Types))
	printStat("Producers", store.Producers())
	printStat("Resources", store.ResourceCount())
	fmt.Println()

	// 4. Event bus and channels
	printSection("Events")
	bus := event.NewBus(event.NewDefaultRegistry())
	bus.RegisterChannel(channel.NewConsole(log))
	printStat("Event kinds", bus.Registry().Len())

	var journal *channel.Journal
	var journalRepo *persist.JournalRepo
	if cfg.Journal.Enabled {
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		db, err := persist.NewDB(dbCtx, cfg.Journal, log)
		if err != nil {
			cancel()
			return fmt.Errorf("journal database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		err = persist.RunMigrations(dbCtx, db.Pool)
		cancel()
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("Journal schema up to date")

		journalRepo = persist.NewJournalRepo(db)
		// Detached from the signal context so the final batches still land.
		journal, err = channel.NewJournal(context.WithoutCancel(ctx), journalRepo, cfg.Journal.WriteTimeout.Duration, log)
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		bus.RegisterChannel(journal)
		printReady(fmt.Sprintf("Journal run %s", journal.RunID()))
	}
	printStat("Channels", bus.Channels())
	fmt.Println()

	// 5. Scripting engine
	printSection("Scripts")
	engine := scripting.NewEngine(log)
	defer engine.Close()
	if err := engine.LoadDir(cfg.Scripting.Dir); err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	printStat("Lua systems", len(engine.Scripts()))
	fmt.Println()

	// 6. Create systems and register with the scheduler
	production := system.NewProductionSystem(store, bus,
		system.ProductionOptions{ShortCircuit: cfg.Production.ShortCircuit}, log)
	sched := coresys.NewScheduler().
		RegisterSystem(production, cfg.Systems.ProductionRate).
		RegisterSystem(system.NewPopSystem(bus, log), cfg.Systems.PopRate)
	for _, s := range engine.Scripts() {
		rate := s.Rate
		if rate == 0 {
			rate = cfg.Systems.ScriptRate
		}
		sched.RegisterSystem(system.NewScriptSystem(engine, s, bus, log), rate)
	}

	// 7. Start the clock
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	var stamper clock.Stamper = bus
	if opts.ticks > 0 {
		stamper = &tickLimit{Bus: bus, remaining: opts.ticks, done: cancelRun}
	}
	clk := clock.New(sched, stamper,
		clock.WithFrameYield(cfg.Simulation.FrameYield.Duration),
		clock.WithLogger(log),
	)

	printSection("Running")
	for _, r := range sched.Records() {
		printReady(fmt.Sprintf("%s every %.1f ms", r.Name, r.PeriodMs))
	}
	fmt.Println()

	_ = clk.Run(runCtx)

	stats := production.Stats()
	log.Info("simulation finished",
		zap.Int64("ticks", clk.TickCount()),
		zap.Float64("sim_time_ms", clk.SimulationTime()),
		zap.Int("production_passes", stats.Passes),
		zap.Int("crafts", stats.Crafts),
		zap.Int("blocked", stats.Blocked),
	)
	if journal != nil {
		fields := []zap.Field{zap.Int("written", journal.Written()), zap.Int("dropped", journal.Dropped())}
		countCtx, cancel := context.WithTimeout(context.Background(), cfg.Journal.WriteTimeout.Duration)
		if n, cerr := journalRepo.CountRun(countCtx, journal.RunID()); cerr == nil {
			fields = append(fields, zap.Int64("rows", n))
		}
		cancel()
		log.Info("journal closed", fields...)
	}

	// Run only ends through cancellation: a signal or the --ticks limit.
	if ctx.Err() != nil {
		log.Info("shutdown signal received")
	}
	return nil
}

// tickLimit cancels the run once the requested number of steps has been
// flushed.
type tickLimit struct {
	*event.Bus
	remaining int64
	done      context.CancelFunc
}

func (t *tickLimit) Flush() {
	t.Bus.Flush()
	t.remaining--
	if t.remaining == 0 {
		t.done()
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
