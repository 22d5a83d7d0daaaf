package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"login-probe/internal/browser"
	"login-probe/internal/config"
	"login-probe/internal/entity"
	"login-probe/internal/monitor"
	"login-probe/internal/runner"
	"login-probe/internal/sheet"
)

// App держит общие для команд флаги, конфиг и логгер
type App struct {
	envFile  string
	verbose  bool
	headless bool
	schedule string

	cfg    *config.Config
	logger *zap.Logger
}

// Run разбирает аргументы и выполняет выбранную команду.
func Run(ctx context.Context, args []string) error {
	cmd := NewRootCmd(&App{})
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// NewRootCmd собирает дерево команд cobra.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "login-probe",
		Short: "End-to-end login check reporting to Google Sheets and Cronitor",
		Long: `login-probe opens the configured website in a browser, signs in with the
test account, writes Pass/Fail into one spreadsheet cell and pings a
Cronitor monitor. Configuration comes from environment variables and an
optional .env file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOnce(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&app.envFile, "env-file", ".env", "path to the .env file")
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "debug logging to the console")
	root.PersistentFlags().BoolVar(&app.headless, "headless", true, "run the browser without a window (overrides HEADLESS)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the login check once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runOnce(cmd.Context())
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the login check on a cron schedule until interrupted",
		Long: `Runs the full check (fresh browser, sheet update, pings) on every tick of
the schedule. A tick that fires while the previous run is still going is
skipped.

Example:
  login-probe watch --schedule "*/10 * * * *"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.watch(cmd.Context())
		},
	}
	watchCmd.Flags().StringVar(&app.schedule, "schedule", "", "cron spec; defaults to WATCH_SCHEDULE")

	root.AddCommand(runCmd, watchCmd)
	return root
}

func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.envFile)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = a.headless
	}
	if a.schedule == "" {
		a.schedule = cfg.WatchSchedule
	}

	logger, err := NewLogger(a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = logger
	logger.Info("🚀 configuration loaded",
		zap.String("website", cfg.WebsiteURL),
		zap.String("monitor", cfg.CronitorMonitor),
		zap.Bool("headless", cfg.Headless))
	return nil
}

// runOnce — один полный прогон. Ошибка при недоступном сайте, отмене
// или если не удалось поднять браузер/клиент таблиц.
func (a *App) runOnce(ctx context.Context) error {
	res, err := a.execute(ctx)
	if res != nil {
		fmt.Println(SummaryLine(res))
	}
	return err
}

func (a *App) execute(ctx context.Context) (*entity.RunResult, error) {
	cfg := a.cfg
	series := uuid.NewString()
	logger := a.logger.With(zap.String("series", series))

	// 1. Браузер с автоматическим скачиванием файлов
	logger.Info("🔌 starting browser")
	browserSvc, err := browser.NewBrowserService(ctx, browser.Options{
		Headless:    cfg.Headless,
		BinPath:     cfg.BrowserBin,
		DownloadDir: cfg.DownloadPath,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("browser launch error: %w", err)
	}

	// 2. Клиент Google Sheets
	reporter, err := sheet.NewReporter(ctx, cfg.SpreadsheetID, cfg.ServiceKeyPath, logger)
	if err != nil {
		browserSvc.Close()
		return nil, fmt.Errorf("sheets client error: %w", err)
	}

	// 3. Мониторинг
	mon := monitor.NewClient(monitor.Config{
		BaseURL:     cfg.CronitorURL,
		APIKey:      cfg.CronitorAPIKey,
		MonitorKey:  cfg.CronitorMonitor,
		Environment: cfg.CronitorEnv,
	}, logger).WithSeries(series)

	r := runner.New(browserSvc, reporter, mon,
		runner.ScenarioFromConfig(cfg, browserSvc.DownloadDir()), series, logger)

	res, err := r.Run(ctx)
	logger.Info("🏁 run finished",
		zap.String("status", res.Status.String()),
		zap.String("stage", res.Stage),
		zap.Duration("took", res.Duration()),
		zap.Int("steps", len(res.Steps)))
	return res, err
}

func (a *App) watch(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{a.logger})))

	_, err := c.AddFunc(a.schedule, func() {
		if err := a.runOnce(ctx); err != nil {
			a.logger.Error("scheduled run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", a.schedule, err)
	}

	a.logger.Info("⏱️ watching", zap.String("schedule", a.schedule))
	c.Start()

	<-ctx.Done()
	a.logger.Info("👋 stopping, waiting for the current run")
	<-c.Stop().Done()
	return nil
}

// SummaryLine — единственная итоговая строка прогона для консоли.
func SummaryLine(res *entity.RunResult) string {
	switch {
	case res.Status == entity.StatusPass:
		return "✅ Login - Passed"
	case res.Stage == entity.StageCancelled:
		return fmt.Sprintf("🛑 Check cancelled: %v", res.Err)
	case res.Stage == entity.StageSite:
		return fmt.Sprintf("❌ Website is down: %v", res.Err)
	default:
		return fmt.Sprintf("❌ Login - Failed: %v", res.Err)
	}
}
