package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"login-probe/internal/config"
	"login-probe/internal/entity"
)

// ErrSiteUnreachable оборачивает ошибку проверки доступности сайта.
// Это единственная ошибка, которая прерывает прогон.
var ErrSiteUnreachable = errors.New("website is down")

type Browser interface {
	Navigate(url string, timeout time.Duration) error
	MaximizeWindow() error
	WaitForTag(tag string, timeout time.Duration) error
	ClickWhenClickable(xpath string, timeout time.Duration) error
	TypeWhenVisible(xpath, text string, timeout time.Duration) error
	Observe() (*entity.PageState, error)
	ReadyState() (string, error)
	Screenshot(path string) error
	Close()
}

type Reporter interface {
	LogResult(ctx context.Context, cell entity.Cell, status entity.Status)
}

type Monitor interface {
	Ping(ctx context.Context, ev entity.PingEvent) error
}

// Scenario — всё, что нужно знать о проверяемом логине.
type Scenario struct {
	WebsiteURL    string
	Email         string
	Password      string
	Locators      config.Locators
	Timeouts      config.Timeouts
	Cell          entity.Cell
	ScreenshotDir string // пусто — скриншоты не сохраняются
}

// ScenarioFromConfig собирает сценарий из конфигурации.
func ScenarioFromConfig(cfg *config.Config, screenshotDir string) Scenario {
	return Scenario{
		WebsiteURL: cfg.WebsiteURL,
		Email:      cfg.Email,
		Password:   cfg.Password,
		Locators:   cfg.Locators,
		Timeouts:   cfg.Timeouts,
		Cell: entity.Cell{
			Sheet:  cfg.SheetName,
			Column: cfg.ResultColumn,
			Row:    cfg.ResultRow,
		},
		ScreenshotDir: screenshotDir,
	}
}

// Runner связывает браузер, таблицу и мониторинг в одну проверку
type Runner struct {
	Browser  Browser
	Reporter Reporter
	Monitor  Monitor
	Scenario Scenario

	logger *zap.Logger
	series string
	steps  []entity.ActionRecord
	sleep  func(ctx context.Context, d time.Duration) error
}

func New(b Browser, r Reporter, m Monitor, sc Scenario, series string, logger *zap.Logger) *Runner {
	return &Runner{
		Browser:  b,
		Reporter: r,
		Monitor:  m,
		Scenario: sc,
		logger:   logger.With(zap.String("series", series)),
		series:   series,
		sleep:    sleepCtx,
	}
}

// Setup отправляет пинг о начале прогона.
func (r *Runner) Setup(ctx context.Context) {
	r.ping(ctx, entity.PingEvent{Message: "Automate Test setup initialized"})
}

// Teardown отправляет пинг о завершении и закрывает браузер.
func (r *Runner) Teardown(ctx context.Context) {
	r.ping(ctx, entity.PingEvent{Message: "Automate Test teardown completed"})
	r.Browser.Close()
}

// Run выполняет проверку целиком: setup → сайт → логин → teardown.
// Ошибка возвращается, если сайт недоступен или прогон отменён.
// Отменённый прогон в таблицу и мониторинг как провал не попадает.
func (r *Runner) Run(ctx context.Context) (*entity.RunResult, error) {
	result := &entity.RunResult{
		Series:  r.series,
		Started: time.Now(),
	}
	defer func() {
		result.Steps = r.steps
		result.Finished = time.Now()
	}()

	// отчёты уходят и после Ctrl+C
	report := context.WithoutCancel(ctx)

	r.Setup(ctx)
	defer r.Teardown(report)

	fmt.Println("🚀 Starting login check...")
	if err := r.sleep(ctx, r.Scenario.Timeouts.StartDelay); err != nil {
		return r.cancelled(ctx, result)
	}

	// 1. Доступность сайта
	if err := r.CheckSite(ctx); err != nil {
		if ctx.Err() != nil {
			return r.cancelled(ctx, result)
		}
		r.ping(report, entity.PingEvent{
			Message: "Website is down",
			Metrics: &entity.Metrics{Count: 1, ErrorCount: 1},
		})
		r.Reporter.LogResult(report, r.Scenario.Cell, entity.StatusFail)
		r.capture(entity.StageSite)
		return r.fail(result, entity.StageSite, err), fmt.Errorf("%w: %w", ErrSiteUnreachable, err)
	}
	fmt.Println("🌍 Website is accessible.")

	// 2. Логин. Ошибка здесь не прерывает прогон.
	if err := r.Login(ctx); err != nil {
		if ctx.Err() != nil {
			return r.cancelled(ctx, result)
		}
		r.Reporter.LogResult(report, r.Scenario.Cell, entity.StatusFail)
		r.ping(report, entity.PingEvent{
			Message: fmt.Sprintf("Login Test Failed: %v", err),
			Metrics: &entity.Metrics{Count: 1, ErrorCount: 1},
		})
		r.capture(entity.StageLogin)
		return r.fail(result, entity.StageLogin, err), nil
	}

	r.Reporter.LogResult(report, r.Scenario.Cell, entity.StatusPass)
	r.ping(report, entity.PingEvent{
		Message: "Login Test Passed",
		Metrics: &entity.Metrics{Count: 1, ErrorCount: 0},
	})

	result.Status = entity.StatusPass
	return result, nil
}

// CheckSite открывает сайт и ждёт появления <body>.
func (r *Runner) CheckSite(ctx context.Context) error {
	sc := r.Scenario
	// загрузку страницы ограничивает только Element; Site — ожидание <body>
	if err := r.step(ctx, "navigate", sc.WebsiteURL, func() error {
		return r.Browser.Navigate(sc.WebsiteURL, sc.Timeouts.Element)
	}); err != nil {
		return err
	}
	if err := r.step(ctx, "wait", "body", func() error {
		return r.Browser.WaitForTag("body", sc.Timeouts.Site)
	}); err != nil {
		return err
	}
	if state, err := r.Browser.ReadyState(); err == nil {
		r.logger.Debug("site loaded", zap.String("ready_state", state))
	}
	return nil
}

// Login проходит форму входа. Первая же ошибка прерывает шаг.
func (r *Runner) Login(ctx context.Context) error {
	sc := r.Scenario
	loc := sc.Locators
	wait := sc.Timeouts.Element

	if err := r.Browser.MaximizeWindow(); err != nil {
		// в headless окно не разворачивается — это не ошибка логина
		r.logger.Debug("maximize window failed", zap.Error(err))
	}

	if err := r.step(ctx, "navigate", sc.WebsiteURL, func() error {
		return r.Browser.Navigate(sc.WebsiteURL, wait)
	}); err != nil {
		return err
	}
	fmt.Println("🌐 Opened the website.")

	if err := r.step(ctx, "click", loc.LoginButton, func() error {
		return r.Browser.ClickWhenClickable(loc.LoginButton, wait)
	}); err != nil {
		return err
	}
	fmt.Println("🖱️ Login button clicked.")

	if err := r.sleep(ctx, sc.Timeouts.ClickDelay); err != nil {
		return err
	}

	if err := r.step(ctx, "type", loc.EmailInput, func() error {
		return r.Browser.TypeWhenVisible(loc.EmailInput, sc.Email, wait)
	}); err != nil {
		return err
	}
	fmt.Println("⌨️ Email entered.")

	if err := r.step(ctx, "type", loc.PasswordInput, func() error {
		return r.Browser.TypeWhenVisible(loc.PasswordInput, sc.Password, wait)
	}); err != nil {
		return err
	}
	fmt.Println("⌨️ Password entered.")

	if err := r.step(ctx, "click", loc.SignInButton, func() error {
		return r.Browser.ClickWhenClickable(loc.SignInButton, wait)
	}); err != nil {
		return err
	}
	fmt.Println("🔑 Sign-in submitted.")

	return r.sleep(ctx, sc.Timeouts.SettleDelay)
}

// step выполняет одно действие и записывает его в историю прогона.
func (r *Runner) step(ctx context.Context, action, target string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	rec := entity.ActionRecord{
		Action:   action,
		Target:   target,
		Duration: time.Since(start),
		Err:      err,
	}
	r.steps = append(r.steps, rec)

	if err != nil {
		r.logger.Warn("step failed",
			zap.String("action", action),
			zap.String("target", target),
			zap.Duration("took", rec.Duration),
			zap.Error(err))
		return err
	}
	r.logger.Debug("step done",
		zap.String("action", action),
		zap.String("target", target),
		zap.Duration("took", rec.Duration))
	return nil
}

func (r *Runner) fail(result *entity.RunResult, stage string, err error) *entity.RunResult {
	result.Status = entity.StatusFail
	result.Stage = stage
	result.Err = err
	return result
}

// cancelled завершает прогон, прерванный снаружи (Ctrl+C, SIGTERM).
func (r *Runner) cancelled(ctx context.Context, result *entity.RunResult) (*entity.RunResult, error) {
	err := ctx.Err()
	r.logger.Info("run cancelled", zap.Error(err))
	return r.fail(result, entity.StageCancelled, err), err
}

// ping — ошибки мониторинга только логируются
func (r *Runner) ping(ctx context.Context, ev entity.PingEvent) {
	if err := r.Monitor.Ping(ctx, ev); err != nil {
		r.logger.Warn("monitor ping failed", zap.String("message", ev.Message), zap.Error(err))
	}
}

// capture пишет в лог, где остановился браузер, и сохраняет скриншот.
func (r *Runner) capture(stage string) {
	if page, err := r.Browser.Observe(); err == nil {
		r.logger.Info("page at failure",
			zap.String("stage", stage),
			zap.String("url", page.URL),
			zap.String("title", page.Title))
	}
	if r.Scenario.ScreenshotDir == "" {
		return
	}
	path := filepath.Join(r.Scenario.ScreenshotDir, fmt.Sprintf("%s-%s.png", stage, r.series))
	if err := r.Browser.Screenshot(path); err != nil {
		r.logger.Warn("screenshot failed", zap.String("path", path), zap.Error(err))
		return
	}
	r.logger.Info("screenshot saved", zap.String("path", path))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
