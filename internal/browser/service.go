package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"
)

// Options настраивает запуск браузера.
type Options struct {
	Headless    bool
	BinPath     string // путь к бинарнику Chromium; пусто — rod скачает сам
	DownloadDir string // куда сохранять скачанные файлы; пусто — не настраиваем
	Width       int
	Height      int
}

// BrowserService управляет одной сессией браузера для проверки логина
type BrowserService struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	logger   *zap.Logger

	downloadDir string
}

// NewBrowserService создает браузер.
func NewBrowserService(ctx context.Context, opts Options, logger *zap.Logger) (*BrowserService, error) {
	if opts.Width == 0 {
		opts.Width = 1400
	}
	if opts.Height == 0 {
		opts.Height = 900
	}

	// 1. Настройка лаунчера
	launch := launcher.New().
		Leakless(true).
		Headless(opts.Headless).
		NoSandbox(true)
	if opts.BinPath != "" {
		launch = launch.Bin(opts.BinPath)
	}

	launch = launch.Context(ctx)
	controlURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	// 2. Подключение
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		launch.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	s := &BrowserService{
		browser:  browser,
		launcher: launch,
		logger:   logger,
	}

	// 3. Автоматическое скачивание файлов в фиксированную папку
	if opts.DownloadDir != "" {
		if err := s.enableDownloads(opts.DownloadDir); err != nil {
			s.Close()
			return nil, err
		}
	}

	// 4. Создание STEALTH страницы
	page, err := stealth.Page(browser)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create stealth page: %w", err)
	}
	scale := 1.0

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: scale,
		Mobile:            false,
	}); err != nil {
		// Не критично
		logger.Warn("failed to set viewport", zap.Error(err))
	}
	s.page = page

	logger.Debug("browser started",
		zap.String("control_url", controlURL),
		zap.Bool("headless", opts.Headless),
		zap.String("download_dir", s.downloadDir))

	return s, nil
}

func (s *BrowserService) enableDownloads(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve download dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	err = proto.BrowserSetDownloadBehavior{
		Behavior:     proto.BrowserSetDownloadBehaviorBehaviorAllow,
		DownloadPath: abs,
	}.Call(s.browser)
	if err != nil {
		return fmt.Errorf("set download behavior: %w", err)
	}

	s.downloadDir = abs
	return nil
}

// DownloadDir возвращает абсолютный путь папки загрузок (пусто, если не настроена).
func (s *BrowserService) DownloadDir() string {
	return s.downloadDir
}

func (s *BrowserService) Close() {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.logger.Warn("failed to close browser", zap.Error(err))
		}
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
}
