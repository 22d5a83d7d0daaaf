package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"login-probe/internal/entity"
)

// Observe возвращает URL и заголовок текущей вкладки.
func (s *BrowserService) Observe() (*entity.PageState, error) {
	ctx, cancel := context.WithTimeout(s.page.GetContext(), 2*time.Second)
	defer cancel()

	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return nil, fmt.Errorf("page info: %w", err)
	}
	return &entity.PageState{
		URL:   info.URL,
		Title: info.Title,
	}, nil
}

// ReadyState возвращает document.readyState ("loading", "interactive", "complete").
func (s *BrowserService) ReadyState() (string, error) {
	ctx, cancel := context.WithTimeout(s.page.GetContext(), 2*time.Second)
	defer cancel()

	res, err := s.page.Context(ctx).Eval(ReadyStateScript)
	if err != nil {
		return "", err
	}
	return res.Value.String(), nil
}

// Screenshot сохраняет скриншот видимой области в PNG.
func (s *BrowserService) Screenshot(path string) error {
	ctx, cancel := context.WithTimeout(s.page.GetContext(), 5*time.Second)
	defer cancel()

	data, err := s.page.Context(ctx).Screenshot(false, nil)
	if err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	return nil
}
