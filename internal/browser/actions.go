package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// ============================================================
// NAVIGATE — переход на страницу
// ============================================================
func (s *BrowserService) Navigate(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.page.GetContext(), timeout)
	defer cancel()

	page := s.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

// MaximizeWindow разворачивает окно браузера на весь экран.
func (s *BrowserService) MaximizeWindow() error {
	return s.page.SetWindow(&proto.BrowserBounds{
		WindowState: proto.BrowserWindowStateMaximized,
	})
}

// ============================================================
// WAIT — ожидание появления элемента в DOM
// ============================================================
func (s *BrowserService) WaitForTag(tag string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.page.GetContext(), timeout)
	defer cancel()

	// rod сам повторяет поиск, пока элемент не появится или не выйдет таймаут
	if _, err := s.page.Context(ctx).Element(tag); err != nil {
		return fmt.Errorf("element <%s> not present after %s: %w", tag, timeout, err)
	}
	return nil
}

// ============================================================
// CLICK — клик, когда элемент станет кликабельным
// ============================================================
func (s *BrowserService) ClickWhenClickable(xpath string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.page.GetContext(), timeout)
	defer cancel()

	el, err := s.findX(ctx, xpath)
	if err != nil {
		return err
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("element %s not visible: %w", xpath, err)
	}
	if _, err := el.WaitInteractable(); err != nil {
		return fmt.Errorf("element %s not clickable: %w", xpath, err)
	}
	if err := el.WaitEnabled(); err != nil {
		return fmt.Errorf("element %s not enabled: %w", xpath, err)
	}

	s.highlight(el, HighlightClickScript)

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", xpath, err)
	}
	return nil
}

// ============================================================
// TYPE — ввод текста, когда поле станет видимым
// ============================================================
func (s *BrowserService) TypeWhenVisible(xpath, text string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.page.GetContext(), timeout)
	defer cancel()

	el, err := s.findX(ctx, xpath)
	if err != nil {
		return err
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("element %s not visible: %w", xpath, err)
	}

	s.highlight(el, HighlightTypeScript)

	if err := el.Input(text); err != nil {
		return fmt.Errorf("type into %s: %w", xpath, err)
	}
	return nil
}

func (s *BrowserService) findX(ctx context.Context, xpath string) (*rod.Element, error) {
	el, err := s.page.Context(ctx).ElementX(xpath)
	if err != nil {
		return nil, fmt.Errorf("element %s not found: %w", xpath, err)
	}
	return el, nil
}

// highlight подсвечивает элемент; ошибки не важны
func (s *BrowserService) highlight(el *rod.Element, script string) {
	ctx, cancel := context.WithTimeout(s.page.GetContext(), 2*time.Second)
	defer cancel()
	if _, err := el.Context(ctx).Eval(script); err != nil {
		s.logger.Debug("highlight failed", zap.Error(err))
	}
}
