package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"login-probe/internal/browser"
	"login-probe/internal/config"
)

// Ручная отладка XPath-локаторов на живом сайте: без таблицы и мониторинга.
func main() {
	envFile := flag.String("env-file", ".env", "path to the .env file")
	flag.Parse()

	// 1. Инициализация
	ctx := context.Background()
	fmt.Println("🚀 Запуск отладчика локаторов...")

	cfg, err := config.LoadBrowserConfig(*envFile)
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("❌ Ошибка логгера: %v", err)
	}
	defer logger.Sync()

	browserSvc, err := browser.NewBrowserService(ctx, browser.Options{
		Headless:    false, // режим с окном
		BinPath:     cfg.BrowserBin,
		DownloadDir: cfg.DownloadPath,
	}, logger)
	if err != nil {
		log.Fatalf("❌ Ошибка запуска: %v", err)
	}
	defer browserSvc.Close()

	// Стартовая страница
	if err := browserSvc.Navigate(cfg.WebsiteURL, cfg.Timeouts.Element); err != nil {
		log.Printf("⚠️ Ошибка навигации: %v", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	wait := cfg.Timeouts.Element

	// ==========================================
	// 🔄 ГЛАВНЫЙ ЦИКЛ (REPL)
	// ==========================================
	for {
		if page, err := browserSvc.Observe(); err == nil {
			fmt.Printf("\n🌍 URL: %s | 📄 Title: %s\n", page.URL, page.Title)
		}

		fmt.Println("🎮 КОМАНДЫ: [goto <url>] | [c <xpath>]=Click | [t <xpath> <text>]=Type | [w <tag>]=Wait | [i]=Info | [check] | [h]")
		fmt.Print("👉 Введите команду > ")

		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		var actionErr error
		startTime := time.Now()

		switch cmd {
		case "q", "quit", "exit":
			fmt.Println("👋 Завершение работы.")
			return

		case "goto", "go":
			url := cfg.WebsiteURL
			if len(args) > 0 {
				url = args[0]
				if !strings.HasPrefix(url, "http") {
					url = "https://" + url
				}
			}
			fmt.Printf("🌐 Переход на %s...\n", url)
			actionErr = browserSvc.Navigate(url, wait)

		case "c", "click":
			if len(args) == 0 {
				fmt.Println("❌ Укажите XPath. Пример: c //button[@id='login']")
				continue
			}
			xpath := strings.Join(args, " ")
			fmt.Printf("🖱️ Клик по %s...\n", xpath)
			actionErr = browserSvc.ClickWhenClickable(xpath, wait)

		case "t", "type":
			// XPath не должен содержать пробелов, остальное — текст
			if len(args) < 2 {
				fmt.Println("❌ Формат: t <xpath> <текст>")
				continue
			}
			text := strings.Join(args[1:], " ")
			fmt.Printf("⌨️ Ввод '%s' в %s...\n", text, args[0])
			actionErr = browserSvc.TypeWhenVisible(args[0], text, wait)

		case "w", "wait":
			tag := "body"
			if len(args) > 0 {
				tag = args[0]
			}
			actionErr = browserSvc.WaitForTag(tag, cfg.Timeouts.Site)

		case "i", "info":
			printPageInfo(browserSvc)
			continue

		case "check":
			checkLocators(browserSvc, cfg)
			continue

		case "help", "h", "?":
			printHelp()
			continue

		default:
			fmt.Println("❌ Неизвестная команда. Введите 'help' или 'h'.")
			continue
		}

		// ОТЧЕТ О РЕЗУЛЬТАТЕ
		duration := time.Since(startTime)
		if actionErr != nil {
			fmt.Printf("\n❌ ОШИБКА: %v\n", actionErr)
		} else {
			fmt.Printf("\n✅ Успешно (за %v)\n", duration)
		}
	}
}

// checkLocators прогоняет форму входа по шагам и сообщает, какой локатор сломался.
func checkLocators(b *browser.BrowserService, cfg *config.Config) {
	wait := cfg.Timeouts.Element
	steps := []struct {
		name string
		run  func() error
	}{
		{"LOGIN_BUTTON_XPATH", func() error { return b.ClickWhenClickable(cfg.Locators.LoginButton, wait) }},
		{"EMAIL_INPUT_XPATH", func() error { return b.TypeWhenVisible(cfg.Locators.EmailInput, cfg.Email, wait) }},
		{"PASSWORD_INPUT_XPATH", func() error { return b.TypeWhenVisible(cfg.Locators.PasswordInput, cfg.Password, wait) }},
		{"SIGN_IN_BUTTON_XPATH", func() error { return b.ClickWhenClickable(cfg.Locators.SignInButton, wait) }},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			fmt.Printf("❌ %s: %v\n", s.name, err)
			return
		}
		fmt.Printf("✅ %s\n", s.name)
		time.Sleep(cfg.Timeouts.ClickDelay)
	}
}

// printPageInfo показывает адрес, заголовок и document.readyState.
func printPageInfo(b *browser.BrowserService) {
	page, err := b.Observe()
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	state, err := b.ReadyState()
	if err != nil {
		state = "unknown (" + err.Error() + ")"
	}
	fmt.Printf("🌍 URL: %s\n📄 Title: %s\n⏳ readyState: %s\n", page.URL, page.Title, state)
}

func printHelp() {
	fmt.Println(`
📚 СПРАВКА ПО КОМАНДАМ:
---------------------------------------------
 Навигация:
   goto [url]          - Перейти по ссылке (без аргумента — WEBSITE_URL)
   w [tag]             - Дождаться элемента (по умолчанию body)
   i                   - URL, заголовок и readyState страницы

 Взаимодействие:
   c <xpath>           - Кликнуть, когда элемент станет кликабельным
   t <xpath> <текст>   - Ввести текст, когда поле станет видимым
   check               - Пройти форму входа по локаторам из .env

 Прочее:
   q                   - Выход
   h                   - Эта справка
---------------------------------------------`)
}
