package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lectern/internal/adapter/backend"
	"lectern/internal/adapter/gateway"
	"lectern/internal/adapter/tui/chat"
	"lectern/internal/infra/config"
	"lectern/internal/infra/logger"
	"lectern/internal/infra/tracer"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		if err := runChat(); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
		return
	}

	switch os.Args[1] {
	case "chat":
		if err := runChat(); err != nil {
			fmt.Fprintf(os.Stderr, "chat: %v\n", err)
			os.Exit(1)
		}
	case "gateway":
		if err := runGateway(); err != nil {
			fmt.Fprintf(os.Stderr, "gateway: %v\n", err)
			os.Exit(1)
		}
	case "health":
		if err := runHealth(); err != nil {
			fmt.Fprintf(os.Stderr, "health: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\nRun 'lectern --help' for usage information.\n", os.Args[1])
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`lectern - chat with your lecture notes

USAGE:
    lectern [COMMAND]

COMMANDS:
    chat        Launch the chat interface (default)
    gateway     Run the validating proxy in front of the backend
    health      Probe the backend and exit

FLAGS:
    -h, --help  Show this help message

CONFIGURATION:
    Config file: ./config.yaml
    Environment: LECTERN_* variables override config

EXAMPLES:
    lectern                          # chat against config.yaml's backend
    LECTERN_BACKEND_URL=http://host:5000 lectern
    lectern gateway                  # serve the proxy on gateway.addr
    lectern health`)
}

func configPath() string {
	if v := os.Getenv("LECTERN_CONFIG"); v != "" {
		return v
	}
	return "config.yaml"
}

// runChat starts the TUI. Logs go to a file: the TUI owns the terminal and
// writing anywhere else would corrupt the display.
func runChat() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}
	if cfg.Logger.Output == "stderr" || cfg.Logger.Output == "stdout" {
		cfg.Logger.Output = "lectern.log"
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer closeLog()

	shutdown, err := tracer.Setup(context.Background(), cfg.Tracer)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	client := backend.New(cfg.Backend, log)

	model := chat.New(chat.Deps{
		Backend:     client,
		TUI:         cfg.TUI,
		TopK:        cfg.Backend.TopK,
		BackendHost: hostOf(cfg.Backend.BaseURL),
		Logger:      log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	log.Info("starting chat", "backend", cfg.Backend.BaseURL)
	_, err = p.Run()
	return err
}

func runGateway() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := gateway.New(cfg.Gateway, log)
	return srv.Start(ctx)
}

func runHealth() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(config.LoggerConfig{Level: "error", Output: "stderr"})
	if err != nil {
		return err
	}
	defer closeLog()

	client := backend.New(cfg.Backend, log)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("backend %s: %w", cfg.Backend.BaseURL, err)
	}
	fmt.Printf("backend %s: %s", cfg.Backend.BaseURL, status.Status)
	if status.Message != "" {
		fmt.Printf(" (%s)", status.Message)
	}
	fmt.Println()
	if !status.Healthy() {
		os.Exit(1)
	}
	return nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
