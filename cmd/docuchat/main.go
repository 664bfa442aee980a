package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"docuchat/internal/app"
	"docuchat/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	flagBaseURL string
	flagTheme   string
	flagConfig  string
	flagMock    bool
)

func loadConfig() (app.Config, string, error) {
	// Missing .env is the normal case; only report real parse failures.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	path := flagConfig
	if path == "" {
		path = app.DefaultConfigPath()
	}
	cfg, err := app.LoadConfig(path)
	if err != nil {
		return cfg, path, err
	}

	if v := os.Getenv("DOCUAI_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("DOCUCHAT_THEME"); v == "light" || v == "dark" {
		cfg.Theme = v
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagTheme == "light" || flagTheme == "dark" {
		cfg.Theme = flagTheme
	}
	if flagMock {
		cfg.BaseURL = app.MockBaseURL
	}
	return cfg, path, nil
}

func newClient(cfg app.Config, logger *app.Logger) *app.Client {
	return app.NewClient(cfg.BaseURL, time.Duration(cfg.RequestTimeoutSec)*time.Second, logger)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	root := &cobra.Command{
		Use:     "docuchat [file]",
		Short:   "Terminal client for the DocuAI document chat backend",
		Long:    "docuchat uploads a document to a DocuAI backend, shows its summary, and then answers questions about it in an interactive chat.\n\nPass a file path to upload it on startup, or use /open <path> inside the TUI.",
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgPath, err := loadConfig()
			if err != nil {
				return err
			}

			// The terminal belongs to the renderer in TUI mode, so the
			// JSON log goes to a file.
			logOut := os.Stderr
			logPath := cfg.LogFile
			if logPath == "" {
				logPath = app.DefaultLogPath()
			}
			if logPath != "" {
				if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
					if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
						defer f.Close()
						logOut = f
					}
				}
			}
			logger := app.NewLogger(logOut)

			pendingFile := ""
			if len(args) > 0 {
				pendingFile = args[0]
			}

			p := tea.NewProgram(tui.New(newClient(cfg, logger), logger, cfg, cfgPath, pendingFile))
			_, err = p.Run()
			return err
		},
	}

	root.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "backend base URL (default http://localhost:8000)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&flagMock, "mock", false, "use a canned in-process backend (no server needed)")
	root.Flags().StringVar(&flagTheme, "theme", "", "theme: light|dark")

	uploadCmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()

			client := newClient(cfg, app.NewLogger(os.Stderr))
			summary, err := client.Upload(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(summary)
			return nil
		},
	}

	askCmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the previously uploaded document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()

			client := newClient(cfg, app.NewLogger(os.Stderr))
			answer, err := client.Ask(ctx, args[0])
			if err != nil {
				return err
			}
			if answer == "" {
				answer = app.NoAnswerFallback
			}
			fmt.Println(answer)
			return nil
		},
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()

			client := newClient(cfg, app.NewLogger(os.Stderr))
			status, err := client.Health(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("status: %s\nocr available: %v\n", status.Status, status.OCRAvailable)
			return nil
		},
	}

	root.AddCommand(uploadCmd, askCmd, healthCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
