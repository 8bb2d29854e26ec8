package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/SyedHassanUddin/expense-flow/internal/expense"
	"github.com/SyedHassanUddin/expense-flow/internal/extract"
	"github.com/SyedHassanUddin/expense-flow/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	fs := ff.NewFlagSet("expense-flow")
	var (
		port          = fs.IntLong("port", 8080, "HTTP server port")
		dbPath        = fs.StringLong("db", "expense-flow.db", "Database file path")
		storagePath   = fs.StringLong("storage", "./receipts", "Receipt image directory")
		scannerType   = fs.StringLong("scanner", "none", "Receipt image OCR: 'gemini', 'ollama' or 'none'")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL     = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel   = fs.StringLong("ollama-model", "llava", "Ollama vision model name")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		dateOrder     = fs.StringLong("date-order", "auto", "How to read dates like 03/04/2024: 'auto', 'mdy' or 'dmy'")
		minConfidence = fs.Float64Long("ocr-min-confidence", extract.DefaultMinOCRConfidence, "Minimum OCR confidence (0-100) to parse a receipt")
		minLength     = fs.IntLong("ocr-min-length", extract.DefaultMinOCRLength, "Minimum OCR text length to parse a receipt")
		logLevel      = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("EXPENSE_FLOW"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level %q\n", *logLevel)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	order, err := extract.ParseDateOrder(*dateOrder)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	opts := extract.Options{
		DateOrder:        order,
		MinOCRConfidence: *minConfidence,
		MinOCRLength:     *minLength,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config{
		addr:        fmt.Sprintf(":%d", *port),
		dbPath:      *dbPath,
		storagePath: *storagePath,
		scannerType: *scannerType,
		geminiKey:   *geminiKey,
		geminiModel: *geminiModel,
		ollamaURL:   *ollamaURL,
		ollamaModel: *ollamaModel,
		auth:        expense.BasicAuth{Username: *authUser, Password: *authPass},
		opts:        opts,
	}); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Shut down")
}

type config struct {
	addr        string
	dbPath      string
	storagePath string
	scannerType string
	geminiKey   string
	geminiModel string
	ollamaURL   string
	ollamaModel string
	auth        expense.BasicAuth
	opts        extract.Options
}

func newScanner(ctx context.Context, cfg config) (scanning.Scanner, error) {
	switch cfg.scannerType {
	case "gemini":
		apiKey := cfg.geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini scanner", "model", cfg.geminiModel)
		return scanning.NewGemini(ctx, apiKey, cfg.geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama scanner", "url", cfg.ollamaURL, "model", cfg.ollamaModel)
		return scanning.NewOllama(cfg.ollamaURL, cfg.ollamaModel)
	case "none", "":
		slog.Info("Receipt image scanning disabled, voice and receipt-text capture remain available")
		return nil, nil
	}
	return nil, fmt.Errorf("invalid scanner type %q: want gemini, ollama or none", cfg.scannerType)
}

func run(ctx context.Context, cfg config) error {
	db, err := expense.NewBoltDB(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	store, err := expense.NewLocalStorage(cfg.storagePath)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	scanner, err := newScanner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing scanner: %w", err)
	}

	if scanner != nil {
		defer scanner.Close()
	}
	service := expense.NewService(db, scanner, store, cfg.opts)

	if cfg.auth.Username != "" || cfg.auth.Password != "" {
		slog.Info("Basic auth enabled", "user", cfg.auth.Username)
	}
	slog.Info("Server starting", "version", version, "address", "http://localhost"+cfg.addr)

	return expense.NewServer(service, cfg.auth).Start(ctx, cfg.addr)
}
