// Package main KitabAI 命令行：生成一本书并导出 DOCX
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"kitab-ai-api/internal/config"
	"kitab-ai-api/internal/domain/entity"
	"kitab-ai-api/internal/wire"
	apperrors "kitab-ai-api/pkg/errors"
	"kitab-ai-api/pkg/logger"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	var params entity.GenerationParameters
	var outDir, configDir string
	flag.StringVar(&params.Topic, "topic", "", "book topic (required)")
	flag.StringVar(&params.Author, "author", "", "author name (required)")
	flag.StringVar(&params.Language, "lang", "English", "output language")
	flag.StringVar(&params.Madzhab, "madzhab", entity.DefaultMadzhab, "school of jurisprudence")
	flag.StringVar(&params.Audience, "audience", entity.DefaultAudience, "target audience")
	flag.IntVar(&params.PageCount, "pages", 8, "target page count (1-100)")
	flag.IntVar(&params.ReferenceCount, "refs", 5, "reference count (1-50)")
	flag.BoolVar(&params.IncludeMultimedia, "multimedia", false, "include multimedia suggestions")
	flag.StringVar(&outDir, "out", ".", "output directory")
	flag.StringVar(&configDir, "config", config.DefaultDir, "config directory")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadFrom(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return exitConfig
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitConfig
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	studio, cleanup, err := wire.InitializeStudio(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		return exitFailed
	}
	defer cleanup()

	session, err := studio.CreateSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitFailed
	}
	if _, err := studio.Generate(ctx, session.ID, params); err != nil {
		if apperrors.IsCode(err, apperrors.CodeInvalidParam) {
			fmt.Fprintf(os.Stderr, "invalid parameters: %s\n", apperrors.AsAppError(err).Detail)
			flag.Usage()
			return exitFailed
		}
		logger.Error(ctx, "book generation failed", err)
		fmt.Fprintln(os.Stderr, apperrors.AsAppError(err).Message)
		return exitFailed
	}

	res, err := studio.Export(ctx, session.ID)
	if err != nil {
		logger.Error(ctx, "document export failed", err)
		fmt.Fprintln(os.Stderr, apperrors.AsAppError(err).Message)
		return exitFailed
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output directory: %v\n", err)
		return exitFailed
	}
	path := filepath.Join(outDir, res.Filename)
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", path, err)
		return exitFailed
	}
	fmt.Println(path)
	return exitOK
}
