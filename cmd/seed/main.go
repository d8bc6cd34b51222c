// Command seed loads items from a YAML file into a collection, embedding each
// one. Items whose slug already exists are skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wikisearch/internal/app"
	"github.com/kailas-cloud/wikisearch/internal/config"
	logpkg "github.com/kailas-cloud/wikisearch/internal/logger"
)

func main() {
	file := flag.String("file", "", "path to the YAML seed file")
	collection := flag.String("collection", "", "target collection (overrides the file)")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: seed -file items.yaml [-collection guides]")
		os.Exit(2)
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), cfg, *file, *collection, logger); err != nil {
		logger.Fatal("Seed failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, file, collection string, logger *zap.Logger) error {
	fileCollection, items, err := loadSeed(file)
	if err != nil {
		return err
	}
	if collection == "" {
		collection = fileCollection
	}
	if collection == "" {
		collection = cfg.Search.DefaultCollection
	}

	store, err := app.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	a := app.New(ctx, cfg, store, nil, logger)
	report, err := a.Items.Seed(ctx, collection, items)
	if err != nil {
		return fmt.Errorf("seed %s: %w", collection, err)
	}

	logger.Info("Seed completed",
		zap.String("collection", collection),
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
	)
	return nil
}
