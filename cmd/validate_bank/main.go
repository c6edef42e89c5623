// Command validate_bank loads a question bank offline and reports every rejected item.
// It exits non-zero when any item is malformed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"skill-assess/internal/bank"
	"skill-assess/internal/config"
	"skill-assess/internal/logger"
	"skill-assess/internal/validation"

	"go.uber.org/zap"
)

func main() {
	path := flag.String("file", "", "question bank to validate (defaults to bank.path)")
	flag.Parse()

	if *path == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		*path = cfg.Bank.Path
		if err := logger.Initialize(cfg.Logger); err != nil {
			fmt.Printf("Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
	} else if err := logger.Initialize(config.LoggerConfig{Level: "info"}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Validating question bank", zap.String("path", *path))
	items, err := bank.NewLoader(validation.NewValidator()).LoadFile(*path)

	for _, item := range items {
		log.Info("Item accepted", zap.String("item", item.Name), zap.Int("questions", item.Len()))
	}

	if err != nil {
		var loadErr *bank.LoadError
		if !errors.As(err, &loadErr) {
			log.Fatal("Failed to load question bank", zap.Error(err))
		}
		names := make([]string, 0, len(loadErr.Rejected))
		for name := range loadErr.Rejected {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			log.Error("Item rejected", zap.String("item", name), zap.Error(loadErr.Rejected[name]))
		}
		fmt.Printf("%d item(s) accepted, %d rejected\n", len(items), len(names))
		os.Exit(1)
	}
	fmt.Printf("%d item(s) accepted\n", len(items))
}
