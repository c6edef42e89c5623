// Command migrate applies or rolls back the database schema.
//
//	migrate up
//	migrate down [N | --all]
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"skill-assess/internal/config"
	"skill-assess/internal/database"
	"skill-assess/internal/logger"

	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate up | migrate down [N | --all]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.NewSQLXDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := database.MigrateUp(context.Background(), db.DB, cfg.DB.Driver); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
		fmt.Println("Migrations applied successfully!")
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if os.Args[2] == "--all" {
				steps = 0
			} else if steps, err = strconv.Atoi(os.Args[2]); err != nil || steps < 1 {
				usage()
			}
		}
		if err := database.MigrateDown(db.DB, cfg.DB.Driver, steps); err != nil {
			log.Fatal("Failed to roll back migrations", zap.Error(err))
		}
		if steps == 0 {
			fmt.Println("Successfully rolled back all migrations")
		} else {
			fmt.Printf("Successfully rolled back %d migration(s)\n", steps)
		}
	default:
		usage()
	}
}
