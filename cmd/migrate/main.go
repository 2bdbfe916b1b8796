package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/samirrijal/quickcash/internal/adapters/postgres"
	"github.com/samirrijal/quickcash/internal/pkg/config"
	"github.com/samirrijal/quickcash/internal/pkg/logging"
)

const usage = "usage: migrate <up|down [steps]|version|force <version>>"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load("quickcash-migrate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(context.Background(), cfg, os.Args[1:]); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string) error {
	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		return err
	}
	defer db.Close()

	mg, err := db.NewMigrator(cfg.Database.MigrationsDir)
	if err != nil {
		return err
	}

	switch args[0] {
	case "up":
		if err := mg.Up(); err != nil {
			return err
		}
	case "down":
		steps := 0
		if len(args) > 1 {
			if steps, err = strconv.Atoi(args[1]); err != nil || steps < 0 {
				return fmt.Errorf("steps must be a non-negative integer, got %q", args[1])
			}
		}
		if err := mg.Down(steps); err != nil {
			return err
		}
	case "version":
	case "force":
		if len(args) < 2 {
			return fmt.Errorf(usage)
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("version must be an integer, got %q", args[1])
		}
		if err := mg.Force(v); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown command %q; %s", args[0], usage)
	}

	v, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	slog.Info("schema version", "version", v, "dirty", dirty)
	return nil
}
