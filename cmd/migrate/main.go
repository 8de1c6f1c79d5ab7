package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aleodoni/meetapp/internal/config"
	"github.com/aleodoni/meetapp/internal/database/migrations"
	"github.com/aleodoni/meetapp/internal/logger"
)

const usage = `usage: migrate [-dir path] <command>

commands:
  up         apply all pending migrations
  down       roll back all migrations
  steps N    apply N migrations (negative N rolls back)
  version    print the current schema version
  force N    set the version to N without running anything`

func main() {
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, ".env file not found, using environment variables")
	}

	cfg := config.Load()
	log, err := logger.NewLogger(logger.Options{Dir: cfg.Log.Dir, Service: "meetapp-migrate"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	opts := migrations.DefaultOptions()
	opts.MigrationsDir = cfg.Database.MigrationsDir
	if *dir != "" {
		opts.MigrationsDir = *dir
	}

	runner := migrations.NewRunner(cfg.Database.DSN(), opts, log)
	defer runner.Close()

	if err := run(runner, args, log); err != nil {
		log.Error("MIGRATE", err.Error())
		runner.Close()
		os.Exit(1)
	}
}

func run(runner *migrations.Runner, args []string, log *logger.Logger) error {
	switch args[0] {
	case "up":
		if err := runner.RunMigrations(); err != nil {
			return err
		}
	case "down":
		if err := runner.MigrateDown(); err != nil {
			return err
		}
		log.Info("MIGRATE", "All migrations rolled back")
	case "steps", "force":
		if len(args) < 2 {
			return fmt.Errorf("%s needs a number", args[0])
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", args[1], err)
		}
		if args[0] == "force" {
			if err := runner.Force(n); err != nil {
				return err
			}
		} else if err := runner.Steps(n); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}

	version, dirty, err := runner.Version()
	if err != nil {
		return err
	}
	log.Info("MIGRATE", fmt.Sprintf("Schema version: %d (dirty: %t)", version, dirty))
	return nil
}
