// Command migrate applies, inspects and scaffolds the embedded schema
// migrations of the POS backend.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const defaultMigrationsRoot = "internal/infrastructure/migration/sql"

var errUsage = errors.New("usage")

// env is what a command runs against. migrator is nil for commands that do
// not touch the database.
type env struct {
	args     []string
	cfg      *config.Config
	root     string
	log      *zap.Logger
	out      io.Writer
	migrator *migration.Migrator
}

type command struct {
	usage   string
	needsDB bool
	minArgs int
	run     func(e *env) error
}

var commands = map[string]command{
	"up": {
		usage: "up", needsDB: true,
		run: func(e *env) error { return e.migrator.Up() },
	},
	"down": {
		usage: "down", needsDB: true,
		run: func(e *env) error { return e.migrator.Down() },
	},
	"step": {
		usage: "step <n>", needsDB: true, minArgs: 1,
		run: func(e *env) error {
			n, err := strconv.Atoi(e.args[0])
			if err != nil || n == 0 {
				return fmt.Errorf("invalid step count %q", e.args[0])
			}
			return e.migrator.Steps(n)
		},
	},
	"goto": {
		usage: "goto <version>", needsDB: true, minArgs: 1,
		run: func(e *env) error {
			v, err := strconv.ParseUint(e.args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q", e.args[0])
			}
			return e.migrator.GoTo(uint(v))
		},
	},
	"version": {
		usage: "version", needsDB: true,
		run: func(e *env) error {
			v, dirty, err := e.migrator.Version()
			if err != nil {
				return err
			}
			if v == 0 {
				fmt.Fprintln(e.out, "no migrations applied")
				return nil
			}
			fmt.Fprintf(e.out, "version %d (dirty: %t)\n", v, dirty)
			return nil
		},
	},
	"force": {
		usage: "force <version>", needsDB: true, minArgs: 1,
		run: func(e *env) error {
			v, err := strconv.Atoi(e.args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", e.args[0])
			}
			e.log.Warn("Forcing migration version, the schema is not checked", zap.Int("version", v))
			return e.migrator.Force(v)
		},
	},
	"drop": {
		usage: "drop -confirm", needsDB: true,
		run: func(e *env) error {
			if len(e.args) == 0 || (e.args[0] != "-confirm" && e.args[0] != "--confirm") {
				return errors.New("drop deletes every table and all sales; rerun with -confirm")
			}
			return e.migrator.Drop()
		},
	},
	"list": {
		usage: "list",
		run: func(e *env) error {
			names, err := migration.ListMigrations(e.cfg.Database.Driver)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(e.out, name)
			}
			return nil
		},
	},
	"create": {
		usage: "create <name> [description]", minArgs: 1,
		run: func(e *env) error {
			desc := ""
			if len(e.args) > 1 {
				desc = e.args[1]
			}
			files, err := migration.CreateMigration(e.root, e.args[0], desc)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintf(e.out, "%s %s\n  %s\n  %s\n", f.Version, f.Dialect, f.UpPath, f.DownPath)
			}
			return nil
		},
	},
}

func main() {
	root := flag.String("path", defaultMigrationsRoot, "root of the per-dialect migration directories (create)")
	configPath := flag.String("config", "", "config file (default ./config.toml)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Usage = func() { printUsage(os.Stderr) }
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	err = run(flag.Args(), cfg, *root, log, os.Stdout)
	if errors.Is(err, errUsage) {
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.Error(err))
	}
}

// run dispatches args[0] and opens the migrator only when the command needs it.
func run(args []string, cfg *config.Config, root string, log *zap.Logger, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	e := &env{args: args[1:], cfg: cfg, root: root, log: log, out: out}
	if len(e.args) < cmd.minArgs {
		return fmt.Errorf("%w: migrate %s", errUsage, cmd.usage)
	}

	if cmd.needsDB {
		m, err := migration.Open(&cfg.Database, log)
		if err != nil {
			return fmt.Errorf("open migrator: %w", err)
		}
		defer func() {
			if err := m.Close(); err != nil {
				log.Warn("Error closing migrator", zap.Error(err))
			}
		}()
		e.migrator = m
	}

	log.Debug("Running migration command",
		zap.String("command", args[0]),
		zap.String("driver", cfg.Database.Driver),
	)
	return cmd.run(e)
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `POS Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Show the current version
  force <version>       Set the version without running migrations
  drop -confirm         Drop all database objects
  list                  List embedded migrations for the configured driver
  create <name> [desc]  Scaffold a migration pair for every dialect

Flags:
  -path string          Migration root for create (default internal/infrastructure/migration/sql)
  -config string        Config file (default ./config.toml)
  -log-level string     debug, info, warn or error (default info)

The database comes from the config file and POS_DATABASE_* variables
(POS_DATABASE_DRIVER, POS_DATABASE_PATH, POS_DATABASE_HOST, ...).
`)
}
