package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"gorm.io/gorm"

	"portfoliodb/internal/migrations"
	"portfoliodb/internal/render"
)

type makeMigrationCmd struct {
	app  *App
	name string
}

func (*makeMigrationCmd) Name() string     { return "make_migration" }
func (*makeMigrationCmd) Synopsis() string { return "create db migration file" }
func (*makeMigrationCmd) Usage() string {
	return `make_migration --name <name>

  Creates <NNN>_<name>.sql in the migrations directory, numbered after the
  highest existing prefix.
`
}

func (c *makeMigrationCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the migration")
}

func (c *makeMigrationCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		return usage(f, "Please provide a name for the migration with --name")
	}
	path, err := migrations.NewNamer(c.app.Config.MigrationsDir).Create(c.name)
	if err != nil {
		return c.app.report(err)
	}
	c.app.printf("%s", path)
	return subcommands.ExitSuccess
}

type runMigrationCmd struct {
	app  *App
	path string
}

func (*runMigrationCmd) Name() string     { return "run_migration" }
func (*runMigrationCmd) Synopsis() string { return "run a migration file" }
func (*runMigrationCmd) Usage() string {
	return `run_migration --name <path/to/migration.sql>

  Runs the whole file in one transaction and records it as applied.
  The ledger keys files by base name, so a file whose base name was already
  applied is skipped, whatever directory it is in.
`
}

func (c *runMigrationCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "name", "", "Path of the migration file")
	f.StringVar(&c.path, "file", "", "Alias for --name")
}

func (c *runMigrationCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.path == "" {
		return usage(f, "Please provide the filepath for the migration file with --name")
	}
	return c.app.run(ctx, func(db *gorm.DB) error {
		applied, err := migrations.NewApplier(db, c.app.Config.MigrationsDir).ApplyFile(ctx, c.path)
		if err != nil {
			return err
		}
		if applied {
			c.app.printf("Migration %s applied successfully.", c.path)
		} else {
			c.app.printf("Migration %s was already applied.", c.path)
		}
		return nil
	})
}

type runAllMigrationsCmd struct {
	app *App
}

func (*runAllMigrationsCmd) Name() string     { return "run_all_migrations" }
func (*runAllMigrationsCmd) Synopsis() string { return "run all migration files in order" }
func (*runAllMigrationsCmd) Usage() string {
	return `run_all_migrations

  Applies every pending file of the migrations directory in numeric order and
  stops at the first failure.
`
}

func (*runAllMigrationsCmd) SetFlags(*flag.FlagSet) {}

func (c *runAllMigrationsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.run(ctx, func(db *gorm.DB) error {
		report, err := migrations.NewApplier(db, c.app.Config.MigrationsDir).ApplyAll(ctx)
		if err != nil {
			c.app.printf("%s", failureMessage(report))
			return err
		}
		c.app.printf("%d migration(s) applied, %d already applied.", len(report.Applied), len(report.Skipped))
		return nil
	})
}

// failureMessage describes an aborted run. Failed is empty when the run
// stopped before any file was executed.
func failureMessage(report *migrations.Report) string {
	if report.Failed == "" {
		return "Migrations aborted before any file ran."
	}
	return fmt.Sprintf("Migration %s failed; %d applied before it.", report.Failed, len(report.Applied))
}

type migrationStatusCmd struct {
	app *App
}

func (*migrationStatusCmd) Name() string { return "migration_status" }
func (*migrationStatusCmd) Synopsis() string {
	return "list migration files and whether they were applied"
}
func (*migrationStatusCmd) Usage() string {
	return `migration_status
`
}

func (*migrationStatusCmd) SetFlags(*flag.FlagSet) {}

func (c *migrationStatusCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.run(ctx, func(db *gorm.DB) error {
		statuses, err := migrations.NewApplier(db, c.app.Config.MigrationsDir).Status(ctx)
		if err != nil {
			return err
		}
		rows := make([][]interface{}, 0, len(statuses))
		for _, s := range statuses {
			state, appliedAt := "pending", interface{}(nil)
			if s.Applied {
				state = "applied"
				appliedAt = s.AppliedAt.UTC().Format(time.DateTime)
			}
			rows = append(rows, []interface{}{s.Filename, state, appliedAt})
		}
		return render.Write(c.app.Out, []string{"filename", "status", "applied_at"}, rows)
	})
}
