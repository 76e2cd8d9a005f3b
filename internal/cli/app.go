// Package cli implements the portfoliodb subcommands. Each action is a
// subcommands.Command that opens one database connection, runs a single
// service, migration or script operation and releases the connection.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"gorm.io/gorm"

	"portfoliodb/internal/config"
	"portfoliodb/internal/database"
	apperrors "portfoliodb/internal/errors"
	"portfoliodb/internal/logger"
	"portfoliodb/internal/render"
	"portfoliodb/internal/services"
)

// App holds what every command needs. Query tables and confirmations go to
// Out; diagnostics go through the logger.
type App struct {
	Config *config.Config
	Out    io.Writer
}

// New returns an App writing to stdout.
func New(cfg *config.Config) *App {
	return &App{Config: cfg, Out: os.Stdout}
}

// Register adds every portfoliodb action to c.
func (a *App) Register(c *subcommands.Commander) {
	const (
		schema     = "schema"
		queries    = "queries"
		inserts    = "inserts"
		migrations = "migrations"
	)

	c.Register(logged(&initCmd{app: a}), schema)
	c.Register(logged(&loadDataCmd{app: a}), schema)
	c.Register(logged(&generateDataCmd{app: a}), schema)
	c.Register(logged(&wipeCmd{app: a}), schema)

	for _, q := range a.simpleQueries() {
		c.Register(logged(q), queries)
	}
	c.Register(logged(&searchClientCmd{app: a}), queries)
	c.Register(logged(&portfolioAssetTradesCmd{app: a}), queries)
	c.Register(logged(&topPortfoliosCmd{app: a}), queries)
	c.Register(logged(&recentTradesCmd{app: a}), queries)

	c.Register(logged(&addClientCmd{app: a}), inserts)
	c.Register(logged(&addPortfolioCmd{app: a}), inserts)
	c.Register(logged(&addAssetCmd{app: a}), inserts)
	c.Register(logged(&addPriceCmd{app: a}), inserts)
	c.Register(logged(&addTradeCmd{app: a}), inserts)

	c.Register(logged(&makeMigrationCmd{app: a}), migrations)
	c.Register(logged(&runMigrationCmd{app: a}), migrations)
	c.Register(logged(&runAllMigrationsCmd{app: a}), migrations)
	c.Register(logged(&migrationStatusCmd{app: a}), migrations)
}

// withDB opens a connection, runs fn and always closes the connection.
func (a *App) withDB(ctx context.Context, fn func(db *gorm.DB) error) (err error) {
	manager, err := database.NewManager(ctx, &a.Config.DB)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := manager.Close(); cerr != nil && err == nil {
			err = apperrors.Wrap(apperrors.ErrInternal, cerr)
		}
	}()
	return fn(manager.DB())
}

// run executes fn with a connection and maps the outcome to an exit status.
func (a *App) run(ctx context.Context, fn func(db *gorm.DB) error) subcommands.ExitStatus {
	return a.report(a.withDB(ctx, fn))
}

// printTable writes a query result, or the empty-result message.
func (a *App) printTable(t *services.Table) error {
	return render.Write(a.Out, t.Columns, t.Rows)
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.Out, format+"\n", args...)
}

// report logs err and returns the exit status it maps to. AppErrors are
// reported with their code and message; anything else is an internal error.
func (a *App) report(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		fields := []interface{}{"code", appErr.Code}
		if appErr.Internal != nil {
			fields = append(fields, "internal", appErr.Internal.Error())
		}
		logger.Get().Errorw(appErr.Message, fields...)
		return exitStatus(appErr.ExitCode)
	}

	logger.Get().Errorw("unexpected error", "error", err.Error())
	return subcommands.ExitFailure
}

// usage prints msg and the command's flags and returns the usage exit status.
func usage(f *flag.FlagSet, msg string) subcommands.ExitStatus {
	fmt.Fprintln(f.Output(), msg)
	f.Usage()
	return subcommands.ExitUsageError
}

func exitStatus(code int) subcommands.ExitStatus {
	switch code {
	case apperrors.ExitUsageError:
		return subcommands.ExitUsageError
	case 0:
		return subcommands.ExitSuccess
	default:
		return subcommands.ExitFailure
	}
}
