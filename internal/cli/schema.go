package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"gorm.io/gorm"

	"portfoliodb/internal/database"
	"portfoliodb/internal/services"
)

type initCmd struct {
	app  *App
	file string
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create tables" }
func (*initCmd) Usage() string {
	return `init [--file <schema.sql>]

  Runs the schema script, one statement at a time in a single transaction.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "Schema script (default from SCHEMA_FILE)")
}

func (c *initCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := orDefault(c.file, c.app.Config.SchemaFile)
	return c.app.run(ctx, func(db *gorm.DB) error {
		if _, err := database.ExecScript(ctx, db, path); err != nil {
			return err
		}
		c.app.printf("Database schema created")
		return nil
	})
}

type loadDataCmd struct {
	app  *App
	file string
}

func (*loadDataCmd) Name() string     { return "load_data" }
func (*loadDataCmd) Synopsis() string { return "load sample data" }
func (*loadDataCmd) Usage() string {
	return `load_data [--file <data.sql>]

  Runs the sample data script, one statement at a time in a single transaction.
`
}

func (c *loadDataCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "Sample data script (default from SEED_FILE)")
}

func (c *loadDataCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := orDefault(c.file, c.app.Config.SeedFile)
	return c.app.run(ctx, func(db *gorm.DB) error {
		n, err := database.ExecScript(ctx, db, path)
		if err != nil {
			return err
		}
		c.app.printf("Sample data loaded (%d statements)", n)
		return nil
	})
}

type generateDataCmd struct {
	app    *App
	seed   uint64
	counts services.SeedCounts
}

func (*generateDataCmd) Name() string     { return "generate_data" }
func (*generateDataCmd) Synopsis() string { return "generate random sample data" }
func (*generateDataCmd) Usage() string {
	return `generate_data [--seed <n>] [--clients <n>] [--portfolios <n>] [--assets <n>] [--trades <n>] [--prices <n>] [--notes <n>]

  Inserts random clients, portfolios, assets, trades, prices and notes.
  The same non-zero seed always generates the same data.
`
}

func (c *generateDataCmd) SetFlags(f *flag.FlagSet) {
	d := services.DefaultSeedCounts
	f.Uint64Var(&c.seed, "seed", 0, "Random seed, 0 for a random one")
	f.IntVar(&c.counts.Clients, "clients", d.Clients, "Number of clients")
	f.IntVar(&c.counts.Portfolios, "portfolios", d.Portfolios, "Number of portfolios")
	f.IntVar(&c.counts.Assets, "assets", d.Assets, "Number of assets")
	f.IntVar(&c.counts.Trades, "trades", d.Trades, "Number of trades")
	f.IntVar(&c.counts.Prices, "prices", d.Prices, "Number of prices to attempt")
	f.IntVar(&c.counts.Notes, "notes", d.Notes, "Number of asset notes")
}

func (c *generateDataCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	for _, n := range []int{c.counts.Clients, c.counts.Portfolios, c.counts.Assets, c.counts.Trades, c.counts.Prices, c.counts.Notes} {
		if n < 0 {
			return usage(f, "Counts must not be negative")
		}
	}
	return c.app.run(ctx, func(db *gorm.DB) error {
		summary, err := services.NewSeedService(db, c.seed).Generate(ctx, c.counts)
		if err != nil {
			return err
		}
		c.app.printf("Sample data generated: %d clients, %d portfolios, %d assets, %d trades, %d prices, %d notes",
			summary.Clients, summary.Portfolios, summary.Assets, summary.Trades, summary.Prices, summary.Notes)
		return nil
	})
}

type wipeCmd struct {
	app *App
}

func (*wipeCmd) Name() string     { return "wipe_db" }
func (*wipeCmd) Synopsis() string { return "delete all records in the db" }
func (*wipeCmd) Usage() string {
	return `wipe_db

  Empties every data table and resets generated keys. Applied migrations are kept.
`
}

func (*wipeCmd) SetFlags(*flag.FlagSet) {}

func (c *wipeCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.run(ctx, func(db *gorm.DB) error {
		if err := database.Wipe(ctx, db); err != nil {
			return err
		}
		c.app.printf("All tables wiped")
		return nil
	})
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
