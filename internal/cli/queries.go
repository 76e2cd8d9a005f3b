package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"gorm.io/gorm"

	"portfoliodb/internal/services"
)

// queryCmd is a flagless command that prints the result of one query.
type queryCmd struct {
	app      *App
	name     string
	synopsis string
	query    func(ctx context.Context, db *gorm.DB) (*services.Table, error)
}

func (c *queryCmd) Name() string     { return c.name }
func (c *queryCmd) Synopsis() string { return c.synopsis }
func (c *queryCmd) Usage() string {
	return fmt.Sprintf("%s\n\n  %s.\n", c.name, capitalize(c.synopsis))
}

func (*queryCmd) SetFlags(*flag.FlagSet) {}

func (c *queryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.query(ctx, func(db *gorm.DB) (*services.Table, error) {
		return c.query(ctx, db)
	})
}

func (a *App) simpleQueries() []*queryCmd {
	return []*queryCmd{
		{app: a, name: "get_portfolios_with_clients", synopsis: "get mapping of client names to portfolio ids",
			query: func(ctx context.Context, db *gorm.DB) (*services.Table, error) {
				return services.NewPortfolioService(db).GetPortfoliosWithClients(ctx)
			}},
		{app: a, name: "port_vals", synopsis: "get values of each portfolio",
			query: func(ctx context.Context, db *gorm.DB) (*services.Table, error) {
				return services.NewPortfolioService(db).GetPortfolioTotalValues(ctx)
			}},
		{app: a, name: "percent_invested", synopsis: "get percentage invested for each portfolio",
			query: func(ctx context.Context, db *gorm.DB) (*services.Table, error) {
				return services.NewPortfolioService(db).GetPercentageInvested(ctx)
			}},
		{app: a, name: "get_all_clients", synopsis: "get all clients in the db",
			query: func(ctx context.Context, db *gorm.DB) (*services.Table, error) {
				return services.NewClientService(db).GetAllClients(ctx)
			}},
		{app: a, name: "get_clients_with_no_trades", synopsis: "get clients without trades in any of their portfolios",
			query: func(ctx context.Context, db *gorm.DB) (*services.Table, error) {
				return services.NewClientService(db).GetClientsWithNoTrades(ctx)
			}},
		{app: a, name: "get_trade_counts_by_asset", synopsis: "get a total count of trades for each asset",
			query: func(ctx context.Context, db *gorm.DB) (*services.Table, error) {
				return services.NewTradeService(db).GetTradeCountsByAsset(ctx)
			}},
		{app: a, name: "get_assets_latest_price", synopsis: "get the latest price of assets",
			query: func(ctx context.Context, db *gorm.DB) (*services.Table, error) {
				return services.NewAssetService(db).GetAssetsLatestPrice(ctx)
			}},
		{app: a, name: "get_notes_with_possible_assets", synopsis: "get all notes and their linked asset if they have one",
			query: func(ctx context.Context, db *gorm.DB) (*services.Table, error) {
				return services.NewAssetService(db).GetNotesWithPossibleAssets(ctx)
			}},
		{app: a, name: "get_all_assets_and_notes", synopsis: "get all notes matched with assets if possible",
			query: func(ctx context.Context, db *gorm.DB) (*services.Table, error) {
				return services.NewAssetService(db).GetAllAssetsAndNotes(ctx)
			}},
		{app: a, name: "get_assets_with_possible_notes", synopsis: "get all assets matched with notes if possible",
			query: func(ctx context.Context, db *gorm.DB) (*services.Table, error) {
				return services.NewAssetService(db).GetAssetsWithPossibleNotes(ctx)
			}},
	}
}

// query runs fn with a connection and prints the table it returns.
func (a *App) query(ctx context.Context, fn func(db *gorm.DB) (*services.Table, error)) subcommands.ExitStatus {
	return a.run(ctx, func(db *gorm.DB) error {
		table, err := fn(db)
		if err != nil {
			return err
		}
		return a.printTable(table)
	})
}

type searchClientCmd struct {
	app  *App
	name string
}

func (*searchClientCmd) Name() string     { return "search_client" }
func (*searchClientCmd) Synopsis() string { return "search for a client by their name for their ID" }
func (*searchClientCmd) Usage() string {
	return `search_client --name <text>

  Case-insensitive partial match on the full, first or last name.
`
}

func (c *searchClientCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name or part of a name")
}

func (c *searchClientCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if strings.TrimSpace(c.name) == "" {
		return usage(f, "Please provide a name to search with --name")
	}
	return c.app.query(ctx, func(db *gorm.DB) (*services.Table, error) {
		return services.NewClientService(db).SearchClientsByName(ctx, c.name)
	})
}

type portfolioAssetTradesCmd struct {
	app         *App
	portfolioID uint
	assetID     uint
}

func (*portfolioAssetTradesCmd) Name() string { return "portfolio_asset_trades" }
func (*portfolioAssetTradesCmd) Synopsis() string {
	return "get all trades for an asset within a portfolio, ordered by trade date"
}
func (*portfolioAssetTradesCmd) Usage() string {
	return `portfolio_asset_trades --portfolio_id <id> --asset_id <id>
`
}

func (c *portfolioAssetTradesCmd) SetFlags(f *flag.FlagSet) {
	f.UintVar(&c.portfolioID, "portfolio_id", 0, "ID of the portfolio")
	f.UintVar(&c.assetID, "asset_id", 0, "ID of the asset")
}

func (c *portfolioAssetTradesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolioID == 0 || c.assetID == 0 {
		return usage(f, "Please provide both a portfolio id with --portfolio_id and asset id with --asset_id")
	}
	return c.app.query(ctx, func(db *gorm.DB) (*services.Table, error) {
		return services.NewTradeService(db).GetAllTradesForAssetInPortfolio(ctx, c.portfolioID, c.assetID)
	})
}

type topPortfoliosCmd struct {
	app *App
	n   int
}

func (*topPortfoliosCmd) Name() string     { return "get_top_portfolios" }
func (*topPortfoliosCmd) Synopsis() string { return "get top n portfolios by total value" }
func (*topPortfoliosCmd) Usage() string {
	return `get_top_portfolios [--n <number>]

  Ties on total value are ordered by portfolio id.
`
}

func (c *topPortfoliosCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.n, "n", services.DefaultTopPortfolios, "Number of portfolios to get")
}

func (c *topPortfoliosCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.n < 1 {
		return usage(f, "--n must be at least 1")
	}
	return c.app.query(ctx, func(db *gorm.DB) (*services.Table, error) {
		return services.NewPortfolioService(db).GetTopPortfoliosByValue(ctx, c.n)
	})
}

type recentTradesCmd struct {
	app  *App
	days int
}

func (*recentTradesCmd) Name() string     { return "get_recent_trades" }
func (*recentTradesCmd) Synopsis() string { return "get all trades opened within the last 30 days" }
func (*recentTradesCmd) Usage() string {
	return `get_recent_trades [--days <n>]
`
}

func (c *recentTradesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", services.DefaultRecentTradeDays, "Size of the window in days")
}

func (c *recentTradesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.days < 1 {
		return usage(f, "--days must be at least 1")
	}
	return c.app.query(ctx, func(db *gorm.DB) (*services.Table, error) {
		return services.NewTradeService(db).GetRecentTrades(ctx, c.days)
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
