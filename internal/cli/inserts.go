package cli

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "portfoliodb/internal/errors"
	"portfoliodb/internal/models"
	"portfoliodb/internal/services"
)

type addClientCmd struct {
	app  *App
	name string
}

func (*addClientCmd) Name() string     { return "add_client" }
func (*addClientCmd) Synopsis() string { return "add a new client to the clients table" }
func (*addClientCmd) Usage() string {
	return `add_client --name "<first> <last>"

  The name is split on its first space into first and last name.
`
}

func (c *addClientCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Full name of the client")
}

func (c *addClientCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if strings.TrimSpace(c.name) == "" {
		return usage(f, "Please provide a client name with --name")
	}
	return c.app.run(ctx, func(db *gorm.DB) error {
		client, err := services.NewClientService(db).AddClient(ctx, c.name)
		if err != nil {
			return err
		}
		c.app.printf("Added client %q with id %d", client.FullName(), client.ClientID)
		return nil
	})
}

type addPortfolioCmd struct {
	app         *App
	clientID    uint
	cashBalance string
}

func (*addPortfolioCmd) Name() string     { return "add_portfolio" }
func (*addPortfolioCmd) Synopsis() string { return "add a portfolio for a client" }
func (*addPortfolioCmd) Usage() string {
	return `add_portfolio --client_id <id> --cash_balance <number>
`
}

func (c *addPortfolioCmd) SetFlags(f *flag.FlagSet) {
	f.UintVar(&c.clientID, "client_id", 0, "ID of the client")
	f.StringVar(&c.cashBalance, "cash_balance", "", "Cash value for the portfolio")
}

func (c *addPortfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.clientID == 0 || c.cashBalance == "" {
		return usage(f, "Please provide the client ID and cash balance of the portfolio with --client_id and --cash_balance")
	}
	cash, err := parseDecimal("cash_balance", c.cashBalance)
	if err != nil {
		return c.app.report(err)
	}
	return c.app.run(ctx, func(db *gorm.DB) error {
		p, err := services.NewPortfolioService(db).AddPortfolio(ctx, c.clientID, cash)
		if err != nil {
			return err
		}
		c.app.printf("Added portfolio %d for client %d with cash balance %s", p.PortfolioID, p.ClientID, p.CashBalance.StringFixed(2))
		return nil
	})
}

type addAssetCmd struct {
	app          *App
	symbol       string
	assetClass   string
	baseCurrency string
}

func (*addAssetCmd) Name() string     { return "add_asset" }
func (*addAssetCmd) Synopsis() string { return "create a new asset" }
func (*addAssetCmd) Usage() string {
	return `add_asset --symbol <text> --asset_class <text> --base_currency <ISO 4217 code>
`
}

func (c *addAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "Asset symbol")
	f.StringVar(&c.assetClass, "asset_class", "", "Asset class")
	f.StringVar(&c.baseCurrency, "base_currency", "", "Base currency")
}

func (c *addAssetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.assetClass == "" || c.baseCurrency == "" {
		return usage(f, "Please provide --symbol --asset_class --base_currency")
	}
	return c.app.run(ctx, func(db *gorm.DB) error {
		asset, err := services.NewAssetService(db).AddAsset(ctx, c.symbol, c.assetClass, c.baseCurrency)
		if err != nil {
			return err
		}
		c.app.printf("Added asset %s with id %d", asset.Symbol, asset.AssetID)
		return nil
	})
}

type addPriceCmd struct {
	app       *App
	assetID   uint
	price     string
	priceDate string
}

func (*addPriceCmd) Name() string     { return "add_price" }
func (*addPriceCmd) Synopsis() string { return "add a price row for an asset" }
func (*addPriceCmd) Usage() string {
	return `add_price --asset_id <id> --price <number> [--price_date <YYYY-MM-DD>]

  The price date defaults to today.
`
}

func (c *addPriceCmd) SetFlags(f *flag.FlagSet) {
	f.UintVar(&c.assetID, "asset_id", 0, "ID of the asset")
	f.StringVar(&c.price, "price", "", "Price value")
	f.StringVar(&c.priceDate, "price_date", "", "Price date (YYYY-MM-DD)")
}

func (c *addPriceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.assetID == 0 || c.price == "" {
		return usage(f, "Please provide --asset_id --price [--price_date]")
	}
	price, err := parseDecimal("price", c.price)
	if err != nil {
		return c.app.report(err)
	}
	var date *time.Time
	if c.priceDate != "" {
		d, err := parseDate("price_date", c.priceDate)
		if err != nil {
			return c.app.report(err)
		}
		date = &d
	}
	return c.app.run(ctx, func(db *gorm.DB) error {
		p, err := services.NewAssetService(db).AddPrice(ctx, c.assetID, price, date)
		if err != nil {
			return err
		}
		c.app.printf("Added price %s for asset %d on %s", p.Price.String(), p.AssetID, p.PriceDate.Format(time.DateOnly))
		return nil
	})
}

type addTradeCmd struct {
	app         *App
	portfolioID uint
	assetID     uint
	side        string
	quantity    string
	price       string
	tradeDate   string
}

func (*addTradeCmd) Name() string     { return "add_trade" }
func (*addTradeCmd) Synopsis() string { return "add a trade for a portfolio" }
func (*addTradeCmd) Usage() string {
	return `add_trade --portfolio_id <id> --asset_id <id> --side <BUY|SELL> --quantity <number> --price <number> [--trade_date <date>]

  The trade date accepts YYYY-MM-DD or "YYYY-MM-DD HH:MM:SS" and defaults to now.
`
}

func (c *addTradeCmd) SetFlags(f *flag.FlagSet) {
	f.UintVar(&c.portfolioID, "portfolio_id", 0, "ID of the portfolio")
	f.UintVar(&c.assetID, "asset_id", 0, "ID of the asset")
	f.StringVar(&c.side, "side", "", "BUY or SELL")
	f.StringVar(&c.quantity, "quantity", "", "Quantity traded")
	f.StringVar(&c.price, "price", "", "Price per unit")
	f.StringVar(&c.tradeDate, "trade_date", "", "Trade date")
}

func (c *addTradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolioID == 0 || c.assetID == 0 || c.side == "" || c.quantity == "" || c.price == "" {
		return usage(f, "Please provide: --portfolio_id --asset_id --side --quantity --price [--trade_date]")
	}

	input := services.TradeInput{
		PortfolioID: c.portfolioID,
		AssetID:     c.assetID,
		Side:        models.TradeSide(c.side),
	}
	var err error
	if input.Quantity, err = parseDecimal("quantity", c.quantity); err != nil {
		return c.app.report(err)
	}
	if input.Price, err = parseDecimal("price", c.price); err != nil {
		return c.app.report(err)
	}
	if c.tradeDate != "" {
		d, err := parseDate("trade_date", c.tradeDate)
		if err != nil {
			return c.app.report(err)
		}
		input.TradeDate = &d
	}

	return c.app.run(ctx, func(db *gorm.DB) error {
		t, err := services.NewTradeService(db).AddTrade(ctx, input)
		if err != nil {
			return err
		}
		c.app.printf("Added %s trade %d: %s x %s in portfolio %d",
			t.Side, t.TradeID, t.Quantity.String(), t.Price.String(), t.PortfolioID)
		return nil
	})
}

func parseDecimal(flagName, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "--"+flagName+" must be a number")
	}
	return d, nil
}

// parseDate accepts a date or a date and time, both interpreted as UTC.
func parseDate(flagName, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.DateOnly, time.DateTime} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "--"+flagName+" must be YYYY-MM-DD")
}
