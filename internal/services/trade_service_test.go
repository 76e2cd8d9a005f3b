package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "portfoliodb/internal/errors"
	"portfoliodb/internal/models"
	"portfoliodb/internal/testutil"
)

func TestAddTrade(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*tradeService, TradeInput, func()) {
		db := testutil.SetupTestDB(t)
		client := testutil.CreateTestClient(t, db, "Jane", "Doe")
		p := testutil.CreateTestPortfolio(t, db, client.ClientID, 1000)
		asset := testutil.CreateTestAsset(t, db)
		svc := &tradeService{db: db, now: func() time.Time {
			return time.Date(2025, 5, 4, 12, 0, 0, 0, time.UTC)
		}}
		input := TradeInput{
			PortfolioID: p.PortfolioID,
			AssetID:     asset.AssetID,
			Side:        models.TradeSideBuy,
			Quantity:    decimal.NewFromInt(3),
			Price:       decimal.RequireFromString("25.50"),
		}
		return svc, input, func() { testutil.TeardownTestDB(t, db) }
	}

	t.Run("valid", func(t *testing.T) {
		svc, input, done := setup(t)
		defer done()

		trade, err := svc.AddTrade(ctx, input)
		testutil.AssertNoError(t, err)

		if trade.TradeID == 0 {
			t.Fatal("expected non-zero trade ID")
		}
		if !trade.TradeDate.Equal(time.Date(2025, 5, 4, 12, 0, 0, 0, time.UTC)) {
			t.Errorf("expected trade date to default to now, got %v", trade.TradeDate)
		}
		if !trade.Notional().Equal(decimal.RequireFromString("76.5")) {
			t.Errorf("expected notional 76.5, got %s", trade.Notional())
		}
	})

	t.Run("sell_with_date", func(t *testing.T) {
		svc, input, done := setup(t)
		defer done()

		date := time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC)
		input.Side = models.TradeSideSell
		input.TradeDate = &date

		trade, err := svc.AddTrade(ctx, input)
		testutil.AssertNoError(t, err)

		if trade.Side != models.TradeSideSell || !trade.TradeDate.Equal(date) {
			t.Errorf("expected SELL on %v, got %s on %v", date, trade.Side, trade.TradeDate)
		}
	})

	t.Run("invalid_side_inserts_nothing", func(t *testing.T) {
		svc, input, done := setup(t)
		defer done()

		input.Side = "HOLD"
		_, err := svc.AddTrade(ctx, input)
		testutil.AssertAppError(t, err, "INVALID_TRADE_SIDE")
		testutil.AssertExitCode(t, err, apperrors.ExitFailure)
		testutil.AssertEmpty(t, svc.db, "trades")
	})

	t.Run("lowercase_side_rejected", func(t *testing.T) {
		svc, input, done := setup(t)
		defer done()

		input.Side = "buy"
		_, err := svc.AddTrade(ctx, input)
		testutil.AssertAppError(t, err, "INVALID_TRADE_SIDE")
	})

	t.Run("zero_quantity", func(t *testing.T) {
		svc, input, done := setup(t)
		defer done()

		input.Quantity = decimal.Zero
		_, err := svc.AddTrade(ctx, input)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_portfolio_id", func(t *testing.T) {
		svc, input, done := setup(t)
		defer done()

		input.PortfolioID = 0
		_, err := svc.AddTrade(ctx, input)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_portfolio", func(t *testing.T) {
		svc, input, done := setup(t)
		defer done()

		input.PortfolioID = 999
		_, err := svc.AddTrade(ctx, input)
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
	})

	t.Run("unknown_asset", func(t *testing.T) {
		svc, input, done := setup(t)
		defer done()

		input.AssetID = 999
		_, err := svc.AddTrade(ctx, input)
		testutil.AssertAppError(t, err, "ASSET_NOT_FOUND")
	})
}

func TestTradeQueries(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	now := time.Date(2025, 5, 4, 12, 0, 0, 0, time.UTC)
	svc := &tradeService{db: db, now: func() time.Time { return now }}

	client := testutil.CreateTestClient(t, db, "Jane", "Doe")
	p := testutil.CreateTestPortfolio(t, db, client.ClientID, 0)
	other := testutil.CreateTestPortfolio(t, db, client.ClientID, 0)
	busy := testutil.CreateTestAsset(t, db)
	quiet := testutil.CreateTestAsset(t, db)

	old := testutil.CreateTestTradeAt(t, db, p.PortfolioID, busy.AssetID, 1, 10, now.AddDate(0, 0, -60))
	recent := testutil.CreateTestTradeAt(t, db, p.PortfolioID, busy.AssetID, 1, 10, now.AddDate(0, 0, -2))
	testutil.CreateTestTradeAt(t, db, other.PortfolioID, busy.AssetID, 1, 10, now.AddDate(0, 0, -1))
	testutil.CreateTestTradeAt(t, db, p.PortfolioID, quiet.AssetID, 1, 10, now.AddDate(0, 0, -90))

	t.Run("trades_for_asset_in_portfolio", func(t *testing.T) {
		table, err := svc.GetAllTradesForAssetInPortfolio(ctx, p.PortfolioID, busy.AssetID)
		testutil.AssertNoError(t, err)

		if table.Len() != 2 {
			t.Fatalf("expected 2 trades, got %d", table.Len())
		}
		first, _ := table.Value(0, "trade_id")
		second, _ := table.Value(1, "trade_id")
		if first != int64(old.TradeID) || second != int64(recent.TradeID) {
			t.Errorf("expected oldest first [%d %d], got [%v %v]", old.TradeID, recent.TradeID, first, second)
		}
	})

	t.Run("trade_counts_by_asset", func(t *testing.T) {
		table, err := svc.GetTradeCountsByAsset(ctx)
		testutil.AssertNoError(t, err)

		if table.Len() != 2 {
			t.Fatalf("expected 2 assets, got %d", table.Len())
		}
		id, _ := table.Value(0, "asset_id")
		count, _ := table.Value(0, "trade_count")
		if id != int64(busy.AssetID) || count != int64(3) {
			t.Errorf("expected asset %d with 3 trades first, got %v with %v", busy.AssetID, id, count)
		}
	})

	t.Run("recent_trades", func(t *testing.T) {
		table, err := svc.GetRecentTrades(ctx, DefaultRecentTradeDays)
		testutil.AssertNoError(t, err)

		if table.Len() != 2 {
			t.Fatalf("expected 2 trades within 30 days, got %d", table.Len())
		}
		last, _ := table.Value(1, "trade_id")
		if last != int64(recent.TradeID) {
			t.Errorf("expected newest first, last row should be %d, got %v", recent.TradeID, last)
		}
	})

	t.Run("recent_trades_invalid_days", func(t *testing.T) {
		_, err := svc.GetRecentTrades(ctx, 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
