package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"portfoliodb/internal/testutil"
)

func TestAddAsset(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAssetService(db)

		asset, err := svc.AddAsset(ctx, "aapl", "Stock", "usd")
		testutil.AssertNoError(t, err)

		if asset.AssetID == 0 {
			t.Fatal("expected non-zero asset ID")
		}
		if asset.Symbol != "AAPL" || asset.BaseCurrency != "USD" {
			t.Errorf("expected AAPL/USD, got %s/%s", asset.Symbol, asset.BaseCurrency)
		}
	})

	t.Run("missing_symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAssetService(db)

		_, err := svc.AddAsset(ctx, "", "Stock", "USD")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_currency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAssetService(db)

		_, err := svc.AddAsset(ctx, "AAPL", "Stock", "ZZZ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAddPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAssetService(db)

		asset := testutil.CreateTestAsset(t, db)
		date := time.Date(2024, 3, 15, 17, 30, 0, 0, time.UTC)

		p, err := svc.AddPrice(ctx, asset.AssetID, decimal.RequireFromString("101.25"), &date)
		testutil.AssertNoError(t, err)

		want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		if !p.PriceDate.Equal(want) {
			t.Errorf("expected price date %v, got %v", want, p.PriceDate)
		}
	})

	t.Run("defaults_to_today", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := &assetService{db: db, now: func() time.Time {
			return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		}}

		asset := testutil.CreateTestAsset(t, db)
		p, err := svc.AddPrice(ctx, asset.AssetID, decimal.NewFromInt(10), nil)
		testutil.AssertNoError(t, err)

		if p.PriceDate.Format(time.DateOnly) != "2025-06-01" {
			t.Errorf("expected resolved date 2025-06-01, got %s", p.PriceDate.Format(time.DateOnly))
		}
	})

	t.Run("duplicate_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAssetService(db)

		asset := testutil.CreateTestAsset(t, db)
		date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		_, err := svc.AddPrice(ctx, asset.AssetID, decimal.NewFromInt(10), &date)
		testutil.AssertNoError(t, err)

		_, err = svc.AddPrice(ctx, asset.AssetID, decimal.NewFromInt(11), &date)
		testutil.AssertAppError(t, err, "DUPLICATE_PRICE")
	})

	t.Run("unknown_asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAssetService(db)

		_, err := svc.AddPrice(ctx, 42, decimal.NewFromInt(10), nil)
		testutil.AssertAppError(t, err, "ASSET_NOT_FOUND")
	})

	t.Run("non_positive_price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAssetService(db)

		asset := testutil.CreateTestAsset(t, db)
		_, err := svc.AddPrice(ctx, asset.AssetID, decimal.Zero, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetAssetsLatestPrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAssetService(db)

	priced := testutil.CreateTestAssetWithSymbol(t, db, "AAA")
	unpriced := testutil.CreateTestAssetWithSymbol(t, db, "BBB")
	testutil.CreateTestPrice(t, db, priced.AssetID, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 10)
	testutil.CreateTestPrice(t, db, priced.AssetID, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), 12)
	testutil.CreateTestPrice(t, db, priced.AssetID, time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC), 9)

	table, err := svc.GetAssetsLatestPrice(context.Background())
	testutil.AssertNoError(t, err)

	if table.Len() != 2 {
		t.Fatalf("expected one row per asset, got %d", table.Len())
	}

	id, _ := table.Value(0, "asset_id")
	if id != int64(priced.AssetID) {
		t.Fatalf("expected asset %d first, got %v", priced.AssetID, id)
	}
	price, ok, err := table.Decimal(0, "price")
	testutil.AssertNoError(t, err)
	if !ok || !price.Equal(decimal.NewFromInt(12)) {
		t.Errorf("expected latest price 12, got %s", price)
	}
	date, _ := table.Value(0, "price_date")
	if date != "2024-02-02" {
		t.Errorf("expected latest date 2024-02-02, got %v", date)
	}

	id, _ = table.Value(1, "asset_id")
	if id != int64(unpriced.AssetID) {
		t.Fatalf("expected asset %d second, got %v", unpriced.AssetID, id)
	}
	if _, ok, _ := table.Decimal(1, "price"); ok {
		t.Error("expected NULL price for an asset without prices")
	}
}

func TestAssetNoteJoins(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAssetService(db)

	withNote := testutil.CreateTestAssetWithSymbol(t, db, "AAA")
	testutil.CreateTestAssetWithSymbol(t, db, "BBB")
	testutil.CreateTestNote(t, db, &withNote.AssetID, "linked")
	testutil.CreateTestNote(t, db, nil, "orphan")

	t.Run("notes_with_possible_assets", func(t *testing.T) {
		table, err := svc.GetNotesWithPossibleAssets(ctx)
		testutil.AssertNoError(t, err)

		if table.Len() != 2 {
			t.Fatalf("expected one row per note, got %d", table.Len())
		}
		symbol, _ := table.Value(1, "symbol")
		if symbol != nil {
			t.Errorf("expected no asset for the orphan note, got %v", symbol)
		}
	})

	t.Run("assets_with_possible_notes", func(t *testing.T) {
		table, err := svc.GetAssetsWithPossibleNotes(ctx)
		testutil.AssertNoError(t, err)

		if table.Len() != 2 {
			t.Fatalf("expected one row per asset, got %d", table.Len())
		}
		note, _ := table.Value(1, "note")
		if note != nil {
			t.Errorf("expected no note for BBB, got %v", note)
		}
	})

	t.Run("all_assets_and_notes", func(t *testing.T) {
		table, err := svc.GetAllAssetsAndNotes(ctx)
		testutil.AssertNoError(t, err)

		if table.Len() != 3 {
			t.Errorf("expected linked pair, bare asset and orphan note, got %d rows", table.Len())
		}
	})
}
