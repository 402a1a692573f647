package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/GTDGit/gtd_jewel/internal/models"
	"github.com/GTDGit/gtd_jewel/internal/utils"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// a single connection keeps the in-memory database alive across queries
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema := `
	CREATE TABLE products(
	  id INTEGER PRIMARY KEY,
	  sku_code TEXT NOT NULL,
	  name TEXT NOT NULL,
	  brand TEXT NOT NULL DEFAULT '',
	  metal_type TEXT NOT NULL DEFAULT 'silver',
	  is_active BOOLEAN NOT NULL DEFAULT 1,
	  price REAL NOT NULL,
	  sale_price REAL NOT NULL DEFAULT 0,
	  user_price REAL NOT NULL DEFAULT 0,
	  member_price REAL NOT NULL DEFAULT 0,
	  current_rate_per_gram REAL NOT NULL DEFAULT 0,
	  product_weight REAL NOT NULL DEFAULT 0,
	  material_value REAL NOT NULL DEFAULT 0,
	  making_cost REAL NOT NULL DEFAULT 0,
	  wastage_cost REAL NOT NULL DEFAULT 0,
	  gst REAL NOT NULL DEFAULT 3,
	  total_calculated_price REAL NOT NULL DEFAULT 0,
	  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE chit_plans(
	  id INTEGER PRIMARY KEY,
	  user_id INTEGER NOT NULL,
	  plan_name TEXT NOT NULL,
	  status TEXT NOT NULL,
	  started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	  updated_at TIMESTAMP NOT NULL
	);
	INSERT INTO products(id, sku_code, name, brand, metal_type, is_active, price, sale_price, user_price, product_weight, making_cost, gst) VALUES
	  (1, 'RING-1', 'Gold Ring', 'Gold Classic', 'gold', 1, 70000, 0, 68000, 10, 500, 3),
	  (2, 'ANK-1', 'Silver Anklet', 'Silver Line', 'silver', 1, 1200, 1100, 0, 12, 80, 3),
	  (3, 'OLD-1', 'Retired Chain', '', 'silver', 0, 900, 0, 0, 5, 0, 3);
	INSERT INTO chit_plans(user_id, plan_name, status, updated_at) VALUES
	  (10, 'Gold Saver', 'completed', '2026-01-01 00:00:00'),
	  (10, 'Gold Saver Plus', 'active', '2025-06-01 00:00:00'),
	  (11, 'Silver Saver', 'paused', '2026-02-01 00:00:00'),
	  (11, 'Silver Saver', 'cancelled', '2026-03-01 00:00:00');
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestProductRepository_GetByID(t *testing.T) {
	repo := NewProductRepository(memdb(t))

	p, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if p.SkuCode != "RING-1" || p.MetalType != models.MetalGold || !p.IsActive {
		t.Fatalf("unexpected product %+v", p)
	}
	if p.Price != 70000 || p.UserPrice != 68000 || p.ProductWeight != 10 || p.MakingCost != 500 {
		t.Fatalf("unexpected price fields %+v", p.ProductPriceFields)
	}

	if _, err := repo.GetByID(context.Background(), 404); !errors.Is(err, utils.ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_GetByIDs(t *testing.T) {
	repo := NewProductRepository(memdb(t))

	got, err := repo.GetByIDs(context.Background(), []int{1, 2, 3, 99})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1] == nil || got[2] == nil {
		t.Fatalf("want active products 1 and 2, got %v", got)
	}
	if got[2].SalePrice != 1100 {
		t.Fatalf("unexpected sale price %v", got[2].SalePrice)
	}

	empty, err := repo.GetByIDs(context.Background(), nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("want empty map, got %v %v", empty, err)
	}
}

func TestProductRepository_UpdatePriceBreakup(t *testing.T) {
	db := memdb(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	b := models.PriceBreakup{CurrentRatePerGram: 6000, MaterialValue: 60000, TotalCalculatedPrice: 62315, MemberPrice: 60000}
	if err := repo.UpdatePriceBreakup(ctx, 1, b); err != nil {
		t.Fatal(err)
	}

	p, err := repo.GetByID(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if p.CurrentRatePerGram != 6000 || p.MaterialValue != 60000 || p.TotalCalculatedPrice != 62315 || p.MemberPrice != 60000 {
		t.Fatalf("breakup not persisted: %+v", p.ProductPriceFields)
	}
	if p.Price != 70000 || p.UserPrice != 68000 {
		t.Fatalf("admin prices changed: %+v", p.ProductPriceFields)
	}

	if err := repo.UpdatePriceBreakup(ctx, 404, b); !errors.Is(err, utils.ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound, got %v", err)
	}
}

func TestChitPlanRepository_GetCurrentByUserID(t *testing.T) {
	repo := NewChitPlanRepository(memdb(t))
	ctx := context.Background()

	// active wins over a more recently updated completed plan
	p, err := repo.GetCurrentByUserID(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsActive() || p.PlanName != "Gold Saver Plus" {
		t.Fatalf("want active plan, got %+v", p)
	}

	p, err = repo.GetCurrentByUserID(ctx, 11)
	if err != nil {
		t.Fatal(err)
	}
	if p.IsActive() || p.Status != models.ChitPlanCancelled {
		t.Fatalf("want latest inactive plan, got %+v", p)
	}

	p, err = repo.GetCurrentByUserID(ctx, 12)
	if err != nil || p != nil {
		t.Fatalf("want no plan, got %+v %v", p, err)
	}
}
