package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/gtd_jewel/internal/models"
	"github.com/GTDGit/gtd_jewel/internal/utils"
)

const productColumns = `id, sku_code, name, brand, metal_type, is_active, created_at, updated_at,
		price, sale_price, user_price, member_price, current_rate_per_gram, product_weight,
		material_value, making_cost, wastage_cost, gst, total_calculated_price`

// ProductRepository handles data access for product price fields.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	q := r.db.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ? LIMIT 1`)

	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetByIDs returns active products keyed by id. Missing ids are absent from
// the map.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Product, error) {
	out := make(map[int]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	q, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?) AND is_active = true`, ids)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	for i := range products {
		out[products[i].ID] = &products[i]
	}
	return out, nil
}

// UpdatePriceBreakup persists the price breakup audit trail of a product.
func (r *ProductRepository) UpdatePriceBreakup(ctx context.Context, id int, b models.PriceBreakup) error {
	q := r.db.Rebind(`
		UPDATE products
		SET current_rate_per_gram = ?, material_value = ?, total_calculated_price = ?,
			member_price = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, q,
		b.CurrentRatePerGram,
		b.MaterialValue,
		b.TotalCalculatedPrice,
		b.MemberPrice,
		id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrProductNotFound
	}
	return nil
}
