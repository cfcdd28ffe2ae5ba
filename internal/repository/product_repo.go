package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/ecotoken_store/internal/models"
)

// productRow mirrors the products table; nullable columns stay nullable so
// the normalizer decides on defaults.
type productRow struct {
	ID                  string          `db:"id"`
	Name                string          `db:"name"`
	Description         sql.NullString  `db:"description"`
	FiatAmount          sql.NullFloat64 `db:"fiat_amount"`
	TokenAmount         sql.NullFloat64 `db:"token_amount"`
	Category            sql.NullString  `db:"category"`
	Images              []byte          `db:"images"`
	SustainabilityScore sql.NullFloat64 `db:"sustainability_score"`
	Status              sql.NullString  `db:"status"`
}

// ProductRepository reads raw product records from PostgreSQL.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FetchAll returns every product in catalog order. Any failure returns no
// records at all.
func (r *ProductRepository) FetchAll(ctx context.Context) ([]models.RawProduct, error) {
	const q = `
        SELECT id, name, description, fiat_amount, token_amount, category,
               images, sustainability_score, status
        FROM products
        ORDER BY sort_order, id`

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}

	out := make([]models.RawProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toRaw())
	}
	return out, nil
}

// Upsert inserts or updates a product record by id.
func (r *ProductRepository) Upsert(ctx context.Context, p *models.Product, sortOrder int) error {
	images, err := json.Marshal([]string{p.ImageURL})
	if err != nil {
		return fmt.Errorf("failed to marshal images: %w", err)
	}

	const q = `
        INSERT INTO products (id, name, description, fiat_amount, token_amount, category,
                              images, sustainability_score, status, sort_order)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            description = EXCLUDED.description,
            fiat_amount = EXCLUDED.fiat_amount,
            token_amount = EXCLUDED.token_amount,
            category = EXCLUDED.category,
            images = EXCLUDED.images,
            sustainability_score = EXCLUDED.sustainability_score,
            status = EXCLUDED.status,
            sort_order = EXCLUDED.sort_order,
            updated_at = NOW()`

	_, err = r.db.ExecContext(ctx, q,
		p.ID,
		p.Name,
		p.Description,
		p.FiatPrice,
		p.TokenPrice,
		p.Category,
		images,
		p.SustainabilityScore,
		string(p.Status),
		sortOrder,
	)
	return err
}

func (row productRow) toRaw() models.RawProduct {
	raw := models.RawProduct{
		ID:   row.ID,
		Name: row.Name,
	}
	if row.Description.Valid {
		raw.Description = &row.Description.String
	}
	if row.FiatAmount.Valid || row.TokenAmount.Valid {
		raw.Price = &models.RawPrice{}
		if row.FiatAmount.Valid {
			raw.Price.FiatAmount = row.FiatAmount.Float64
		}
		if row.TokenAmount.Valid {
			raw.Price.TokenAmount = row.TokenAmount.Float64
		}
	}
	if row.Category.Valid {
		raw.Category = &row.Category.String
	}
	if len(row.Images) > 0 {
		var images []string
		// Malformed JSON leaves images unset; the normalizer falls back to the placeholder.
		if err := json.Unmarshal(row.Images, &images); err == nil {
			raw.Images = images
		}
	}
	if row.SustainabilityScore.Valid {
		raw.SustainabilityScore = row.SustainabilityScore.Float64
	}
	if row.Status.Valid {
		raw.Status = row.Status.String
	}
	return raw
}
