package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace/internal/domain"
)

// ProductFilter captures list query parameters.
type ProductFilter struct {
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Skip     int
	Limit    int
}

// ProductRepository defines persistence access for catalog entries.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error)
	// Update persists the product only if it still belongs to product.SellerID;
	// otherwise pgx.ErrNoRows, so callers cannot probe other sellers' entries.
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id, sellerID string) error
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productSelect = `
        SELECT id, title, description, price_amount, price_currency, seller_id, images, stock, created_at, updated_at
        FROM products`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (title, description, price_amount, price_currency, seller_id, images, stock)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		product.Title,
		product.Description,
		product.Price.Amount,
		product.Price.Currency,
		product.SellerID,
		product.Images,
		product.Stock,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = productSelect + ` WHERE id=$1`

	var p domain.Product
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price.Amount,
		&p.Price.Currency,
		&p.SellerID,
		&p.Images,
		&p.Stock,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if filter.Search != "" {
		args = append(args, filter.Search)
		conditions = append(conditions, fmt.Sprintf(
			"to_tsvector('english', title || ' ' || description) @@ plainto_tsquery('english', $%d)", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("price_amount >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("price_amount <= $%d", len(args)))
	}

	query := productSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, max(filter.Skip, 0))
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return r.scanMany(ctx, query, args...)
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID string) ([]domain.Product, error) {
	const query = productSelect + ` WHERE seller_id=$1 ORDER BY created_at DESC`
	return r.scanMany(ctx, query, sellerID)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products
        SET title=$1, description=$2, price_amount=$3, price_currency=$4, images=$5, stock=$6, updated_at=NOW()
        WHERE id=$7 AND seller_id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		product.Title,
		product.Description,
		product.Price.Amount,
		product.Price.Currency,
		product.Images,
		product.Stock,
		product.ID,
		product.SellerID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id, sellerID string) error {
	const query = `DELETE FROM products WHERE id=$1 AND seller_id=$2`

	cmd, err := r.pool.Exec(ctx, query, id, sellerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) scanMany(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.Price.Amount,
			&p.Price.Currency,
			&p.SellerID,
			&p.Images,
			&p.Stock,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
