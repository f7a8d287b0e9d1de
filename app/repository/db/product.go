package db

import (
	"context"
	"errors"
	"inventory-service/app/domain"
	"inventory-service/pkg"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

type productRepository struct {
	conn DBPool
}

func NewProductRepository(db DBPool) domain.ProductRepository {
	return &productRepository{db}
}

const productColumns = `id, company_id, name, price, qty, qty_min`

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Price, &p.Qty, &p.QtyMin)
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (company_id, name, price, qty, qty_min)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id`

	err := r.conn.QueryRow(ctx, query, product.CompanyID, product.Name, product.Price, product.Qty, product.QtyMin).
		Scan(&product.ID)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] Create", "queryRow", err)
		return err
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, companyID, id int64) (domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND company_id = $2`

	var product domain.Product
	if err := scanProduct(r.conn.QueryRow(ctx, query, id, companyID), &product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product, domain.ErrNotFound
		}
		slog.ErrorContext(ctx, "[productRepository] GetByID", "queryRow", err)
		return product, err
	}
	return product, nil
}

func (r *productRepository) GetByCompanyID(ctx context.Context, companyID int64) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 ORDER BY id`

	rows, err := r.conn.Query(ctx, query, companyID)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] GetByCompanyID", "query", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var product domain.Product
		if err := scanProduct(rows, &product); err != nil {
			slog.ErrorContext(ctx, "[productRepository] GetByCompanyID", "scan", err)
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		slog.ErrorContext(ctx, "[productRepository] GetByCompanyID", "rowError", err)
		return nil, err
	}

	return products, nil
}

func (r *productRepository) Update(ctx context.Context, companyID, id int64, fn func(*domain.Product)) (domain.Product, error) {
	var product domain.Product

	tx, err := r.conn.Begin(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] Update", "begin", err)
		return product, err
	}

	err = pkg.WithTransaction(ctx, tx, func() error {
		query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND company_id = $2 FOR UPDATE`
		if err := scanProduct(tx.QueryRow(ctx, query, id, companyID), &product); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			slog.ErrorContext(ctx, "[productRepository] Update", "lockForUpdate", err)
			return err
		}

		fn(&product)

		_, err := tx.Exec(ctx, `UPDATE products SET name = $1, price = $2, qty = $3, qty_min = $4
		WHERE id = $5 AND company_id = $6`,
			product.Name, product.Price, product.Qty, product.QtyMin, id, companyID)
		if err != nil {
			slog.ErrorContext(ctx, "[productRepository] Update", "exec", err)
		}
		return err
	})
	if err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (r *productRepository) Delete(ctx context.Context, companyID, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM products WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		slog.ErrorContext(ctx, "[productRepository] Delete", "exec", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
