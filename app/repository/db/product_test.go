package db

import (
	"context"
	"errors"
	"inventory-service/app/domain"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []string{"id", "company_id", "name", "price", "qty", "qty_min"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestProductRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	price := decimal.RequireFromString("12.50")
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products`)).
		WithArgs(int64(7), "Widget", price, int64(2), int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	p := &domain.Product{CompanyID: 7, Name: "Widget", Price: price, Qty: 2, QtyMin: 5}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, int64(42), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = $1 AND company_id = $2`)).
			WithArgs(int64(1), int64(7)).
			WillReturnRows(pgxmock.NewRows(cols).
				AddRow(int64(1), int64(7), "Widget", "3.00", int64(2), int64(5)))

		p, err := repo.GetByID(ctx, 7, 1)
		require.NoError(t, err)
		assert.Equal(t, "Widget", p.Name)
		assert.Equal(t, int64(5), p.QtyMin)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other company is not found", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = $1 AND company_id = $2`)).
			WithArgs(int64(1), int64(8)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, 8, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProductRepository_GetByCompanyID(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE company_id = $1 ORDER BY id`)).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(1), int64(7), "Widget", "0", int64(2), int64(5)).
			AddRow(int64(2), int64(7), "Gadget", "0", int64(10), int64(5)))

	products, err := repo.GetByCompanyID(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Gadget", products[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("applies and commits", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
			WithArgs(int64(1), int64(7)).
			WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(1), int64(7), "Widget", "3.00", int64(10), int64(5)))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET`)).
			WithArgs("Widget", pgxmock.AnyArg(), int64(4), int64(5), int64(1), int64(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		p, err := repo.Update(ctx, 7, 1, func(p *domain.Product) { p.Qty = 4 })
		require.NoError(t, err)
		assert.Equal(t, int64(4), p.Qty)
		assert.Equal(t, "3", p.Price.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing rolls back", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
			WithArgs(int64(9), int64(7)).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		called := false
		_, err := repo.Update(ctx, 7, 9, func(*domain.Product) { called = true })
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec failure rolls back", func(t *testing.T) {
		mock := newMock(t)
		repo := NewProductRepository(mock)

		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`FOR UPDATE`)).
			WithArgs(int64(1), int64(7)).
			WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(1), int64(7), "Widget", "0", int64(10), int64(5)))
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET`)).
			WillReturnError(boom)
		mock.ExpectRollback()

		_, err := repo.Update(ctx, 7, 1, func(p *domain.Product) { p.Qty = 1 })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepository_Delete(t *testing.T) {
	ctx := context.Background()
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products`)).
		WithArgs(int64(1), int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM products`)).
		WithArgs(int64(2), int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(ctx, 7, 1))
	assert.ErrorIs(t, repo.Delete(ctx, 7, 2), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
