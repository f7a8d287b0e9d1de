package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        int64           `json:"id"`
	CompanyID int64           `json:"company_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Qty       int64           `json:"qty"`
	QtyMin    int64           `json:"qty_min"`
}

type ProductCreateRequest struct {
	Name   string           `json:"name" validate:"required,max=255"`
	Price  *decimal.Decimal `json:"price" validate:"required"`
	Qty    *int64           `json:"qty" validate:"required"`
	QtyMin *int64           `json:"qty_min" validate:"required"`
}

// ProductUpdateRequest leaves name and price untouched when they are omitted.
type ProductUpdateRequest struct {
	Name   *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Price  *decimal.Decimal `json:"price"`
	Qty    *int64           `json:"qty" validate:"required"`
	QtyMin *int64           `json:"qty_min" validate:"required"`
}

type ProductList struct {
	Cache bool      `json:"cache"`
	Data  []Product `json:"data"`
}

type ProductDetail struct {
	Cache bool    `json:"cache"`
	Data  Product `json:"data"`
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, companyID, id int64) (Product, error)
	GetByCompanyID(ctx context.Context, companyID int64) ([]Product, error)
	// Update locks the row, applies fn and persists the result.
	Update(ctx context.Context, companyID, id int64, fn func(*Product)) (Product, error)
	Delete(ctx context.Context, companyID, id int64) error
}

// ProductCache is the cache-aside store in front of ProductRepository.
type ProductCache interface {
	GetList(ctx context.Context, companyID int64) ([]Product, bool, error)
	SetList(ctx context.Context, companyID int64, products []Product) error
	Get(ctx context.Context, companyID, id int64) (Product, bool, error)
	Set(ctx context.Context, product Product) error
	Invalidate(ctx context.Context, companyID int64, productID *int64) error
}

type ProductService interface {
	Create(ctx context.Context, companyID int64, req ProductCreateRequest) (Product, error)
	GetByID(ctx context.Context, companyID, id int64) (ProductDetail, error)
	GetList(ctx context.Context, companyID int64) (ProductList, error)
	Update(ctx context.Context, companyID, id int64, req ProductUpdateRequest) (Product, error)
	Delete(ctx context.Context, companyID, id int64) error
}
