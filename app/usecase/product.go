package usecase

import (
	"context"
	"inventory-service/app/domain"
	"log/slog"
)

type productUsecase struct {
	productRepo  domain.ProductRepository
	productCache domain.ProductCache
	producer     domain.StockCheckProducer
}

func NewProductUsecase(productRepo domain.ProductRepository, productCache domain.ProductCache, producer domain.StockCheckProducer) domain.ProductService {
	return &productUsecase{productRepo, productCache, producer}
}

func (u *productUsecase) Create(ctx context.Context, companyID int64, req domain.ProductCreateRequest) (domain.Product, error) {
	product := domain.Product{
		CompanyID: companyID,
		Name:      req.Name,
		Price:     *req.Price,
		Qty:       *req.Qty,
		QtyMin:    *req.QtyMin,
	}

	if err := u.productRepo.Create(ctx, &product); err != nil {
		slog.ErrorContext(ctx, "[productUsecase] Create", "createProduct", err)
		return domain.Product{}, err
	}

	u.invalidate(ctx, companyID, nil)
	u.producer.Enqueue(ctx, product)

	slog.InfoContext(ctx, "[productUsecase] Create", "productID", product.ID)
	return product, nil
}

func (u *productUsecase) GetByID(ctx context.Context, companyID, id int64) (domain.ProductDetail, error) {
	if product, ok, err := u.productCache.Get(ctx, companyID, id); err == nil && ok {
		return domain.ProductDetail{Cache: true, Data: product}, nil
	}

	product, err := u.productRepo.GetByID(ctx, companyID, id)
	if err != nil {
		slog.ErrorContext(ctx, "[productUsecase] GetByID", "getProduct", err)
		return domain.ProductDetail{}, err
	}

	if err := u.productCache.Set(ctx, product); err != nil {
		slog.WarnContext(ctx, "[productUsecase] GetByID", "setCache", err)
	}
	return domain.ProductDetail{Data: product}, nil
}

func (u *productUsecase) GetList(ctx context.Context, companyID int64) (domain.ProductList, error) {
	if products, ok, err := u.productCache.GetList(ctx, companyID); err == nil && ok {
		return domain.ProductList{Cache: true, Data: products}, nil
	}

	products, err := u.productRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		slog.ErrorContext(ctx, "[productUsecase] GetList", "getProducts", err)
		return domain.ProductList{}, err
	}

	if err := u.productCache.SetList(ctx, companyID, products); err != nil {
		slog.WarnContext(ctx, "[productUsecase] GetList", "setCache", err)
	}
	return domain.ProductList{Data: products}, nil
}

func (u *productUsecase) Update(ctx context.Context, companyID, id int64, req domain.ProductUpdateRequest) (domain.Product, error) {
	product, err := u.productRepo.Update(ctx, companyID, id, func(p *domain.Product) {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		p.Qty = *req.Qty
		p.QtyMin = *req.QtyMin
	})
	if err != nil {
		slog.ErrorContext(ctx, "[productUsecase] Update", "updateProduct", err)
		return domain.Product{}, err
	}

	u.invalidate(ctx, companyID, &id)
	u.producer.Enqueue(ctx, product)

	slog.InfoContext(ctx, "[productUsecase] Update", "productID", product.ID)
	return product, nil
}

func (u *productUsecase) Delete(ctx context.Context, companyID, id int64) error {
	if err := u.productRepo.Delete(ctx, companyID, id); err != nil {
		slog.ErrorContext(ctx, "[productUsecase] Delete", "deleteProduct", err)
		return err
	}

	u.invalidate(ctx, companyID, &id)
	return nil
}

// invalidate is best effort; a stale entry expires with the cache TTL.
func (u *productUsecase) invalidate(ctx context.Context, companyID int64, productID *int64) {
	if err := u.productCache.Invalidate(ctx, companyID, productID); err != nil {
		slog.WarnContext(ctx, "[productUsecase] invalidate", "invalidateCache", err)
	}
}
