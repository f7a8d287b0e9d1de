package handler

import (
	"inventory-service/app/domain"
	"inventory-service/app/handler/api/response"
	"inventory-service/pkg/ctxutil"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	productUsecase domain.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productUsecase domain.ProductService, validator *validator.Validate) *ProductHandler {
	return &ProductHandler{
		productUsecase: productUsecase,
		validator:      validator,
	}
}

func (h *ProductHandler) GetList(c *fiber.Ctx) error {
	companyID, err := ctxutil.GetCompanyIDCtx(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "[productHandler] GetList", "getCompanyIDCtx", err)
		return c.Status(fiber.StatusInternalServerError).JSON(response.Error(domain.ErrInternal))
	}

	list, err := h.productUsecase.GetList(c.Context(), companyID)
	if err != nil {
		slog.ErrorContext(c.Context(), "[productHandler] GetList", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.SuccessCached(list.Data, list.Cache))
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	companyID, err := ctxutil.GetCompanyIDCtx(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "[productHandler] Create", "getCompanyIDCtx", err)
		return c.Status(fiber.StatusInternalServerError).JSON(response.Error(domain.ErrInternal))
	}

	var req domain.ProductCreateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[productHandler] Create", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[productHandler] Create", "validation", err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(response.Error(domain.ErrValidation))
	}

	product, err := h.productUsecase.Create(c.Context(), companyID, req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[productHandler] Create", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusCreated).JSON(response.Success(product))
}

func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	companyID, id, ok := h.scope(c, "GetByID")
	if !ok {
		return nil
	}

	detail, err := h.productUsecase.GetByID(c.Context(), companyID, id)
	if err != nil {
		slog.ErrorContext(c.Context(), "[productHandler] GetByID", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.SuccessCached(detail.Data, detail.Cache))
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	companyID, id, ok := h.scope(c, "Update")
	if !ok {
		return nil
	}

	var req domain.ProductUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[productHandler] Update", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[productHandler] Update", "validation", err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(response.Error(domain.ErrValidation))
	}

	product, err := h.productUsecase.Update(c.Context(), companyID, id, req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[productHandler] Update", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(product))
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	companyID, id, ok := h.scope(c, "Delete")
	if !ok {
		return nil
	}

	if err := h.productUsecase.Delete(c.Context(), companyID, id); err != nil {
		slog.ErrorContext(c.Context(), "[productHandler] Delete", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// scope resolves the caller's company and the :id path param. When it
// returns false the error response has already been written.
func (h *ProductHandler) scope(c *fiber.Ctx, method string) (int64, int64, bool) {
	companyID, err := ctxutil.GetCompanyIDCtx(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "[productHandler] "+method, "getCompanyIDCtx", err)
		_ = c.Status(fiber.StatusInternalServerError).JSON(response.Error(domain.ErrInternal))
		return 0, 0, false
	}

	idStr := c.Params("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		slog.ErrorContext(c.Context(), "[productHandler] "+method, "parseInt:"+idStr, err)
		_ = c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
		return 0, 0, false
	}

	return companyID, id, true
}
