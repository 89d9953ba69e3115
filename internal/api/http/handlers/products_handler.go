package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace/internal/api/dto"
	"github.com/spec-kit/marketplace/internal/auth"
	"github.com/spec-kit/marketplace/internal/domain"
	"github.com/spec-kit/marketplace/internal/service"
	apperrors "github.com/spec-kit/marketplace/pkg/util"
)

// ProductsHandler exposes catalog endpoints. Mutations run behind the seller
// gate; the handler only translates payloads and claims into service calls.
type ProductsHandler struct {
	catalog *service.CatalogService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(catalog *service.CatalogService) *ProductsHandler {
	return &ProductsHandler{catalog: catalog}
}

// Create handles POST /api/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing credentials")
	}

	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	product, err := h.catalog.Create(c.Context(), authCtx.SubjectID, service.ProductCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Price: domain.Price{
			Amount:   *req.Price.Amount,
			Currency: domain.Currency(req.Price.Currency),
		},
		Images: req.Images,
		Stock:  req.Stock,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// List handles GET /api/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	query := service.ProductListQuery{
		Search: c.Query("q"),
		Skip:   parseIntQuery(c, "skip"),
	}
	if min := parseFloatQuery(c, "minprice"); min != nil {
		query.MinPrice = min
	}
	if max := parseFloatQuery(c, "maxprice"); max != nil {
		query.MaxPrice = max
	}

	products, err := h.catalog.List(c.Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponses(products)})
}

// ListMine handles GET /api/products/seller.
func (h *ProductsHandler) ListMine(c *fiber.Ctx) error {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing credentials")
	}

	products, err := h.catalog.ListBySeller(c.Context(), authCtx.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponses(products)})
}

// Get handles GET /api/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.catalog.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Update handles PATCH /api/products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing credentials")
	}

	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.ProductUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Images:      req.Images,
		Stock:       req.Stock,
	}
	if req.Price != nil {
		input.PriceAmount = req.Price.Amount
		if req.Price.Currency != "" {
			currency := domain.Currency(req.Price.Currency)
			input.Currency = &currency
		}
	}

	product, err := h.catalog.Update(c.Context(), authCtx.SubjectID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// Delete handles DELETE /api/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	authCtx, ok := auth.FromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing credentials")
	}

	if err := h.catalog.Delete(c.Context(), authCtx.SubjectID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "product deleted"}})
}

func parseIntQuery(c *fiber.Ctx, key string) int {
	val, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return val
}

func parseFloatQuery(c *fiber.Ctx, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &val
}
