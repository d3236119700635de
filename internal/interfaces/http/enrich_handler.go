package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/product-enricher/internal/application/dto"
	"github.com/jhoicas/product-enricher/internal/application/usecase"
	"github.com/jhoicas/product-enricher/internal/domain"
)

// Mensajes públicos de la API (contrato con los clientes existentes).
const (
	MsgSuccess         = "Successfully processed the request"
	industryQueryParam = "industry"
	lastModifiedHeader = "2017-01-13"
)

// EnrichHandler maneja los endpoints de enriquecimiento de productos.
type EnrichHandler struct {
	uc  *usecase.AIUseCase
	log zerolog.Logger
}

// NewEnrichHandler construye el handler.
func NewEnrichHandler(uc *usecase.AIUseCase, log zerolog.Logger) *EnrichHandler {
	return &EnrichHandler{uc: uc, log: log}
}

// Analyze godoc
// @Summary      Enriquecer un producto con IA
// @Description  Recibe un producto como objeto JSON arbitrario, detecta su idioma y devuelve
//               categoría jerárquica y características sugeridas por el modelo.
// @Tags         enrich
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        industry  query  string  false  "Industria usada en el prompt"
// @Success      200   {object}  dto.AnalyzeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/enrich/analyze [post]
func (h *EnrichHandler) Analyze(c *fiber.Ctx) error {
	product, err := dto.DecodeProduct(c.Body())
	if err != nil {
		return h.badRequest(c, err)
	}

	industry := dto.ResolveIndustry(c.Query(industryQueryParam), product)
	result, err := h.uc.AnalyzeProduct(c.UserContext(), product, industry)
	if err != nil {
		// Cualquier fallo del modelo, incluido un proveedor sin API key, es un 500 genérico.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: domain.ErrAnalysisFailed.Error(), Code: "ANALYSIS_FAILED",
		})
	}

	setFreshnessHeaders(c)
	return c.Status(fiber.StatusOK).JSON(dto.AnalyzeResponse{
		Message:        MsgSuccess,
		ProductDetails: result,
	})
}

// Categorize godoc
// @Summary      Categorías a partir de atributos del producto
// @Description  Extrae los valores de los atributos indicados por cada categoría y construye
//               la jerarquía acumulativa (lvl0, lvl1, ...). No llama al modelo.
// @Tags         enrich
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategorizeRequest  true  "product y categories"
// @Success      200   {object}  dto.CategorizeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/enrich/categories [post]
func (h *EnrichHandler) Categorize(c *fiber.Ctx) error {
	req, err := dto.DecodeCategorizeRequest(c.Body())
	if err != nil {
		return h.badRequest(c, err)
	}

	details, err := h.uc.ProcessCategories(req)
	if err != nil {
		if errors.Is(err, domain.ErrNoCategories) || errors.Is(err, domain.ErrInvalidAttributes) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error(), Code: "INVALID_CATEGORIES"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error(), Code: "INTERNAL"})
	}

	setFreshnessHeaders(c)
	return c.Status(fiber.StatusOK).JSON(dto.CategorizeResponse{
		Message:        MsgSuccess,
		ProductDetails: details,
	})
}

// badRequest responde 400 con el motivo del rechazo del cuerpo.
func (h *EnrichHandler) badRequest(c *fiber.Ctx, err error) error {
	code := "INVALID_JSON"
	switch {
	case errors.Is(err, dto.ErrMissingBody):
		code = "MISSING_BODY"
	case errors.Is(err, dto.ErrNotAnObject):
		code = "NOT_AN_OBJECT"
	}
	h.log.Warn().Str("path", c.Path()).Str("code", code).Msg(err.Error())
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error(), Code: code})
}

func setFreshnessHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderVary, "*")
	c.Set(fiber.HeaderLastModified, lastModifiedHeader)
	c.Set(fiber.HeaderCacheControl, "no-store")
}
