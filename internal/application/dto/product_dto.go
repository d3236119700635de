package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jhoicas/product-enricher/internal/domain"
	"github.com/jhoicas/product-enricher/internal/domain/entity"
)

// AnalysisResult resultado normalizado del análisis de un producto.
type AnalysisResult struct {
	CategoryIdentifiers    []string           `json:"categoryIdentifiers"`
	HierarchicalCategories HierarchicalLevels `json:"hierarchicalCategories"`
	ProductCharacteristics []string           `json:"productCharacteristics"`
}

// HierarchicalLevels jerarquía de dos niveles producida por el modelo.
type HierarchicalLevels struct {
	Lvl0 string `json:"lvl0"`
	Lvl1 string `json:"lvl1"`
}

// NewAnalysisResult da forma a la clasificación del modelo.
func NewAnalysisResult(c entity.Classification) *AnalysisResult {
	label := c.HierarchicalLabel()
	characteristics := c.Characteristics
	if characteristics == nil {
		characteristics = []string{}
	}
	return &AnalysisResult{
		CategoryIdentifiers:    []string{label, c.MainCategory},
		HierarchicalCategories: HierarchicalLevels{Lvl0: c.MainCategory, Lvl1: label},
		ProductCharacteristics: characteristics,
	}
}

// AnalyzeResponse sobre de éxito de POST /api/enrich/analyze.
type AnalyzeResponse struct {
	Message        string          `json:"message"`
	ProductDetails *AnalysisResult `json:"productDetails"`
}

// CategorizeRequest entrada de POST /api/enrich/categories.
type CategorizeRequest struct {
	Product    *entity.Product             `json:"product"`
	Categories []entity.CategoryDescriptor `json:"categories"`
}

// CategoryDetails categorías normalizadas a partir de atributos del producto.
type CategoryDetails struct {
	CategoryIdentifiers    []string                 `json:"categoryIdentifiers"`
	HierarchicalCategories entity.CategoryHierarchy `json:"hierarchicalCategories"`
}

// NewCategoryDetails convierte el resultado de dominio.
func NewCategoryDetails(r *entity.CategoryResult) *CategoryDetails {
	return &CategoryDetails{
		CategoryIdentifiers:    r.CategoryIdentifiers,
		HierarchicalCategories: r.HierarchicalCategories,
	}
}

// CategorizeResponse sobre de éxito de POST /api/enrich/categories.
type CategorizeResponse struct {
	Message        string           `json:"message"`
	ProductDetails *CategoryDetails `json:"productDetails"`
}

// LLMClassificationPayload es el JSON que esperamos recibir del modelo.
type LLMClassificationPayload struct {
	MainCategory    string         `json:"main_category"`
	Subcategory     string         `json:"subcategory"`
	Characteristics []entity.Value `json:"characteristics"`
}

// Rechazos del cuerpo de la petición; el texto es el mensaje público de la API.
var (
	ErrMissingBody = errors.New("Missing request body")
	ErrInvalidJSON = errors.New("Invalid JSON format in request body")
	ErrNotAnObject = errors.New("Request body must be a valid JSON object")
)

// DecodeProduct valida el cuerpo crudo y lo decodifica como producto.
// Un cuerpo vacío, JSON malformado, un JSON que no es objeto o un objeto vacío son errores del cliente.
func DecodeProduct(body []byte) (*entity.Product, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrMissingBody
	}
	product := entity.NewProduct()
	if err := json.Unmarshal(body, product); err != nil {
		if errors.Is(err, domain.ErrNotAnObject) {
			return nil, ErrNotAnObject
		}
		return nil, ErrInvalidJSON
	}
	if product.Len() == 0 {
		return nil, ErrNotAnObject
	}
	return product, nil
}

// DecodeCategorizeRequest valida y decodifica la entrada de categorización.
func DecodeCategorizeRequest(body []byte) (CategorizeRequest, error) {
	var req CategorizeRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, ErrMissingBody
	}
	if err := json.Unmarshal(body, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.Is(err, domain.ErrNotAnObject) || (errors.As(err, &typeErr) && typeErr.Field == "") {
			return req, ErrNotAnObject
		}
		return req, ErrInvalidJSON
	}
	return req, nil
}

// industryField campo del producto que puede fijar la industria del prompt.
const industryField = "industry"

// ResolveIndustry elige la industria del prompt: el valor explícito (query param o flag),
// luego el campo "industry" del producto. Vacío deja que el caso de uso aplique su default.
func ResolveIndustry(explicit string, product *entity.Product) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if product == nil {
		return ""
	}
	if v, ok := product.Get(industryField); ok && v.Kind == entity.KindString {
		return strings.TrimSpace(v.Str)
	}
	return ""
}
