package catalog

import (
	"fmt"

	"github.com/jhoicas/product-enricher/internal/domain"
	"github.com/jhoicas/product-enricher/internal/domain/entity"
)

// ProcessCategories valida las categorías suministradas, toma del producto los valores
// de sus atributos y construye la jerarquía. No consulta al modelo ni detecta idioma.
//
// Errores de validación (error del cliente, no transitorio):
//   - domain.ErrNoCategories si la lista está vacía.
//   - domain.ErrInvalidAttributes (con el tipo de la categoría) si alguna no tiene atributos.
func ProcessCategories(categories []entity.CategoryDescriptor, product *entity.Product) (*entity.CategoryResult, error) {
	if len(categories) == 0 {
		return nil, domain.ErrNoCategories
	}

	values := make([]string, 0, len(categories))
	for _, category := range categories {
		if len(category.Attributes) == 0 {
			return nil, fmt.Errorf("%w '%s'", domain.ErrInvalidAttributes, category.Type)
		}
		for _, attr := range category.Attributes {
			values = append(values, attributeValues(product, attr)...)
		}
	}

	return &entity.CategoryResult{
		CategoryIdentifiers:    values,
		HierarchicalCategories: BuildHierarchy(values),
	}, nil
}

// attributeValues devuelve los valores aportados por un atributo: un escalar con valor
// aporta su texto, un arreglo aporta sus escalares; ausentes, vacíos, null y objetos no aportan.
func attributeValues(product *entity.Product, attr string) []string {
	v, ok := product.Get(attr)
	if !ok || !v.Truthy() {
		return nil
	}
	if v.IsScalar() {
		return []string{v.Text()}
	}
	items, ok := v.Elements()
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsScalar() && item.Truthy() {
			out = append(out, item.Text())
		}
	}
	return out
}
