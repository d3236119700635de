// Package catalog normaliza rutas de categoría en una jerarquía por niveles.
package catalog

import (
	"slices"
	"strings"

	"github.com/jhoicas/product-enricher/internal/domain/entity"
)

// BuildHierarchy descompone cada ruta ("Joyería > Aretes > Ear cuffs") en niveles acumulados:
//
//	lvl0: "Joyería"
//	lvl1: "Joyería > Aretes"
//	lvl2: "Joyería > Aretes > Ear cuffs"
//
// Solo el primer "/" de cada ruta se normaliza a ">". Cada nivel conserva el orden de
// primera aparición y descarta duplicados.
func BuildHierarchy(paths []string) entity.CategoryHierarchy {
	hierarchy := entity.CategoryHierarchy{}
	for _, path := range paths {
		parts := strings.Split(strings.Replace(path, "/", ">", 1), ">")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		for i := range parts {
			key := entity.LevelKey(i)
			value := strings.Join(parts[:i+1], entity.CategorySeparator)
			if !slices.Contains(hierarchy[key], value) {
				hierarchy[key] = append(hierarchy[key], value)
			}
		}
	}
	return hierarchy
}
