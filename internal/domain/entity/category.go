package entity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CategorySeparator une los segmentos de una ruta de categoría.
const CategorySeparator = " > "

// CategoryDescriptor describe una categoría suministrada por el cliente:
// Type es la etiqueta y Attributes los campos del producto de los que se toman los valores.
type CategoryDescriptor struct {
	Type       string   `json:"type"`
	Attributes []string `json:"attributes"`
}

// CategoryHierarchy mapea el nivel (lvl0, lvl1, …) a las rutas acumuladas de ese nivel,
// sin duplicados y en orden de primera aparición.
type CategoryHierarchy map[string][]string

// LevelKey devuelve la clave del nivel i ("lvl0", "lvl1", …).
func LevelKey(i int) string {
	return "lvl" + strconv.Itoa(i)
}

// Levels devuelve las claves ordenadas por profundidad (lvl2 antes que lvl10).
func (h CategoryHierarchy) Levels() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return levelIndex(keys[i]) < levelIndex(keys[j])
	})
	return keys
}

func levelIndex(key string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(key, "lvl"))
	if err != nil {
		return -1
	}
	return n
}

// CategoryResult salida de la normalización de categorías suministradas.
type CategoryResult struct {
	CategoryIdentifiers    []string
	HierarchicalCategories CategoryHierarchy
}

// Classification es la respuesta del modelo ya interpretada.
type Classification struct {
	MainCategory    string
	Subcategory     string
	Characteristics []string
}

// HierarchicalLabel devuelve "main > sub".
func (c Classification) HierarchicalLabel() string {
	return fmt.Sprintf("%s%s%s", c.MainCategory, CategorySeparator, c.Subcategory)
}
