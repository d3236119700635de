package usecase

import (
	"fmt"
	"strings"

	"github.com/jhoicas/product-enricher/internal/domain/entity"
)

// languageInstructions instrucción inicial por idioma soportado.
var languageInstructions = map[string]string{
	"en": "Analyze this product and respond in English",
	"es": "Analiza este producto y responde en español",
	"fr": "Analysez ce produit et répondez en français",
	"de": "Analysieren Sie dieses Produkt und antworten Sie auf Deutsch",
	"it": "Analizza questo prodotto e rispondi in italiano",
}

// genericInstruction se usa para idiomas fuera de la tabla.
const genericInstruction = "Analyze this product"

const responseRequirements = `
Response Requirements:
- Respond in the same language as the product data
- main_category: Broadest product category
- subcategory: More specific product type
- characteristics: Array of notable product features

Example Response Structure (English):
{
  "main_category": "Jewelry",
  "subcategory": "Ear Cuffs",
  "characteristics": ["gold", "handcrafted"]
}`

// BuildPrompt construye el prompt de categorización. Es determinista: los campos escalares
// se listan en el orden en que llegaron y los no escalares (objetos, arreglos, null) se omiten.
func BuildPrompt(product *entity.Product, industry, lang string) string {
	instruction, ok := languageInstructions[lang]
	if !ok {
		instruction = genericInstruction
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s. Return JSON with:\n", instruction)
	b.WriteString("1. Category hierarchy (main category and subcategories)\n")
	b.WriteString("2. General product characteristics\n")
	fmt.Fprintf(&b, "This categorization should be based on the %s industry\n", industry)
	b.WriteString("Product Data:\n")

	for _, f := range product.Fields() {
		if !f.Value.IsScalar() {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", f.Key, f.Value.Text())
	}

	b.WriteString(responseRequirements)
	return b.String()
}
