package llm

import (
	"fmt"
	"strings"

	"github.com/use-agent/adscout/models"
)

// audiences holds the phrasing appended to a prompt for each gender and
// age group. Unknown combinations get no extra phrasing.
var audiences = map[string]map[string]string{
	"female": {
		"9-18":  "Appeal to young girls with fun, color, and trendy designs.",
		"18-25": "Emphasize style, comfort, and empowerment.",
		"25-40": "Focus on comfort, elegance, and professional appeal.",
		"40-60": "Emphasize comfort, sophistication, and practicality.",
		"60+":   "Highlight comfort, elegance, and relaxation.",
	},
	"male": {
		"9-18":  "Appeal to young boys or teens with energy and coolness.",
		"18-25": "Focus on style, confidence, and boldness.",
		"25-40": "Emphasize practicality, style, and versatility.",
		"40-60": "Appeal with quality, durability, and classic style.",
		"60+":   "Highlight comfort and ease of use.",
	},
}

// AudienceDescription returns the targeting phrase for gender and ageGroup,
// or "" when the pair is unknown. Gender is matched case-insensitively.
func AudienceDescription(gender, ageGroup string) string {
	byAge, ok := audiences[strings.ToLower(strings.TrimSpace(gender))]
	if !ok {
		return ""
	}
	return byAge[strings.TrimSpace(ageGroup)]
}

// AdPrompt builds the prompt for a scraped product.
func AdPrompt(p models.Product, gender, ageGroup string) string {
	var b strings.Builder
	b.WriteString("Generate an ad for the following product:\n")
	fmt.Fprintf(&b, "Brand: %s\n", p.BrandName)
	fmt.Fprintf(&b, "Product: %s\n", p.ProductName)
	fmt.Fprintf(&b, "Description: %s\n", p.ProductDescription)
	fmt.Fprintf(&b, "Targeted at a %s audience in the age group of %s.", gender, ageGroup)
	if desc := AudienceDescription(gender, ageGroup); desc != "" {
		b.WriteString("\n")
		b.WriteString(desc)
	}
	return b.String()
}

// ManualPrompt builds the prompt for hand-entered product details.
func ManualPrompt(r models.ManualAdRequest) string {
	var b strings.Builder
	b.WriteString("Generate an engaging ad for the following product:\n")
	fmt.Fprintf(&b, "Brand: %s\n", r.BrandName)
	fmt.Fprintf(&b, "Product: %s\n", r.ProductName)
	fmt.Fprintf(&b, "Description: %s\n", r.ProductDescription)
	fmt.Fprintf(&b, "Target Audience: %s\n", r.TargetAudience)
	fmt.Fprintf(&b, "Unique Selling Points: %s", r.UniqueSellingPoints)
	return b.String()
}
