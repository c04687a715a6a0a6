// Package rules
package rules

import (
	"regexp"

	"feedguard/packages/domain"
)

// redFlags are deceptive/absolute marketing claims that put a product feed
// at risk. Patterns are matched case-insensitively against visible text.
var redFlags = []string{
	`guaranteed`,
	`miracle`,
	`100% safe`,
	`no risk`,
	`weight loss`,
	`get rich`,
	`\bfree money\b`,
	`permanent results`,
	`instant cure`,
	`lowest price in the world`,
	`#1 in the world`,
	`official store`,
}

var redFlagPatterns = compileAll(redFlags)

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// policyCatalog maps each required policy category to its multilingual
// keyword set (English, German, Dutch). Order here is emission order.
// Adding a language or category is a data change only.
var policyCatalog = []struct {
	Category domain.PolicyCategory
	Keywords []string
}{
	{domain.PolicyRefund, []string{"refund", "return policy", "rückgabe", "widerruf", "retour"}},
	{domain.PolicyShipping, []string{"shipping", "delivery", "versand", "lieferung", "levering", "verzending"}},
	{domain.PolicyPrivacy, []string{"privacy", "datenschutz", "privacybeleid"}},
	{domain.PolicyTerms, []string{"terms", "conditions", "agb", "voorwaarden"}},
	{domain.PolicyLegal, []string{"impressum", "legal notice", "colofon"}},
}

// productSchemaPattern matches a JSON-LD or microdata Product type
// declaration, tolerating whitespace around the colon.
var productSchemaPattern = regexp.MustCompile(`"@type"\s*:\s*"product"|schema\.org/product`)

// currencyPattern matches common currency symbols or ISO codes.
var currencyPattern = regexp.MustCompile(`[€$£]|\b(eur|usd|gbp|chf)\b`)
