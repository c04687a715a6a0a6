package rules

import (
	"fmt"
	"strings"

	"feedguard/packages/domain"
)

// structuralRule is one entry of the data-driven rule table: which role it
// applies to, how to detect the required feature, and the finding emitted
// when the feature is absent. Table order is emission order.
type structuralRule struct {
	Role     domain.PageRole
	Kind     domain.FindingKind
	Category domain.PolicyCategory
	Detail   string
	Present  func(c *domain.PageContent) bool
}

func structuralRules() []structuralRule {
	table := make([]structuralRule, 0, len(policyCatalog)+3)
	for _, p := range policyCatalog {
		p := p
		table = append(table, structuralRule{
			Role:     domain.RoleHome,
			Kind:     domain.FindingMissingPolicy,
			Category: p.Category,
			Detail:   fmt.Sprintf("Missing %s policy", p.Category),
			Present: func(c *domain.PageContent) bool {
				return containsAny(c.LowerHTML(), p.Keywords)
			},
		})
	}
	table = append(table,
		structuralRule{
			Role:   domain.RoleHome,
			Kind:   domain.FindingMissingContactInfo,
			Detail: "No contact email",
			Present: func(c *domain.PageContent) bool {
				return strings.Contains(c.HTML, "@")
			},
		},
		structuralRule{
			Role:   domain.RoleProduct,
			Kind:   domain.FindingMissingProductSchema,
			Detail: "Missing product schema",
			Present: func(c *domain.PageContent) bool {
				return productSchemaPattern.MatchString(c.LowerHTML())
			},
		},
		structuralRule{
			Role:   domain.RoleProduct,
			Kind:   domain.FindingMissingCurrencyMarker,
			Detail: "Missing currency marker",
			Present: func(c *domain.PageContent) bool {
				return currencyPattern.MatchString(c.LowerText()) || currencyPattern.MatchString(c.LowerHTML())
			},
		},
	)
	return table
}

var ruleTable = structuralRules()

// Evaluate runs both rule groups over an already-fetched page and returns
// the text-compliance verdict plus findings in fixed catalog order. The
// evaluation is a pure function of the content; repeated runs yield
// identical findings.
func Evaluate(c *domain.PageContent, role domain.PageRole) (domain.Verdict, []domain.Finding) {
	var findings []domain.Finding

	verdict := domain.Compliant
	if matched := scanRedFlags(c.LowerText()); len(matched) > 0 {
		verdict = domain.Risk
		findings = append(findings, domain.NewFinding(
			domain.FindingSuspiciousClaims,
			"Flags: "+strings.Join(matched, ", "),
		))
	}

	for _, rule := range ruleTable {
		if rule.Role != role {
			continue
		}
		if !rule.Present(c) {
			findings = append(findings, domain.NewFinding(rule.Kind, rule.Detail))
		}
	}

	return verdict, findings
}

// scanRedFlags returns the source text of every matching pattern, in catalog
// order, so the finding detail is stable across runs.
func scanRedFlags(lowerText string) []string {
	var matched []string
	for i, re := range redFlagPatterns {
		if re.MatchString(lowerText) {
			matched = append(matched, strings.ReplaceAll(redFlags[i], `\b`, ""))
		}
	}
	return matched
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
