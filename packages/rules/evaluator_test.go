package rules_test

import (
	"testing"

	"feedguard/packages/domain"
	"feedguard/packages/fetch"
	"feedguard/packages/rules"

	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html string) *domain.PageContent {
	t.Helper()
	content, err := fetch.Parse("https://shop.example.com/page", html)
	require.NoError(t, err)
	return content
}

func kinds(findings []domain.Finding) []domain.FindingKind {
	out := make([]domain.FindingKind, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Kind)
	}
	return out
}

func TestEvaluate_HomePolicyDetection(t *testing.T) {
	t.Parallel()

	// Only the German privacy keyword is present; the four other policy
	// categories and the contact check must all fail.
	html := `<html><body><footer><a href="/datenschutz">Datenschutz</a></footer></body></html>`
	verdict, findings := rules.Evaluate(parse(t, html), domain.RoleHome)

	require.Equal(t, domain.Compliant, verdict)
	require.Equal(t, []domain.FindingKind{
		domain.FindingMissingPolicy, // Refund
		domain.FindingMissingPolicy, // Shipping
		domain.FindingMissingPolicy, // Terms
		domain.FindingMissingPolicy, // Legal
		domain.FindingMissingContactInfo,
	}, kinds(findings))

	for _, f := range findings {
		require.NotContains(t, f.Detail, "Privacy")
	}
}

func TestEvaluate_HomeFullyCompliant(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<a href="/refund">Refund policy</a>
		<a href="/shipping">Shipping</a>
		<a href="/privacy">Privacy</a>
		<a href="/terms">Terms</a>
		<a href="/impressum">Impressum</a>
		<p>Contact us: hello@shop.example.com</p>
	</body></html>`
	verdict, findings := rules.Evaluate(parse(t, html), domain.RoleHome)

	require.Equal(t, domain.Compliant, verdict)
	require.Empty(t, findings)
}

func TestEvaluate_RedFlags(t *testing.T) {
	t.Parallel()

	html := `<html><body><p>Our serum is 100% SAFE and delivers Guaranteed results!</p>
		<span>€19.99</span>
		<script type="application/ld+json">{"@type":"Product"}</script>
	</body></html>`
	verdict, findings := rules.Evaluate(parse(t, html), domain.RoleProduct)

	require.Equal(t, domain.Risk, verdict)
	require.Len(t, findings, 1)
	require.Equal(t, domain.FindingSuspiciousClaims, findings[0].Kind)
	require.Contains(t, findings[0].Detail, "guaranteed")
	require.Contains(t, findings[0].Detail, "100% safe")
}

func TestEvaluate_ProductCurrency(t *testing.T) {
	t.Parallel()

	withSymbol := `<html><body>
		<script type="application/ld+json">{"@type":"Product"}</script>
		<p>Price: €49.99</p></body></html>`
	_, findings := rules.Evaluate(parse(t, withSymbol), domain.RoleProduct)
	require.NotContains(t, kinds(findings), domain.FindingMissingCurrencyMarker)

	bareNumber := `<html><body>
		<script type="application/ld+json">{"@type":"Product"}</script>
		<p>Price: 49.99</p></body></html>`
	_, findings = rules.Evaluate(parse(t, bareNumber), domain.RoleProduct)
	require.Contains(t, kinds(findings), domain.FindingMissingCurrencyMarker)
}

func TestEvaluate_ProductSchema(t *testing.T) {
	t.Parallel()

	// Whitespace around the colon and mixed case must still match.
	spaced := `<html><body>
		<script type="application/ld+json">{ "@type" : "Product", "name": "X" }</script>
		<p>$10</p></body></html>`
	_, findings := rules.Evaluate(parse(t, spaced), domain.RoleProduct)
	require.NotContains(t, kinds(findings), domain.FindingMissingProductSchema)

	microdata := `<html><body><div itemscope itemtype="https://schema.org/Product"><p>$10</p></div></body></html>`
	_, findings = rules.Evaluate(parse(t, microdata), domain.RoleProduct)
	require.NotContains(t, kinds(findings), domain.FindingMissingProductSchema)

	none := `<html><body><p>$10 only, buy now</p></body></html>`
	_, findings = rules.Evaluate(parse(t, none), domain.RoleProduct)
	require.Contains(t, kinds(findings), domain.FindingMissingProductSchema)
}

func TestEvaluate_RoleSelectsRuleGroups(t *testing.T) {
	t.Parallel()

	// A bare page evaluated as Product must not emit home-only findings.
	html := `<html><body><p>hello</p></body></html>`
	_, findings := rules.Evaluate(parse(t, html), domain.RoleProduct)

	got := kinds(findings)
	require.NotContains(t, got, domain.FindingMissingPolicy)
	require.NotContains(t, got, domain.FindingMissingContactInfo)
	require.Contains(t, got, domain.FindingMissingProductSchema)
	require.Contains(t, got, domain.FindingMissingCurrencyMarker)
}

func TestEvaluate_Idempotent(t *testing.T) {
	t.Parallel()

	html := `<html><body><p>miracle cure, no risk! Price 49.99</p></body></html>`
	content := parse(t, html)

	v1, f1 := rules.Evaluate(content, domain.RoleProduct)
	v2, f2 := rules.Evaluate(content, domain.RoleProduct)

	require.Equal(t, v1, v2)
	require.Equal(t, f1, f2)
}
