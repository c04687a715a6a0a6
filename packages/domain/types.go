// Package domain
package domain

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type PageRole string

const (
	RoleHome    PageRole = "Home"
	RoleProduct PageRole = "Product"
)

type FetchStatus string

const (
	Fetched     FetchStatus = "fetched"
	Unreachable FetchStatus = "unreachable"
)

// Verdict is the text-compliance outcome of the red-flag scan.
type Verdict string

const (
	Compliant Verdict = "Compliant"
	Risk      Verdict = "Risk"
)

type PolicyCategory string

const (
	PolicyRefund   PolicyCategory = "Refund"
	PolicyShipping PolicyCategory = "Shipping"
	PolicyPrivacy  PolicyCategory = "Privacy"
	PolicyTerms    PolicyCategory = "Terms"
	PolicyLegal    PolicyCategory = "Legal"
)

type FindingKind string

const (
	FindingSuspiciousClaims      FindingKind = "suspicious_claims"
	FindingMissingPolicy         FindingKind = "missing_policy"
	FindingMissingContactInfo    FindingKind = "missing_contact_info"
	FindingMissingProductSchema  FindingKind = "missing_product_schema"
	FindingMissingCurrencyMarker FindingKind = "missing_currency_marker"
	FindingFetchFailed           FindingKind = "fetch_failed"
)

// Finding is one detected issue on a page. Findings are created once and
// never mutated.
type Finding struct {
	Kind   FindingKind
	Detail string
	Weight int
}

// findingWeights assigns a severity weight per finding kind. The aggregate
// score applies a fixed per-page penalty (see audit.Score); weights travel
// with findings for persistence and downstream consumers.
var findingWeights = map[FindingKind]int{
	FindingSuspiciousClaims:      15,
	FindingMissingPolicy:         15,
	FindingMissingContactInfo:    10,
	FindingMissingProductSchema:  10,
	FindingMissingCurrencyMarker: 10,
	FindingFetchFailed:           12,
}

func NewFinding(kind FindingKind, detail string) Finding {
	return Finding{Kind: kind, Detail: detail, Weight: findingWeights[kind]}
}

// PageResult is one page's audit outcome. A result with status Unreachable
// carries exactly one fetch_failed finding and no verdict; all other results
// carry a verdict and zero or more findings.
type PageResult struct {
	URL      string
	Role     PageRole
	Status   FetchStatus
	Verdict  Verdict
	Lang     string
	Findings []Finding
}

// Failed reports whether this page counts against the score.
func (p PageResult) Failed() bool {
	return len(p.Findings) > 0
}

// Details renders the findings as a single semicolon-joined string, or
// "Compliant" for a clean page.
func (p PageResult) Details() string {
	if len(p.Findings) == 0 {
		return "Compliant"
	}
	parts := make([]string, 0, len(p.Findings))
	for _, f := range p.Findings {
		parts = append(parts, f.Detail)
	}
	return strings.Join(parts, "; ")
}

// PageContent is a fetched and parsed page, ready for rule evaluation and
// link extraction.
type PageContent struct {
	FinalURL string
	HTML     string
	Text     string // visible text, tags stripped, whitespace collapsed
	Lang     string // ISO 639-3 code, best effort
	Doc      *goquery.Document
}

// LowerText returns the visible text lowercased for keyword matching.
func (c *PageContent) LowerText() string {
	return strings.ToLower(c.Text)
}

// LowerHTML returns the raw markup lowercased. Schema and currency checks
// run against markup because JSON-LD blocks are not visible text.
func (c *PageContent) LowerHTML() string {
	return strings.ToLower(c.HTML)
}
