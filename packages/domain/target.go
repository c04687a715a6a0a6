package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var ErrInvalidTarget = errors.New("invalid target URL")

// Target identifies the site under audit. Immutable once an audit starts.
type Target struct {
	BaseURL     string // scheme-qualified, trailing slash stripped, lowercased host
	Host        string // hostname without port
	Registrable string // eTLD+1, falls back to Host
}

// NewTarget normalizes a raw user-supplied URL into an audit target. A URL
// without a scheme defaults to https. An empty or unparsable URL is the only
// hard input error an audit can produce.
func NewTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, ErrInvalidTarget
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if u.Hostname() == "" {
		return Target{}, ErrInvalidTarget
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	host := u.Hostname()
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		registrable = host
	}

	return Target{
		BaseURL:     strings.TrimRight(u.String(), "/"),
		Host:        host,
		Registrable: registrable,
	}, nil
}

// SameSite reports whether host belongs to the target site: either the exact
// host or a subdomain of it. This is stricter than substring containment on
// purpose; "example.com.evil.net" must not match "example.com".
func (t Target) SameSite(host string) bool {
	host = strings.ToLower(host)
	return host == t.Host || strings.HasSuffix(host, "."+t.Host) ||
		host == t.Registrable || strings.HasSuffix(host, "."+t.Registrable)
}
