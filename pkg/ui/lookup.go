package ui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/browser"

	"github.com/va2bbw/qle/pkg/models"
)

// Lookup providers for online callsign databases
const (
	LookupProviderQRZ    = "qrz"
	LookupProviderHamQTH = "hamqth"
)

// CallsignLookup builds links to online callsign databases
type CallsignLookup struct {
	provider string
}

// NewCallsignLookup creates a new callsign lookup with the given provider
func NewCallsignLookup(provider string) *CallsignLookup {
	if provider == "" {
		provider = LookupProviderQRZ
	}
	return &CallsignLookup{
		provider: provider,
	}
}

// Providers returns the known lookup providers
func (cl *CallsignLookup) Providers() []string {
	return []string{LookupProviderQRZ, LookupProviderHamQTH}
}

// GetProvider returns the active provider
func (cl *CallsignLookup) GetProvider() string {
	return cl.provider
}

// SetProvider switches the active provider
func (cl *CallsignLookup) SetProvider(provider string) error {
	for _, p := range cl.Providers() {
		if p == provider {
			cl.provider = provider
			return nil
		}
	}
	return fmt.Errorf("unknown lookup provider: %s", provider)
}

// CycleProvider rotates to the next known provider
func (cl *CallsignLookup) CycleProvider() string {
	providers := cl.Providers()
	for i, p := range providers {
		if p == cl.provider {
			cl.provider = providers[(i+1)%len(providers)]
			return cl.provider
		}
	}
	cl.provider = providers[0]
	return cl.provider
}

// LookupURL builds the database page URL for a callsign
func (cl *CallsignLookup) LookupURL(callsign string) (string, error) {
	call, err := normalizeCallsign(callsign)
	if err != nil {
		return "", err
	}

	switch cl.provider {
	case LookupProviderQRZ:
		return fmt.Sprintf("https://www.qrz.com/db/%s", url.PathEscape(call)), nil
	case LookupProviderHamQTH:
		return fmt.Sprintf("https://www.hamqth.com/%s", url.PathEscape(call)), nil
	default:
		return "", fmt.Errorf("unknown lookup provider: %s", cl.provider)
	}
}

// AllLookupURLs builds the page URLs for a callsign on every provider
func (cl *CallsignLookup) AllLookupURLs(callsign string) (map[string]string, error) {
	call, err := normalizeCallsign(callsign)
	if err != nil {
		return nil, err
	}

	urls := make(map[string]string)
	saved := cl.provider
	for _, p := range cl.Providers() {
		cl.provider = p
		link, err := cl.LookupURL(call)
		if err != nil {
			cl.provider = saved
			return nil, err
		}
		urls[p] = link
	}
	cl.provider = saved
	return urls, nil
}

// DecodeLookupURL extracts the provider and callsign from a lookup URL
func (cl *CallsignLookup) DecodeLookupURL(link string) (string, string, error) {
	parsedURL, err := url.Parse(link)
	if err != nil {
		return "", "", fmt.Errorf("invalid URL: %w", err)
	}

	host := strings.TrimPrefix(parsedURL.Hostname(), "www.")
	path := strings.Trim(parsedURL.Path, "/")

	var provider, call string
	switch host {
	case "qrz.com":
		provider = LookupProviderQRZ
		call = strings.TrimPrefix(path, "db/")
	case "hamqth.com":
		provider = LookupProviderHamQTH
		call = path
	default:
		return "", "", fmt.Errorf("unknown lookup host: %s", parsedURL.Hostname())
	}

	unescaped, err := url.PathUnescape(call)
	if err != nil {
		return "", "", fmt.Errorf("invalid callsign in URL: %w", err)
	}

	call, err = normalizeCallsign(unescaped)
	if err != nil {
		return "", "", err
	}

	return provider, call, nil
}

// GetActivityURL returns a PSK Reporter map URL for recent activity
func (cl *CallsignLookup) GetActivityURL(callsign string) (string, error) {
	call, err := normalizeCallsign(callsign)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://pskreporter.info/pskmap.html?preset&callsign=%s", url.QueryEscape(call)), nil
}

// Validate checks that a link is well formed
func (cl *CallsignLookup) Validate(link string) bool {
	parsedURL, err := url.Parse(link)
	if err != nil {
		return false
	}
	return parsedURL.Scheme != "" && parsedURL.Host != ""
}

// Open opens the lookup page for a callsign in the default browser
func (cl *CallsignLookup) Open(callsign string) error {
	link, err := cl.LookupURL(callsign)
	if err != nil {
		return err
	}
	return browser.OpenURL(link)
}

// normalizeCallsign uppercases a callsign and rejects placeholders
func normalizeCallsign(callsign string) (string, error) {
	call := strings.ToUpper(strings.TrimSpace(callsign))
	if call == "" {
		return "", fmt.Errorf("no callsign to look up")
	}
	if call == models.Placeholder {
		return "", fmt.Errorf("contact has no callsign")
	}
	return call, nil
}
