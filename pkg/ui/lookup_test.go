package ui

import (
	"strings"
	"testing"

	"github.com/va2bbw/qle/pkg/models"
)

func TestNewCallsignLookup(t *testing.T) {
	cl := NewCallsignLookup(LookupProviderHamQTH)

	if cl.GetProvider() != LookupProviderHamQTH {
		t.Errorf("Expected provider to be set")
	}
}

func TestNewCallsignLookupDefault(t *testing.T) {
	cl := NewCallsignLookup("")

	if cl.GetProvider() != LookupProviderQRZ {
		t.Errorf("Default provider should be qrz, got %s", cl.GetProvider())
	}
}

func TestLookupURL(t *testing.T) {
	cl := NewCallsignLookup(LookupProviderQRZ)

	link, err := cl.LookupURL("W1ABC")
	if err != nil {
		t.Fatalf("LookupURL failed: %v", err)
	}

	if link != "https://www.qrz.com/db/W1ABC" {
		t.Errorf("Unexpected QRZ URL: %s", link)
	}
}

func TestLookupURLHamQTH(t *testing.T) {
	cl := NewCallsignLookup(LookupProviderHamQTH)

	link, err := cl.LookupURL("K2XYZ")
	if err != nil {
		t.Fatalf("LookupURL failed: %v", err)
	}

	if link != "https://www.hamqth.com/K2XYZ" {
		t.Errorf("Unexpected HamQTH URL: %s", link)
	}
}

func TestLookupURLNormalizes(t *testing.T) {
	cl := NewCallsignLookup(LookupProviderQRZ)

	link, err := cl.LookupURL("  w1abc ")
	if err != nil {
		t.Fatalf("LookupURL failed: %v", err)
	}

	if !strings.HasSuffix(link, "/W1ABC") {
		t.Errorf("Callsign should be trimmed and uppercased, got %s", link)
	}
}

func TestLookupURLRejectsPlaceholder(t *testing.T) {
	cl := NewCallsignLookup(LookupProviderQRZ)

	if _, err := cl.LookupURL(models.Placeholder); err == nil {
		t.Error("Should refuse placeholder callsign")
	}

	if _, err := cl.LookupURL(""); err == nil {
		t.Error("Should refuse empty callsign")
	}

	if _, err := cl.LookupURL("   "); err == nil {
		t.Error("Should refuse blank callsign")
	}
}

func TestAllLookupURLs(t *testing.T) {
	cl := NewCallsignLookup(LookupProviderQRZ)

	urls, err := cl.AllLookupURLs("W1ABC")
	if err != nil {
		t.Fatalf("AllLookupURLs failed: %v", err)
	}

	if len(urls) != 2 {
		t.Errorf("Expected 2 URLs, got %d", len(urls))
	}

	if !strings.Contains(urls[LookupProviderQRZ], "qrz.com") {
		t.Error("QRZ URL should point at qrz.com")
	}

	if !strings.Contains(urls[LookupProviderHamQTH], "hamqth.com") {
		t.Error("HamQTH URL should point at hamqth.com")
	}

	if cl.GetProvider() != LookupProviderQRZ {
		t.Error("Active provider should be unchanged")
	}
}

func TestDecodeLookupURL(t *testing.T) {
	cl := NewCallsignLookup(LookupProviderQRZ)

	// Generate a link
	link, err := cl.LookupURL("W1ABC")
	if err != nil {
		t.Fatalf("LookupURL failed: %v", err)
	}

	// Decode it
	provider, call, err := cl.DecodeLookupURL(link)
	if err != nil {
		t.Fatalf("DecodeLookupURL failed: %v", err)
	}

	if provider != LookupProviderQRZ {
		t.Errorf("Expected provider qrz, got %s", provider)
	}

	if call != "W1ABC" {
		t.Errorf("Expected callsign W1ABC, got %s", call)
	}
}

func TestDecodeLookupURLHamQTH(t *testing.T) {
	cl := NewCallsignLookup(LookupProviderQRZ)

	provider, call, err := cl.DecodeLookupURL("https://www.hamqth.com/k2xyz")
	if err != nil {
		t.Fatalf("DecodeLookupURL failed: %v", err)
	}

	if provider != LookupProviderHamQTH {
		t.Errorf("Expected provider hamqth, got %s", provider)
	}

	if call != "K2XYZ" {
		t.Errorf("Expected callsign K2XYZ, got %s", call)
	}
}

func TestDecodeLookupURLUnknownHost(t *testing.T) {
	cl := NewCallsignLookup(LookupProviderQRZ)

	_, _, err := cl.DecodeLookupURL("https://example.com/db/W1ABC")
	if err == nil {
		t.Error("Should error on unknown host")
	}
}

func TestCycleProvider(t *testing.T) {
	cl := NewCallsignLookup(LookupProviderQRZ)

	if p := cl.CycleProvider(); p != LookupProviderHamQTH {
		t.Errorf("Expected hamqth after cycle, got %s", p)
	}

	if p := cl.CycleProvider(); p != LookupProviderQRZ {
		t.Errorf("Expected qrz after second cycle, got %s", p)
	}
}

func TestSetProvider(t *testing.T) {
	cl := NewCallsignLookup(LookupProviderQRZ)

	if err := cl.SetProvider(LookupProviderHamQTH); err != nil {
		t.Fatalf("SetProvider failed: %v", err)
	}

	if cl.GetProvider() != LookupProviderHamQTH {
		t.Error("Provider should be switched")
	}

	if err := cl.SetProvider("dxwatch"); err == nil {
		t.Error("Should error on unknown provider")
	}
}

func TestLookupValidate(t *testing.T) {
	cl := NewCallsignLookup(LookupProviderQRZ)

	if !cl.Validate("https://www.qrz.com/db/W1ABC") {
		t.Error("Valid URL should validate")
	}

	if cl.Validate("not a url at all @#$%") {
		t.Error("Invalid URL should not validate")
	}

	if cl.Validate("W1ABC") {
		t.Error("Bare callsign is not a URL")
	}
}

func TestGetActivityURL(t *testing.T) {
	cl := NewCallsignLookup(LookupProviderQRZ)

	link, err := cl.GetActivityURL("W1ABC")
	if err != nil {
		t.Fatalf("GetActivityURL failed: %v", err)
	}

	if !strings.Contains(link, "pskreporter.info") {
		t.Error("Should contain PSK Reporter URL")
	}

	if !strings.Contains(link, "callsign=W1ABC") {
		t.Error("Should contain callsign parameter")
	}
}
