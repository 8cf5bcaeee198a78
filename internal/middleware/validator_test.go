package middleware

import "testing"

func TestValidateSeedURL(t *testing.T) {
	valid := []string{
		"https://pastebin.com/AbCd1234",
		"http://paste.ee/p12345",
	}
	for _, u := range valid {
		if err := ValidateSeedURL(u); err != nil {
			t.Errorf("ValidateSeedURL(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{
		"",
		"ftp://pastebin.com/x",
		"https://localhost/x",
		"https://127.0.0.1:8080/x",
		"https://10.0.0.5/x",
		"https://192.168.1.1/x",
	}
	for _, u := range invalid {
		if err := ValidateSeedURL(u); err == nil {
			t.Errorf("ValidateSeedURL(%q) = nil, want error", u)
		}
	}
}

func TestValidateScanRequest(t *testing.T) {
	if err := ValidateScanRequest(nil, nil); err == nil {
		t.Error("empty request should be rejected")
	}
	if err := ValidateScanRequest([]string{"https://pastebin.com/AbCd1234"}, nil); err != nil {
		t.Errorf("valid urls rejected: %v", err)
	}
	if err := ValidateScanRequest(nil, []string{"password ui.ac.id"}); err != nil {
		t.Errorf("valid keywords rejected: %v", err)
	}
	if err := ValidateScanRequest(nil, []string{"x"}); err == nil {
		t.Error("too-short keyword should be rejected")
	}

	many := make([]string, 101)
	for i := range many {
		many[i] = "https://pastebin.com/AbCd1234"
	}
	if err := ValidateScanRequest(many, nil); err == nil {
		t.Error("101 urls should be rejected")
	}
}

func TestValidateTenantID(t *testing.T) {
	if err := ValidateTenantID("acme_corp-1"); err != nil {
		t.Errorf("valid tenant rejected: %v", err)
	}
	for _, bad := range []string{"", "a b", "tenant/evil", "../../etc"} {
		if err := ValidateTenantID(bad); err == nil {
			t.Errorf("ValidateTenantID(%q) = nil, want error", bad)
		}
	}
}

func TestValidateScanID(t *testing.T) {
	if err := ValidateScanID("123e4567-e89b-12d3-a456-426614174000"); err != nil {
		t.Errorf("valid scan id rejected: %v", err)
	}
	if err := ValidateScanID("not-a-uuid"); err == nil {
		t.Error("invalid scan id accepted")
	}
}

func TestValidateLimit(t *testing.T) {
	if got := ValidateLimit(0); got != 20 {
		t.Errorf("default limit = %d, want 20", got)
	}
	if got := ValidateLimit(500); got != 100 {
		t.Errorf("capped limit = %d, want 100", got)
	}
	if got := ValidateLimit(42); got != 42 {
		t.Errorf("limit = %d, want 42", got)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  halo\x00dunia\x07  "); got != "halodunia" {
		t.Errorf("SanitizeString = %q", got)
	}
}
