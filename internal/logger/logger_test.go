package logger

import "testing"

func TestSanitizeFields_RedactsSecrets(t *testing.T) {
	fields := map[string]interface{}{
		"webhook_secret": "whsec_supersecret123",
		"signature":      "short",
		"email":          "user@example.com",
		"identity_key":   "email:user@example.com",
	}

	sanitized := SanitizeFields(fields)

	if sanitized["webhook_secret"] != "whs...123" {
		t.Errorf("Expected partially masked secret, got %v", sanitized["webhook_secret"])
	}

	if sanitized["signature"] != "[REDACTED]" {
		t.Errorf("Expected short secret fully redacted, got %v", sanitized["signature"])
	}

	if sanitized["email"] != "user@example.com" {
		t.Errorf("Expected non-sensitive field untouched, got %v", sanitized["email"])
	}

	if sanitized["identity_key"] != "email:user@example.com" {
		t.Errorf("Expected identity key untouched, got %v", sanitized["identity_key"])
	}
}

func TestSanitizeFields_NilPassthrough(t *testing.T) {
	if SanitizeFields(nil) != nil {
		t.Errorf("Expected nil in, nil out")
	}
}
