// Package auth verifies payment notifications against the shared secret the
// checkout provider is configured with. The provider sends the secret
// verbatim in a header; verification is a constant-time equality check.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

// SignatureHeader carries the shared secret. Header lookup is
// case-insensitive: http.Header.Get canonicalizes the name, so
// "x-helio-signature" and "X-Helio-Signature" are treated alike.
const SignatureHeader = "X-Helio-Signature"

var (
	// ErrNotConfigured means the server has no secret to compare against.
	// This must surface as a server-side failure, never as a client auth
	// failure, and never as an open door.
	ErrNotConfigured = errors.New("webhook secret not configured")

	// ErrUnauthenticated means the request carried no secret or the wrong one.
	ErrUnauthenticated = errors.New("invalid webhook signature")
)

// VerifyRequest checks the request's signature header against the configured
// secret. Fails closed when the secret is unset.
func VerifyRequest(r *http.Request, secret string) error {
	return Verify(r.Header.Get(SignatureHeader), secret)
}

// Verify compares a presented signature with the configured secret in
// constant time.
func Verify(signature, secret string) error {
	if secret == "" {
		return ErrNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(signature), []byte(secret)) != 1 {
		return ErrUnauthenticated
	}
	return nil
}
