package gateways

import (
	"fmt"

	"github.com/ochairo/pagedoctor/internal/external-adapters/gpg"
)

// gpgVerifier wraps the external GPG adapter to implement the domain gateway interface
type gpgVerifier struct{}

// NewGPGVerifier creates a new GPG verifier gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewGPGVerifier() *gpgVerifier {
	return &gpgVerifier{}
}

// VerifyDetached checks dataPath against its detached signature using only the keys in keyringPath.
// A fresh keyring is built per call so keys never leak between data files.
func (g *gpgVerifier) VerifyDetached(dataPath, signaturePath, keyringPath string) error {
	verifier := gpg.NewVerifier()
	if err := verifier.ImportKeyFromFile(keyringPath); err != nil {
		return fmt.Errorf("failed to import GPG keyring: %w", err)
	}
	if err := verifier.VerifySignatureFromFile(dataPath, signaturePath); err != nil {
		return fmt.Errorf("GPG signature verification failed: %w", err)
	}
	return nil
}
