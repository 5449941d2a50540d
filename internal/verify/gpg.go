// Package verify implements the cryptographic leaf checks of a release
// candidate: signing-key lookup in the published KEYS file, detached
// signature verification, and checksum validation.
package verify

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

const (
	armorBegin = "-----BEGIN PGP PUBLIC KEY BLOCK-----"
	armorEnd   = "-----END PGP PUBLIC KEY BLOCK-----"
)

// ReadKeysFile parses a published KEYS file into a keyring. KEYS files
// interleave human-readable key listings with any number of armored
// public key blocks, so each block is decoded separately and the
// entities are merged.
func ReadKeysFile(path string) (openpgp.EntityList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read KEYS file: %w", err)
	}

	var keyring openpgp.EntityList
	rest := string(data)
	for {
		start := strings.Index(rest, armorBegin)
		if start < 0 {
			break
		}
		end := strings.Index(rest[start:], armorEnd)
		if end < 0 {
			return nil, fmt.Errorf("unterminated public key block in %s", path)
		}
		block := rest[start : start+end+len(armorEnd)]
		rest = rest[start+end+len(armorEnd):]

		entities, err := openpgp.ReadArmoredKeyRing(strings.NewReader(block))
		if err != nil {
			return nil, fmt.Errorf("read key block: %w", err)
		}
		keyring = append(keyring, entities...)
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("no public keys found in %s", path)
	}
	return keyring, nil
}

// FindKey returns the entity whose fingerprint ends with the given key
// identifier (a short or long key ID, or a full fingerprint, in hex).
// GPG key IDs are the low bits of the fingerprint, so suffix matching
// covers all three forms.
func FindKey(keyring openpgp.EntityList, keyID string) (*openpgp.Entity, error) {
	want := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(keyID), "0x"))
	if want == "" {
		return nil, fmt.Errorf("empty key identifier")
	}
	for _, entity := range keyring {
		fingerprint := strings.ToUpper(fmt.Sprintf("%x", entity.PrimaryKey.Fingerprint))
		if strings.HasSuffix(fingerprint, want) {
			return entity, nil
		}
	}
	return nil, fmt.Errorf("key %s not found in keyring of %d keys", keyID, len(keyring))
}

// CheckDetachedSignature verifies that signaturePath is a valid detached
// signature over signedPath, made with exactly the given key. Verifying
// against a strict single-key keyring guarantees no other key in the
// KEYS file can satisfy the check.
func CheckDetachedSignature(key *openpgp.Entity, signedPath, signaturePath string) error {
	strict := openpgp.EntityList{key}

	signature, err := os.ReadFile(signaturePath)
	if err != nil {
		return fmt.Errorf("read signature: %w", err)
	}

	signed, err := os.Open(signedPath)
	if err != nil {
		return fmt.Errorf("open signed file: %w", err)
	}
	defer signed.Close()

	// Armored .asc first, raw signature packet as a fallback.
	_, err = openpgp.CheckArmoredDetachedSignature(strict, signed, bytes.NewReader(signature), nil)
	if err != nil {
		if _, seekErr := signed.Seek(0, io.SeekStart); seekErr != nil {
			return fmt.Errorf("rewind signed file: %w", seekErr)
		}
		_, err = openpgp.CheckDetachedSignature(strict, signed, bytes.NewReader(signature), nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	return nil
}
