package verify

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// sha512HexLen is the length of a SHA-512 digest in hex characters.
const sha512HexLen = 128

// VerifySHA512 computes the SHA-512 digest of filePath and compares it
// against the expected digest recorded in checksumPath.
func VerifySHA512(filePath, checksumPath string) error {
	expected, err := ReadSHA512File(checksumPath)
	if err != nil {
		return err
	}
	actual, err := fileSHA512(filePath)
	if err != nil {
		return err
	}
	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("checksum mismatch:\nactual:   %s\nexpected: %s", actual, expected)
	}
	return nil
}

// ReadSHA512File extracts the expected digest from a .sha512 file.
// Two formats are in the wild: the `sha512sum` style ("digest  filename")
// and the `gpg --print-md` style, where the digest is split into short
// hex groups, possibly across lines, after a "filename:" prefix.
func ReadSHA512File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read checksum file: %w", err)
	}

	var hexParts []string
	for _, token := range strings.Fields(string(data)) {
		if isHex(token) {
			if len(token) == sha512HexLen {
				return token, nil
			}
			hexParts = append(hexParts, token)
		}
	}

	joined := strings.Join(hexParts, "")
	if len(joined) == sha512HexLen {
		return joined, nil
	}
	return "", fmt.Errorf("no SHA-512 digest found in %s", path)
}

func fileSHA512(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	hasher := sha512.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
