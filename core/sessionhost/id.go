package sessionhost

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

const (
	minIDLength = 16
	maxIDLength = 256
)

// IDGenerator returns a new session ID.
type IDGenerator func() (string, error)

// RandomID returns 32 random bytes encoded as unpadded base64url (43 chars).
func RandomID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// UUIDID returns a random (version 4) UUID string.
func UUIDID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// GeneratorFor maps an ID format name ("random" or "uuid") to its generator.
func GeneratorFor(format string) (IDGenerator, error) {
	switch format {
	case "", "random":
		return RandomID, nil
	case "uuid":
		return UUIDID, nil
	}
	return nil, fmt.Errorf("%w: unknown id format %q", ErrInvalidConfig, format)
}

// ValidID reports whether id has an acceptable length and only contains
// letters, digits, '-', '_' and ','.
func ValidID(id string) bool {
	if len(id) < minIDLength || len(id) > maxIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == ',':
		default:
			return false
		}
	}
	return true
}
