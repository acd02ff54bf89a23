package tokens

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateOpaque genera un token opaco aleatorio (base64url sin padding).
// Con 32 bytes de entropía las colisiones de valor son despreciables, que es
// lo que el store asume para buscar por valor exacto.
func GenerateOpaque(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
