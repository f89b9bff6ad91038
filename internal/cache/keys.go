package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	GlobalKeyPrefix = "prepmate"
)

// GenerateCacheKey builds "prepmate:<service>:<type>:<id>", appending params joined by "_".
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// ExplanationKey addresses a cached explanation. Inputs are hashed so arbitrary
// user text never ends up in a key.
func ExplanationKey(concept, difficulty, language, context string) string {
	h := sha256.New()
	for _, part := range []string{concept, difficulty, language, context} {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(part))))
		h.Write([]byte{0})
	}
	return GenerateCacheKey("ai", "explanation", hex.EncodeToString(h.Sum(nil)))
}
