package cache

import (
	"strings"
	"testing"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "ai",
			objectType:  "quota",
			identifier:  "2025-03-10",
			paramsKey:   nil,
			expectedKey: "prepmate:ai:quota:2025-03-10",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "ai",
			objectType:  "cooldown",
			identifier:  "global",
			paramsKey:   []string{},
			expectedKey: "prepmate:ai:cooldown:global",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "session",
			objectType:  "list",
			identifier:  "user1",
			paramsKey:   []string{"page-1", "size_10"},
			expectedKey: "prepmate:session:list:user1:page-1_size_10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actualKey := GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...)
			if actualKey != tt.expectedKey {
				t.Errorf("GenerateCacheKey() = %v, want %v", actualKey, tt.expectedKey)
			}
		})
	}
}

func TestExplanationKey(t *testing.T) {
	a := ExplanationKey("Closures", "beginner", "English", "")
	b := ExplanationKey(" closures ", "Beginner", "english", "")
	c := ExplanationKey("closures", "expert", "English", "")

	if !strings.HasPrefix(a, "prepmate:ai:explanation:") {
		t.Errorf("unexpected prefix: %s", a)
	}
	if a != b {
		t.Errorf("keys should ignore case and surrounding space: %s != %s", a, b)
	}
	if a == c {
		t.Errorf("different difficulty must produce a different key")
	}
	if ExplanationKey("ab", "c", "", "") == ExplanationKey("a", "bc", "", "") {
		t.Errorf("field boundaries must be part of the key")
	}
}
