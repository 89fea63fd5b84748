package crypto

import (
	"bytes"
	"crypto/rand"
	"testing"
)

// TestDeriveNextSecret verifies the one-way secret chain behavior.
func TestDeriveNextSecret(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) ([]byte, []byte) // returns two inputs to compare
		equal bool
	}{
		{
			name: "same input yields same output",
			setup: func(t *testing.T) ([]byte, []byte) {
				secret := randomSecret(t)
				return secret, append([]byte(nil), secret...)
			},
			equal: true,
		},
		{
			name: "different inputs yield different outputs",
			setup: func(t *testing.T) ([]byte, []byte) {
				return randomSecret(t), randomSecret(t)
			},
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := tt.setup(t)
			outA := DeriveNextSecret(a)
			outB := DeriveNextSecret(b)

			if got := bytes.Equal(outA, outB); got != tt.equal {
				t.Errorf("DeriveNextSecret() outputs equal = %v, want %v", got, tt.equal)
			}
			if len(outA) != SecretSize {
				t.Errorf("DeriveNextSecret() output size = %d, want %d", len(outA), SecretSize)
			}
		})
	}
}

// TestDeriveNextSecretAdvancesChain verifies that walking the chain never
// revisits a previous secret.
func TestDeriveNextSecretAdvancesChain(t *testing.T) {
	secret := randomSecret(t)
	seen := map[string]bool{string(secret): true}

	for i := 0; i < 64; i++ {
		secret = DeriveNextSecret(secret)
		if seen[string(secret)] {
			t.Fatalf("secret chain repeated after %d steps", i+1)
		}
		seen[string(secret)] = true
	}
}

// TestDeriveApplicationSecret verifies the epoch binding of the application
// secret derivation.
func TestDeriveApplicationSecret(t *testing.T) {
	groupSecret := randomSecret(t)

	first := DeriveApplicationSecret(groupSecret, 0)
	again := DeriveApplicationSecret(groupSecret, 0)
	if !bytes.Equal(first, again) {
		t.Error("DeriveApplicationSecret() is not deterministic")
	}

	other := DeriveApplicationSecret(groupSecret, 1)
	if bytes.Equal(first, other) {
		t.Error("DeriveApplicationSecret() ignored the epoch")
	}

	otherSecret := DeriveApplicationSecret(randomSecret(t), 0)
	if bytes.Equal(first, otherSecret) {
		t.Error("DeriveApplicationSecret() ignored the group secret")
	}
}

// TestKeyScheduleDomainSeparation verifies the two derivations never collide
// on the same input.
func TestKeyScheduleDomainSeparation(t *testing.T) {
	secret := randomSecret(t)
	next := DeriveNextSecret(secret)
	app := DeriveApplicationSecret(secret, 0)
	if bytes.Equal(next, app) {
		t.Error("next-secret and application-secret derivations collide")
	}
}

func randomSecret(t *testing.T) []byte {
	t.Helper()
	secret := make([]byte, SecretSize)
	if _, err := rand.Read(secret); err != nil {
		t.Fatalf("failed to generate random secret: %v", err)
	}
	return secret
}
