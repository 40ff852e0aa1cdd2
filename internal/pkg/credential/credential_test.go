package credential

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if digest == "secret1" || !strings.HasPrefix(digest, "$2") {
		t.Fatalf("digest must be a bcrypt hash, got %q", digest)
	}

	if !Verify("secret1", digest) {
		t.Fatalf("Verify must accept the original plaintext")
	}
	if Verify("secret2", digest) {
		t.Fatalf("Verify must reject a wrong plaintext")
	}
	if Verify("secret1", "not-a-hash") {
		t.Fatalf("Verify must reject a malformed digest")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	b, err := Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password must differ")
	}
}
