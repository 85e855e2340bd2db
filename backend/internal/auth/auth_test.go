package auth

import "testing"

func TestPlainVerifier(t *testing.T) {
	v := PlainVerifier{}

	ok, err := v.Matches("secret", "secret")
	if err != nil || !ok {
		t.Fatalf("Expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = v.Matches("secret", "wrong")
	if err != nil || ok {
		t.Fatalf("Expected mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	v := BcryptVerifier{}

	ok, err := v.Matches(hash, "secret")
	if err != nil || !ok {
		t.Fatalf("Expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = v.Matches(hash, "wrong")
	if err != nil {
		t.Fatalf("Mismatch should not error: %v", err)
	}
	if ok {
		t.Fatal("Expected mismatch")
	}
}

func TestBcryptVerifierRejectsGarbageHash(t *testing.T) {
	v := BcryptVerifier{}

	ok, err := v.Matches("not-a-hash", "secret")
	if ok {
		t.Fatal("Garbage hash must not match")
	}
	if err == nil {
		t.Fatal("Expected error for malformed stored hash")
	}
}
