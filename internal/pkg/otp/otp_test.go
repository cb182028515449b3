package otp

import "testing"

func TestGenerateCodeLengthAndDigits(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateCode(4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != 4 {
			t.Fatalf("expected 4 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
	}
}

func TestGenerateCodeDefaultsLength(t *testing.T) {
	code, err := GenerateCode(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 4 {
		t.Fatalf("expected default 4 digits, got %q", code)
	}
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := NewBcryptHasher(4)
	hash, err := h.Hash("1234")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "1234" {
		t.Fatal("hash must not equal plaintext")
	}
	if err := h.Compare(hash, "1234"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := h.Compare(hash, "4321"); err == nil {
		t.Fatal("expected mismatch error")
	}
}
