package security_test

import (
	"testing"

	"github.com/sriganeshautocars/ganesh-cars-backend/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("hunter2")

	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if hash == "hunter2" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := security.CheckPassword(hash, "hunter2"); err != nil {
		t.Errorf("CheckPassword with the right password: %v", err)
	}

	if err := security.CheckPassword(hash, "hunter3"); err == nil {
		t.Error("CheckPassword accepted a wrong password")
	}
}
