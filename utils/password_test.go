package utils

import "testing"

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "hunter22" {
		t.Fatalf("hash equals plaintext")
	}
	if !CheckPassword("hunter22", hash) {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Fatalf("wrong password accepted")
	}
}
