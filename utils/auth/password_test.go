package auth

import "testing"

func TestIsPasswordValid(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"passw0rd", true},
		{"Str0ngEnough", true},
		{"short1", false},
		{"lettersonly", false},
		{"12345678", false},
		{"", false},
	}

	for _, c := range cases {
		if got := IsPasswordValid(c.password); got != c.valid {
			t.Errorf("IsPasswordValid(%q) = %v, want %v", c.password, got, c.valid)
		}
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("passw0rd")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if err := VerifyPassword(hash, "passw0rd"); err != nil {
		t.Errorf("VerifyPassword with correct password: %v", err)
	}

	if err := VerifyPassword(hash, "wrongpass1"); err != ErrPasswordMismatch {
		t.Errorf("VerifyPassword with wrong password = %v, want ErrPasswordMismatch", err)
	}
}

func TestHashPasswordRejectsShort(t *testing.T) {
	if _, err := HashPassword("short"); err != ErrPasswordTooShort {
		t.Errorf("HashPassword(short) = %v, want ErrPasswordTooShort", err)
	}
}
