package utils

import "testing"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "user@example.com", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	claims, err := ParseAccessToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q, want user@example.com", claims.Email)
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("secret", 1, "a@b.c", 15)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAccessToken("other", tok.Token); err == nil {
		t.Fatal("token signed with different secret was accepted")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	tok, err := NewAccessToken("secret", 1, "a@b.c", -1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAccessToken("secret", tok.Token); err == nil {
		t.Fatal("expired token was accepted")
	}
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseAccessToken("secret", "not.a.token"); err == nil {
		t.Fatal("garbage token was accepted")
	}
}
