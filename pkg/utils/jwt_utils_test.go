package utils

import "testing"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(7, "aigerim", "staff")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("user ID = %d, want 7", claims.UserID)
	}
	if claims.Username != "aigerim" {
		t.Errorf("username = %q, want aigerim", claims.Username)
	}
	if claims.Role != "staff" {
		t.Errorf("role = %q, want staff", claims.Role)
	}
	if claims.Subject != "7" {
		t.Errorf("subject = %q, want 7", claims.Subject)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	accessToken, err := GenerateAccessToken(7, "aigerim", "staff")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	refreshToken, err := GenerateRefreshToken(7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	// A refresh token must not grant API access.
	if _, err := ValidateAccessToken(refreshToken); err == nil {
		t.Error("refresh token accepted as access token")
	}
	// An access token must not mint new token pairs.
	if _, err := ValidateRefreshToken(accessToken); err == nil {
		t.Error("access token accepted as refresh token")
	}

	if claims, err := ValidateRefreshToken(refreshToken); err != nil {
		t.Errorf("ValidateRefreshToken failed on its own token: %v", err)
	} else if claims.UserID != 7 {
		t.Errorf("refresh claims user ID = %d, want 7", claims.UserID)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	for _, tokenString := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ValidateAccessToken(tokenString); err == nil {
			t.Errorf("ValidateAccessToken(%q) accepted malformed input", tokenString)
		}
	}
}
