package util

import (
	"digital_literacy_backend/internal/model"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{
		Email: "student@example.com",
		Role:  model.Student,
	}
	user.ID = 42

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 42 || claims.Role != model.Student || claims.Email != "student@example.com" {
		t.Errorf("claims = %+v, want user 42 student", claims)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{Role: model.Teacher}
	user.ID = 1

	token, err := GenerateJWT(user, "secret-a", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseJWT(token, "secret-b"); err == nil {
		t.Error("token signed with another secret should not parse")
	}
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{Role: model.Student}
	user.ID = 1

	token, err := GenerateJWT(user, "secret", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseJWT(token, "secret"); err == nil {
		t.Error("expired token should not parse")
	}
}
