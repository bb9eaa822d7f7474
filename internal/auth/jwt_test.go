package auth_test

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/saulo-duarte/testbank-api/internal/auth"
)

const testSecret = "a-long-secret-used-only-by-the-auth-tests"
const testUserID = "user-123"
const testRole = "Student"
const testSessionID = "session-abc"

func TestInit(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		os.Unsetenv("JWT_SECRET")

		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Init() should panic when JWT_SECRET is empty")
			}
		}()

		auth.Init()
	})

	t.Run("ValidSecret", func(t *testing.T) {
		os.Setenv("JWT_SECRET", testSecret)
		auth.Init()
	})
}

func TestGenerateAndValidateJWT(t *testing.T) {
	os.Setenv("JWT_SECRET", testSecret)
	auth.Init()

	t.Run("ValidToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUserID, testRole, testSessionID, 5*time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		claims, err := auth.ValidateJWT(tokenStr)
		if err != nil {
			t.Fatalf("ValidateJWT failed unexpectedly: %v", err)
		}

		if claims.UserID != testUserID {
			t.Errorf("UserID = %s, want %s", claims.UserID, testUserID)
		}
		if claims.Role != testRole {
			t.Errorf("Role = %s, want %s", claims.Role, testRole)
		}
		if claims.SessionID != testSessionID {
			t.Errorf("SessionID = %s, want %s", claims.SessionID, testSessionID)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUserID, testRole, testSessionID, -time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		_, err = auth.ValidateJWT(tokenStr)
		if !errors.Is(err, jwt.ErrTokenExpired) {
			t.Errorf("expected %v, got %v", jwt.ErrTokenExpired, err)
		}
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		tokenStr, err := auth.GenerateJWT(testUserID, testRole, testSessionID, time.Minute)
		if err != nil {
			t.Fatalf("GenerateJWT failed: %v", err)
		}

		parts := strings.Split(tokenStr, ".")
		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": testUserID, "sid": testSessionID})
		forgedStr, _ := forged.SignedString([]byte("some-other-secret"))
		tampered := parts[0] + "." + parts[1] + "." + strings.Split(forgedStr, ".")[2]

		_, err = auth.ValidateJWT(tampered)
		if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			t.Errorf("expected signature error, got %v", err)
		}
	})

	t.Run("MissingSession", func(t *testing.T) {
		tokenStr, _ := auth.GenerateJWT(testUserID, testRole, "", time.Minute)
		if _, err := auth.ValidateJWT(tokenStr); !errors.Is(err, auth.ErrMissingSession) {
			t.Errorf("expected ErrMissingSession, got %v", err)
		}
	})
}
