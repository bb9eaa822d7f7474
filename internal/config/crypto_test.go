package config_test

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/saulo-duarte/testbank-api/internal/config"
)

const testKey = "01234567890123456789012345678901"

func TestInitCrypto(t *testing.T) {
	t.Run("ShortKey", func(t *testing.T) {
		os.Setenv("CRYPTO_KEY", "short")
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("InitCrypto should panic on a short key")
			}
		}()
		config.InitCrypto()
	})

	t.Run("ValidKey", func(t *testing.T) {
		os.Setenv("CRYPTO_KEY", testKey)
		config.InitCrypto()
	})
}

func TestSealOpen(t *testing.T) {
	os.Setenv("CRYPTO_KEY", testKey)
	config.InitCrypto()

	t.Run("RoundTrip", func(t *testing.T) {
		payload := []byte(`{"testId":"abc","shown":["q1","q2"]}`)

		sealed, err := config.Seal(payload)
		if err != nil {
			t.Fatalf("Seal failed: %v", err)
		}
		opened, err := config.Open(sealed)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if !bytes.Equal(opened, payload) {
			t.Errorf("got %q, want %q", opened, payload)
		}

		again, _ := config.Seal(payload)
		if again == sealed {
			t.Errorf("two seals of the same payload should differ")
		}
	})

	t.Run("Empty", func(t *testing.T) {
		sealed, err := config.Seal(nil)
		if err != nil {
			t.Fatalf("Seal failed: %v", err)
		}
		opened, err := config.Open(sealed)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if len(opened) != 0 {
			t.Errorf("expected empty payload, got %q", opened)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := config.Open("AAAA")
		if !errors.Is(err, config.ErrCiphertextTooShort) {
			t.Errorf("expected ErrCiphertextTooShort, got %v", err)
		}
	})

	t.Run("Tampered", func(t *testing.T) {
		sealed, _ := config.Seal([]byte("marker"))
		b := []byte(sealed)
		if b[0] == 'A' {
			b[0] = 'B'
		} else {
			b[0] = 'A'
		}
		if _, err := config.Open(string(b)); err == nil {
			t.Errorf("expected tampered payload to fail")
		}
	})
}
