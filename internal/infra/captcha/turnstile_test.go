package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"oj/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) *turnstileVerifier {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Captcha = &config.CaptchaConfig{
		Secret:    "test-secret",
		VerifyURL: server.URL,
	}

	verifier, err := NewTurnstileVerifier(cfg)
	require.NoError(t, err)

	return verifier.(*turnstileVerifier)
}

func TestTurnstileVerifier_Success(t *testing.T) {
	var gotSecret, gotResponse string
	verifier := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotSecret = r.PostFormValue("secret")
		gotResponse = r.PostFormValue("response")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	ok, err := verifier.Verify(context.Background(), "challenge-token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "test-secret", gotSecret)
	assert.Equal(t, "challenge-token", gotResponse)
}

func TestTurnstileVerifier_Rejected(t *testing.T) {
	verifier := newTestVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":     false,
			"error-codes": []string{"invalid-input-response"},
		})
	})

	ok, err := verifier.Verify(context.Background(), "bad-token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTurnstileVerifier_EmptyToken(t *testing.T) {
	verifier := newTestVerifier(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("siteverify must not be called for an empty token")
	})

	ok, err := verifier.Verify(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTurnstileVerifier_ServerError(t *testing.T) {
	verifier := newTestVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := verifier.Verify(context.Background(), "challenge-token")
	assert.Error(t, err)
}

func TestNewTurnstileVerifier_MissingSecret(t *testing.T) {
	cfg := &config.Config{}
	cfg.Captcha = &config.CaptchaConfig{}

	_, err := NewTurnstileVerifier(cfg)
	assert.Error(t, err)
}
