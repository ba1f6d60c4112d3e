// Package captcha verifies CAPTCHA challenge responses against the
// provider's siteverify endpoint.
package captcha

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"oj/config"
	"oj/internal/domain/service"
	"oj/internal/errors"
)

const defaultVerifyTimeout = 10 * time.Second

// turnstileVerifier implements service.CaptchaVerifier against a
// Turnstile-compatible siteverify API.
type turnstileVerifier struct {
	secret    string
	verifyURL string
	client    *http.Client
}

// NewTurnstileVerifier is the constructor for turnstileVerifier.
func NewTurnstileVerifier(cfg *config.Config) (service.CaptchaVerifier, error) {
	if cfg.Captcha == nil || cfg.Captcha.Secret == "" {
		return nil, errors.New("captcha secret must be provided")
	}

	return &turnstileVerifier{
		secret:    cfg.Captcha.Secret,
		verifyURL: cfg.Captcha.VerifyURL,
		client:    &http.Client{Timeout: defaultVerifyTimeout},
	}, nil
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the challenge response to the siteverify endpoint. A false
// return with a nil error means the provider rejected the challenge; an
// error means the verdict is unknown.
func (v *turnstileVerifier) Verify(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, errors.Wrap(err, "failed to build siteverify request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "siteverify request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, errors.Errorf("siteverify returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, errors.Wrap(err, "failed to read siteverify response")
	}

	var verdict siteverifyResponse
	if err := json.Unmarshal(body, &verdict); err != nil {
		return false, errors.Wrap(err, "failed to decode siteverify response")
	}

	return verdict.Success, nil
}
