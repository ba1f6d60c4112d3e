// Package mail delivers transactional email through an HTTP email API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"oj/config"
	"oj/internal/domain/service"
	"oj/internal/errors"
)

const defaultSendTimeout = 15 * time.Second

// resendSender implements service.MailSender against a Resend-compatible
// JSON email API.
type resendSender struct {
	apiKey   string
	endpoint string
	from     string
	client   *http.Client
}

// NewResendSender is the constructor for resendSender.
func NewResendSender(cfg *config.Config) (service.MailSender, error) {
	if cfg.Email == nil || cfg.Email.APIKey == "" {
		return nil, errors.New("email api key must be provided")
	}
	if cfg.Email.From == "" {
		return nil, errors.New("email sender address must be provided")
	}

	return &resendSender{
		apiKey:   cfg.Email.APIKey,
		endpoint: cfg.Email.Endpoint,
		from:     cfg.Email.From,
		client:   &http.Client{Timeout: defaultSendTimeout},
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send posts one email to the API. Any non-2xx response is an error; the
// body is included for diagnosis since the API reports failures as JSON.
func (s *resendSender) Send(ctx context.Context, to, subject, html string) error {
	payload, err := json.Marshal(sendRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode email payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to build email request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "email request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return errors.Errorf("email api returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
