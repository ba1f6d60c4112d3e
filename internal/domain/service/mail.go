package service

import "context"

// MailSender dispatches a transactional email. A non-2xx answer from the
// provider is a hard error; there are no internal retries.
type MailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}
