package mail

import "context"

// Mailer sends account lifecycle email. Failures are returned to the
// caller; delivery is never silently dropped.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, name, verifyLink string) error
	SendPasswordResetEmail(ctx context.Context, to, name, resetLink string) error
}
