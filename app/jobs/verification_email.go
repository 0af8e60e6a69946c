package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/furnistor/config"
	"github.com/shashiranjanraj/furnistor/pkg/mail"
	"github.com/shashiranjanraj/furnistor/pkg/metrics"
)

// VerificationEmailJob delivers the account verification link. Dispatched
// best-effort from registration; a failed send is retried by the queue and
// eventually logged, never surfaced to the registering user.
type VerificationEmailJob struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

func (j *VerificationEmailJob) Handle() error {
	link := fmt.Sprintf("%s/verify-email/%s", config.FrontendURL(), j.Token)

	err := mail.To(j.Email).
		Subject("Verify your Furnistør account").
		Body(fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Welcome to Furnistør. Confirm your email address to finish
			setting up your account:</p>
			<p><a href="%s">Verify my email</a></p>
			<p>The link expires in 24 hours.</p>`, j.Name, link)).
		Send()

	if err != nil {
		metrics.EmailsSent.WithLabelValues("verification", "failed").Inc()
		return fmt.Errorf("jobs: verification email to %s: %w", j.Email, err)
	}
	metrics.EmailsSent.WithLabelValues("verification", "success").Inc()
	return nil
}
