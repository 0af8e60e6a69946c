package jobs

import (
	"fmt"

	"github.com/shashiranjanraj/furnistor/config"
	"github.com/shashiranjanraj/furnistor/pkg/mail"
	"github.com/shashiranjanraj/furnistor/pkg/metrics"
)

// OrderStatusEmailJob tells a customer their order moved to a new status.
type OrderStatusEmailJob struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

func (j *OrderStatusEmailJob) Handle() error {
	link := fmt.Sprintf("%s/orders/%s", config.FrontendURL(), j.OrderID)

	err := mail.To(j.Email).
		Subject(fmt.Sprintf("Your Furnistør order is %s", j.Status)).
		Body(fmt.Sprintf(`
			<p>Hi %s,</p>
			<p>Your order <a href="%s">%s</a> is now <strong>%s</strong>.</p>`,
			j.Name, link, j.OrderID, j.Status)).
		Send()

	if err != nil {
		metrics.EmailsSent.WithLabelValues("order_status", "failed").Inc()
		return fmt.Errorf("jobs: order status email to %s: %w", j.Email, err)
	}
	metrics.EmailsSent.WithLabelValues("order_status", "success").Inc()
	return nil
}
