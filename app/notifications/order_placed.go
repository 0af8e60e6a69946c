// Package notifications holds the concrete notifications the app sends
// through the multi-channel notification system.
package notifications

import (
	"fmt"

	"github.com/shashiranjanraj/furnistor/app/models"
	"github.com/shashiranjanraj/furnistor/pkg/notification"
)

// OrderPlaced pings the staff Slack channel when a new order lands.
type OrderPlaced struct {
	Order *models.Order
}

func (n *OrderPlaced) Via() []string { return []string{"slack"} }

func (n *OrderPlaced) ToSlack() notification.SlackData {
	return notification.SlackData{
		Text: fmt.Sprintf("New order %s", n.Order.ID.Hex()),
		Attachments: []notification.SlackAttachment{
			{
				Color: "good",
				Title: fmt.Sprintf("%.2f via %s", n.Order.Total, n.Order.PaymentMethod),
				Text:  fmt.Sprintf("%d item(s), shipping to %s", len(n.Order.Items), n.Order.Address.City),
			},
		},
	}
}
