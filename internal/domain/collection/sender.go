package collection

import (
	"context"

	"github.com/google/uuid"
)

// Message is a rendered billing message ready for delivery
type Message struct {
	TenantID   uuid.UUID
	DispatchID uuid.UUID
	Channel    Channel
	Recipient  string
	Subject    string
	Body       string
}

// Sender delivers messages through a channel
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// MessageOf builds the delivery message of d
func MessageOf(d *Dispatch) Message {
	return Message{
		TenantID:   d.TenantID,
		DispatchID: d.ID,
		Channel:    d.Channel,
		Recipient:  d.Recipient,
		Subject:    d.Subject,
		Body:       d.Message,
	}
}
