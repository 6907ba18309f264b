package inbox

import (
	"context"

	"github.com/cosminsandu/anaf-go/pkg/efactura"
	"github.com/cosminsandu/anaf-go/pkg/publishers"
	"github.com/cosminsandu/anaf-go/pkg/transporter"
)

// Mailbox lists and downloads e-Factura inbox messages.
type Mailbox interface {
	Messages(ctx context.Context, params efactura.MessagesParams) (efactura.MessagesResponse, error)
	Download(ctx context.Context, id string) (*transporter.File, error)
}

// EventPublisher publishes downloaded invoice events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Archive remembers message ids already downloaded.
type Archive interface {
	SeenMessage(id string) (bool, error)
	MarkMessage(id string) error
}
