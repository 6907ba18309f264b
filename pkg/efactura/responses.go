package efactura

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Message is one entry of the e-Factura message list.
type Message struct {
	CreatedAt               string `mapstructure:"data_creare" json:"created_at" yaml:"created_at"`
	TaxIdentificationNumber string `mapstructure:"cif" json:"cif" yaml:"cif"`
	RequestID               string `mapstructure:"id_solicitare" json:"request_id" yaml:"request_id"`
	Details                 string `mapstructure:"detalii" json:"details" yaml:"details"`
	Type                    string `mapstructure:"tip" json:"type" yaml:"type"`
	ID                      string `mapstructure:"id" json:"id" yaml:"id"`
}

// MessagesResponse is the shaped reply of the message list endpoint.
type MessagesResponse struct {
	Messages                 []Message `mapstructure:"mesaje" json:"messages" yaml:"messages"`
	Serial                   string    `mapstructure:"serial" json:"serial" yaml:"serial"`
	TaxIdentificationNumbers string    `mapstructure:"cui" json:"cui" yaml:"cui"`
	Title                    string    `mapstructure:"titlu" json:"title" yaml:"title"`
}

// NewMessagesResponse shapes a decoded message list reply.
func NewMessagesResponse(raw map[string]any) (MessagesResponse, error) {
	var out MessagesResponse
	if err := decode(raw, &out); err != nil {
		return MessagesResponse{}, fmt.Errorf("shape messages response: %w", err)
	}
	return out, nil
}

func decode(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
