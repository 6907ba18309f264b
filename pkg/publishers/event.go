package publishers

import (
	"time"

	"github.com/google/uuid"
)

// Event describes an invoice archive that was downloaded from the inbox.
type Event struct {
	ID          string    `json:"id"`
	MessageID   string    `json:"message_id"`
	CIF         string    `json:"cif"`
	MessageType string    `json:"message_type"`
	FilePath    string    `json:"file_path"`
	Size        int       `json:"size"`
	CollectedAt time.Time `json:"collected_at"`
}

// NewEvent constructs an Event for a downloaded inbox message.
func NewEvent(cif, messageID, messageType, filePath string, size int) Event {
	return Event{
		ID:          uuid.NewString(),
		MessageID:   messageID,
		CIF:         cif,
		MessageType: messageType,
		FilePath:    filePath,
		Size:        size,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are attached to queue/topic messages for subscriber-side filtering.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"cif":          e.CIF,
		"message_type": e.MessageType,
	}
}
