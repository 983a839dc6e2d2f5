package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/1ou/danton/pkg/kafka"
)

// DocumentAccepted is the event published when a document has been stored
// and should be picked up by the next index rebuild.
type DocumentAccepted struct {
	DocumentID int64     `json:"document_id"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// HandleAccepted returns a Kafka MessageHandler that schedules an index
// rebuild for every accepted document. Decode failures are logged and
// skipped so one bad message cannot wedge the partition.
func HandleAccepted(rebuilder *Rebuilder) kafka.MessageHandler {
	logger := slog.Default().With("component", "ingest-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[DocumentAccepted](value)
		if err != nil {
			logger.Error("failed to decode ingest event",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		logger.Debug("document accepted, scheduling rebuild",
			"doc_id", event.DocumentID,
		)
		rebuilder.Schedule()
		return nil
	}
}
