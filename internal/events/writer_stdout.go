package events

import (
	"context"

	"go.uber.org/zap"
)

// event writer used in dev
type StdoutWriter struct{}

func (s *StdoutWriter) Write(ctx context.Context, topic string, e Envelope) error {
	zap.S().Named("stdout_writer").Infow("event wrote", "id", e.ID, "kind", e.Kind, "topic", topic, "data", string(e.Data))
	return nil
}

func (s *StdoutWriter) Close(_ context.Context) error {
	return nil
}
