package speech

import (
	"context"

	"github.com/PabloGalante/lumen-console/internal/observability"
)

// LogSink stands in for the black-box speech synthesis facility: it records
// what would have been spoken. The real synthesis happens in the browser;
// the backend only needs a sink whose failure can never reach the session.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Speak(ctx context.Context, text string) error {
	observability.LoggerFromContext(ctx).Info("speech playback", "chars", len(text))
	return nil
}
