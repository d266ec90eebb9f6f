package notify

import (
	"github.com/iov-one/gatekeeper"
	"github.com/tendermint/tendermint/libs/log"
)

// LogSink writes every event to the logger.
type LogSink struct {
	logger log.Logger
}

var _ gatekeeper.EventSink = (*LogSink)(nil)

// NewLogSink returns a sink logging at info level.
func NewLogSink(logger log.Logger) *LogSink {
	return &LogSink{logger: logger.With("module", "events")}
}

func (s *LogSink) Publish(e gatekeeper.Event) {
	s.logger.Info("event",
		"id", e.ID,
		"kind", e.Kind,
		"caller", e.Caller,
		"address", e.Address,
		"transaction_id", e.TransactionID,
	)
}

// Fanout publishes each event to all sinks, in order.
type Fanout []gatekeeper.EventSink

var _ gatekeeper.EventSink = Fanout(nil)

func (f Fanout) Publish(e gatekeeper.Event) {
	for _, s := range f {
		s.Publish(e)
	}
}
