package events

import (
	"time"

	"github.com/llamasearchai/llamaquest/internal/core/observability/log"
)

// LogObserver writes one debug line per delivery and a warning when a
// handler fails.
type LogObserver struct {
	logger log.Log
}

func NewLogObserver(logger log.Log) *LogObserver {
	return &LogObserver{logger: log.OrNop(logger).With(log.String("component", "event_bus"))}
}

func (o *LogObserver) OnPublish(Event) {}

func (o *LogObserver) OnDelivered(event Event, handlers int, err error, elapsed time.Duration) {
	fields := []log.Field{
		log.String("type", event.Type()),
		log.String("source", event.Source()),
		log.Int("handlers", handlers),
		log.Duration("elapsed", elapsed),
	}
	if err != nil {
		o.logger.Warn("Event handler failed", append(fields, log.Error(err))...)
		return
	}
	o.logger.Debug("Event delivered", fields...)
}
