package events

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/llamasearchai/llamaquest/internal/core/observability/log"
)

type countingObserver struct {
	mu        sync.Mutex
	published int
	delivered int
	lastErr   error
}

func (o *countingObserver) OnPublish(Event) {
	o.mu.Lock()
	o.published++
	o.mu.Unlock()
}

func (o *countingObserver) OnDelivered(_ Event, handlers int, err error, _ time.Duration) {
	o.mu.Lock()
	o.delivered += handlers
	o.lastErr = err
	o.mu.Unlock()
}

func TestPublishSubscribe(t *testing.T) {
	b := New()
	var got []any
	sub, err := b.Subscribe(PathPlanned, func(e Event) error {
		got = append(got, e.Data())
		return nil
	})
	require.NoError(t, err)
	require.True(t, sub.IsActive())
	require.Equal(t, PathPlanned, sub.EventType())
	require.NotEmpty(t, sub.ID())

	require.NoError(t, b.Publish(NewEvent(PathPlanned, "test", 1)))
	require.NoError(t, b.Publish(NewEvent(PathFailed, "test", 2)))
	require.Equal(t, []any{1}, got)

	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel())
	require.False(t, sub.IsActive())
	require.NoError(t, b.Publish(NewEvent(PathPlanned, "test", 3)))
	require.Equal(t, []any{1}, got)

	require.NoError(t, b.Unsubscribe(nil))
	_, err = b.Subscribe(PathPlanned, nil)
	require.Error(t, err)
}

func TestPublish_JoinsHandlerErrors(t *testing.T) {
	b := New()
	errA, errB := errors.New("a"), errors.New("b")
	_, _ = b.Subscribe(MapReloaded, func(Event) error { return errA })
	_, _ = b.Subscribe(MapReloaded, func(Event) error { return errB })
	_, _ = b.Subscribe(MapReloaded, func(Event) error { return nil })

	err := b.Publish(NewEvent(MapReloaded, "test", nil))
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)

	err = <-b.PublishAsync(NewEvent(MapReloaded, "test", nil))
	require.ErrorIs(t, err, errA)
}

func TestMetrics_OnlyWithObserver(t *testing.T) {
	b := New()
	_, _ = b.Subscribe(FOVComputed, func(Event) error { return nil })
	require.NoError(t, b.Publish(NewEvent(FOVComputed, "test", nil)))
	require.Equal(t, Metrics{}, b.Metrics())

	obs := &countingObserver{}
	b.AddObserver(obs)
	require.NoError(t, b.Publish(NewEvent(FOVComputed, "test", nil)))
	require.Equal(t, Metrics{Published: 1, DeliveredHandlers: 1, SubscribersActive: 1}, b.Metrics())
	require.Equal(t, 1, obs.published)
	require.Equal(t, 1, obs.delivered)

	b.RemoveObserver(obs)
	require.NoError(t, b.Publish(NewEvent(FOVComputed, "test", nil)))
	require.Equal(t, 1, obs.published)
}

func TestPublish_Concurrent(t *testing.T) {
	b := New()
	var mu sync.Mutex
	count := 0
	_, _ = b.Subscribe(PathPlanned, func(Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})
	b.AddObserver(&countingObserver{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = b.Publish(NewEvent(PathPlanned, "test", j))
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 800, count)
	require.Equal(t, uint64(800), b.Metrics().Published)
}

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b := New()
	b.AddObserver(NewLogObserver(log.NewFromZap(zap.New(core), log.LevelDebug)))
	_, _ = b.Subscribe(MapRejected, func(e Event) error { return e.Data().(error) })

	_ = b.Publish(NewEvent(MapReloaded, "watch", nil))
	_ = b.Publish(NewEvent(MapRejected, "watch", errors.New("bad row")))

	require.Equal(t, 2, logs.Len())
	first, second := logs.All()[0], logs.All()[1]
	require.Equal(t, "Event delivered", first.Message)
	require.Equal(t, "event_bus", first.ContextMap()["component"])
	require.Equal(t, int64(0), first.ContextMap()["handlers"])
	require.Equal(t, "Event handler failed", second.Message)
	require.Equal(t, zapcore.WarnLevel, second.Level)
	require.Equal(t, "bad row", second.ContextMap()["error"])
}
