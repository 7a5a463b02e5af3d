package audit

/*
Trail: асинхронная запись аудита консоли (логины, сканы, заявки waitlist).

- Log никогда не блокирует обработчик запроса: неблокирующая отправка в канал,
  при переполнении событие сбрасывается с записью в лог (Load Shedding).
- Воркер копит пачку и пишет ее одним INSERT по таймеру или по размеру пачки.
- Stop закрывает канал и ждет финальный flush (Drain Pattern).
*/

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/xela07ax/shield-console/internal/metrics"
	"go.uber.org/zap"
)

// Storage определяет, куда физически будут сохраняться события
type Storage interface {
	WriteBatch(ctx context.Context, events []Event) error
}

type Auditor interface {
	Log(event Event)
}

// Options размеры буфера и пачки, интервал сброса
type Options struct {
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
}

type Trail struct {
	ch      chan Event
	repo    Storage
	opts    Options
	metrics *metrics.Metrics
	logger  *zap.Logger
	wg      sync.WaitGroup

	mu       sync.RWMutex // защищает закрытие канала от гонки с Log
	isClosed atomic.Bool
}

func NewTrail(repo Storage, opts Options, m *metrics.Metrics, logger *zap.Logger) *Trail {
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = time.Second
	}
	if m == nil {
		m = metrics.NewMetrics(nil)
	}
	return &Trail{
		ch:      make(chan Event, opts.BufferSize),
		repo:    repo,
		opts:    opts,
		metrics: m,
		logger:  logger.With(zap.String("mod", "audit")),
	}
}

func (t *Trail) Start() {
	t.wg.Add(1)
	go t.worker()
}

// Stop «запирает» вход в канал и ждет, пока воркер всё допишет.
func (t *Trail) Stop() {
	t.mu.Lock()
	if t.isClosed.Swap(true) {
		t.mu.Unlock()
		return
	}
	close(t.ch)
	t.mu.Unlock()

	t.logger.Info("stopping audit trail: flushing buffer...")
	t.wg.Wait()
	t.logger.Info("audit trail stopped gracefully")
}

func (t *Trail) Log(event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.isClosed.Load() {
		t.metrics.AuditDropped.Inc()
		t.logger.Warn("audit event dropped: trail is stopping", zap.String("action", event.Action))
		return
	}

	select {
	case t.ch <- event:
		t.metrics.AuditBufferFill.Set(float64(len(t.ch)))
	default:
		// Backpressure: не держим запрос пользователя ради аудита
		t.metrics.AuditDropped.Inc()
		t.logger.Error("audit_buffer_overflow",
			zap.String("action", event.Action),
			zap.String("actor", event.Actor),
			zap.String("request_id", event.RequestID),
		)
	}
}

func (t *Trail) worker() {
	defer t.wg.Done()

	batch := make([]Event, 0, t.opts.BatchSize)
	ticker := time.NewTicker(t.opts.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Background: контекст запроса к этому моменту уже завершен
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := t.repo.WriteBatch(ctx, batch); err != nil {
			t.logger.Error("audit flush failed", zap.Int("events", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
		t.metrics.AuditBufferFill.Set(float64(len(t.ch)))
	}

	for {
		select {
		case event, ok := <-t.ch:
			if !ok {
				flush() // Финальный сброс
				return
			}
			batch = append(batch, event)
			if len(batch) >= t.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Nop: аудитор для режима без БД.
type Nop struct{}

func (Nop) Log(Event) {}
