package reminder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"setu/internal/shared/messages"
)

var (
	dispatchTracer      = otel.Tracer("setu/reminder")
	dispatchMeter       = otel.Meter("setu/reminder")
	dispatchDuration, _ = dispatchMeter.Float64Histogram("reminder.dispatch.duration", metric.WithDescription("Notification dispatch duration in seconds"), metric.WithUnit("s"))
	dispatchTotal, _    = dispatchMeter.Int64Counter("reminder.dispatch.total", metric.WithDescription("Total notifications dispatched by status"))
	dispatchDropped, _  = dispatchMeter.Int64Counter("reminder.dispatch.queue_dropped", metric.WithDescription("Notifications dropped due to full queue"))
	remindersActive, _  = dispatchMeter.Int64UpDownCounter("reminder.active", metric.WithDescription("Currently scheduled reminders"))
)

// Notifier delivers one notification to the user. Implementations must be
// safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, msg messages.MessageText) error
}

// LogNotifier writes notifications to the process log. The fallback when
// no push provider is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, msg messages.MessageText) error {
	log.Printf("NOTIFICATION %s: %s", msg.Title, msg.Body)
	return nil
}

// dispatchPool fans notification deliveries out to a fixed set of worker
// goroutines so a slow push provider never stalls the scheduler loop.
type dispatchPool struct {
	workerCount int
	jobDelay    time.Duration
	notifier    Notifier
	jobs        chan Scheduled
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc

	mu     sync.Mutex
	closed bool
}

func newDispatchPool(workerCount, queueSize int, jobDelay time.Duration, notifier Notifier) *dispatchPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if queueSize < 1 {
		queueSize = 16
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &dispatchPool{
		workerCount: workerCount,
		jobDelay:    jobDelay,
		notifier:    notifier,
		jobs:        make(chan Scheduled, queueSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (p *dispatchPool) start() {
	log.Printf("Reminder: starting dispatch pool with %d workers", p.workerCount)
	for i := 1; i <= p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *dispatchPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.dispatch(id, job)

			// Rate limit between deliveries if configured.
			if p.jobDelay > 0 {
				select {
				case <-time.After(p.jobDelay):
				case <-p.ctx.Done():
					return
				}
			}
		}
	}
}

func (p *dispatchPool) dispatch(workerID int, job Scheduled) {
	ctx, cancel := context.WithTimeout(p.ctx, 30*time.Second)
	defer cancel()

	ctx, span := dispatchTracer.Start(ctx, "reminder.dispatch",
		trace.WithAttributes(
			attribute.Int("worker.id", workerID),
			attribute.String("reminder.handle", string(job.Handle)),
			attribute.String("reminder.trigger", job.Trigger.String()),
		),
	)
	defer span.End()

	start := time.Now()

	if err := p.notifier.Notify(ctx, job.Message); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		dispatchTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "error")))
		dispatchDuration.Record(ctx, time.Since(start).Seconds())
		log.Printf("Reminder: worker %d failed to deliver %q: %v", workerID, job.Message.Title, err)
		return
	}

	dispatchTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "success")))
	dispatchDuration.Record(ctx, time.Since(start).Seconds())
	log.Printf("Reminder: worker %d delivered %q (trigger %s)", workerID, job.Message.Title, job.Trigger)
}

// submit queues one delivery. Non-blocking: a full queue drops the job
// rather than stalling the scheduler loop. The mutex serializes submits
// against shutdown so nothing ever sends on the closed channel.
func (p *dispatchPool) submit(job Scheduled) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("dispatch pool stopped, dropping reminder %s", job.Handle)
	}

	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.jobs <- job:
		return nil
	default:
		dispatchDropped.Add(context.Background(), 1)
		return fmt.Errorf("dispatch queue full, dropping reminder %s", job.Handle)
	}
}

func (p *dispatchPool) shutdown(timeout time.Duration) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Reminder: dispatch workers finished gracefully")
	case <-time.After(timeout):
		log.Println("Reminder: timeout waiting for dispatch workers, forcing shutdown")
		p.cancel()
	}
}
