package reminder

import (
	"context"
	"log"
	"sync"
	"time"
)

// SchedulerConfig holds configuration for the reminder scheduler.
type SchedulerConfig struct {
	WorkerCount int
	QueueSize   int
	JobDelay    time.Duration
}

// Scheduler wakes up every minute, asks the registry which reminders are
// due and hands them to the dispatch pool. Missed minutes (device asleep,
// process stopped) are skipped, not replayed.
type Scheduler struct {
	registry *Registry
	pool     *dispatchPool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler delivering through notifier.
func NewScheduler(config SchedulerConfig, registry *Registry, notifier Notifier) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		registry: registry,
		pool:     newDispatchPool(config.WorkerCount, config.QueueSize, config.JobDelay, notifier),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Registry returns the registry this scheduler polls.
func (s *Scheduler) Registry() *Registry { return s.registry }

// Start launches the dispatch pool and the minute loop.
func (s *Scheduler) Start() {
	log.Println("Reminder: starting scheduler")

	s.pool.start()

	s.wg.Add(1)
	go s.loop()
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			log.Println("Reminder: scheduler loop stopping")
			return
		case now := <-ticker.C:
			s.fireDue(now)
		}
	}
}

func (s *Scheduler) fireDue(now time.Time) {
	due := s.registry.Due(now)
	if len(due) == 0 {
		return
	}

	log.Printf("Reminder: %d reminder(s) due at %s", len(due), now.Format("15:04"))
	for _, job := range due {
		if err := s.pool.submit(job); err != nil {
			log.Printf("Reminder: %v", err)
		}
	}
}

// TriggerNow checks for due reminders immediately instead of waiting for
// the next tick.
func (s *Scheduler) TriggerNow() {
	s.fireDue(time.Now())
}

// Shutdown stops the loop and drains the dispatch pool.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	log.Println("Reminder: initiating graceful shutdown")

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		log.Println("Reminder: timeout waiting for scheduler loop to stop")
	}

	s.pool.shutdown(timeout)

	log.Println("Reminder: shutdown complete")
}
