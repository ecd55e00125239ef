package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PaymentProcessor applies the payments that are due
type PaymentProcessor interface {
	ProcessAutoPayments(ctx context.Context) (int, error)
}

// Scheduler runs a PaymentProcessor on a fixed interval
type Scheduler struct {
	processor PaymentProcessor
	logger    *logrus.Logger
	timeout   time.Duration

	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewScheduler creates a new Scheduler
func NewScheduler(processor PaymentProcessor, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		processor: processor,
		logger:    logger,
		timeout:   5 * time.Minute,
		stop:      make(chan struct{}),
	}
}

// Start runs the processor once right away and then every interval
func (s *Scheduler) Start(interval time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.run()
		for {
			select {
			case <-ticker.C:
				s.run()
			case <-s.stop:
				s.logger.Info("Payment scheduler stopped")
				return
			}
		}
	}()

	s.logger.Infof("Payment scheduler started with interval %s", interval)
}

// Stop stops the scheduler and waits for a running pass to finish
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	processed, err := s.processor.ProcessAutoPayments(ctx)
	if err != nil {
		s.logger.Warnf("Failed to process auto payments: %v", err)
		return
	}

	s.logger.Infof("Processed %d auto payments", processed)
}
