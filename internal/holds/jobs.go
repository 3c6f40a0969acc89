package holds

import (
	"context"
	"log"
	"time"
)

// SweepJob runs the expiry sweep on a fixed interval. It is just another
// concurrent caller of the hold manager; all correctness comes from the CAS
// discipline, not from this job being a singleton.
type SweepJob struct {
	service  Service
	interval time.Duration
	done     chan struct{}
}

func NewSweepJob(service Service, interval time.Duration) *SweepJob {
	return &SweepJob{
		service:  service,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (j *SweepJob) Start(ctx context.Context) {
	go j.run(ctx)
	log.Printf("Started hold expiry sweep with %v interval", j.interval)
}

func (j *SweepJob) Stop() {
	close(j.done)
	log.Println("Stopped hold expiry sweep")
}

func (j *SweepJob) run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep(ctx)
		case <-j.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (j *SweepJob) sweep(ctx context.Context) {
	released, err := j.service.SweepExpired(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("Error sweeping expired holds: %v", err)
		return
	}

	if released > 0 {
		log.Printf("Released %d expired holds", released)
	}
}
