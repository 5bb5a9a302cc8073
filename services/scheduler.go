// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartExpirySweeper runs a minute job that removes lapsed sessions so
// subscribers see their signed-out events promptly.
func (s *SessionStore) StartExpirySweeper() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if removed := s.DeleteExpired(); removed > 0 {
				log.Printf("[Scheduler] 🧹 Expired %d session(s)", removed)
			}
		}),
	)
}
