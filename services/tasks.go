package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gmonad-points-service/models"

	"gorm.io/gorm"
)

const dailyCooldown = 24 * time.Hour

var (
	ErrUnknownTask   = errors.New("unknown task")
	ErrTaskCompleted = errors.New("task already completed")
	ErrVerifyFirst   = errors.New("verify this task first")
	ErrClickFirst    = errors.New("click the task first")
)

// ErrCooldown is returned while the daily check-in is still cooling down.
type ErrCooldown struct {
	HoursRemaining int
}

func (e ErrCooldown) Error() string {
	return fmt.Sprintf("daily check-in available in %d hour(s)", e.HoursRemaining)
}

// TaskService drives the per-task click → verify → awarded gate on the home
// ledger row. Completion is never proven against the external platform; the
// two-phase gate only discourages trivial auto-claiming.
type TaskService struct {
	DB        *gorm.DB
	Referrals *ReferralService
	Now       func() time.Time
}

func NewTaskService(db *gorm.DB, referrals *ReferralService) *TaskService {
	return &TaskService{DB: db, Referrals: referrals, Now: time.Now}
}

// TaskStatus is one catalog entry joined with the user's progress.
type TaskStatus struct {
	models.Task
	Count          int64 `json:"count"`
	Pending        bool  `json:"pending"`
	Completed      bool  `json:"completed"`
	HoursRemaining int   `json:"hours_remaining,omitempty"`
}

// Status returns the whole catalog with the user's counters and gates.
func (s *TaskService) Status(userID, username string) ([]TaskStatus, error) {
	row, err := s.Referrals.EnsureHomeRow(userID, username)
	if err != nil {
		return nil, err
	}

	statuses := make([]TaskStatus, 0, len(models.TaskCatalog))
	for _, task := range models.TaskCatalog {
		st := TaskStatus{
			Task:    task,
			Count:   row.Counter(task.Field),
			Pending: row.Pending(task.Field),
		}
		if task.Recurring {
			if remaining := s.cooldownRemaining(row); remaining > 0 {
				st.HoursRemaining = remaining
			}
		} else {
			st.Completed = st.Count > 0
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// Click moves a task from available to pending verification. Tasks with an
// external link report it so the caller can open it.
func (s *TaskService) Click(userID, username string, field models.TaskField) (models.Task, error) {
	task, ok := models.TaskByField(field)
	if !ok {
		return models.Task{}, ErrUnknownTask
	}

	row, err := s.Referrals.EnsureHomeRow(userID, username)
	if err != nil {
		return task, err
	}
	if err := s.checkAvailable(task, row); err != nil {
		return task, err
	}
	if row.Pending(field) {
		return task, ErrVerifyFirst
	}

	err = s.DB.Model(&models.Referral{}).
		Where("referrer_id = ? AND referee_id IS NULL", userID).
		Update(models.PendingColumn(field), true).Error
	return task, err
}

// Verify moves a pending task to awarded: the point value lands on the
// counter and the pending flag clears. The daily check-in also stamps the
// cooldown start.
func (s *TaskService) Verify(userID, username string, field models.TaskField) (int64, error) {
	task, ok := models.TaskByField(field)
	if !ok {
		return 0, ErrUnknownTask
	}

	row, err := s.Referrals.EnsureHomeRow(userID, username)
	if err != nil {
		return 0, err
	}
	if !row.Pending(field) {
		return 0, ErrClickFirst
	}
	if err := s.checkAvailable(task, row); err != nil {
		return 0, err
	}

	newCount := row.Counter(field) + task.Points
	updates := map[string]interface{}{
		string(field):               newCount,
		models.PendingColumn(field): false,
	}
	if task.Recurring {
		updates["daily_check_at"] = s.Now()
	}

	err = s.DB.Model(&models.Referral{}).
		Where("referrer_id = ? AND referee_id IS NULL", userID).
		Updates(updates).Error
	if err != nil {
		return 0, err
	}
	return newCount, nil
}

// checkAvailable is the eligibility predicate: one-shot tasks are available
// while their counter is zero, the daily check-in while off cooldown.
func (s *TaskService) checkAvailable(task models.Task, row *models.Referral) error {
	if task.Recurring {
		if remaining := s.cooldownRemaining(row); remaining > 0 {
			return ErrCooldown{HoursRemaining: remaining}
		}
		return nil
	}
	if row.Counter(task.Field) > 0 {
		return ErrTaskCompleted
	}
	return nil
}

// cooldownRemaining returns the whole hours left on the daily check-in
// cooldown, 0 when available.
func (s *TaskService) cooldownRemaining(row *models.Referral) int {
	if row.DailyCheckAt == nil {
		return 0
	}
	elapsed := s.Now().Sub(*row.DailyCheckAt)
	if elapsed >= dailyCooldown {
		return 0
	}
	return int(math.Ceil((dailyCooldown - elapsed).Hours()))
}
