package services

import (
	"errors"
	"testing"
	"time"

	"gmonad-points-service/models"
)

func newTaskService(t *testing.T) *TaskService {
	t.Helper()
	db := newTestDB(t)
	return NewTaskService(db, NewReferralService(db))
}

func homeRow(t *testing.T, svc *TaskService, userID string) *models.Referral {
	t.Helper()
	var row models.Referral
	if err := svc.DB.Where("referrer_id = ? AND referee_id IS NULL", userID).First(&row).Error; err != nil {
		t.Fatalf("home row missing for %s: %v", userID, err)
	}
	return &row
}

func TestClickThenVerifyAwardsOnce(t *testing.T) {
	svc := newTaskService(t)

	if _, err := svc.Click(userC, "carol", models.TaskFollow); err != nil {
		t.Fatalf("click failed: %v", err)
	}
	if !homeRow(t, svc, userC).IsFollowed {
		t.Fatalf("click must set the pending flag")
	}

	// Re-entrant click while pending.
	if _, err := svc.Click(userC, "carol", models.TaskFollow); !errors.Is(err, ErrVerifyFirst) {
		t.Fatalf("expected ErrVerifyFirst, got %v", err)
	}

	count, err := svc.Verify(userC, "carol", models.TaskFollow)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if count != 100 {
		t.Fatalf("expected follow counter 100, got %d", count)
	}

	row := homeRow(t, svc, userC)
	if row.Follow != 100 || row.IsFollowed {
		t.Fatalf("expected counter 100 and flag cleared, got %d / %v", row.Follow, row.IsFollowed)
	}

	// Completed one-shots never become available again.
	if _, err := svc.Click(userC, "carol", models.TaskFollow); !errors.Is(err, ErrTaskCompleted) {
		t.Fatalf("expected ErrTaskCompleted, got %v", err)
	}
	if _, err := svc.Verify(userC, "carol", models.TaskFollow); !errors.Is(err, ErrClickFirst) {
		t.Fatalf("expected ErrClickFirst after award, got %v", err)
	}
	if homeRow(t, svc, userC).Follow != 100 {
		t.Fatalf("counter must never move past the award")
	}
}

func TestVerifyWithoutClick(t *testing.T) {
	svc := newTaskService(t)

	if _, err := svc.Verify(userC, "carol", models.TaskLike); !errors.Is(err, ErrClickFirst) {
		t.Fatalf("expected ErrClickFirst, got %v", err)
	}
	if homeRow(t, svc, userC).Like != 0 {
		t.Fatalf("rejected verify must leave the counter unchanged")
	}
}

func TestUnknownTask(t *testing.T) {
	svc := newTaskService(t)
	if _, err := svc.Click(userC, "carol", "bogus"); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask, got %v", err)
	}
}

func TestDailyCheckCooldown(t *testing.T) {
	svc := newTaskService(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return base }

	if _, err := svc.Click(userC, "carol", models.TaskDailyCheck); err != nil {
		t.Fatalf("click failed: %v", err)
	}
	count, err := svc.Verify(userC, "carol", models.TaskDailyCheck)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if count != 10 {
		t.Fatalf("expected daily counter 10, got %d", count)
	}

	// One minute short of the cooldown: rejected with one hour remaining.
	svc.Now = func() time.Time { return base.Add(24*time.Hour - time.Minute) }
	_, err = svc.Click(userC, "carol", models.TaskDailyCheck)
	var cooldown ErrCooldown
	if !errors.As(err, &cooldown) {
		t.Fatalf("expected ErrCooldown, got %v", err)
	}
	if cooldown.HoursRemaining != 1 {
		t.Fatalf("expected 1 hour remaining, got %d", cooldown.HoursRemaining)
	}

	// At exactly 24h the task recurs and the counter accrues.
	svc.Now = func() time.Time { return base.Add(24 * time.Hour) }
	if _, err := svc.Click(userC, "carol", models.TaskDailyCheck); err != nil {
		t.Fatalf("click after cooldown failed: %v", err)
	}
	count, err = svc.Verify(userC, "carol", models.TaskDailyCheck)
	if err != nil {
		t.Fatalf("verify after cooldown failed: %v", err)
	}
	if count != 20 {
		t.Fatalf("expected accrued counter 20, got %d", count)
	}
}

func TestDailyTweetIsOneShot(t *testing.T) {
	svc := newTaskService(t)

	if _, err := svc.Click(userC, "carol", models.TaskDailyTweet); err != nil {
		t.Fatalf("click failed: %v", err)
	}
	if _, err := svc.Verify(userC, "carol", models.TaskDailyTweet); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if _, err := svc.Click(userC, "carol", models.TaskDailyTweet); !errors.Is(err, ErrTaskCompleted) {
		t.Fatalf("daily tweet does not recur, got %v", err)
	}
}

func TestStatusReflectsProgress(t *testing.T) {
	svc := newTaskService(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return base }

	if _, err := svc.Click(userC, "carol", models.TaskRetweet); err != nil {
		t.Fatalf("click failed: %v", err)
	}
	if _, err := svc.Click(userC, "carol", models.TaskDailyCheck); err != nil {
		t.Fatalf("click failed: %v", err)
	}
	if _, err := svc.Verify(userC, "carol", models.TaskDailyCheck); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	svc.Now = func() time.Time { return base.Add(time.Hour) }
	statuses, err := svc.Status(userC, "carol")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if len(statuses) != len(models.TaskCatalog) {
		t.Fatalf("expected %d statuses, got %d", len(models.TaskCatalog), len(statuses))
	}
	for _, st := range statuses {
		switch st.Field {
		case models.TaskRetweet:
			if !st.Pending || st.Completed {
				t.Fatalf("retweet should be pending: %+v", st)
			}
		case models.TaskDailyCheck:
			if st.Count != 10 || st.HoursRemaining != 23 {
				t.Fatalf("daily check should be on cooldown: %+v", st)
			}
		case models.TaskFollow:
			if st.Pending || st.Completed || st.Count != 0 {
				t.Fatalf("follow should be untouched: %+v", st)
			}
		}
	}
}
