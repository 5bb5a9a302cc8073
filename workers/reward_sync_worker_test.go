package workers

import (
	"context"
	"testing"
	"time"

	"gmonad-points-service/models"
	"gmonad-points-service/services"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Referral{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func TestSyncOnceUpsertsSnapshot(t *testing.T) {
	db := newTestDB(t)
	client := NewRewardSyncClient(db, services.NewLeaderboardService(db))
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	userID := "aaaa1111-0000-0000-0000-000000000001"
	code := "AAAA1111"
	if err := db.Create(&models.Referral{
		ID: uuid.NewString(), ReferrerID: userID, ReferralCode: &code,
		Username: "alice", Follow: 100, RefereePoints: 10,
		Timestamps: models.Timestamps{CreatedAt: base},
	}).Error; err != nil {
		t.Fatalf("failed to seed ledger: %v", err)
	}

	count, err := client.SyncOnce(context.Background())
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 synced user, got %d", count)
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		t.Fatalf("snapshot row missing: %v", err)
	}
	if user.RewardPoints != 110 || user.Username != "alice" {
		t.Fatalf("unexpected snapshot: %+v", user)
	}

	// Ledger moves; a second sync converges the snapshot.
	referee := "bbbb2222-0000-0000-0000-000000000002"
	if err := db.Create(&models.Referral{
		ID: uuid.NewString(), ReferrerID: userID, RefereeID: &referee,
		Username: "alice", PointsAwarded: 10,
		Timestamps: models.Timestamps{CreatedAt: base.Add(time.Minute)},
	}).Error; err != nil {
		t.Fatalf("failed to extend ledger: %v", err)
	}

	if _, err := client.SyncOnce(context.Background()); err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		t.Fatalf("snapshot row missing after resync: %v", err)
	}
	if user.RewardPoints != 120 {
		t.Fatalf("expected converged snapshot 120, got %d", user.RewardPoints)
	}
}

func TestSyncOnceEmptyLedger(t *testing.T) {
	db := newTestDB(t)
	client := NewRewardSyncClient(db, services.NewLeaderboardService(db))

	count, err := client.SyncOnce(context.Background())
	if err != nil {
		t.Fatalf("sync on empty ledger failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no synced users, got %d", count)
	}
}
