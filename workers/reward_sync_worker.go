package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"gmonad-points-service/models"
	"gmonad-points-service/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RewardSyncClient recomputes the users.reward_points snapshot from the
// canonical ledger sums so the server-ordered leaderboard read stays valid.
type RewardSyncClient struct {
	DB          *gorm.DB
	Leaderboard *services.LeaderboardService
}

func NewRewardSyncClient(db *gorm.DB, leaderboard *services.LeaderboardService) *RewardSyncClient {
	return &RewardSyncClient{DB: db, Leaderboard: leaderboard}
}

// SyncOnce aggregates the ledger and upserts every total into the users
// table in one batch statement.
func (c *RewardSyncClient) SyncOnce(ctx context.Context) (int, error) {
	entries, err := c.Leaderboard.Aggregate()
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate ledger: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	users := make([]models.User, 0, len(entries))
	for _, e := range entries {
		users = append(users, models.User{
			ID:           e.UserID,
			Username:     e.Username,
			RewardPoints: e.Points,
		})
	}

	if err := c.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username",
				"reward_points",
				"updated_at",
			}),
		},
	).Create(&users).Error; err != nil {
		return 0, fmt.Errorf("failed to upsert reward points: %w", err)
	}
	return len(users), nil
}

// PollRewardPoints refreshes the snapshot on an interval until ctx is done.
func PollRewardPoints(ctx context.Context, client *RewardSyncClient, pollInterval time.Duration) {
	log.Println("Starting reward points sync (ledger → users snapshot)...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Reward points sync stopped.")
			return
		case <-ticker.C:
			count, err := client.SyncOnce(ctx)
			if err != nil {
				log.Printf("❌ Reward points sync failed: %v", err)
				continue
			}
			if count > 0 {
				log.Printf("✅ Synced reward points for %d user(s).", count)
			}
		}
	}
}
