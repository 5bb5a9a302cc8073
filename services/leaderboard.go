package services

import (
	"sort"

	"gmonad-points-service/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// DefaultLeaderboardLimit caps the snapshot read.
const DefaultLeaderboardLimit = 100

// LeaderboardEntry is one ranked user. Handle is a url-safe form of the
// username for profile links.
type LeaderboardEntry struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Handle   string `json:"handle,omitempty"`
	Points   int64  `json:"reward_points"`
	Rank     int    `json:"rank"`
}

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// Aggregate recomputes totals straight from the ledger: group by referrer,
// sum every point-bearing field, keep the most recent non-empty username.
// Sort is descending by total; ties keep row-encounter order.
func (s *LeaderboardService) Aggregate() ([]LeaderboardEntry, error) {
	var rows []models.Referral
	if err := s.DB.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	totals := map[string]*LeaderboardEntry{}
	var order []string
	for i := range rows {
		row := &rows[i]
		entry, ok := totals[row.ReferrerID]
		if !ok {
			entry = &LeaderboardEntry{UserID: row.ReferrerID}
			totals[row.ReferrerID] = entry
			order = append(order, row.ReferrerID)
		}
		entry.Points += row.PointsTotal()
		if row.Username != "" {
			entry.Username = row.Username
		}
	}

	entries := make([]LeaderboardEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, *totals[id])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	for i := range entries {
		entries[i].Rank = i + 1
		if entries[i].Username != "" {
			entries[i].Handle = slug.Make(entries[i].Username)
		}
	}
	return entries, nil
}

// Top serves the precomputed snapshot from the users table, ordered
// server-side. The sync worker keeps it convergent with Aggregate.
func (s *LeaderboardService) Top(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > DefaultLeaderboardLimit {
		limit = DefaultLeaderboardLimit
	}

	var users []models.User
	if err := s.DB.Order("reward_points DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entry := LeaderboardEntry{
			UserID:   u.ID,
			Username: u.Username,
			Points:   u.RewardPoints,
			Rank:     i + 1,
		}
		if u.Username != "" {
			entry.Handle = slug.Make(u.Username)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
