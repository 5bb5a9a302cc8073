package models

// User mirrors the public users table backing the fast leaderboard read.
// RewardPoints is a precomputed snapshot of the ledger sum, refreshed by the
// reward sync worker; the ledger itself stays the source of truth.
type User struct {
	ID            string  `gorm:"primaryKey;type:uuid" json:"id"`
	Email         string  `json:"email,omitempty"`
	Username      string  `gorm:"index" json:"username"`
	RewardPoints  int64   `gorm:"default:0" json:"reward_points"`
	WalletAddress *string `json:"wallet_address,omitempty"`

	Timestamps
}

func (User) TableName() string { return "users" }
