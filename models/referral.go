package models

import "time"

// Referral is one row of the points ledger. A row with RefereeID == nil is a
// user's home row: it owns the unique referral code, the task counters and
// the points the user earned as a referee. A row with RefereeID set records
// one redeemed referral and the bonus credited to the referrer.
type Referral struct {
	ID         string  `gorm:"primaryKey;type:uuid" json:"id"`
	ReferrerID string  `gorm:"index;not null;uniqueIndex:idx_referral_pair" json:"referrer_id"`
	RefereeID  *string `gorm:"uniqueIndex:idx_referral_pair" json:"referee_id,omitempty"`

	// ReferralCode is set on home rows only; the unique index doubles as the
	// guard against two sessions creating the same user's home row.
	ReferralCode     *string `gorm:"uniqueIndex" json:"referral_code,omitempty"`
	ReferralCodeUsed string  `json:"referral_code_used,omitempty"`

	Username string `json:"username"` // referrer display-name snapshot

	PointsAwarded int64 `gorm:"default:0" json:"points_awarded"` // to the referrer, on redemption rows
	RefereePoints int64 `gorm:"default:0" json:"referee_points"` // to the owner, on home rows

	// Task counters: 0 until verified, then the task's point value
	// (the daily check-in accrues across days).
	Follow     int64 `gorm:"default:0" json:"follow"`
	Tweet      int64 `gorm:"default:0" json:"tweet"`
	Retweet    int64 `gorm:"default:0" json:"retweet"`
	Like       int64 `gorm:"column:like;default:0" json:"like"`
	Comment    int64 `gorm:"default:0" json:"comment"`
	JoinTG     int64 `gorm:"column:join_tg;default:0" json:"join_tg"`
	DailyCheck int64 `gorm:"column:daily_check;default:0" json:"daily_check"`
	DailyTweet int64 `gorm:"column:daily_tweet;default:0" json:"daily_tweet"`

	// Pending-verification flags: set on click, cleared on verify.
	IsFollowed   bool `gorm:"default:false" json:"is_followed"`
	IsTweeted    bool `gorm:"default:false" json:"is_tweeted"`
	IsRetweet    bool `gorm:"default:false" json:"is_retweet"`
	IsLiked      bool `gorm:"default:false" json:"is_liked"`
	IsComment    bool `gorm:"default:false" json:"is_comment"`
	IsTG         bool `gorm:"column:is_tg;default:false" json:"is_tg"`
	IsDailyCheck bool `gorm:"column:is_dailycheck;default:false" json:"is_dailycheck"`
	IsDTweet     bool `gorm:"column:is_dtweet;default:false" json:"is_dtweet"`

	// DailyCheckAt stamps the last verified daily check-in; the 24h cooldown
	// is measured from it.
	DailyCheckAt *time.Time `json:"daily_check_at,omitempty"`

	Timestamps
}

func (Referral) TableName() string { return "referral" }

// Counter returns the counter value for a task field.
func (r *Referral) Counter(f TaskField) int64 {
	switch f {
	case TaskFollow:
		return r.Follow
	case TaskTweet:
		return r.Tweet
	case TaskRetweet:
		return r.Retweet
	case TaskLike:
		return r.Like
	case TaskComment:
		return r.Comment
	case TaskJoinTG:
		return r.JoinTG
	case TaskDailyCheck:
		return r.DailyCheck
	case TaskDailyTweet:
		return r.DailyTweet
	}
	return 0
}

// Pending reports whether the task was clicked but not yet verified.
func (r *Referral) Pending(f TaskField) bool {
	switch f {
	case TaskFollow:
		return r.IsFollowed
	case TaskTweet:
		return r.IsTweeted
	case TaskRetweet:
		return r.IsRetweet
	case TaskLike:
		return r.IsLiked
	case TaskComment:
		return r.IsComment
	case TaskJoinTG:
		return r.IsTG
	case TaskDailyCheck:
		return r.IsDailyCheck
	case TaskDailyTweet:
		return r.IsDTweet
	}
	return false
}

// PointsTotal sums every point-bearing field on the row. Leaderboard totals
// are the sum of this over all rows sharing a referrer_id.
func (r *Referral) PointsTotal() int64 {
	return r.PointsAwarded + r.RefereePoints +
		r.Follow + r.Tweet + r.Retweet + r.Like +
		r.Comment + r.JoinTG + r.DailyCheck + r.DailyTweet
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
