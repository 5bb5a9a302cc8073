package models

// TaskField names a counter column on the home ledger row.
type TaskField string

const (
	TaskFollow     TaskField = "follow"
	TaskTweet      TaskField = "tweet"
	TaskRetweet    TaskField = "retweet"
	TaskLike       TaskField = "like"
	TaskComment    TaskField = "comment"
	TaskJoinTG     TaskField = "join_tg"
	TaskDailyCheck TaskField = "daily_check"
	TaskDailyTweet TaskField = "daily_tweet"
)

// Task describes one entry of the fixed task catalog.
type Task struct {
	Field     TaskField `json:"field"`
	Name      string    `json:"name"`
	Points    int64     `json:"points"`
	URL       string    `json:"url,omitempty"` // external link opened on click, if any
	Recurring bool      `json:"recurring"`     // 24h cooldown instead of one-shot
}

const OfficialTweetURL = "https://x.com/gmonadofficial/status/1801239820884406430"

// TaskCatalog lists every task with its fixed point value. Only the daily
// check-in recurs; the daily tweet is one-shot despite the name.
var TaskCatalog = []Task{
	{Field: TaskFollow, Name: "Follow @gmonadofficial", Points: 100, URL: "https://x.com/gmonadofficial"},
	{Field: TaskTweet, Name: "Tweet this", Points: 100},
	{Field: TaskRetweet, Name: "Retweet this", Points: 50, URL: OfficialTweetURL},
	{Field: TaskLike, Name: "Like this", Points: 50, URL: OfficialTweetURL},
	{Field: TaskComment, Name: "Comment on this", Points: 50, URL: OfficialTweetURL},
	{Field: TaskJoinTG, Name: "Join Telegram", Points: 100},
	{Field: TaskDailyCheck, Name: "Daily Check In", Points: 10, Recurring: true},
	{Field: TaskDailyTweet, Name: "Daily Tweet", Points: 10},
}

// pendingColumns maps each counter field to its pending-verification flag
// column.
var pendingColumns = map[TaskField]string{
	TaskFollow:     "is_followed",
	TaskTweet:      "is_tweeted",
	TaskRetweet:    "is_retweet",
	TaskLike:       "is_liked",
	TaskComment:    "is_comment",
	TaskJoinTG:     "is_tg",
	TaskDailyCheck: "is_dailycheck",
	TaskDailyTweet: "is_dtweet",
}

// PendingColumn returns the flag column name for a task field.
func PendingColumn(f TaskField) string { return pendingColumns[f] }

// TaskByField looks a task up in the catalog.
func TaskByField(f TaskField) (Task, bool) {
	for _, t := range TaskCatalog {
		if t.Field == f {
			return t, true
		}
	}
	return Task{}, false
}
