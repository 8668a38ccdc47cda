package remote

import "time"

// User is the backend's account record.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string `json:"access_token"`
	User  User   `json:"user"`
}

// Challenge is a backend-tracked goal with a target value and reward.
type Challenge struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	TargetValue  int    `json:"target_value"`
	RewardPoints int    `json:"reward_points"`
}

// UserChallenge is the user's progress against one challenge.
type UserChallenge struct {
	ID          int        `json:"id"`
	Progress    int        `json:"progress"`
	IsCompleted bool       `json:"is_completed"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	Challenge   Challenge  `json:"challenge"`
}

// Streak is the backend-computed reading streak summary.
type Streak struct {
	CurrentStreak    int `json:"current_streak"`
	LongestStreak    int `json:"longest_streak"`
	CurrentWeekCount int `json:"current_week_count"`
}

// ReadingLog reports one finished reading session to the backend.
type ReadingLog struct {
	ReadingSeconds int `json:"reading_seconds"`
	PageCount      int `json:"page_count"`
}
