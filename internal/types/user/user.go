package user

import "time"

// MetricWeight is mandatory in every member's preference set; the UI
// cannot render a progress card without it.
const (
	MetricWeight          = "weight"
	MetricExerciseMinutes = "exerciseMinutes"
)

// KnownMetrics lists every metric key the preference form may submit.
var KnownMetrics = []string{MetricWeight, MetricExerciseMinutes}

type Preferences struct {
	Metrics              []string `json:"metrics"`
	SharePhotosByDefault bool     `json:"sharePhotosByDefault"`
}

// User is a persisted member record. The squad roster is fixed and
// provisioned by seeding; members are never deleted.
type User struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	DisplayName  string      `json:"displayName"`
	PasswordHash string      `json:"passwordHash"`
	ColorHex     string      `json:"colorHex"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (u *User) Clone() User {
	out := *u
	out.Preferences.Metrics = append([]string(nil), u.Preferences.Metrics...)
	return out
}
