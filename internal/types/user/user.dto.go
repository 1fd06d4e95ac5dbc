package user

import "time"

// Profile is the API-facing view of a member; the password hash never
// leaves the store layer.
type Profile struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"displayName"`
	ColorHex    string      `json:"colorHex"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (u *User) Profile() *Profile {
	return &Profile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		ColorHex:    u.ColorHex,
		Preferences: Preferences{
			Metrics:              append([]string(nil), u.Preferences.Metrics...),
			SharePhotosByDefault: u.Preferences.SharePhotosByDefault,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Member is the slimmed roster row shown on the login screen.
type Member struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	ColorHex    string `json:"colorHex"`
}

func (u *User) Member() Member {
	return Member{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		ColorHex:    u.ColorHex,
	}
}

// UpdatePreferencesRequest is the payload for PUT /user/preferences.
type UpdatePreferencesRequest struct {
	Metrics              []string `json:"metrics"`
	SharePhotosByDefault bool     `json:"sharePhotosByDefault"`
}
