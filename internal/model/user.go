package model

import "time"

// User is an identity record as returned by the identity provider.
type User struct {
	ID               string         `json:"id"`
	Aud              string         `json:"aud,omitempty"`
	Role             string         `json:"role,omitempty"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone,omitempty"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	ConfirmedAt      *time.Time     `json:"confirmed_at,omitempty"`
	LastSignInAt     *time.Time     `json:"last_sign_in_at,omitempty"`
	AppMetadata      map[string]any `json:"app_metadata,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata"`
	CreatedAt        *time.Time     `json:"created_at,omitempty"`
	UpdatedAt        *time.Time     `json:"updated_at,omitempty"`
}

// DisplayName returns user_metadata.name when present.
func (u *User) DisplayName() string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}
	name, _ := u.UserMetadata["name"].(string)
	return name
}

// Session is an authenticated session issued on sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// ProfileUpdate carries the profile fields a user may change. Nil fields are
// left untouched on the provider side.
type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *string
}

// Metadata returns only the fields that were supplied.
func (p ProfileUpdate) Metadata() map[string]any {
	data := make(map[string]any, 3)
	if p.Name != nil {
		data["name"] = *p.Name
	}
	if p.Phone != nil {
		data["phone"] = *p.Phone
	}
	if p.Address != nil {
		data["address"] = *p.Address
	}
	return data
}
