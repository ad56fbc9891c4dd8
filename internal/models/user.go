package models

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleDoctor  Role = "Doctor"
	RolePatient Role = "Patient"
)

// ParseRole maps a backend role string onto the closed enumeration. Anything
// outside the two known variants is rejected; callers must treat that as an
// authentication failure, never as a third path.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleDoctor:
		return RoleDoctor, nil
	case RolePatient:
		return RolePatient, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	return r == RoleDoctor || r == RolePatient
}

type User struct {
	ID        string `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      Role   `json:"type"`
	Confirmed bool   `json:"email_confirmed,omitempty"`
}

func (u User) FullName() string {
	return u.Firstname + " " + u.Lastname
}

// Session is the locally believed identity: the bearer token the backend
// issued, the user it belongs to, and when the backend last confirmed the
// pair. Token and User are present together or not at all.
type Session struct {
	Token    string    `json:"token"`
	User     User      `json:"user"`
	DeviceID string    `json:"device_id"`
	CachedAt time.Time `json:"cached_at"`
}

func (s Session) Complete() bool {
	return s.Token != "" && s.User.ID != ""
}
