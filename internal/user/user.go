package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// User is an account as stored locally. A user signs in with exactly one of
// a login id, a Kakao id or an Apple id.
type User struct {
	ID        string    `json:"id"`
	LoginID   *string   `json:"login_id,omitempty"`
	KakaoID   *string   `json:"-"`
	AppleID   *string   `json:"-"`
	Nickname  string    `json:"nickname"`
	Gender    *string   `json:"gender,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Provider reports which identity the account signs in with.
func (u User) Provider() string {
	switch {
	case u.LoginID != nil:
		return "local"
	case u.KakaoID != nil:
		return "kakao"
	case u.AppleID != nil:
		return "apple"
	default:
		return ""
	}
}
