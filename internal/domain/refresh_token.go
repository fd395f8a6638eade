package domain

import "time"

// RefreshToken is one persisted row per issued refresh token.
//
// The signed refresh JWT carries this row's ID as its jti claim, so a
// token can always be traced back to (and revoked by deleting) exactly
// one row. Revocation is a database-side concern: the signature stays
// valid until expiry, the row does not.
type RefreshToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
