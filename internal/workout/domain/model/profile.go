package model

import "time"

// UserProfile is written once at sign-up. UserID is the subject id issued by
// the identity provider.
type UserProfile struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	Email     string    `json:"email" bson:"email"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func (p UserProfile) WithMeta(id, userID string, createdAt time.Time) UserProfile {
	p.ID, p.UserID, p.CreatedAt = id, userID, createdAt
	return p
}
