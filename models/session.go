package models

// Session is the single-row `auth` table caching the current login.
// Saving a session replaces the previous row; logout clears it.
type Session struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	AuthToken string `gorm:"column:authToken;not null" json:"auth_token"`
	Email     string `gorm:"column:email;not null" json:"email"`
}

func (Session) TableName() string {
	return "auth"
}

// SaveSessionRequest is the payload for caching login credentials locally.
type SaveSessionRequest struct {
	AuthToken string `json:"auth_token" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}
