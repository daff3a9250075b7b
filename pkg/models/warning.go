package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserWarning is one warning issued to a user inside a guild.
// The ObjectID doubles as the pagination cursor.
type UserWarning struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	GuildID     string             `bson:"guild_id" json:"guild_id"`
	Reason      string             `bson:"reason" json:"reason"`
	ModeratorID string             `bson:"moderator_id" json:"moderator_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// WarningView is the projected shape returned by the listing pipeline
type WarningView struct {
	ID          string    `bson:"id" json:"id"`
	Reason      string    `bson:"reason" json:"reason"`
	ModeratorID string    `bson:"moderator_id" json:"moderator_id"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// WarningPage is one page of a user's warnings, newest first
type WarningPage struct {
	Warnings   []WarningView
	NextCursor string
}

// HasMore reports whether another page can be requested
func (p WarningPage) HasMore() bool {
	return p.NextCursor != ""
}
