// Package models holds the MongoDB documents used by the bot.
package models

import "time"

// WelcomeSettings configures the message sent when a member joins
type WelcomeSettings struct {
	ChannelID      string `bson:"channel_id,omitempty" json:"channel_id,omitempty"`
	WelcomeMessage string `bson:"welcome_message,omitempty" json:"welcome_message,omitempty"`
	WelcomeImage   string `bson:"welcome_image,omitempty" json:"welcome_image,omitempty"`
}

// ModerationSettings holds per-guild moderation channels and roles
type ModerationSettings struct {
	LogChannelID string `bson:"log_channel_id,omitempty" json:"log_channel_id,omitempty"`
	MuteRoleID   string `bson:"mute_role_id,omitempty" json:"mute_role_id,omitempty"`
}

// GuildSettings is the per-guild configuration document ("guilds" collection)
type GuildSettings struct {
	ID         string             `bson:"_id" json:"id"`
	Prefix     string             `bson:"prefix,omitempty" json:"prefix,omitempty"`
	Welcome    WelcomeSettings    `bson:"welcome" json:"welcome"`
	Moderation ModerationSettings `bson:"moderation" json:"moderation"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// HasWelcome reports whether a welcome message can be delivered
func (g *GuildSettings) HasWelcome() bool {
	return g != nil && g.Welcome.ChannelID != "" && (g.Welcome.WelcomeMessage != "" || g.Welcome.WelcomeImage != "")
}

// User is created the first time a user is seen by the bot
type User struct {
	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
