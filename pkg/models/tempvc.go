package models

import "time"

// DefaultTempVCTemplate names generated channels when a generator has none
const DefaultTempVCTemplate = "Canal de {username}"

// TempVCGenerator is a voice channel that spawns temporary channels on join
type TempVCGenerator struct {
	GuildID      string `bson:"guild_id" json:"guild_id"`
	GeneratorID  string `bson:"generator_id" json:"generator_id"`
	VCUserLimit  int    `bson:"vc_user_limit" json:"vc_user_limit"`
	NameTemplate string `bson:"name_template,omitempty" json:"name_template,omitempty"`
}

// TempVC tracks a generated channel so it can be removed once empty
type TempVC struct {
	ChannelID   string    `bson:"_id" json:"channel_id"`
	GuildID     string    `bson:"guild_id" json:"guild_id"`
	OwnerID     string    `bson:"owner_id" json:"owner_id"`
	GeneratorID string    `bson:"generator_id" json:"generator_id"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
