package discord

import (
	"time"
)

// ExecutedTopic is the MQTT topic command executions are published on
const ExecutedTopic = "mabot/commands/executed"

// Publisher sends a JSON payload to a topic
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// Execution describes one handled command
type Execution struct {
	Command    string    `json:"command"`
	Source     string    `json:"source"` // "text" or "slash"
	GuildID    string    `json:"guildId,omitempty"`
	ChannelID  string    `json:"channelId"`
	UserID     string    `json:"userId"`
	Denied     string    `json:"denied,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"durationMs"`
	At         time.Time `json:"at"`
}

var denyNames = map[DenyReason]string{
	DenyGuildOnly:       "guild_only",
	DenyDevOnly:         "dev_only",
	DenyUserPermissions: "user_permissions",
	DenyVoice:           "voice",
	DenyTargetProtected: "target_protected",
	DenyBotHierarchy:    "bot_hierarchy",
	DenyBotPermissions:  "bot_permissions",
	DenyCooldown:        "cooldown",
}

// String names the reason for telemetry
func (r DenyReason) String() string {
	if n, ok := denyNames[r]; ok {
		return n
	}
	return ""
}
