package discord

import (
	"github.com/bwmarrin/discordgo"
)

// DenyReason says which check of the gate refused an invocation
type DenyReason int

const (
	DenyNone DenyReason = iota
	DenyGuildOnly
	DenyDevOnly
	DenyUserPermissions
	DenyVoice
	DenyTargetProtected
	DenyBotHierarchy
	DenyBotPermissions
	// DenyCooldown is decided by the dispatcher, never by the gate
	DenyCooldown
)

var denyMessages = map[DenyReason]string{
	DenyGuildOnly:       "Este comando solo puede usarse dentro de un servidor.",
	DenyDevOnly:         "Este comando es solo para desarrolladores.",
	DenyUserPermissions: "No tienes permiso para usar este comando.",
	DenyVoice:           "Necesitas estar dentro de un ****canal de voz****.",
	DenyTargetProtected: "No puedes usar este comando sobre un administrador o un miembro con un rol igual o superior al tuyo.",
	DenyBotHierarchy:    "No puedo hacer eso porque mi rol más alto está demasiado bajo en la jerarquía.",
	DenyBotPermissions:  "No tengo permisos para realizar esta acción.",
}

// Message returns the user facing text of the reason
func (r DenyReason) Message() string {
	return denyMessages[r]
}

// Subject is a member as seen by the gate
type Subject struct {
	Permissions int64
	// Position of the highest role; -1 when unknown
	Position int
	IsOwner  bool
}

// IsAdmin reports whether the subject holds Administrator
func (s Subject) IsAdmin() bool {
	return s.Permissions&discordgo.PermissionAdministrator != 0
}

// GateInput holds what the gate needs to know about an invocation
type GateInput struct {
	InGuild bool
	InVoice bool
	IsDev   bool
	Caller  Subject
	Bot     Subject
	// Target is nil when the command has no target or it could not be resolved
	Target *Subject
}

// PermissionGate is the authorization policy applied before every handler
type PermissionGate struct{}

// Check returns DenyNone when cmd may run. Checks run in order: context,
// caller permissions, voice, target hierarchy, bot permissions.
func (PermissionGate) Check(cmd *Command, in GateInput) DenyReason {
	if cmd.IsDev && !in.IsDev {
		return DenyDevOnly
	}
	if cmd.GuildOnly && !in.InGuild {
		return DenyGuildOnly
	}
	if !in.InGuild {
		return DenyNone
	}

	if !in.Caller.IsOwner && !HasPermissions(in.Caller.Permissions, cmd.UserPermissions) {
		return DenyUserPermissions
	}
	if cmd.InVoiceChannel && !in.InVoice {
		return DenyVoice
	}

	if t := in.Target; cmd.TargetOption != "" && t != nil {
		if t.IsOwner {
			return DenyTargetProtected
		}
		if !in.Caller.IsOwner && (t.IsAdmin() || t.Position >= in.Caller.Position) {
			return DenyTargetProtected
		}
		if !in.Bot.IsOwner && t.Position >= in.Bot.Position {
			return DenyBotHierarchy
		}
	}

	if !HasPermissions(in.Bot.Permissions, cmd.BotPermissions) {
		return DenyBotPermissions
	}
	return DenyNone
}

// HasPermissions reports whether have covers need. Administrator covers all.
func HasPermissions(have, need int64) bool {
	if need == 0 || have&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return have&need == need
}

// HighestRolePosition returns the position of the highest role the member
// holds, 0 for @everyone only
func HighestRolePosition(guild *discordgo.Guild, member *discordgo.Member) int {
	if guild == nil || member == nil {
		return -1
	}

	positions := make(map[string]int, len(guild.Roles))
	for _, role := range guild.Roles {
		positions[role.ID] = role.Position
	}

	highest := 0
	for _, id := range member.Roles {
		if p, ok := positions[id]; ok && p > highest {
			highest = p
		}
	}
	return highest
}

// MemberPermissions computes the guild level permissions of a member
func MemberPermissions(guild *discordgo.Guild, member *discordgo.Member) int64 {
	if guild == nil || member == nil {
		return 0
	}
	if member.User != nil && member.User.ID == guild.OwnerID {
		return discordgo.PermissionAll
	}

	held := make(map[string]bool, len(member.Roles)+1)
	held[guild.ID] = true // @everyone
	for _, id := range member.Roles {
		held[id] = true
	}

	var perms int64
	for _, role := range guild.Roles {
		if held[role.ID] {
			perms |= role.Permissions
		}
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return discordgo.PermissionAll
	}
	return perms
}
