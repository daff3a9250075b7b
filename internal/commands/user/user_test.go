package user

import (
	"testing"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarEmbed(t *testing.T) {
	server := avatarEmbed("pancy", "https://cdn/a.png", true, 0x123456)
	assert.Equal(t, "pancy's Server Avatar", server.Title)
	assert.Equal(t, "[Image URL](https://cdn/a.png)", server.Description)
	assert.Equal(t, "https://cdn/a.png", server.Image.URL)

	user := avatarEmbed("pancy", "https://cdn/b.png", false, 0x123456)
	assert.Equal(t, "pancy's Avatar", user.Title)
}

func TestAvatarToggle(t *testing.T) {
	label := func(rows []discordgo.MessageComponent) string {
		return rows[0].(discordgo.ActionsRow).Components[0].(discordgo.Button).Label
	}
	assert.Equal(t, "View User Avatar", label(avatarToggle("user1", true)))
	assert.Equal(t, "View Server Avatar", label(avatarToggle("user1", false)))
}

func TestMembersWithRole(t *testing.T) {
	members := []*discordgo.Member{
		{Roles: []string{"a", "b"}},
		{Roles: []string{"b"}},
		{Roles: nil},
	}
	assert.Equal(t, 2, membersWithRole(members, "b"))
	assert.Equal(t, 1, membersWithRole(members, "a"))
	assert.Zero(t, membersWithRole(members, "c"))
}

func TestRegisterUserCommands(t *testing.T) {
	b := discord.NewBuilder()
	RegisterUserCommands(b)
	reg, err := b.Build()
	require.NoError(t, err)

	_, ok := reg.LookupPath("user.avatar")
	assert.True(t, ok)
	_, ok = reg.LookupPath("user.role")
	assert.True(t, ok)
}
