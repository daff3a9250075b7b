package utils

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTime(t *testing.T) {
	assert.Equal(t, "1 days 2 hours 3 minutes", ConvertTime(26*time.Hour+3*time.Minute))
	assert.Equal(t, "5 minutes", ConvertTime(5*time.Minute+30*time.Second))
	assert.Equal(t, "2 days", ConvertTime(48*time.Hour))
	assert.Equal(t, "", ConvertTime(10*time.Second))
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"1d 3h 5m", 27*time.Hour + 5*time.Minute, true},
		{"10M", 10 * time.Minute, true},
		{"30s", 30 * time.Second, true},
		{"2h30m", 2*time.Hour + 30*time.Minute, true},
		{"soon", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDuration(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://cdn.discordapp.com/a/b.png"))
	assert.True(t, IsValidURL("http://www.example.com"))
	assert.False(t, IsValidURL("ftp://example.com"))
	assert.False(t, IsValidURL("not a url"))
	assert.False(t, IsValidURL(""))
}

func TestIsValidColorHex(t *testing.T) {
	assert.True(t, IsValidColorHex("#5865F2"))
	assert.True(t, IsValidColorHex("fff"))
	assert.False(t, IsValidColorHex("#ffff"))
	assert.False(t, IsValidColorHex("#ggg"))
}

func TestParseMention(t *testing.T) {
	assert.Equal(t, "123", ParseMention("<@123>"))
	assert.Equal(t, "123", ParseMention("<@!123>"))
	assert.Equal(t, "456", ParseMention("<@&456>"))
	assert.Equal(t, "789", ParseMention("789"))
	assert.Equal(t, "", ParseMention("someone"))
	assert.Equal(t, "", ParseMention(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "he...", Truncate("hello world", 5))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestExpandWelcome(t *testing.T) {
	out := ExpandWelcome("Hola {username} ({mention}, {id}) bienvenido a {server}, somos {members}", WelcomeVars{
		Username: "ana",
		UserID:   "42",
		Server:   "Club",
		Members:  10,
	})
	assert.Equal(t, "Hola ana (<@42>, 42) bienvenido a Club, somos 10", out)
}

func TestRoleInfoEmbed(t *testing.T) {
	role := &discordgo.Role{ID: "175928847299117063", Name: "Mods", Color: 0x00ff00, Position: 3, Hoist: true}
	embed := RoleInfoEmbed(&discordgo.Guild{ID: "1", Name: "Club"}, role, 7)

	require.Len(t, embed.Fields, 9)
	assert.Equal(t, "Club", embed.Author.Name)
	assert.Equal(t, "Mods", embed.Fields[0].Value)
	assert.Equal(t, "7", embed.Fields[3].Value)
	assert.Equal(t, "#00FF00", embed.Fields[5].Value)
	assert.Equal(t, "✓", embed.Fields[6].Value)
	assert.Equal(t, "Χ", embed.Fields[7].Value)
	assert.Contains(t, embed.Fields[2].Value, "<t:1462015105:R>")
}
