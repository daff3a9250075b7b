package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/discord"
	"github.com/PancyStudios/MaBotGo/pkg/models"
	"github.com/PancyStudios/MaBotGo/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVoice struct {
	mu        sync.Mutex
	next      int
	created   map[string]string
	limits    map[string]int
	moved     map[string]string
	deleted   []string
	renamed   map[string]string
	occupants map[string][]string
	moveErr   error
}

func newFakeVoice() *fakeVoice {
	return &fakeVoice{
		created:   map[string]string{},
		limits:    map[string]int{},
		moved:     map[string]string{},
		renamed:   map[string]string{},
		occupants: map[string][]string{},
	}
}

func (f *fakeVoice) CreateVoiceChannel(_, name, _ string, limit int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	id := "temp" + string(rune('0'+f.next))
	f.created[id] = name
	f.limits[id] = limit
	return id, nil
}

func (f *fakeVoice) MoveMember(_, userID, channelID string) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moved[userID] = channelID
	return nil
}

func (f *fakeVoice) DeleteChannel(channelID string) error {
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *fakeVoice) RenameChannel(channelID, name string) error {
	f.renamed[channelID] = name
	return nil
}

func (f *fakeVoice) ParentID(string) string { return "category" }

func (f *fakeVoice) Occupants(_, channelID string) []string { return f.occupants[channelID] }

func (f *fakeVoice) DisplayName(_, userID string) string { return "user-" + userID }

type fakeStore struct {
	generators map[string]*models.TempVCGenerator
	tracked    map[string]models.TempVC
}

func newFakeStore(gens ...*models.TempVCGenerator) *fakeStore {
	s := &fakeStore{generators: map[string]*models.TempVCGenerator{}, tracked: map[string]models.TempVC{}}
	for _, g := range gens {
		s.generators[g.GeneratorID] = g
	}
	return s
}

func (s *fakeStore) Generator(_ context.Context, _, channelID string) (*models.TempVCGenerator, error) {
	return s.generators[channelID], nil
}

func (s *fakeStore) Track(_ context.Context, vc models.TempVC) error {
	s.tracked[vc.ChannelID] = vc
	return nil
}

func (s *fakeStore) Tracked(_ context.Context, channelID string) (*models.TempVC, error) {
	vc, ok := s.tracked[channelID]
	if !ok {
		return nil, nil
	}
	return &vc, nil
}

func (s *fakeStore) Untrack(_ context.Context, channelID string) error {
	delete(s.tracked, channelID)
	return nil
}

func TestTempVoiceLifecycle(t *testing.T) {
	ctx := context.Background()
	api := newFakeVoice()
	store := newFakeStore(&models.TempVCGenerator{GuildID: "g", GeneratorID: "gen", VCUserLimit: 4, NameTemplate: "Sala de {username}"})
	tv := newTempVoice(api, store)

	tv.handle(ctx, "g", "u1", "", "gen")
	require.Len(t, api.created, 1)
	assert.Equal(t, "Sala de user-u1", api.created["temp1"])
	assert.Equal(t, 4, api.limits["temp1"])
	assert.Equal(t, "temp1", api.moved["u1"])
	assert.Equal(t, "u1", store.tracked["temp1"].OwnerID)

	// the owner leaves while someone stays: ownership and name move on
	api.occupants["temp1"] = []string{"u2"}
	tv.handle(ctx, "g", "u1", "temp1", "")
	assert.Equal(t, "u2", store.tracked["temp1"].OwnerID)
	assert.Equal(t, "Sala de user-u2", api.renamed["temp1"])
	assert.Empty(t, api.deleted)

	api.occupants["temp1"] = nil
	tv.handle(ctx, "g", "u2", "temp1", "")
	assert.Equal(t, []string{"temp1"}, api.deleted)
	assert.NotContains(t, store.tracked, "temp1")
}

func TestTempVoiceIgnoresOtherChannels(t *testing.T) {
	api := newFakeVoice()
	tv := newTempVoice(api, newFakeStore())

	tv.handle(context.Background(), "g", "u1", "a", "b")
	tv.handle(context.Background(), "g", "u1", "b", "b")
	assert.Empty(t, api.created)
	assert.Empty(t, api.deleted)
}

func TestTempVoiceRenameLimit(t *testing.T) {
	ctx := context.Background()
	api := newFakeVoice()
	store := newFakeStore()
	store.tracked["vc"] = models.TempVC{ChannelID: "vc", OwnerID: "u0"}
	tv := newTempVoice(api, store)

	renames := 0
	for i := 0; i < 4; i++ {
		owner := store.tracked["vc"].OwnerID
		next := "u" + string(rune('1'+i))
		api.occupants["vc"] = []string{next}
		delete(api.renamed, "vc")
		tv.handle(ctx, "g", owner, "vc", "")
		if _, ok := api.renamed["vc"]; ok {
			renames++
		}
	}
	assert.Equal(t, renameBurst, renames)
	assert.Equal(t, "u4", store.tracked["vc"].OwnerID)
}

func TestTempVoiceMoveFailureRemovesChannel(t *testing.T) {
	api := newFakeVoice()
	api.moveErr = errors.New("left already")
	store := newFakeStore(&models.TempVCGenerator{GeneratorID: "gen"})
	tv := newTempVoice(api, store)

	tv.handle(context.Background(), "g", "u1", "", "gen")
	assert.Equal(t, []string{"temp1"}, api.deleted)
	assert.Empty(t, store.tracked)
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "Canal de ana", channelName("", "ana"))
	assert.Len(t, []rune(channelName("{username}", string(make([]rune, 150)))), 100)
}

func TestIsBareMention(t *testing.T) {
	assert.True(t, isBareMention(" <@123> ", "123"))
	assert.True(t, isBareMention("<@!123>", "123"))
	assert.False(t, isBareMention("<@123> hola", "123"))
	assert.False(t, isBareMention("<@>", ""))
}

func TestJoinedRecently(t *testing.T) {
	now := time.Now()
	assert.True(t, joinedRecently(now.Add(-time.Second), now))
	assert.False(t, joinedRecently(now.Add(-time.Minute), now))
	assert.False(t, joinedRecently(time.Time{}, now))
}

func TestWelcomeMessage(t *testing.T) {
	vars := utils.WelcomeVars{Username: "ana", UserID: "42", Server: "MaBot", Members: 10}

	msg := welcomeMessage(models.WelcomeSettings{WelcomeMessage: "Hola {mention}, eres el {members} en {server}"}, vars)
	assert.Equal(t, "Hola <@42>, eres el 10 en MaBot", msg.Content)
	assert.Empty(t, msg.Embeds)
	assert.Equal(t, []string{"42"}, msg.AllowedMentions.Users)

	msg = welcomeMessage(models.WelcomeSettings{WelcomeImage: "https://img/x.png"}, vars)
	require.Len(t, msg.Embeds, 1)
	assert.Equal(t, "https://img/x.png", msg.Embeds[0].Image.URL)
}

func TestJoinEmbed(t *testing.T) {
	embed := joinEmbed(discord.NewEmbeds(nil), "ma!")
	assert.Contains(t, embed.Description, "ma!help")
	assert.Len(t, embed.Fields, 3)
}

func TestMentionEmbed(t *testing.T) {
	embed := mentionEmbed(discord.NewEmbeds(nil), "?")
	assert.Contains(t, embed.Description, "`?`")
}
