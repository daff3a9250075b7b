package database

import (
	"context"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

// GuildService reads and writes per-guild settings
type GuildService struct {
	dm *DataManager[models.GuildSettings]
}

// NewGuildService creates a GuildService. Its DataManager keeps no cache:
// prefix reads are cached by the prefix resolver instead.
func NewGuildService(db *Database) *GuildService {
	return &GuildService{
		dm: NewDataManager[models.GuildSettings]("guilds", db, DataManagerOptions{}),
	}
}

// Get returns the settings of a guild, or nil when none are stored
func (s *GuildService) Get(ctx context.Context, guildID string) (*models.GuildSettings, error) {
	return s.dm.Get(ctx, bson.M{"_id": guildID})
}

// Ensure creates the settings document on first sight
func (s *GuildService) Ensure(ctx context.Context, guildID string) (*models.GuildSettings, error) {
	return s.dm.Update(ctx, bson.M{"_id": guildID}, bson.M{
		"$setOnInsert": bson.M{"created_at": time.Now()},
	})
}

// GuildPrefix returns the stored prefix; empty means unset
func (s *GuildService) GuildPrefix(ctx context.Context, guildID string) (string, error) {
	settings, err := s.Get(ctx, guildID)
	if err != nil || settings == nil {
		return "", err
	}
	return settings.Prefix, nil
}

// SetGuildPrefix stores a new prefix for the guild
func (s *GuildService) SetGuildPrefix(ctx context.Context, guildID, prefix string) error {
	_, err := s.dm.Set(ctx, bson.M{"_id": guildID}, bson.M{"prefix": prefix})
	return err
}

// SetWelcomeMessage stores the welcome text and image
func (s *GuildService) SetWelcomeMessage(ctx context.Context, guildID, message, image string) error {
	_, err := s.dm.Set(ctx, bson.M{"_id": guildID}, bson.M{
		"welcome.welcome_message": message,
		"welcome.welcome_image":   image,
	})
	return err
}

// SetWelcomeChannel stores the channel that receives welcome messages
func (s *GuildService) SetWelcomeChannel(ctx context.Context, guildID, channelID string) error {
	_, err := s.dm.Set(ctx, bson.M{"_id": guildID}, bson.M{"welcome.channel_id": channelID})
	return err
}

// Delete removes the guild settings
func (s *GuildService) Delete(ctx context.Context, guildID string) error {
	_, err := s.dm.Delete(ctx, bson.M{"_id": guildID})
	return err
}
