package database

import (
	"context"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

// TempVCService manages temporary voice channel generators and the channels
// they spawned
type TempVCService struct {
	generators *DataManager[models.TempVCGenerator]
	channels   *DataManager[models.TempVC]
}

// NewTempVCService creates a TempVCService
func NewTempVCService(db *Database) *TempVCService {
	return &TempVCService{
		generators: NewDataManager[models.TempVCGenerator]("tempvc_generators", db, DataManagerOptions{MaxCacheSize: 500, CacheTTL: 5 * time.Minute}),
		channels:   NewDataManager[models.TempVC]("tempvc_channels", db, DataManagerOptions{MaxCacheSize: 500}),
	}
}

func generatorQuery(guildID, generatorID string) bson.M {
	return bson.M{"guild_id": guildID, "generator_id": generatorID}
}

// Generators lists the generators configured in a guild
func (s *TempVCService) Generators(ctx context.Context, guildID string) ([]*models.TempVCGenerator, error) {
	return s.generators.Find(ctx, bson.M{"guild_id": guildID})
}

// Generator returns the generator for a channel, or nil if the channel is not one
func (s *TempVCService) Generator(ctx context.Context, guildID, channelID string) (*models.TempVCGenerator, error) {
	return s.generators.Get(ctx, generatorQuery(guildID, channelID))
}

// SaveGenerator creates or replaces a generator
func (s *TempVCService) SaveGenerator(ctx context.Context, gen models.TempVCGenerator) (*models.TempVCGenerator, error) {
	return s.generators.Set(ctx, generatorQuery(gen.GuildID, gen.GeneratorID), bson.M{
		"vc_user_limit": gen.VCUserLimit,
		"name_template": gen.NameTemplate,
	})
}

// SetUserLimit changes the user limit and returns the generator as it was
// before the change; nil means the generator does not exist
func (s *TempVCService) SetUserLimit(ctx context.Context, guildID, generatorID string, limit int) (*models.TempVCGenerator, error) {
	return s.generators.Swap(ctx, generatorQuery(guildID, generatorID), bson.M{
		"$set": bson.M{"vc_user_limit": limit},
	})
}

// RemoveGenerator deletes a generator
func (s *TempVCService) RemoveGenerator(ctx context.Context, guildID, generatorID string) (bool, error) {
	return s.generators.Delete(ctx, generatorQuery(guildID, generatorID))
}

// Track remembers a generated channel
func (s *TempVCService) Track(ctx context.Context, vc models.TempVC) error {
	_, err := s.channels.Set(ctx, bson.M{"_id": vc.ChannelID}, bson.M{
		"guild_id":     vc.GuildID,
		"owner_id":     vc.OwnerID,
		"generator_id": vc.GeneratorID,
		"created_at":   vc.CreatedAt,
	})
	return err
}

// Tracked returns the record of a generated channel, or nil
func (s *TempVCService) Tracked(ctx context.Context, channelID string) (*models.TempVC, error) {
	return s.channels.Get(ctx, bson.M{"_id": channelID})
}

// Untrack forgets a generated channel
func (s *TempVCService) Untrack(ctx context.Context, channelID string) error {
	_, err := s.channels.Delete(ctx, bson.M{"_id": channelID})
	return err
}
