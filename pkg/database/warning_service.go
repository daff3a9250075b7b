package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrInvalidWarningID is returned for ids that are not ObjectID hex strings
var ErrInvalidWarningID = errors.New("invalid warning id")

// DefaultWarningPageSize is used when List is called with a non-positive limit
const DefaultWarningPageSize = 5

// WarningService stores moderation warnings
type WarningService struct {
	dm *DataManager[models.UserWarning]
}

// NewWarningService creates a WarningService
func NewWarningService(db *Database) *WarningService {
	return &WarningService{
		dm: NewDataManager[models.UserWarning]("warnings", db, DataManagerOptions{}),
	}
}

// Add records a new warning and returns it with its id
func (s *WarningService) Add(ctx context.Context, guildID, userID, moderatorID, reason string) (*models.UserWarning, error) {
	w := &models.UserWarning{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		GuildID:     guildID,
		Reason:      reason,
		ModeratorID: moderatorID,
		CreatedAt:   time.Now(),
	}
	if _, err := s.dm.Insert(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Remove deletes one warning of the guild. It reports whether it existed.
func (s *WarningService) Remove(ctx context.Context, guildID, warningID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(warningID)
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrInvalidWarningID, warningID)
	}
	return s.dm.Delete(ctx, bson.M{"_id": oid, "guild_id": guildID})
}

// DeleteGuild removes every warning stored for a guild
func (s *WarningService) DeleteGuild(ctx context.Context, guildID string) (int64, error) {
	return s.dm.DeleteMany(ctx, bson.M{"guild_id": guildID})
}

// Count returns how many warnings a user has in a guild
func (s *WarningService) Count(ctx context.Context, guildID, userID string) (int64, error) {
	return s.dm.Count(ctx, bson.M{"guild_id": guildID, "user_id": userID})
}

// List returns one page of warnings, newest first. cursor is the id of the
// last warning of the previous page, empty for the first page.
func (s *WarningService) List(ctx context.Context, guildID, userID, cursor string, limit int) (models.WarningPage, error) {
	if limit <= 0 {
		limit = DefaultWarningPageSize
	}

	var after *primitive.ObjectID
	if cursor != "" {
		oid, err := primitive.ObjectIDFromHex(cursor)
		if err != nil {
			return models.WarningPage{}, fmt.Errorf("%w: %s", ErrInvalidWarningID, cursor)
		}
		after = &oid
	}

	var views []models.WarningView
	if err := s.dm.Aggregate(ctx, warningsPipeline(guildID, userID, after, limit+1), &views); err != nil {
		return models.WarningPage{}, err
	}
	return pageOf(views, limit), nil
}

// warningsPipeline fetches one page; limit should be the page size plus one
// so the caller can tell whether another page exists.
func warningsPipeline(guildID, userID string, after *primitive.ObjectID, limit int) mongo.Pipeline {
	match := bson.D{
		{Key: "user_id", Value: userID},
		{Key: "guild_id", Value: guildID},
	}
	if after != nil {
		match = append(match, bson.E{Key: "_id", Value: bson.D{{Key: "$lt", Value: *after}}})
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "id", Value: bson.D{{Key: "$toString", Value: "$_id"}}},
			{Key: "reason", Value: 1},
			{Key: "moderator_id", Value: 1},
			{Key: "created_at", Value: 1},
		}}},
	}
}

func pageOf(views []models.WarningView, limit int) models.WarningPage {
	if len(views) <= limit {
		return models.WarningPage{Warnings: views}
	}
	views = views[:limit]
	return models.WarningPage{Warnings: views, NextCursor: views[len(views)-1].ID}
}
