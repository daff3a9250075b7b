package database

import (
	"context"
	"time"

	"github.com/PancyStudios/MaBotGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

// UserService keeps a record of every user that used the bot
type UserService struct {
	dm *DataManager[models.User]
}

// NewUserService creates a UserService
func NewUserService(db *Database) *UserService {
	return &UserService{
		dm: NewDataManager[models.User]("users", db, DataManagerOptions{MaxCacheSize: 5000}),
	}
}

// Ensure upserts the user; known users are answered from the cache
func (s *UserService) Ensure(ctx context.Context, userID string) (*models.User, error) {
	query := bson.M{"_id": userID}
	if u, ok := s.dm.cached(s.dm.generateCacheKey(query)); ok {
		return u, nil
	}
	return s.dm.Update(ctx, query, bson.M{
		"$setOnInsert": bson.M{"created_at": time.Now()},
	})
}
