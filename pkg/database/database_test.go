package database

import (
	"context"
	"errors"
	"testing"

	"github.com/PancyStudios/MaBotGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOfflineDatabase(t *testing.T) {
	db := NewDatabase()
	assert.False(t, db.Connected())
	assert.Nil(t, db.GetCollection("guilds"))

	_, err := db.Ping(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)

	status, ok := db.GetStatus(context.Background())
	assert.False(t, ok)
	assert.Contains(t, status, "Desconectado")

	var nilDB *Database
	assert.False(t, nilDB.Connected())
}

func TestGenerateCacheKeyIsDeterministic(t *testing.T) {
	dm := NewDataManager[models.GuildSettings]("guilds", NewDatabase())
	a := dm.generateCacheKey(bson.M{"guild_id": "1", "generator_id": "2"})
	b := dm.generateCacheKey(bson.M{"generator_id": "2", "guild_id": "1"})
	assert.Equal(t, a, b)
	assert.Equal(t, "guilds:{generator_id=2,guild_id=1}", a)
}

func TestOfflineWritesAreQueued(t *testing.T) {
	db := NewDatabase()
	dm := NewDataManager[models.GuildSettings]("guilds", db)
	ctx := context.Background()

	res, err := dm.Set(ctx, bson.M{"_id": "1"}, bson.M{"prefix": "?"})
	require.NoError(t, err)
	assert.Nil(t, res)

	deleted, err := dm.Delete(ctx, bson.M{"_id": "1"})
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = dm.Insert(ctx, &models.GuildSettings{ID: "2"})
	require.NoError(t, err)

	assert.Equal(t, 3, db.PendingWrites())
}

func TestOfflineReadsFail(t *testing.T) {
	dm := NewDataManager[models.GuildSettings]("guilds", NewDatabase())
	ctx := context.Background()

	_, err := dm.Get(ctx, bson.M{"_id": "1"})
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = dm.Find(ctx, bson.M{})
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = dm.Count(ctx, bson.M{})
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestOfflineReadServesCachedDocument(t *testing.T) {
	dm := NewDataManager[models.GuildSettings]("guilds", NewDatabase())
	query := bson.M{"_id": "1"}
	dm.remember(dm.generateCacheKey(query), &models.GuildSettings{ID: "1", Prefix: "!"})

	got, err := dm.Get(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, "!", got.Prefix)

	dm.Invalidate(query)
	assert.Equal(t, 0, dm.CacheSize())
}

func TestWarningsPipeline(t *testing.T) {
	p := warningsPipeline("g", "u", nil, 6)
	require.Len(t, p, 4)
	assert.Equal(t, "$match", p[0][0].Key)
	assert.Equal(t, bson.D{{Key: "user_id", Value: "u"}, {Key: "guild_id", Value: "g"}}, p[0][0].Value)
	assert.Equal(t, "$sort", p[1][0].Key)
	assert.Equal(t, bson.D{{Key: "_id", Value: -1}}, p[1][0].Value)
	assert.Equal(t, "$limit", p[2][0].Key)
	assert.Equal(t, 6, p[2][0].Value)
	assert.Equal(t, "$project", p[3][0].Key)

	oid := primitive.NewObjectID()
	p = warningsPipeline("g", "u", &oid, 6)
	match := p[0][0].Value.(bson.D)
	require.Len(t, match, 3)
	assert.Equal(t, "_id", match[2].Key)
	assert.Equal(t, bson.D{{Key: "$lt", Value: oid}}, match[2].Value)
}

func TestPageOf(t *testing.T) {
	views := []models.WarningView{{ID: "c"}, {ID: "b"}, {ID: "a"}}

	page := pageOf(views, 2)
	assert.Len(t, page.Warnings, 2)
	assert.Equal(t, "b", page.NextCursor)
	assert.True(t, page.HasMore())

	page = pageOf(views, 3)
	assert.Len(t, page.Warnings, 3)
	assert.False(t, page.HasMore())
}

func TestWarningServiceRejectsBadIDs(t *testing.T) {
	s := NewWarningService(NewDatabase())
	ctx := context.Background()

	_, err := s.Remove(ctx, "g", "not-an-id")
	assert.True(t, errors.Is(err, ErrInvalidWarningID))

	_, err = s.List(ctx, "g", "u", "zzz", 5)
	assert.True(t, errors.Is(err, ErrInvalidWarningID))
}
