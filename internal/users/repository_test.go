package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/techlab/challenge-backend/internal/database"
	"github.com/techlab/challenge-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenGorm("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, repo *GormRepository, username, email string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: email, Password: "hash", Profile: models.ProfileStandard}
	require.NoError(t, repo.Create(context.Background(), u))
	require.NotEmpty(t, u.ID)
	return u
}

func TestGormRepository_FindActiveByIDAttachesContent(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRepository(db)
	u := seedUser(t, repo, "alice", "alice@x.com")

	require.NoError(t, db.Create(&models.Post{ID: "p1", UserID: u.ID, Title: "hello"}).Error)
	require.NoError(t, db.Create(&models.Comment{ID: "c1", UserID: u.ID, PostID: "p1", Body: "first"}).Error)

	got, err := repo.FindActiveByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	require.Len(t, got.Posts, 1)
	assert.Equal(t, "hello", got.Posts[0].Title)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "p1", got.Comments[0].PostID)
}

func TestGormRepository_FindActiveByIDMissing(t *testing.T) {
	repo := NewGormRepository(newTestDB(t))
	_, err := repo.FindActiveByID(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGormRepository_FindActiveByIdentifier(t *testing.T) {
	repo := NewGormRepository(newTestDB(t))
	ctx := context.Background()
	u := seedUser(t, repo, "alice", "alice@x.com")

	byName, err := repo.FindActiveByIdentifier(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := repo.FindActiveByIdentifier(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.FindActiveByIdentifier(ctx, "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGormRepository_IdentifierPrefersUsername(t *testing.T) {
	repo := NewGormRepository(newTestDB(t))
	bob := seedUser(t, repo, "bob", "shared")
	carol := seedUser(t, repo, "shared", "carol@x.com")

	got, err := repo.FindActiveByIdentifier(context.Background(), "shared")
	require.NoError(t, err)
	assert.Equal(t, carol.ID, got.ID)
	assert.NotEqual(t, bob.ID, got.ID)
}

func TestGormRepository_SoftDeleteHidesUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRepository(db)
	ctx := context.Background()
	u := seedUser(t, repo, "alice", "alice@x.com")

	require.NoError(t, repo.SoftDelete(ctx, u.ID))

	_, err := repo.FindActiveByID(ctx, u.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindActiveByIdentifier(ctx, "alice")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, repo.SoftDelete(ctx, u.ID), ErrNotFound)

	// row is still there, only flagged
	var raw models.User
	require.NoError(t, db.Unscoped().Where("id = ?", u.ID).First(&raw).Error)
	assert.True(t, raw.DeletedAt.Valid)
}

func TestGormRepository_UniqueAmongActive(t *testing.T) {
	repo := NewGormRepository(newTestDB(t))
	ctx := context.Background()
	first := seedUser(t, repo, "alice", "alice@x.com")

	dup := &models.User{Username: "alice", Email: "other@x.com", Password: "hash", Profile: models.ProfileStandard}
	require.Error(t, repo.Create(ctx, dup))

	dupEmail := &models.User{Username: "other", Email: "alice@x.com", Password: "hash", Profile: models.ProfileStandard}
	require.Error(t, repo.Create(ctx, dupEmail))

	require.NoError(t, repo.SoftDelete(ctx, first.ID))
	reused := seedUser(t, repo, "alice", "alice@x.com")
	assert.NotEqual(t, first.ID, reused.ID)
}

func TestGormRepository_UpdateKeepsAttachedContent(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormRepository(db)
	ctx := context.Background()
	u := seedUser(t, repo, "alice", "alice@x.com")
	require.NoError(t, db.Create(&models.Post{ID: "p1", UserID: u.ID, Title: "hello"}).Error)

	loaded, err := repo.FindActiveByID(ctx, u.ID)
	require.NoError(t, err)
	loaded.Email = "x"
	loaded.Posts[0].Title = "changed locally"
	require.NoError(t, repo.Update(ctx, loaded))

	again, err := repo.FindActiveByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", again.Email)
	assert.Equal(t, "alice", again.Username)
	require.Len(t, again.Posts, 1)
	assert.Equal(t, "hello", again.Posts[0].Title)
}

func TestGormRepository_UpdateConflictFails(t *testing.T) {
	repo := NewGormRepository(newTestDB(t))
	ctx := context.Background()
	seedUser(t, repo, "alice", "alice@x.com")
	bob := seedUser(t, repo, "bob", "bob@x.com")

	bob.Email = "alice@x.com"
	require.Error(t, repo.Update(ctx, bob))
}

func TestGormRepository_UpdateAfterSoftDeleteDoesNotRestore(t *testing.T) {
	repo := NewGormRepository(newTestDB(t))
	ctx := context.Background()
	u := seedUser(t, repo, "alice", "alice@x.com")

	fetched, err := repo.FindActiveByID(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(ctx, u.ID))

	fetched.Email = "x"
	require.ErrorIs(t, repo.Update(ctx, fetched), ErrNotFound)

	_, err = repo.FindActiveByID(ctx, u.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindActiveByIdentifier(ctx, "x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGormRepository_UpdateUnknownIDIsNotFound(t *testing.T) {
	repo := NewGormRepository(newTestDB(t))
	ghost := &models.User{ID: "ghost", Username: "ghost", Email: "ghost@x.com", Password: "hash", Profile: models.ProfileStandard}

	require.ErrorIs(t, repo.Update(context.Background(), ghost), ErrNotFound)
	_, err := repo.FindActiveByID(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestServiceOverGorm_EndToEnd(t *testing.T) {
	repo := NewGormRepository(newTestDB(t))
	svc := NewService(repo, fakeHasher{})
	ctx := context.Background()

	u, err := svc.Create(ctx, "alice", "alice@x.com", "pw", models.ProfileStandard)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, u.ID, Patch{Email: strp("x")})
	require.NoError(t, err)
	assert.Equal(t, "x", updated.Email)

	snapshot, err := svc.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", snapshot.Email)

	_, err = svc.FindOne(ctx, u.ID)
	require.Error(t, err)
}
