package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func TestUserStore_CreateAndVerify(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	cafes := NewCafeStore(db)

	cafe, err := cafes.Create("corner-brew", "Corner Brew")
	require.NoError(t, err)

	user, err := users.Create(CreateUserParams{
		CafeID:   &cafe.ID,
		Email:    "owner@test",
		Username: "owner",
		Password: "secret1",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", user.Password, "password is stored hashed")

	assert.True(t, users.VerifyPassword(user, "secret1"))
	assert.False(t, users.VerifyPassword(user, "wrong"))

	found, err := users.FindByEmail("owner@test")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestUserStore_CreateValidation(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	cafes := NewCafeStore(db)

	cafe, err := cafes.Create("corner-brew", "Corner Brew")
	require.NoError(t, err)

	_, err = users.Create(CreateUserParams{
		CafeID: &cafe.ID, Email: "a@test", Username: "a", Password: "x", Role: "janitor",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = users.Create(CreateUserParams{
		Email: "a@test", Username: "a", Password: "x", Role: model.RoleUser,
	})
	assert.ErrorIs(t, err, ErrMissingCafe)

	// Super-admins are the only users without a cafe binding
	_, err = users.Create(CreateUserParams{
		Email: "super@test", Username: "super", Password: "x", Role: model.RoleSuperAdmin,
	})
	require.NoError(t, err)
}

func TestUserStore_DuplicateIdentity(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)
	cafes := NewCafeStore(db)

	cafe, err := cafes.Create("corner-brew", "Corner Brew")
	require.NoError(t, err)

	params := CreateUserParams{
		CafeID: &cafe.ID, Email: "owner@test", Username: "owner", Password: "x", Role: model.RoleAdmin,
	}
	_, err = users.Create(params)
	require.NoError(t, err)

	_, err = users.Create(params)
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestCafeStore_SlugRules(t *testing.T) {
	db := testDB(t)
	cafes := NewCafeStore(db)

	cafe, err := cafes.Create("  Corner-Brew  ", "Corner Brew")
	require.NoError(t, err)
	assert.Equal(t, "corner-brew", cafe.Slug)

	_, err = cafes.Create("corner-brew", "Another")
	assert.ErrorIs(t, err, ErrDuplicateSlug)

	for _, slug := range []string{"", "has space", "UPPER_CASE!", "é-accent"} {
		_, err := cafes.Create(slug, "X")
		assert.ErrorIs(t, err, ErrInvalidSlug, "slug %q", slug)
	}
}

func TestCafeStore_LookupBySlugIsCaseInsensitive(t *testing.T) {
	db := testDB(t)
	cafes := NewCafeStore(db)

	created, err := cafes.Create("corner-brew", "Corner Brew")
	require.NoError(t, err)

	found, err := cafes.GetBySlug("Corner-Brew")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = cafes.GetBySlug("missing")
	assert.ErrorIs(t, err, ErrCafeNotFound)
}

func TestCafeStore_UpdateMissingCafe(t *testing.T) {
	db := testDB(t)
	cafes := NewCafeStore(db)

	_, err := cafes.Update(99, map[string]interface{}{"name": "X"})
	assert.ErrorIs(t, err, ErrCafeNotFound)
}

func TestCafeStore_CreateSeedsDefaultSettings(t *testing.T) {
	db := testDB(t)
	cafes := NewCafeStore(db)

	cafe, err := cafes.Create("corner-brew", "Corner Brew")
	require.NoError(t, err)

	settings, err := cafes.Settings(cafe.ID)
	require.NoError(t, err)
	assert.Equal(t, cafe.ID, settings.CafeID)
	assert.True(t, settings.AdminCanManageSettings.Bool())
	assert.False(t, settings.ReceptionShowSettingsTab.Bool())
}
