package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/store"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/config"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/jwtutil"
)

func newAuthHandler(t *testing.T, db *gorm.DB) (*AuthHandler, *store.UserStore, *jwtutil.JWTUtil) {
	t.Helper()
	users := store.NewUserStore(db)
	cafes := store.NewCafeStore(db)
	jwtUtil := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	return NewAuthHandler(users, cafes, jwtUtil), users, jwtUtil
}

func TestLogin_IssuesCafeScopedToken(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	h, users, jwtUtil := newAuthHandler(t, db)

	user, err := users.Create(store.CreateUserParams{
		CafeID:   &cafe.ID,
		Email:    "owner@test",
		Username: "owner",
		Password: "secret1",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	c, rec := newContext(t, http.MethodPost, "/auth/login",
		`{"email":"owner@test","password":"secret1"}`, nil, nil)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := jwtUtil.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	require.NotNil(t, claims.CafeID)
	assert.Equal(t, cafe.ID, *claims.CafeID)
	assert.Equal(t, "corner-brew", claims.CafeSlug)

	reloaded, err := users.FindByID(user.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLoginAt)
}

func TestLogin_WrongPassword(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	h, users, _ := newAuthHandler(t, db)

	_, err := users.Create(store.CreateUserParams{
		CafeID:   &cafe.ID,
		Email:    "owner@test",
		Username: "owner",
		Password: "secret1",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	c, rec := newContext(t, http.MethodPost, "/auth/login",
		`{"email":"owner@test","password":"nope"}`, nil, nil)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CREDENTIALS", resp["code"])
}

func TestLogin_UnknownEmail(t *testing.T) {
	db := openTestDB(t)
	h, _, _ := newAuthHandler(t, db)

	c, rec := newContext(t, http.MethodPost, "/auth/login",
		`{"email":"ghost@test","password":"x"}`, nil, nil)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateUser_BindsToResolvedCafe(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	h, _, _ := newAuthHandler(t, db)

	body := `{"email":"chef@test","username":"chef","password":"secret1","role":"chef"}`
	c, rec := newContext(t, http.MethodPost, "/users", body, cafe, nil)
	require.NoError(t, h.CreateUser(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.NotNil(t, user.CafeID)
	assert.Equal(t, cafe.ID, *user.CafeID)
	assert.Equal(t, model.RoleChef, user.Role)
}

func TestCreateUser_RejectsInvalidRole(t *testing.T) {
	db := openTestDB(t)
	cafe := seedCafe(t, db, "corner-brew")
	h, _, _ := newAuthHandler(t, db)

	body := `{"email":"x@test","username":"x","password":"secret1","role":"janitor"}`
	c, rec := newContext(t, http.MethodPost, "/users", body, cafe, nil)
	require.NoError(t, h.CreateUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
