package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/store"
)

func openTestDB(t *testing.T) *gorm.DB {
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

func seedCafe(t *testing.T, db *gorm.DB, slug string) *model.Cafe {
	t.Helper()
	cafe, err := store.NewCafeStore(db).Create(slug, slug)
	require.NoError(t, err)
	return cafe
}

// newContext builds an echo context with the request context the pipeline
// would have attached: the resolved cafe and, optionally, the principal.
func newContext(t *testing.T, method, target, body string, cafe *model.Cafe, principal *model.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if cafe != nil {
		c.Set("cafe", cafe)
	}
	if principal != nil {
		c.Set("principal", principal)
	}
	c.Set("logger", zap.NewNop())
	return c, rec
}
