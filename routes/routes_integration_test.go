package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"library-api/app"
	"library-api/cache"
	"library-api/db"
	"library-api/models"
	"library-api/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Exercises the wired router against a real Postgres and redis. Set
// TEST_DATABASE_URL and TEST_REDIS_ADDR to enable.
func openTestApp(t *testing.T) *app.App {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	addr := os.Getenv("TEST_REDIS_ADDR")
	if dsn == "" || addr == "" {
		t.Skip("TEST_DATABASE_URL or TEST_REDIS_ADDR not set, skipping router integration tests")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	for _, table := range []string{models.ReviewTable, models.LoanTable, models.UserTable, models.BookTable} {
		require.NoError(t, gdb.Exec("DELETE FROM "+table).Error)
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })

	gin.SetMode(gin.TestMode)
	a := &app.App{
		Router: gin.New(),
		DB:     gdb,
		RDB:    rdb,
		Repo:   db.NewRepo(gdb),
		Stats:  cache.NewStatsCache(rdb, time.Minute),
	}
	RegisterRoutes(a.Router, a)
	return a
}

func do(t *testing.T, a *app.App, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func warmStats(t *testing.T, a *app.App) {
	t.Helper()
	require.NoError(t, a.Stats.Set(context.Background(), &db.Statistics{TotalBooks: -1}))
}

func statsCached(t *testing.T, a *app.App) bool {
	t.Helper()
	s, err := a.Stats.Get(context.Background())
	require.NoError(t, err)
	return s != nil
}

// Every endpoint that can shift a statistics figure must drop the
// cached snapshot, including loan extension and the review mutations.
func TestMutationsInvalidateStatsCache(t *testing.T) {
	a := openTestApp(t)
	ctx := context.Background()

	bk := &models.Book{ID: uuid.NewString(), Title: "Cached book", Author: "A", Year: 2000}
	require.NoError(t, a.Repo.CreateBook(ctx, bk))
	u := &models.User{ID: uuid.NewString(), Name: "Reader", Email: "reader@example.com", Role: models.RoleStudent, Active: true}
	require.NoError(t, a.Repo.CreateUser(ctx, u))

	due := time.Now().UTC().AddDate(0, 0, 7).Format(validation.DateLayout)
	w := do(t, a, http.MethodPost, "/api/loans",
		`{"bookId":"`+bk.ID+`","userId":"`+u.ID+`","expectedReturnDate":"`+due+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var loan struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loan))

	later := time.Now().UTC().AddDate(0, 0, 14).Format(validation.DateLayout)
	warmStats(t, a)
	w = do(t, a, http.MethodPut, "/api/loans/"+loan.ID, `{"expectedReturnDate":"`+later+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, statsCached(t, a), "extending a loan must drop the cached statistics")

	warmStats(t, a)
	w = do(t, a, http.MethodPost, "/api/reviews",
		`{"bookId":"`+bk.ID+`","userId":"`+u.ID+`","rating":5}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.False(t, statsCached(t, a), "creating a review must drop the cached statistics")
	var rv struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rv))

	warmStats(t, a)
	w = do(t, a, http.MethodPut, "/api/reviews/"+rv.ID, `{"rating":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, statsCached(t, a), "updating a review must drop the cached statistics")

	warmStats(t, a)
	w = do(t, a, http.MethodDelete, "/api/reviews/"+rv.ID, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, statsCached(t, a), "deleting a review must drop the cached statistics")
}
