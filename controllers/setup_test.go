package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/blogsterhq/blogster/middleware"
	"github.com/blogsterhq/blogster/models"
	"github.com/blogsterhq/blogster/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("SESSION_SECRET", "test-session-secret")
	os.Setenv("ADMIN_EMAILS", "admin@example.com")
	os.Setenv("MAIL_WAIT_SECONDS", "2")
	os.Exit(m.Run())
}

var dbSeq atomic.Int64

// testDB opens a private in-memory database per test. MaxOpenConns is pinned
// to 1 so the whole test sees the same connection.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:controllers_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}))
	return db
}

// testRouter wires the same route/guard layout as the real router, minus the
// access log and rate limiter.
func testRouter(db *gorm.DB, relay *utils.MailRelay) *gin.Engine {
	r := gin.New()

	auth := NewAuthController(db)
	posts := NewPostController(db)

	r.GET("/", posts.Index)
	r.GET("/post/:id", posts.Show)
	r.POST("/signup", auth.Signup)
	r.POST("/login", auth.Login)

	authed := r.Group("/", middleware.AuthRequired())
	authed.GET("/logout", auth.Logout)
	authed.GET("/me", auth.Me)
	authed.POST("/post/:id", posts.CreateComment)

	admin := r.Group("/", middleware.AuthRequired(), middleware.AdminRequired())
	admin.GET("/create-post", posts.CreateForm)
	admin.POST("/create-post", posts.Create)
	admin.GET("/update-post/:id", posts.EditForm)
	admin.POST("/update-post/:id", posts.Update)
	admin.GET("/delete/:id", posts.Delete)

	if relay != nil {
		contact := NewContactController(relay)
		r.GET("/contact", contact.Form)
		r.POST("/contact", contact.Submit)
	}
	return r
}

func doPost(r http.Handler, path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doGet(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == utils.SessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func signupValues(email string) url.Values {
	return url.Values{
		"email":            {email},
		"first_name":       {"Test"},
		"last_name":        {"User"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	}
}

// signup registers the given address and returns the session cookie.
func signup(t *testing.T, r http.Handler, email string) *http.Cookie {
	t.Helper()
	w := doPost(r, "/signup", signupValues(email))
	require.Equal(t, http.StatusFound, w.Code)
	return sessionCookie(t, w)
}

func postValues(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"a subtitle"},
		"img_url":  {"https://cdn.example.com/cover.png"},
		"content":  {"<p>some content</p>"},
	}
}
