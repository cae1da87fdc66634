package controllers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogsterhq/blogster/models"
)

func TestSignupCreatesUserAndSession(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	w := doPost(r, "/signup", signupValues("reader@example.com"))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	sessionCookie(t, w)

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "reader@example.com").Error)
	assert.Equal(t, models.RoleReader, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestSignupNormalizesEmail(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	w := doPost(r, "/signup", signupValues("  Reader@Example.COM "))
	require.Equal(t, http.StatusFound, w.Code)

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "reader@example.com").Error)
}

func TestSignupAdminAllowList(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	signup(t, r, "admin@example.com")

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "admin@example.com").Error)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	signup(t, r, "reader@example.com")

	w := doPost(r, "/signup", signupValues("reader@example.com"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSignupPasswordMismatchRejected(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	values := signupValues("reader@example.com")
	values.Set("confirm_password", "other")
	w := doPost(r, "/signup", values)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestLoginUnknownEmail(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	w := doPost(r, "/login", url.Values{"email": {"nobody@example.com"}, "password": {"whatever"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "email not registered")
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginWrongPassword(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	signup(t, r, "reader@example.com")

	w := doPost(r, "/login", url.Values{"email": {"reader@example.com"}, "password": {"not-it"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "incorrect password")
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginAndMe(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	signup(t, r, "reader@example.com")

	w := doPost(r, "/login", url.Values{"email": {"reader@example.com"}, "password": {"secret1"}})
	require.Equal(t, http.StatusFound, w.Code)
	cookie := sessionCookie(t, w)

	me := doGet(r, "/me", cookie)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "reader@example.com")
}

func TestMeWithoutSession(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	w := doGet(r, "/me")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	cookie := signup(t, r, "reader@example.com")

	w := doGet(r, "/logout", cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// The old token must be rejected after logout.
	me := doGet(r, "/me", cookie)
	assert.Equal(t, http.StatusUnauthorized, me.Code)
}

func TestTamperedSessionRejected(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	cookie := signup(t, r, "reader@example.com")
	cookie.Value += "x"

	w := doGet(r, "/me", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
