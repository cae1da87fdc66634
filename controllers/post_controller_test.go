package controllers

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogsterhq/blogster/models"
)

func TestCreatePostRequiresSession(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	w := doPost(r, "/create-post", postValues("Hello"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreatePostRequiresAdmin(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	cookie := signup(t, r, "reader@example.com")

	w := doPost(r, "/create-post", postValues("Hello"), cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestAdminCreatesPost(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	cookie := signup(t, r, "admin@example.com")

	w := doPost(r, "/create-post", postValues("Hello"), cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var post models.Post
	require.NoError(t, db.First(&post, "title = ?", "Hello").Error)
	assert.Equal(t, "a subtitle", post.Subtitle)
	assert.Nil(t, post.EditedAt)

	// Post dates carry day granularity only.
	assert.Equal(t, 0, post.CreatedAt.Hour())
	assert.Equal(t, 0, post.CreatedAt.Minute())
}

func TestDuplicateTitleConflicts(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	cookie := signup(t, r, "admin@example.com")

	require.Equal(t, http.StatusFound, doPost(r, "/create-post", postValues("Hello"), cookie).Code)

	w := doPost(r, "/create-post", postValues("Hello"), cookie)
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdatePostStampsEditDate(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	cookie := signup(t, r, "admin@example.com")
	require.Equal(t, http.StatusFound, doPost(r, "/create-post", postValues("Hello"), cookie).Code)

	var post models.Post
	require.NoError(t, db.First(&post, "title = ?", "Hello").Error)

	w := doPost(r, "/update-post/1", postValues("Hello v2"), cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/post/1", w.Header().Get("Location"))

	require.NoError(t, db.First(&post, post.ID).Error)
	assert.Equal(t, "Hello v2", post.Title)
	require.NotNil(t, post.EditedAt)
	assert.WithinDuration(t, time.Now(), *post.EditedAt, 24*time.Hour)
}

func TestUpdateMissingPostRedirects(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	cookie := signup(t, r, "admin@example.com")

	w := doPost(r, "/update-post/9999", postValues("Ghost"), cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestShowMissingPostRedirects(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	w := doGet(r, "/post/424242")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestDeleteRemovesPostAndComments(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	admin := signup(t, r, "admin@example.com")
	require.Equal(t, http.StatusFound, doPost(r, "/create-post", postValues("Hello"), admin).Code)

	reader := signup(t, r, "reader@example.com")
	w := doPost(r, "/post/1", url.Values{"comment": {"nice one"}}, reader)
	require.Equal(t, http.StatusFound, w.Code)

	del := doGet(r, "/delete/1", admin)
	require.Equal(t, http.StatusFound, del.Code)
	assert.Equal(t, "/", del.Header().Get("Location"))

	var posts, comments int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.EqualValues(t, 0, posts)
	assert.EqualValues(t, 0, comments)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	admin := signup(t, r, "admin@example.com")
	require.Equal(t, http.StatusFound, doPost(r, "/create-post", postValues("Hello"), admin).Code)

	reader := signup(t, r, "reader@example.com")
	w := doGet(r, "/delete/1", reader)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCommentRequiresSession(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	admin := signup(t, r, "admin@example.com")
	require.Equal(t, http.StatusFound, doPost(r, "/create-post", postValues("Hello"), admin).Code)

	w := doPost(r, "/post/1", url.Values{"comment": {"drive-by"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCommentIsSanitized(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	admin := signup(t, r, "admin@example.com")
	require.Equal(t, http.StatusFound, doPost(r, "/create-post", postValues("Hello"), admin).Code)

	reader := signup(t, r, "reader@example.com")
	w := doPost(r, "/post/1", url.Values{"comment": {"<script>alert(1)</script>well said"}}, reader)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/post/1", w.Header().Get("Location"))

	var comment models.Comment
	require.NoError(t, db.First(&comment).Error)
	assert.NotContains(t, comment.Content, "<script>")
	assert.Contains(t, comment.Content, "well said")
}

func TestCommentOnMissingPostRedirects(t *testing.T) {
	db := testDB(t)
	r := testRouter(db, nil)

	reader := signup(t, r, "reader@example.com")
	w := doPost(r, "/post/9999", url.Values{"comment": {"into the void"}}, reader)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}
