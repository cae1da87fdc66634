package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogsterhq/blogster/forms"
	"github.com/blogsterhq/blogster/middleware"
	"github.com/blogsterhq/blogster/models"
	"github.com/blogsterhq/blogster/utils"
)

// PostController manages the post lifecycle and comment submission.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// postSummary is the listing shape: the full post row plus its comment count.
type postSummary struct {
	models.Post
	CommentCount int64 `json:"comment_count"`
}

// Index returns every post with its author, newest first.
func (p *PostController) Index(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes("cache:posts:index"); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var posts []models.Post
	if err := p.db.Preload("User").Order("created_at DESC").Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list posts")
		return
	}

	items := make([]postSummary, 0, len(posts))
	for _, post := range posts {
		var count int64
		if err := p.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count comments")
			return
		}
		post.Comments = nil
		items = append(items, postSummary{Post: post, CommentCount: count})
	}

	payload := gin.H{"posts": items}
	utils.CacheSetJSON("cache:posts:index", utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// Show returns a single post with its comments. A nonexistent identifier
// redirects to the listing instead of erroring.
func (p *PostController) Show(ctx *gin.Context) {
	postID := ctx.Param("id")

	if b, ok := utils.CacheGetBytes("cache:post:detail:" + postID); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var post models.Post
	err := p.db.Preload("User").Preload("Comments").Preload("Comments.User").First(&post, "id = ?", postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RedirectHome(ctx)
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load post")
		return
	}

	payload := gin.H{"post": post}
	utils.CacheSetJSON("cache:post:detail:"+postID, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// CreateForm describes the empty post form for the editor page.
func (p *PostController) CreateForm(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"form": "post", "post": nil})
}

// Create publishes a new post owned by the current admin. The unique index on
// posts.title turns concurrent same-title submissions into a conflict.
func (p *PostController) Create(ctx *gin.Context) {
	var form forms.PostForm
	if fields := forms.Bind(ctx, &form); fields != nil {
		utils.ValidationFailed(ctx, fields)
		return
	}

	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	post := models.Post{
		UserID:    userID,
		Title:     strings.TrimSpace(form.Title),
		Subtitle:  strings.TrimSpace(form.Subtitle),
		ImgURL:    strings.TrimSpace(form.ImgURL),
		Content:   utils.Sanitize(form.Content),
		CreatedAt: startOfDay(time.Now()),
	}

	if err := p.db.Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40902, "a post with this title already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to create post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.RedirectHome(ctx)
}

// EditForm loads a post into the edit form. A missing post redirects to the listing.
func (p *PostController) EditForm(ctx *gin.Context) {
	var post models.Post
	if err := p.db.First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RedirectHome(ctx)
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{"form": "post", "post": post})
}

// Update overwrites the mutable fields of an existing post and stamps the edit
// date. A missing post redirects to the listing.
func (p *PostController) Update(ctx *gin.Context) {
	postID := ctx.Param("id")

	var post models.Post
	if err := p.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RedirectHome(ctx)
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load post")
		return
	}

	var form forms.PostForm
	if fields := forms.Bind(ctx, &form); fields != nil {
		utils.ValidationFailed(ctx, fields)
		return
	}

	now := startOfDay(time.Now())
	post.Title = strings.TrimSpace(form.Title)
	post.Subtitle = strings.TrimSpace(form.Subtitle)
	post.ImgURL = strings.TrimSpace(form.ImgURL)
	post.Content = utils.Sanitize(form.Content)
	post.EditedAt = &now

	if err := p.db.Save(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40902, "a post with this title already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to update post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	ctx.Redirect(http.StatusFound, "/post/"+postID)
}

// Delete removes a post and its comments in one transaction, then returns to
// the listing. Deleting an already-deleted post just redirects.
func (p *PostController) Delete(ctx *gin.Context) {
	postID := ctx.Param("id")

	var post models.Post
	if err := p.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RedirectHome(ctx)
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to load post")
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	utils.RedirectHome(ctx)
}

// CreateComment attaches a comment from the current user to the viewed post,
// then sends the client back to the post so the comment is visible.
func (p *PostController) CreateComment(ctx *gin.Context) {
	postID := ctx.Param("id")

	var post models.Post
	if err := p.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RedirectHome(ctx)
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to load post")
		return
	}

	var form forms.CommentForm
	if fields := forms.Bind(ctx, &form); fields != nil {
		utils.ValidationFailed(ctx, fields)
		return
	}

	content := utils.Sanitize(strings.TrimSpace(form.Comment))
	if content == "" {
		utils.ValidationFailed(ctx, map[string]string{"comment": "this field is required"})
		return
	}

	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}

	comment := models.Comment{
		PostID:  post.ID,
		UserID:  userID,
		Content: content,
	}
	if err := p.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create comment")
		return
	}

	utils.InvalidateByPrefix("cache:post:detail:" + postID)
	ctx.Redirect(http.StatusFound, "/post/"+postID)
}

// startOfDay truncates a timestamp to day granularity, matching the coarse
// creation/edit dates shown on posts.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
