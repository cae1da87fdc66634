// Package forms declares the request payloads for every user-facing action
// together with their validation constraints. Each form is validated through
// the binding tags; Validate collects field-level messages for re-prompting.
package forms

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// LoginForm authenticates an existing account.
type LoginForm struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

// SignupForm registers a new account. Password confirmation is checked by the
// eqfield constraint before any user row is written.
type SignupForm struct {
	Email           string `form:"email" json:"email" binding:"required,email"`
	FirstName       string `form:"first_name" json:"first_name" binding:"required"`
	LastName        string `form:"last_name" json:"last_name" binding:"required"`
	Password        string `form:"password" json:"password" binding:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" binding:"required,eqfield=Password"`
}

// PostForm creates or updates a post. All fields are required and the image
// reference must be a well-formed URL.
type PostForm struct {
	Title    string `form:"title" json:"title" binding:"required"`
	Subtitle string `form:"subtitle" json:"subtitle" binding:"required"`
	ImgURL   string `form:"img_url" json:"img_url" binding:"required,url"`
	Content  string `form:"content" json:"content" binding:"required"`
}

// CommentForm submits a reply on a post.
type CommentForm struct {
	Comment string `form:"comment" json:"comment" binding:"required"`
}

// ContactForm relays a message to the operator mailbox. The phone number must
// be exactly ten digits.
type ContactForm struct {
	Name    string `form:"name" json:"name" binding:"required"`
	Email   string `form:"email" json:"email" binding:"required,email"`
	Phone   string `form:"phone" json:"phone" binding:"required,phone10"`
	Message string `form:"message" json:"message" binding:"required"`
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("phone10", phone10)
	}
}

// phone10 accepts exactly ten ASCII digits.
func phone10(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Bind populates the form from the request (JSON or urlencoded) and returns
// field-level validation messages keyed by field name, or nil when valid.
func Bind(ctx *gin.Context, form any) map[string]string {
	if err := ctx.ShouldBind(form); err != nil {
		return fieldErrors(err)
	}
	return nil
}

// fieldErrors converts a binding error into per-field messages.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_form"] = "malformed request payload"
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "this field is required"
		case "email":
			out[field] = "must be a valid email address"
		case "url":
			out[field] = "must be a valid URL"
		case "min":
			out[field] = "must be at least " + fe.Param() + " characters"
		case "eqfield":
			out[field] = "passwords do not match"
		case "phone10":
			out[field] = "must be exactly 10 digits"
		default:
			out[field] = "invalid value"
		}
	}
	return out
}
