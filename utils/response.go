package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// ValidationFailed re-prompts the submitted form with field-level messages.
func ValidationFailed(ctx *gin.Context, fields map[string]string) {
	Respond(ctx, http.StatusBadRequest, 40000, "validation failed", gin.H{"fields": fields})
}

// RedirectHome sends the client back to the post listing. Missing posts and
// completed mutations both land here.
func RedirectHome(ctx *gin.Context) {
	ctx.Redirect(http.StatusFound, "/")
}
