package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blogsterhq/blogster/config"
	"github.com/blogsterhq/blogster/forms"
	"github.com/blogsterhq/blogster/utils"
)

// ContactController relays contact-form submissions to the operator mailbox.
type ContactController struct {
	relay *utils.MailRelay
}

// NewContactController creates a ContactController over the given relay.
func NewContactController(relay *utils.MailRelay) *ContactController {
	return &ContactController{relay: relay}
}

// Form describes the contact form.
func (c *ContactController) Form(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"form": "contact", "fields": []string{"name", "email", "phone", "message"}})
}

// Submit validates the submission and relays it by email. Delivery runs on the
// relay worker; the handler waits a bounded time for the outcome so transport
// failures reach the submitter instead of being swallowed.
func (c *ContactController) Submit(ctx *gin.Context) {
	var form forms.ContactForm
	if fields := forms.Bind(ctx, &form); fields != nil {
		utils.ValidationFailed(ctx, fields)
		return
	}

	cfg := config.Get()

	// From and to are both the operator mailbox; the submitter's reply
	// context travels in the body.
	body := fmt.Sprintf(
		"Contact request received\n\nName: %s\nEmail: %s\nPhone: %s\nMessage: %s\n",
		utils.StripHTML(form.Name),
		form.Email,
		form.Phone,
		utils.StripHTML(form.Message),
	)

	job, err := c.relay.Enqueue(cfg.SMTPFrom, "Contact Request received", body)
	if err != nil {
		utils.Error(ctx, http.StatusServiceUnavailable, 50340, "contact relay is busy, please try again later")
		return
	}

	wait := time.Duration(cfg.MailWaitSeconds) * time.Second
	result, resolved := job.Wait(wait)
	switch {
	case resolved && result != nil:
		utils.Error(ctx, http.StatusBadGateway, 50241, "message could not be delivered, please try again later")
	case resolved:
		utils.Success(ctx, gin.H{"message": "message sent"})
	default:
		// Still retrying in the background; report acceptance.
		utils.Respond(ctx, http.StatusAccepted, 0, "message queued", gin.H{"job_id": job.ID})
	}
}
