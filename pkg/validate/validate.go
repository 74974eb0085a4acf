// Package validate implements the request validation pipeline. Each step
// either passes silently or aborts the request with a 400 and a
// ValidationError, so a request that fails validation never reaches a store.
package validate

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/cgrycki/workflow-test-backend/pkg/models"
)

// MaxTextFieldLen bounds the textField body parameter.
const MaxTextFieldLen = 10000

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UUIDShaped reports whether s parses as a UUID.
func UUIDShaped(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// EmailShaped reports whether s looks like an email address.
func EmailShaped(s string) bool {
	return emailPattern.MatchString(s)
}

// TextFieldOK reports whether s is a non-empty textField within bounds.
func TextFieldOK(s string) bool {
	return s != "" && len(s) <= MaxTextFieldLen
}

// reject aborts the chain with the first validation failure. Remaining steps
// and the handler do not run.
func reject(c *gin.Context, field, reason string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error": &models.ValidationError{Field: field, Reason: reason},
	})
}

// ParamID validates the :id path parameter.
func ParamID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !UUIDShaped(c.Param("id")) {
			reject(c, "id", "missing_or_malformed")
		}
	}
}

// ParamPackageID validates the :packageId path parameter.
func ParamPackageID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !UUIDShaped(c.Param("packageId")) {
			reject(c, "packageId", "missing_or_malformed")
		}
	}
}

// TextField validates the textField body parameter. The body is bound with
// ShouldBindBodyWith so later steps and the handler can bind it again.
func TextField() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateEventRequest
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			reject(c, "textField", "missing_or_invalid")
			return
		}
		if !TextFieldOK(req.TextField) {
			reject(c, "textField", "missing_or_invalid")
		}
	}
}

// UserEmail validates the userEmail body parameter.
func UserEmail() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateEventRequest
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			reject(c, "userEmail", "missing_or_invalid")
			return
		}
		if !EmailShaped(req.UserEmail) {
			reject(c, "userEmail", "missing_or_invalid")
		}
	}
}
