package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/flight-docs-api/internal/constants"
	apierrors "github.com/yukikurage/flight-docs-api/internal/errors"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"github.com/yukikurage/flight-docs-api/internal/services"
)

// DocumentFinder loads a document on behalf of an actor.
type DocumentFinder interface {
	GetDocument(actor rbac.Actor, id uint64) (*models.Document, error)
}

// RequireDocumentAccess loads the document named by the :id parameter if the
// actor may view it
func RequireDocumentAccess(documents DocumentFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		documentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid document ID")
			c.Abort()
			return
		}

		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		doc, err := documents.GetDocument(actor, documentID)
		if err != nil {
			abortWithAccessError(c, err, services.ErrDocumentNotFound, "Document not found")
			return
		}

		c.Set(constants.ContextKeyDocument, doc)
		c.Next()
	}
}

// GetDocument retrieves the document loaded by RequireDocumentAccess
func GetDocument(c *gin.Context) (*models.Document, bool) {
	v, exists := c.Get(constants.ContextKeyDocument)
	if !exists {
		return nil, false
	}
	doc, ok := v.(*models.Document)
	return doc, ok
}
