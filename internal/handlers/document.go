package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/flight-docs-api/internal/constants"
	"github.com/yukikurage/flight-docs-api/internal/dto"
	apierrors "github.com/yukikurage/flight-docs-api/internal/errors"
	"github.com/yukikurage/flight-docs-api/internal/middleware"
	"github.com/yukikurage/flight-docs-api/internal/services"
	"github.com/yukikurage/flight-docs-api/internal/utils"
)

type DocumentHandler struct {
	documentService *services.DocumentService
}

func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// ListDocuments returns documents of flights visible to the current user
// Can filter by flight_id, document_type, title and created_date
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	input, ok := documentQuery(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	docs, total, err := h.documentService.ListDocuments(actor, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentListResponse(docs, params.Page, params.Limit, total))
}

// SearchDocuments is ListDocuments without pagination; at least one filter is needed
func (h *DocumentHandler) SearchDocuments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	input, ok := documentQuery(c)
	if !ok {
		return
	}

	docs, err := h.documentService.SearchDocuments(actor, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": dto.ToDocumentListItemDTOs(docs)})
}

// GetDocument returns the document loaded by RequireDocumentAccess
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, ok := middleware.GetDocument(c)
	if !ok {
		apierrors.InternalError(c, "Document not loaded")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentDTO(*doc))
}

// CreateDocument attaches a document to a flight from a multipart form
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	flightID, ok := parseIDParam(c, "flightId", "flight ID")
	if !ok {
		return
	}

	upload, closeFile, ok := formFile(c)
	if !ok {
		return
	}
	defer closeFile()

	doc, err := h.documentService.CreateDocument(c.Request.Context(), actor, flightID, services.CreateDocumentInput{
		DocumentType: c.PostForm("document_type"),
		Title:        c.PostForm("title"),
		Content:      c.PostForm("content"),
		File:         upload,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToDocumentDTO(*doc))
}

// UpdateDocument changes the fields present in the multipart form and
// replaces the file when one is sent
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "id", "document ID")
	if !ok {
		return
	}

	upload, closeFile, ok := formFile(c)
	if !ok {
		return
	}
	defer closeFile()

	doc, err := h.documentService.UpdateDocument(c.Request.Context(), actor, documentID, services.UpdateDocumentInput{
		DocumentType: optionalPostForm(c, "document_type"),
		Title:        optionalPostForm(c, "title"),
		Content:      optionalPostForm(c, "content"),
		File:         upload,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentDTO(*doc))
}

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "id", "document ID")
	if !ok {
		return
	}

	if err := h.documentService.DeleteDocument(c.Request.Context(), actor, documentID); err != nil {
		respondError(c, err)
		return
	}

	noContent(c)
}

// DownloadDocument streams the stored file
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "id", "document ID")
	if !ok {
		return
	}

	dl, err := h.documentService.DownloadDocument(c.Request.Context(), actor, documentID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer dl.Body.Close()

	c.DataFromReader(http.StatusOK, -1, dl.ContentType, dl.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", dl.FileName),
	})
}

// SetCanEdit opens or closes the document to roster edits
func (h *DocumentHandler) SetCanEdit(c *gin.Context) {
	type SetCanEditRequest struct {
		CanEdit *bool `json:"can_edit" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "id", "document ID")
	if !ok {
		return
	}

	var req SetCanEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	doc, err := h.documentService.SetCanEdit(actor, documentID, *req.CanEdit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentDTO(*doc))
}

func documentQuery(c *gin.Context) (services.ListDocumentsInput, bool) {
	flightID, ok := optionalUintQuery(c, "flight_id")
	if !ok {
		return services.ListDocumentsInput{}, false
	}
	createdOn, ok := optionalDateQuery(c, "created_date")
	if !ok {
		return services.ListDocumentsInput{}, false
	}
	return services.ListDocumentsInput{
		FlightID:     flightID,
		DocumentType: c.Query("document_type"),
		Title:        c.Query("title"),
		CreatedOn:    createdOn,
	}, true
}

// formFile opens the uploaded file if the form carries one. A missing file
// yields a nil upload.
func formFile(c *gin.Context) (*services.FileUpload, func(), bool) {
	header, err := c.FormFile(constants.UploadFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, true
		}
		apierrors.BadRequest(c, "Invalid multipart form")
		return nil, nil, false
	}

	file, err := header.Open()
	if err != nil {
		apierrors.BadRequest(c, "Invalid uploaded file")
		return nil, nil, false
	}
	return toUpload(header, file), func() { file.Close() }, true
}

func toUpload(header *multipart.FileHeader, file multipart.File) *services.FileUpload {
	return &services.FileUpload{
		Name: header.Filename,
		Size: header.Size,
		Body: file,
	}
}

func optionalPostForm(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}
