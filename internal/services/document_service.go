package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yukikurage/flight-docs-api/internal/constants"
	"github.com/yukikurage/flight-docs-api/internal/flightstate"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"github.com/yukikurage/flight-docs-api/internal/repository"
	"github.com/yukikurage/flight-docs-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound      = errors.New("document not found")
	ErrFileRequired          = fmt.Errorf("%w: a file is required", ErrValidationFailed)
	ErrFileTooLarge          = fmt.Errorf("%w: file exceeds the upload limit", ErrValidationFailed)
	ErrUnsupportedFileType   = fmt.Errorf("%w: unsupported file type", ErrValidationFailed)
	ErrDocumentTitleRequired = fmt.Errorf("%w: document title and type are required", ErrValidationFailed)
)

// DocumentService provides business logic for flight documents and their files.
type DocumentService struct {
	documentRepo   repository.DocumentRepository
	flightRepo     repository.FlightRepository
	store          storage.Store
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	documentRepo repository.DocumentRepository,
	flightRepo repository.FlightRepository,
	store storage.Store,
	maxUploadBytes int64,
	logger *zap.Logger,
) *DocumentService {
	if maxUploadBytes <= 0 {
		maxUploadBytes = constants.DefaultMaxUploadBytes
	}
	return &DocumentService{
		documentRepo:   documentRepo,
		flightRepo:     flightRepo,
		store:          store,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(zap.String("service", "document_service")),
	}
}

// FileUpload is an uploaded file body with its client-side name.
type FileUpload struct {
	Name string
	Size int64
	Body io.Reader
}

// ListDocumentsInput represents filters for listing documents.
type ListDocumentsInput struct {
	FlightID     *uint64
	DocumentType string
	Title        string
	CreatedOn    *time.Time
	Page         int
	PageSize     int
}

// ListDocuments returns the documents of flights visible to actor.
func (s *DocumentService) ListDocuments(actor rbac.Actor, input ListDocumentsInput) ([]models.Document, int64, error) {
	scope, err := s.documentScope(actor)
	if err != nil {
		return nil, 0, err
	}

	docs, total, err := s.documentRepo.List(repository.DocumentFilter{
		Scope:        scope,
		FlightID:     input.FlightID,
		DocumentType: strings.TrimSpace(input.DocumentType),
		Title:        strings.TrimSpace(input.Title),
		CreatedOn:    input.CreatedOn,
		Page:         input.Page,
		PageSize:     input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, total, nil
}

// SearchDocuments matches by type, creation day, or flight and title. With
// no criteria nothing is returned.
func (s *DocumentService) SearchDocuments(actor rbac.Actor, input ListDocumentsInput) ([]models.Document, error) {
	if input.FlightID == nil && input.CreatedOn == nil &&
		strings.TrimSpace(input.DocumentType) == "" && strings.TrimSpace(input.Title) == "" {
		return []models.Document{}, nil
	}
	input.Page, input.PageSize = 0, 0
	docs, _, err := s.ListDocuments(actor, input)
	return docs, err
}

// GetDocument returns a document actor may view.
func (s *DocumentService) GetDocument(actor rbac.Actor, id uint64) (*models.Document, error) {
	doc, err := s.findDocument(id, "Creator", "Editor")
	if err != nil {
		return nil, err
	}
	if err := s.check(actor, doc, rbac.CapabilityView); err != nil {
		return nil, err
	}
	return doc, nil
}

// CreateDocumentInput represents parameters to attach a document to a flight.
type CreateDocumentInput struct {
	DocumentType string
	Title        string
	Content      string
	File         *FileUpload
}

// CreateDocument stores the uploaded file and records the document. Flights
// accept documents until they land.
func (s *DocumentService) CreateDocument(ctx context.Context, actor rbac.Actor, flightID uint64, input CreateDocumentInput) (*models.Document, error) {
	if !rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return nil, rbac.ErrNotPermitted
	}

	docType := strings.TrimSpace(input.DocumentType)
	title := strings.TrimSpace(input.Title)
	if docType == "" || title == "" {
		return nil, ErrDocumentTitleRequired
	}
	if input.File == nil {
		return nil, ErrFileRequired
	}
	if err := s.validateFile(input.File); err != nil {
		return nil, err
	}

	flight, err := s.flightRepo.FindByID(flightID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to find flight: %w", err)
	}
	if err := flightstate.CanCreateDocument(flight.Status); err != nil {
		return nil, err
	}

	key, err := s.store.Save(ctx, input.File.Body, input.File.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	doc := &models.Document{
		FlightID:     flight.ID,
		DocumentType: docType,
		Title:        title,
		Content:      input.Content,
		CreatedBy:    actor.UserID,
		FilePath:     key,
		FileName:     input.File.Name,
	}
	if err := s.documentRepo.Create(doc); err != nil {
		s.removeFile(ctx, key)
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	s.logger.Info("document created", zap.Uint64("document_id", doc.ID), zap.Uint64("flight_id", flight.ID))
	return doc, nil
}

// UpdateDocumentInput holds the document fields that may change. Nil fields
// are kept; a non-nil File replaces the stored file.
type UpdateDocumentInput struct {
	DocumentType *string
	Title        *string
	Content      *string
	File         *FileUpload
}

// UpdateDocument edits a document actor may edit and records the editor.
func (s *DocumentService) UpdateDocument(ctx context.Context, actor rbac.Actor, id uint64, input UpdateDocumentInput) (*models.Document, error) {
	doc, err := s.findDocument(id)
	if err != nil {
		return nil, err
	}
	if err := s.check(actor, doc, rbac.CapabilityEdit); err != nil {
		return nil, err
	}

	if input.DocumentType != nil {
		docType := strings.TrimSpace(*input.DocumentType)
		if docType == "" {
			return nil, ErrDocumentTitleRequired
		}
		doc.DocumentType = docType
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrDocumentTitleRequired
		}
		doc.Title = title
	}
	if input.Content != nil {
		doc.Content = *input.Content
	}

	oldKey := ""
	if input.File != nil {
		if err := s.validateFile(input.File); err != nil {
			return nil, err
		}
		key, err := s.store.Save(ctx, input.File.Body, input.File.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to store file: %w", err)
		}
		oldKey = doc.FilePath
		doc.FilePath = key
		doc.FileName = input.File.Name
	}

	now := time.Now()
	editor := actor.UserID
	doc.EditedBy = &editor
	doc.EditedAt = &now

	if err := s.documentRepo.Update(doc); err != nil {
		if input.File != nil {
			s.removeFile(ctx, doc.FilePath)
		}
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	if oldKey != "" {
		s.removeFile(ctx, oldKey)
	}

	return doc, nil
}

// DeleteDocument removes a document and its stored file.
func (s *DocumentService) DeleteDocument(ctx context.Context, actor rbac.Actor, id uint64) error {
	doc, err := s.findDocument(id)
	if err != nil {
		return err
	}
	if err := s.check(actor, doc, rbac.CapabilityDelete); err != nil {
		return err
	}

	if err := s.documentRepo.Delete(doc.ID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if doc.FilePath != "" {
		s.removeFile(ctx, doc.FilePath)
	}

	s.logger.Info("document deleted", zap.Uint64("document_id", doc.ID), zap.Uint64("actor_id", actor.UserID))
	return nil
}

// Download is an open stored file ready to be streamed to a client.
type Download struct {
	Body        io.ReadCloser
	ContentType string
	FileName    string
}

// DownloadDocument opens the stored file of a document actor may view.
// The caller closes Body.
func (s *DocumentService) DownloadDocument(ctx context.Context, actor rbac.Actor, id uint64) (*Download, error) {
	doc, err := s.findDocument(id)
	if err != nil {
		return nil, err
	}
	if err := s.check(actor, doc, rbac.CapabilityView); err != nil {
		return nil, err
	}
	if doc.FilePath == "" {
		return nil, ErrDocumentNotFound
	}

	body, err := s.store.Open(ctx, doc.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to open stored file: %w", err)
	}

	return &Download{
		Body:        body,
		ContentType: storage.ContentType(doc.FileName),
		FileName:    doc.FileName,
	}, nil
}

// SetCanEdit opens or closes a document to edits by the flight roster.
func (s *DocumentService) SetCanEdit(actor rbac.Actor, id uint64, canEdit bool) (*models.Document, error) {
	doc, err := s.findDocument(id)
	if err != nil {
		return nil, err
	}
	if err := s.check(actor, doc, rbac.CapabilityToggleEditable); err != nil {
		return nil, err
	}

	doc.CanEdit = canEdit
	if err := s.documentRepo.Update(doc); err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return doc, nil
}

func (s *DocumentService) check(actor rbac.Actor, doc *models.Document, capability rbac.Capability) error {
	onRoster, err := s.flightRepo.IsRosterMember(doc.FlightID, actor.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve roster: %w", err)
	}

	access := rbac.DocumentAccess{
		Actor:    actor,
		Document: doc.Facts(),
		OnRoster: onRoster,
	}
	return access.Check(capability)
}

func (s *DocumentService) documentScope(actor rbac.Actor) (rbac.Scope, error) {
	if rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return rbac.DocumentScope(actor, nil), nil
	}
	ids, err := s.flightRepo.RosterFlightIDs(actor.UserID)
	if err != nil {
		return rbac.Scope{}, fmt.Errorf("failed to resolve roster: %w", err)
	}
	return rbac.DocumentScope(actor, ids), nil
}

func (s *DocumentService) validateFile(file *FileUpload) error {
	if file.Body == nil || strings.TrimSpace(file.Name) == "" {
		return ErrFileRequired
	}
	if file.Size > s.maxUploadBytes {
		return ErrFileTooLarge
	}
	if !storage.Allowed(file.Name) {
		return ErrUnsupportedFileType
	}
	return nil
}

func (s *DocumentService) findDocument(id uint64, preload ...string) (*models.Document, error) {
	doc, err := s.documentRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return doc, nil
}

func (s *DocumentService) removeFile(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to remove stored file", zap.String("path", key), zap.Error(err))
	}
}
