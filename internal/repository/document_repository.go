package repository

import (
	"github.com/yukikurage/flight-docs-api/internal/database"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDocumentRepository is a GORM implementation of DocumentRepository
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &GormDocumentRepository{db: db}
}

// Create creates a new document
func (r *GormDocumentRepository) Create(doc *models.Document) error {
	return r.db.Omit(clause.Associations).Create(doc).Error
}

// FindByID finds a document by ID with optional preloading
func (r *GormDocumentRepository) FindByID(id uint64, preload ...string) (*models.Document, error) {
	var doc models.Document
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// List retrieves documents with filtering and pagination
func (r *GormDocumentRepository) List(filter DocumentFilter) ([]models.Document, int64, error) {
	var docs []models.Document

	if filter.Scope.Empty() {
		return []models.Document{}, 0, nil
	}

	query := r.db.Model(&models.Document{}).Scopes(database.VisibleDocuments(filter.Scope))

	if filter.FlightID != nil {
		query = query.Where("documents.flight_id = ?", *filter.FlightID)
	}
	if filter.DocumentType != "" {
		query = query.Where("documents.document_type LIKE ?", "%"+filter.DocumentType+"%")
	}
	if filter.Title != "" {
		query = query.Where("documents.title LIKE ?", "%"+filter.Title+"%")
	}
	if filter.CreatedOn != nil {
		from, to := dayRange(*filter.CreatedOn)
		query = query.Where("documents.created_at >= ? AND documents.created_at < ?", from, to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("documents.created_at DESC, documents.id DESC").Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("Creator").Find(&docs).Error; err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// ListByFlight lists every document of a flight
func (r *GormDocumentRepository) ListByFlight(flightID uint64) ([]models.Document, error) {
	var docs []models.Document
	if err := r.db.Where("flight_id = ?", flightID).Order("id ASC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Update updates a document's own columns
func (r *GormDocumentRepository) Update(doc *models.Document) error {
	return r.db.Omit(clause.Associations).Save(doc).Error
}

// Delete soft deletes a document
func (r *GormDocumentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Document{}, id).Error
}
