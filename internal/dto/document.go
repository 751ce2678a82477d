package dto

import (
	"time"

	"github.com/yukikurage/flight-docs-api/internal/models"
)

// DocumentDTO represents a document in API responses
type DocumentDTO struct {
	ID           uint64          `json:"id"`
	FlightID     uint64          `json:"flight_id"`
	DocumentType string          `json:"document_type"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	CanEdit      bool            `json:"can_edit"`
	FileName     string          `json:"file_name"`
	CreatedBy    uint64          `json:"created_by"`
	EditedBy     *uint64         `json:"edited_by,omitempty"`
	EditedAt     *time.Time      `json:"edited_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Creator      *UserSummaryDTO `json:"creator,omitempty"`
	Editor       *UserSummaryDTO `json:"editor,omitempty"`
}

// DocumentListItemDTO represents a document in list responses (minimal data)
type DocumentListItemDTO struct {
	ID           uint64          `json:"id"`
	FlightID     uint64          `json:"flight_id"`
	DocumentType string          `json:"document_type"`
	Title        string          `json:"title"`
	CanEdit      bool            `json:"can_edit"`
	FileName     string          `json:"file_name"`
	CreatedBy    uint64          `json:"created_by"`
	Creator      *UserSummaryDTO `json:"creator,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// DocumentListResponse represents a paginated list of documents
type DocumentListResponse struct {
	Documents  []DocumentListItemDTO `json:"documents"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalCount int64                 `json:"total_count"`
	TotalPages int                   `json:"total_pages"`
}

// ToDocumentDTO converts a Document model to DocumentDTO
func ToDocumentDTO(doc models.Document) DocumentDTO {
	dto := DocumentDTO{
		ID:           doc.ID,
		FlightID:     doc.FlightID,
		DocumentType: doc.DocumentType,
		Title:        doc.Title,
		Content:      doc.Content,
		CanEdit:      doc.CanEdit,
		FileName:     doc.FileName,
		CreatedBy:    doc.CreatedBy,
		EditedBy:     doc.EditedBy,
		EditedAt:     doc.EditedAt,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}

	// Include creator and editor if preloaded
	if doc.Creator != nil {
		creator := ToUserSummaryDTO(*doc.Creator)
		dto.Creator = &creator
	}
	if doc.Editor != nil {
		editor := ToUserSummaryDTO(*doc.Editor)
		dto.Editor = &editor
	}

	return dto
}

// ToDocumentListItemDTO converts a Document model to DocumentListItemDTO
func ToDocumentListItemDTO(doc models.Document) DocumentListItemDTO {
	dto := DocumentListItemDTO{
		ID:           doc.ID,
		FlightID:     doc.FlightID,
		DocumentType: doc.DocumentType,
		Title:        doc.Title,
		CanEdit:      doc.CanEdit,
		FileName:     doc.FileName,
		CreatedBy:    doc.CreatedBy,
		CreatedAt:    doc.CreatedAt,
	}

	if doc.Creator != nil {
		creator := ToUserSummaryDTO(*doc.Creator)
		dto.Creator = &creator
	}

	return dto
}

// ToDocumentListItemDTOs converts a slice of documents
func ToDocumentListItemDTOs(docs []models.Document) []DocumentListItemDTO {
	items := make([]DocumentListItemDTO, len(docs))
	for i, doc := range docs {
		items[i] = ToDocumentListItemDTO(doc)
	}
	return items
}

// ToDocumentListResponse converts a page of documents to DocumentListResponse
func ToDocumentListResponse(docs []models.Document, page, pageSize int, totalCount int64) DocumentListResponse {
	return DocumentListResponse{
		Documents:  ToDocumentListItemDTOs(docs),
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}
