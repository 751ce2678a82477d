package repository

import (
	"github.com/yukikurage/flight-docs-api/internal/database"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"gorm.io/gorm"
)

// GormAirportRepository is a GORM implementation of AirportRepository
type GormAirportRepository struct {
	db *gorm.DB
}

// NewAirportRepository creates a new AirportRepository
func NewAirportRepository(db *gorm.DB) AirportRepository {
	return &GormAirportRepository{db: db}
}

func (r *GormAirportRepository) Create(airport *models.Airport) error {
	return r.db.Create(airport).Error
}

func (r *GormAirportRepository) FindByID(id uint64) (*models.Airport, error) {
	var airport models.Airport
	if err := r.db.First(&airport, id).Error; err != nil {
		return nil, err
	}
	return &airport, nil
}

func (r *GormAirportRepository) FindByCode(code string) (*models.Airport, error) {
	var airport models.Airport
	if err := r.db.Where("code = ?", code).First(&airport).Error; err != nil {
		return nil, err
	}
	return &airport, nil
}

func (r *GormAirportRepository) List(page, pageSize int) ([]models.Airport, int64, error) {
	var airports []models.Airport
	query := r.db.Model(&models.Airport{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("airports.code ASC").Scopes(database.Paginate(page, pageSize))

	if err := listQuery.Find(&airports).Error; err != nil {
		return nil, 0, err
	}
	return airports, total, nil
}

func (r *GormAirportRepository) Update(airport *models.Airport) error {
	return r.db.Save(airport).Error
}

func (r *GormAirportRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Airport{}, id).Error
}

func (r *GormAirportRepository) InUse(id uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Flight{}).
		Where("departure_airport_id = ? OR arrival_airport_id = ?", id, id).
		Count(&count).Error
	return count > 0, err
}
