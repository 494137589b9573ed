package repositories

import (
	"context"
	"errors"

	"fila-escolar/internal/adapters/persistence/models"
	"fila-escolar/internal/core/domain"

	"gorm.io/gorm"
)

// staffRepository handles staff directory database operations
type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

// Create inserts a new staff member
func (r *staffRepository) Create(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

// GetByID returns a staff member by ID
func (r *staffRepository) GetByID(ctx context.Context, id uint) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).First(&staff, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrStaffNotFound
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// List returns all staff in creation order
func (r *staffRepository) List(ctx context.Context) ([]models.Staff, error) {
	var staff []models.Staff
	err := r.db.WithContext(ctx).Order("id ASC").Find(&staff).Error
	return staff, err
}

// DeleteCascade removes a staff member and all of its tickets as one
// logical operation; the two tables are never left inconsistent.
func (r *staffRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var staff models.Staff
		if err := tx.First(&staff, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrStaffNotFound
			}
			return err
		}
		if err := tx.Where("staff_id = ?", id).Delete(&models.Ticket{}).Error; err != nil {
			return err
		}
		return tx.Delete(&staff).Error
	})
}
