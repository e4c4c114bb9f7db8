package beds

import (
	"context"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	"gorm.io/gorm"
)

// Repository persists wards and beds. Transactional methods accept the tx
// handle explicitly; nil falls back to the ambient connection.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a beds repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// ListWards returns all non-deleted wards with live occupancy counts.
func (r *Repository) ListWards(ctx context.Context) ([]WardSummary, error) {
	rows := make([]WardSummary, 0)
	err := r.db.WithContext(ctx).
		Model(&models.Ward{}).
		Select(`wards.*,
			(SELECT COUNT(*) FROM beds b WHERE b.ward_id = wards.id AND b.status <> 'deleted') AS total_beds,
			(SELECT COUNT(*) FROM beds b WHERE b.ward_id = wards.id AND b.status = 'Available') AS available_beds,
			(SELECT COUNT(*) FROM beds b WHERE b.ward_id = wards.id AND b.status = 'Occupied') AS occupied_beds`).
		Where("wards.status <> ?", enums.RecordStatusDeleted).
		Order("wards.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindWard loads a ward by ID regardless of status.
func (r *Repository) FindWard(ctx context.Context, id uuid.UUID) (*models.Ward, error) {
	var ward models.Ward
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ward).Error
	if err != nil {
		return nil, err
	}
	return &ward, nil
}

// CreateWard inserts a ward on the supplied transaction handle.
func (r *Repository) CreateWard(ctx context.Context, tx *gorm.DB, ward *models.Ward) error {
	return r.handle(tx).WithContext(ctx).Create(ward).Error
}

// UpdateWardColumns applies a partial ward update and reloads the row.
func (r *Repository) UpdateWardColumns(ctx context.Context, tx *gorm.DB, id uuid.UUID, columns map[string]any, ward *models.Ward) error {
	handle := r.handle(tx).WithContext(ctx)
	err := handle.Model(&models.Ward{}).
		Where("id = ?", id).
		Updates(columns).Error
	if err != nil {
		return err
	}
	return handle.Where("id = ?", id).First(ward).Error
}

// CountActiveBeds reports non-deleted beds in a ward; deletion refuses
// wards that still have any.
func (r *Repository) CountActiveBeds(ctx context.Context, wardID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Bed{}).
		Where("ward_id = ? AND status <> ?", wardID, enums.BedStatusDeleted).
		Count(&total).Error
	return total, err
}

// ListBeds returns non-deleted beds with their ward names, optionally
// filtered by ward and status.
func (r *Repository) ListBeds(ctx context.Context, wardID *uuid.UUID, status enums.BedStatus) ([]BedSummary, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Bed{}).
		Select("beds.*, wards.name AS ward_name, wards.ward_type AS ward_type").
		Joins("JOIN wards ON wards.id = beds.ward_id").
		Where("beds.status <> ?", enums.BedStatusDeleted)
	if wardID != nil {
		q = q.Where("beds.ward_id = ?", *wardID)
	}
	if status != "" {
		q = q.Where("beds.status = ?", status)
	}

	rows := make([]BedSummary, 0)
	err := q.Order("wards.name, beds.bed_number ASC").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindBed loads a bed by ID regardless of status.
func (r *Repository) FindBed(ctx context.Context, id uuid.UUID) (*models.Bed, error) {
	var bed models.Bed
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&bed).Error
	if err != nil {
		return nil, err
	}
	return &bed, nil
}

// CreateBed inserts a bed on the supplied transaction handle.
func (r *Repository) CreateBed(ctx context.Context, tx *gorm.DB, bed *models.Bed) error {
	return r.handle(tx).WithContext(ctx).Create(bed).Error
}

// UpdateBedColumns applies a partial bed update and reloads the row.
func (r *Repository) UpdateBedColumns(ctx context.Context, tx *gorm.DB, id uuid.UUID, columns map[string]any, bed *models.Bed) error {
	handle := r.handle(tx).WithContext(ctx)
	err := handle.Model(&models.Bed{}).
		Where("id = ?", id).
		Updates(columns).Error
	if err != nil {
		return err
	}
	return handle.Where("id = ?", id).First(bed).Error
}
