package patients

import (
	"context"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	"github.com/jeevaraksha/hospital-api/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes patient persistence. Methods that participate in a
// caller-managed transaction accept the tx handle explicitly; passing nil
// falls back to the ambient connection.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a patients repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// List returns one page of non-deleted patients, optionally narrowed by a
// free-text search over name, UHID and phone, and by status.
func (r *Repository) List(ctx context.Context, search string, status enums.PatientStatus, page pagination.Page) ([]models.Patient, int64, error) {
	page = page.Normalize()

	q := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("status <> ?", enums.PatientStatusDeleted)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR uhid ILIKE ? OR phone ILIKE ?", like, like, like)
	}
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]models.Patient, 0, page.Limit)
	err := q.Session(&gorm.Session{}).
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindByID loads a patient regardless of status, so delete handlers can
// distinguish missing from already-deleted.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&patient).Error
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

// FindByUHID looks up a non-deleted patient by hospital ID.
func (r *Repository) FindByUHID(ctx context.Context, uhid string) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).
		Where("uhid = ? AND status <> ?", uhid, enums.PatientStatusDeleted).
		First(&patient).Error
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

// FindDuplicate checks for an existing non-deleted patient with the same
// name, date of birth and phone, the original registration's duplicate key.
func (r *Repository) FindDuplicate(ctx context.Context, tx *gorm.DB, name, dob, phone string) (*models.Patient, error) {
	var patient models.Patient
	err := r.handle(tx).WithContext(ctx).
		Where("name ILIKE ? AND to_char(dob, 'YYYY-MM-DD') = ? AND phone = ? AND status <> ?",
			name, dob, phone, enums.PatientStatusDeleted).
		First(&patient).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}

// Count returns the total number of patient rows, deleted included, which
// feeds the UHID sequence.
func (r *Repository) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var total int64
	err := r.handle(tx).WithContext(ctx).
		Model(&models.Patient{}).
		Count(&total).Error
	return total, err
}

// Create inserts the patient on the supplied transaction handle.
func (r *Repository) Create(ctx context.Context, tx *gorm.DB, patient *models.Patient) error {
	return r.handle(tx).WithContext(ctx).Create(patient).Error
}

// UpdateColumns applies a partial update on the supplied transaction handle
// and reloads the row into patient.
func (r *Repository) UpdateColumns(ctx context.Context, tx *gorm.DB, id uuid.UUID, columns map[string]any, patient *models.Patient) error {
	handle := r.handle(tx).WithContext(ctx)
	err := handle.Model(&models.Patient{}).
		Where("id = ?", id).
		Updates(columns).Error
	if err != nil {
		return err
	}
	return handle.Where("id = ?", id).First(patient).Error
}

// HardDelete removes the row permanently on the supplied transaction handle.
func (r *Repository) HardDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return r.handle(tx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Patient{}).Error
}
