package beds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/internal/audit"
	pkgauth "github.com/jeevaraksha/hospital-api/pkg/auth"
	"github.com/jeevaraksha/hospital-api/pkg/db"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	pkgerrors "github.com/jeevaraksha/hospital-api/pkg/errors"
	"gorm.io/gorm"
)

// Service is the ward/bed CRUD surface. Mutations commit atomically with
// their audit entries.
type Service interface {
	ListWards(ctx context.Context) ([]WardSummary, error)
	CreateWard(ctx context.Context, actor pkgauth.Identity, req CreateWardRequest) (*models.Ward, error)
	UpdateWard(ctx context.Context, actor pkgauth.Identity, id uuid.UUID, req UpdateWardRequest) (*models.Ward, error)
	DeleteWard(ctx context.Context, actor pkgauth.Identity, id uuid.UUID) (*DeleteResult, error)

	ListBeds(ctx context.Context, filter ListBedsFilter) ([]BedSummary, error)
	CreateBed(ctx context.Context, actor pkgauth.Identity, req CreateBedRequest) (*models.Bed, error)
	UpdateBed(ctx context.Context, actor pkgauth.Identity, id uuid.UUID, req UpdateBedRequest) (*models.Bed, error)
	DeleteBed(ctx context.Context, actor pkgauth.Identity, id uuid.UUID) (*DeleteResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry, tx *gorm.DB) error
}

type service struct {
	repo    *Repository
	tx      txRunner
	auditor auditRecorder
}

// NewService wires the ward/bed service.
func NewService(repo *Repository, tx txRunner, auditor auditRecorder) Service {
	return &service{repo: repo, tx: tx, auditor: auditor}
}

func (s *service) ListWards(ctx context.Context) ([]WardSummary, error) {
	rows, err := s.repo.ListWards(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wards")
	}
	return rows, nil
}

func (s *service) CreateWard(ctx context.Context, actor pkgauth.Identity, req CreateWardRequest) (*models.Ward, error) {
	var created models.Ward
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created = models.Ward{
			Name:          req.Name,
			Code:          req.Code,
			WardType:      req.WardType,
			Floor:         req.Floor,
			TotalCapacity: req.TotalCapacity,
			Status:        enums.RecordStatusActive,
		}
		if err := s.repo.CreateWard(ctx, tx, &created); err != nil {
			return fmt.Errorf("insert ward: %w", err)
		}
		return s.auditor.Record(ctx, audit.Entry{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     enums.AuditActionCreate,
			EntityType: "ward",
			EntityID:   &created.ID,
			Module:     "wards",
			Details:    fmt.Sprintf("Created ward: %s (%s)", created.Name, created.Code),
			NewValues:  mustJSON(created),
			IPAddress:  actor.IPAddress,
		}, tx)
	})
	if txErr != nil {
		if db.IsUniqueViolation(txErr, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "ward code already exists")
		}
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "create ward")
	}
	return &created, nil
}

func (s *service) UpdateWard(ctx context.Context, actor pkgauth.Identity, id uuid.UUID, req UpdateWardRequest) (*models.Ward, error) {
	columns := req.Columns()
	if len(columns) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	var updated models.Ward
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		old, err := s.repo.FindWard(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "ward not found")
			}
			return fmt.Errorf("fetch ward: %w", err)
		}

		if err := s.repo.UpdateWardColumns(ctx, tx, id, columns, &updated); err != nil {
			return fmt.Errorf("update ward: %w", err)
		}
		return s.auditor.Record(ctx, audit.Entry{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     enums.AuditActionUpdate,
			EntityType: "ward",
			EntityID:   &id,
			Module:     "wards",
			Details:    fmt.Sprintf("Updated ward: %s", updated.Name),
			OldValues:  mustJSON(old),
			NewValues:  mustJSON(updated),
			IPAddress:  actor.IPAddress,
		}, tx)
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "update ward")
	}
	return &updated, nil
}

// DeleteWard soft-deletes a ward. Wards still holding non-deleted beds are
// refused with a conflict.
func (s *service) DeleteWard(ctx context.Context, actor pkgauth.Identity, id uuid.UUID) (*DeleteResult, error) {
	active, err := s.repo.CountActiveBeds(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count ward beds")
	}
	if active > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cannot delete ward with active beds")
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		old, err := s.repo.FindWard(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "ward not found")
			}
			return fmt.Errorf("fetch ward: %w", err)
		}

		var updated models.Ward
		columns := map[string]any{"status": enums.RecordStatusDeleted}
		if err := s.repo.UpdateWardColumns(ctx, tx, id, columns, &updated); err != nil {
			return fmt.Errorf("soft delete ward: %w", err)
		}
		return s.auditor.Record(ctx, audit.Entry{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     enums.AuditActionSoftDelete,
			EntityType: "ward",
			EntityID:   &id,
			Module:     "wards",
			Details:    fmt.Sprintf("Soft-deleted ward: %s", old.Name),
			OldValues:  mustJSON(old),
			IPAddress:  actor.IPAddress,
		}, tx)
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "delete ward")
	}
	return &DeleteResult{Message: "Ward deleted successfully"}, nil
}

func (s *service) ListBeds(ctx context.Context, filter ListBedsFilter) ([]BedSummary, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid bed status")
	}
	rows, err := s.repo.ListBeds(ctx, filter.WardID, filter.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list beds")
	}
	return rows, nil
}

func (s *service) CreateBed(ctx context.Context, actor pkgauth.Identity, req CreateBedRequest) (*models.Bed, error) {
	status := req.Status
	if status == "" {
		status = enums.BedStatusAvailable
	}
	if !status.IsValid() || status == enums.BedStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid bed status")
	}

	var created models.Bed
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created = models.Bed{
			WardID:    req.WardID,
			BedNumber: req.BedNumber,
			Status:    status,
		}
		if err := s.repo.CreateBed(ctx, tx, &created); err != nil {
			return fmt.Errorf("insert bed: %w", err)
		}
		return s.auditor.Record(ctx, audit.Entry{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     enums.AuditActionCreate,
			EntityType: "bed",
			EntityID:   &created.ID,
			Module:     "beds",
			Details:    fmt.Sprintf("Created bed: %s", created.BedNumber),
			NewValues:  mustJSON(created),
			IPAddress:  actor.IPAddress,
		}, tx)
	})
	if txErr != nil {
		if db.IsUniqueViolation(txErr, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "bed number already exists in ward")
		}
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "create bed")
	}
	return &created, nil
}

// UpdateBed applies a partial update. Non-admin callers may only change
// status; ward and bed number edits are admin territory.
func (s *service) UpdateBed(ctx context.Context, actor pkgauth.Identity, id uuid.UUID, req UpdateBedRequest) (*models.Bed, error) {
	if req.DetailFields() && !actor.HasRole(enums.RoleAdmin) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can update bed details")
	}
	columns := req.Columns()
	if len(columns) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no valid fields to update")
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid bed status")
	}

	var updated models.Bed
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		old, err := s.repo.FindBed(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "bed not found")
			}
			return fmt.Errorf("fetch bed: %w", err)
		}

		if err := s.repo.UpdateBedColumns(ctx, tx, id, columns, &updated); err != nil {
			return fmt.Errorf("update bed: %w", err)
		}
		return s.auditor.Record(ctx, audit.Entry{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     enums.AuditActionUpdate,
			EntityType: "bed",
			EntityID:   &id,
			Module:     "beds",
			Details:    fmt.Sprintf("Updated bed: %s", updated.BedNumber),
			OldValues:  mustJSON(old),
			NewValues:  mustJSON(updated),
			IPAddress:  actor.IPAddress,
		}, tx)
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "update bed")
	}
	return &updated, nil
}

// DeleteBed soft-deletes a bed unless it is currently occupied.
func (s *service) DeleteBed(ctx context.Context, actor pkgauth.Identity, id uuid.UUID) (*DeleteResult, error) {
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		old, err := s.repo.FindBed(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "bed not found")
			}
			return fmt.Errorf("fetch bed: %w", err)
		}
		if old.Status == enums.BedStatusOccupied {
			return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete an occupied bed")
		}

		var updated models.Bed
		columns := map[string]any{"status": enums.BedStatusDeleted}
		if err := s.repo.UpdateBedColumns(ctx, tx, id, columns, &updated); err != nil {
			return fmt.Errorf("soft delete bed: %w", err)
		}
		return s.auditor.Record(ctx, audit.Entry{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     enums.AuditActionSoftDelete,
			EntityType: "bed",
			EntityID:   &id,
			Module:     "beds",
			Details:    fmt.Sprintf("Soft-deleted bed: %s", old.BedNumber),
			OldValues:  mustJSON(old),
			IPAddress:  actor.IPAddress,
		}, tx)
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "delete bed")
	}
	return &DeleteResult{Message: "Bed deleted successfully"}, nil
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}
