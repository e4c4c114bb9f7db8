package patients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/internal/audit"
	pkgauth "github.com/jeevaraksha/hospital-api/pkg/auth"
	"github.com/jeevaraksha/hospital-api/pkg/db"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	pkgerrors "github.com/jeevaraksha/hospital-api/pkg/errors"
	"gorm.io/gorm"
)

// Service is the patient CRUD surface consumed by the controllers. Mutations
// run inside a transaction together with their audit entry.
type Service interface {
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	GetByUHID(ctx context.Context, uhid string) (*models.Patient, error)
	Create(ctx context.Context, actor pkgauth.Identity, req CreateRequest) (*models.Patient, error)
	Update(ctx context.Context, actor pkgauth.Identity, id uuid.UUID, req UpdateRequest) (*models.Patient, error)
	Delete(ctx context.Context, actor pkgauth.Identity, id uuid.UUID, hard bool) (*DeleteResult, error)
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
	now     func() time.Time
}

// NewService wires the patient service. now defaults to time.Now when nil.
func NewService(repo *Repository, tx txRunner, auditor auditRecorder, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, tx: tx, auditor: auditor, now: now}
}

func (s *service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	page := filter.Page.Normalize()
	rows, total, err := s.repo.List(ctx, filter.Search, filter.Status, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list patients")
	}
	return &ListResult{Data: rows, Total: total, Page: page.Number, Limit: page.Limit}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	patient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "patient not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetch patient")
	}
	if patient.Status == enums.PatientStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "patient not found")
	}
	return patient, nil
}

func (s *service) GetByUHID(ctx context.Context, uhid string) (*models.Patient, error) {
	patient, err := s.repo.FindByUHID(ctx, uhid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "patient not found").
				WithDetail("uhid", uhid)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetch patient by uhid")
	}
	return patient, nil
}

// Create registers a patient inside one transaction: duplicate check, UHID
// sequence, insert, and the audit entry all commit or roll back together.
func (s *service) Create(ctx context.Context, actor pkgauth.Identity, req CreateRequest) (*models.Patient, error) {
	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date_of_birth must be YYYY-MM-DD")
	}

	var created models.Patient
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if req.Phone != "" {
			existing, err := s.repo.FindDuplicate(ctx, tx, req.Name, req.DOB, req.Phone)
			if err != nil {
				return fmt.Errorf("duplicate check: %w", err)
			}
			if existing != nil {
				return pkgerrors.New(pkgerrors.CodeConflict, "duplicate patient detected").
					WithDetail("message", fmt.Sprintf("Patient %q (%s) already exists with same name, DOB, and phone.", existing.Name, existing.UHID)).
					WithDetail("existing_patient", map[string]any{
						"id":   existing.ID,
						"uhid": existing.UHID,
						"name": existing.Name,
					})
			}
		}

		total, err := s.repo.Count(ctx, tx)
		if err != nil {
			return fmt.Errorf("uhid sequence: %w", err)
		}
		uhid := fmt.Sprintf("UHID-%d-%04d", s.now().Year(), total+1)

		created = models.Patient{
			UHID:      uhid,
			Name:      req.Name,
			Phone:     req.Phone,
			Gender:    req.Gender,
			DOB:       &dob,
			Address:   req.Address,
			BloodType: req.BloodType,
			Status:    enums.PatientStatusActive,
		}
		if err := s.repo.Create(ctx, tx, &created); err != nil {
			return fmt.Errorf("insert patient: %w", err)
		}

		return s.auditor.Record(ctx, audit.Entry{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     enums.AuditActionCreate,
			EntityType: "patient",
			EntityID:   &created.ID,
			Module:     "patients",
			Details:    fmt.Sprintf("Registered patient: %s (%s)", created.Name, created.UHID),
			NewValues:  mustJSON(created),
			IPAddress:  actor.IPAddress,
		}, tx)
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		if db.IsUniqueViolation(txErr, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "duplicate patient detected")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "register patient")
	}
	return &created, nil
}

// Update applies a partial update and records old/new snapshots atomically
// with it.
func (s *service) Update(ctx context.Context, actor pkgauth.Identity, id uuid.UUID, req UpdateRequest) (*models.Patient, error) {
	columns := req.Columns()
	if len(columns) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	var updated models.Patient
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		old, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "patient not found")
			}
			return fmt.Errorf("fetch patient: %w", err)
		}

		if err := s.repo.UpdateColumns(ctx, tx, id, columns, &updated); err != nil {
			return fmt.Errorf("update patient: %w", err)
		}

		return s.auditor.Record(ctx, audit.Entry{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     enums.AuditActionUpdate,
			EntityType: "patient",
			EntityID:   &id,
			Module:     "patients",
			Details:    fmt.Sprintf("Updated fields: %s", columnNames(columns)),
			OldValues:  mustJSON(old),
			NewValues:  mustJSON(updated),
			IPAddress:  actor.IPAddress,
		}, tx)
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "update patient")
	}
	return &updated, nil
}

// Delete soft-deletes by default. hard removes the row permanently and is
// restricted to admins by the caller; either way the audit entry commits
// with the mutation.
func (s *service) Delete(ctx context.Context, actor pkgauth.Identity, id uuid.UUID, hard bool) (*DeleteResult, error) {
	var result DeleteResult
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		old, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "patient not found")
			}
			return fmt.Errorf("fetch patient: %w", err)
		}
		if old.Status == enums.PatientStatusDeleted {
			return pkgerrors.New(pkgerrors.CodeGone, "patient is already deleted")
		}

		if hard {
			if err := s.repo.HardDelete(ctx, tx, id); err != nil {
				return fmt.Errorf("hard delete patient: %w", err)
			}
			result = DeleteResult{Message: "Patient permanently deleted", UHID: old.UHID}
			return s.auditor.Record(ctx, audit.Entry{
				UserID:     actor.UserID,
				UserName:   actor.Name,
				Action:     enums.AuditActionHardDelete,
				EntityType: "patient",
				EntityID:   &id,
				Module:     "patients",
				Details:    fmt.Sprintf("Permanently deleted patient: %s (%s)", old.Name, old.UHID),
				OldValues:  mustJSON(old),
				IPAddress:  actor.IPAddress,
			}, tx)
		}

		var updated models.Patient
		columns := map[string]any{"status": enums.PatientStatusDeleted}
		if err := s.repo.UpdateColumns(ctx, tx, id, columns, &updated); err != nil {
			return fmt.Errorf("soft delete patient: %w", err)
		}
		result = DeleteResult{
			Message: "Patient deactivated (soft delete)",
			UHID:    old.UHID,
			Status:  enums.PatientStatusDeleted.String(),
		}
		return s.auditor.Record(ctx, audit.Entry{
			UserID:     actor.UserID,
			UserName:   actor.Name,
			Action:     enums.AuditActionSoftDelete,
			EntityType: "patient",
			EntityID:   &id,
			Module:     "patients",
			Details:    fmt.Sprintf("Soft-deleted patient: %s (%s)", old.Name, old.UHID),
			OldValues:  mustJSON(map[string]any{"status": old.Status}),
			NewValues:  mustJSON(map[string]any{"status": enums.PatientStatusDeleted}),
			IPAddress:  actor.IPAddress,
		}, tx)
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "delete patient")
	}
	return &result, nil
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

func columnNames(columns map[string]any) string {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
