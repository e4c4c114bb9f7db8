package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	pkgerrors "github.com/jeevaraksha/hospital-api/pkg/errors"
	"github.com/jeevaraksha/hospital-api/pkg/pagination"
	"gorm.io/gorm"
)

// Filter narrows the audit listing.
type Filter struct {
	UserID     *uuid.UUID
	Action     string
	EntityType string
	Page       pagination.Page
}

// ListItem is one audit row with the actor's current display name joined in.
type ListItem struct {
	models.AuditLog
	UserDisplayName string `gorm:"column:user_display_name" json:"user_display_name,omitempty"`
}

// ListResult carries one page plus the unfiltered-by-page total.
type ListResult struct {
	Data  []ListItem `json:"data"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

// QueryService serves the paginated audit listing consumed by reporting UIs.
type QueryService struct {
	db *gorm.DB
}

// NewQueryService constructs the audit read surface.
func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{db: db}
}

// List returns one page of audit entries, newest first.
func (s *QueryService) List(ctx context.Context, filter Filter) (*ListResult, error) {
	page := filter.Page.Normalize()

	base := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.UserID != nil {
		base = base.Where("audit_logs.user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		base = base.Where("audit_logs.action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		base = base.Where("audit_logs.entity_type = ?", filter.EntityType)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count audit entries")
	}

	items := make([]ListItem, 0, page.Limit)
	err := base.Session(&gorm.Session{}).
		Select("audit_logs.*, users.name AS user_display_name").
		Joins("LEFT JOIN users ON users.id = audit_logs.user_id").
		Order("audit_logs.created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Scan(&items).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list audit entries")
	}

	return &ListResult{
		Data:  items,
		Total: total,
		Page:  page.Number,
		Limit: page.Limit,
	}, nil
}
