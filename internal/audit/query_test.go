package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	"github.com/jeevaraksha/hospital-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAuditRow(t *testing.T, db *gorm.DB, userID uuid.UUID, action enums.AuditAction, entityType string, created time.Time) *models.AuditLog {
	t.Helper()

	row := &models.AuditLog{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		Module:     entityType + "s",
		CreatedAt:  created,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestQueryListFiltersAndJoinsActorName(t *testing.T) {
	db := setupAuditTestDB(t)
	svc := NewQueryService(db)
	ctx := context.Background()

	actor := uuid.New()
	other := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, email, name, role_id, status) VALUES (?, ?, ?, ?, 'active')`,
		actor.String(), "query-actor@example.com", "Dr. Meena Iyer", uuid.NewString(),
	).Error)

	base := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	seedAuditRow(t, db, actor, enums.AuditActionCreate, "query_ward", base)
	newest := seedAuditRow(t, db, actor, enums.AuditActionUpdate, "query_ward", base.Add(time.Hour))
	seedAuditRow(t, db, other, enums.AuditActionCreate, "query_ward", base.Add(2*time.Hour))

	res, err := svc.List(ctx, Filter{UserID: &actor, EntityType: "query_ward"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	require.Len(t, res.Data, 2)
	// Newest first, with the actor's current display name joined in.
	assert.Equal(t, newest.ID, res.Data[0].ID)
	assert.Equal(t, "Dr. Meena Iyer", res.Data[0].UserDisplayName)

	res, err = svc.List(ctx, Filter{EntityType: "query_ward", Action: enums.AuditActionUpdate.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)

	// An actor with no users row still lists, just without a display name.
	res, err = svc.List(ctx, Filter{UserID: &other, EntityType: "query_ward"})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Empty(t, res.Data[0].UserDisplayName)
}

func TestQueryListPaginates(t *testing.T) {
	db := setupAuditTestDB(t)
	svc := NewQueryService(db)
	ctx := context.Background()

	actor := uuid.New()
	base := time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedAuditRow(t, db, actor, enums.AuditActionCreate, "query_page", base.Add(time.Duration(i)*time.Minute))
	}

	first, err := svc.List(ctx, Filter{EntityType: "query_page", Page: pagination.Page{Number: 1, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(5), first.Total)
	require.Len(t, first.Data, 2)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 2, first.Limit)

	second, err := svc.List(ctx, Filter{EntityType: "query_page", Page: pagination.Page{Number: 2, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, second.Data, 2)
	assert.NotEqual(t, first.Data[0].ID, second.Data[0].ID)
	assert.True(t, first.Data[1].CreatedAt.After(second.Data[0].CreatedAt) ||
		first.Data[1].CreatedAt.Equal(second.Data[0].CreatedAt))
}
