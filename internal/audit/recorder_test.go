package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuditTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	auditLogs := `
CREATE TABLE IF NOT EXISTS audit_logs (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  user_name TEXT,
  session_id TEXT,
  action TEXT NOT NULL,
  entity_type TEXT NOT NULL,
  entity_id TEXT,
  module TEXT,
  details TEXT,
  old_values TEXT,
  new_values TEXT,
  ip_address TEXT,
  created_at DATETIME
);`
	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT,
  name TEXT NOT NULL,
  employee_id TEXT,
  department TEXT,
  specialization TEXT,
  designation TEXT,
  role_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  login_attempts INTEGER NOT NULL DEFAULT 0,
  locked_until DATETIME,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(auditLogs).Error)
	require.NoError(t, db.Exec(users).Error)
	return db
}

func testEntry(entityID uuid.UUID) Entry {
	return Entry{
		UserID:     uuid.New(),
		UserName:   "Dr. Asha Rao",
		Action:     enums.AuditActionCreate,
		EntityType: "patient",
		EntityID:   &entityID,
		Module:     "patients",
		Details:    "Created patient record",
		NewValues:  json.RawMessage(`{"name":"Ravi Kumar"}`),
		IPAddress:  "10.0.0.7",
	}
}

func countByEntity(t *testing.T, db *gorm.DB, entityID uuid.UUID) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("entity_id = ?", entityID).Count(&count).Error)
	return count
}

func TestRecordRejectsInvalidEntries(t *testing.T) {
	db := setupAuditTestDB(t)
	rec := NewRecorder(db, nil)
	ctx := context.Background()

	entityID := uuid.New()

	bad := testEntry(entityID)
	bad.Action = enums.AuditAction("drop table")
	require.Error(t, rec.Record(ctx, bad, nil))

	bad = testEntry(entityID)
	bad.EntityType = ""
	require.Error(t, rec.Record(ctx, bad, nil))

	assert.Equal(t, int64(0), countByEntity(t, db, entityID))
}

func TestRecordInsertsOnAmbientConnection(t *testing.T) {
	db := setupAuditTestDB(t)
	rec := NewRecorder(db, nil)
	ctx := context.Background()

	entityID := uuid.New()
	entry := testEntry(entityID)
	require.NoError(t, rec.Record(ctx, entry, nil))

	var row models.AuditLog
	require.NoError(t, db.Where("entity_id = ?", entityID).First(&row).Error)
	assert.Equal(t, entry.UserID, row.UserID)
	assert.Equal(t, enums.AuditActionCreate, row.Action)
	assert.Equal(t, "patient", row.EntityType)
	assert.JSONEq(t, `{"name":"Ravi Kumar"}`, string(row.NewValues))
}

func TestRecordCommitsWithTransaction(t *testing.T) {
	db := setupAuditTestDB(t)
	rec := NewRecorder(db, nil)
	ctx := context.Background()

	entityID := uuid.New()

	tx := db.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, rec.Record(ctx, testEntry(entityID), tx))
	require.NoError(t, tx.Commit().Error)
	assert.Equal(t, int64(1), countByEntity(t, db, entityID))
}

func TestRecordRollsBackWithTransaction(t *testing.T) {
	db := setupAuditTestDB(t)
	rec := NewRecorder(db, nil)
	ctx := context.Background()

	entityID := uuid.New()

	tx := db.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, rec.Record(ctx, testEntry(entityID), tx))
	require.NoError(t, tx.Rollback().Error)

	// The entry dies with the mutation it documented.
	assert.Equal(t, int64(0), countByEntity(t, db, entityID))
}
