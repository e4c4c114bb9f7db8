package patients

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPatientsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS patients (
  id TEXT PRIMARY KEY,
  uhid TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone TEXT,
  gender TEXT,
  dob DATETIME,
  address TEXT,
  blood_type TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedPatient(t *testing.T, db *gorm.DB, uhid, name string, status enums.PatientStatus) *models.Patient {
	t.Helper()

	dob := time.Date(1988, 4, 12, 0, 0, 0, 0, time.UTC)
	patient := &models.Patient{
		ID:     uuid.New(),
		UHID:   uhid,
		Name:   name,
		Phone:  "9876500000",
		Gender: "male",
		DOB:    &dob,
		Status: status,
	}
	require.NoError(t, db.Create(patient).Error)
	return patient
}

func TestFindByUHIDSkipsDeleted(t *testing.T) {
	db := setupPatientsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	active := seedPatient(t, db, "UHID-2025-9001", "Ravi Kumar", enums.PatientStatusActive)
	seedPatient(t, db, "UHID-2025-9002", "Gone Patient", enums.PatientStatusDeleted)

	found, err := repo.FindByUHID(ctx, "UHID-2025-9001")
	require.NoError(t, err)
	assert.Equal(t, active.ID, found.ID)

	_, err = repo.FindByUHID(ctx, "UHID-2025-9002")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindByIDReturnsAnyStatus(t *testing.T) {
	db := setupPatientsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	// Deleted rows still resolve by ID so delete can answer 410.
	deleted := seedPatient(t, db, "UHID-2025-9003", "Soft Deleted", enums.PatientStatusDeleted)

	found, err := repo.FindByID(ctx, deleted.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PatientStatusDeleted, found.Status)
}

func TestUpdateColumnsReloadsRow(t *testing.T) {
	db := setupPatientsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	patient := seedPatient(t, db, "UHID-2025-9004", "Meera Nair", enums.PatientStatusActive)

	var updated models.Patient
	err := repo.UpdateColumns(ctx, nil, patient.ID, map[string]any{
		"phone":  "9876511111",
		"status": enums.PatientStatusAdmitted,
	}, &updated)
	require.NoError(t, err)
	assert.Equal(t, "9876511111", updated.Phone)
	assert.Equal(t, enums.PatientStatusAdmitted, updated.Status)
	assert.Equal(t, "Meera Nair", updated.Name)
}

func TestHardDeleteRemovesRow(t *testing.T) {
	db := setupPatientsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	patient := seedPatient(t, db, "UHID-2025-9005", "Hard Delete", enums.PatientStatusActive)

	require.NoError(t, repo.HardDelete(ctx, nil, patient.ID))

	_, err := repo.FindByID(ctx, patient.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateAndCountInsideTransaction(t *testing.T) {
	db := setupPatientsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	dob := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)
	uhid := "UHID-2025-9006"

	tx := db.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, repo.Create(ctx, tx, &models.Patient{
		ID:     uuid.New(),
		UHID:   uhid,
		Name:   "Tx Patient",
		DOB:    &dob,
		Status: enums.PatientStatusActive,
	}))

	count, err := repo.Count(ctx, tx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, int64(1))
	require.NoError(t, tx.Rollback().Error)

	// Rolled back with the transaction.
	_, err = repo.FindByUHID(ctx, uhid)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
