package service_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/saadjs/fitweek/internal/db"
	"github.com/saadjs/fitweek/internal/model"
	"github.com/saadjs/fitweek/internal/service"
	"github.com/saadjs/fitweek/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorReportsMissingRecordsOnFreshDB(t *testing.T) {
	report, err := service.RunDoctor(newTestKV(t), false)
	require.NoError(t, err)
	assert.Equal(t, service.RecordMissing, report.Catalog)
	assert.Equal(t, service.RecordMissing, report.Plan)
	assert.True(t, report.Healthy())
}

func TestDoctorFindsAndPrunesDanglingEntries(t *testing.T) {
	kv := newTestKV(t)
	p := newReadyPlanner(t, kv)
	keep := p.Catalog()[0].ID
	_, err := p.AddToDay(model.Monday, keep)
	require.NoError(t, err)
	_, err = p.AddToDay(model.Monday, "gone")
	require.NoError(t, err)
	_, err = p.AddToDay(model.Tuesday, "gone")
	require.NoError(t, err)

	report, err := service.RunDoctor(kv, false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.DanglingEntries)
	assert.False(t, report.Healthy())

	report, err = service.RunDoctor(kv, true)
	require.NoError(t, err)
	assert.Equal(t, 2, report.PrunedEntries)

	reloaded := newReadyPlanner(t, kv)
	assert.Equal(t, []model.Entry{{WorkoutID: keep}}, reloaded.Plan()[model.Monday])
	assert.Empty(t, reloaded.Plan()[model.Tuesday])

	report, err = service.RunDoctor(kv, false)
	require.NoError(t, err)
	assert.True(t, report.Healthy())
}

func TestDoctorPrunesPlanLeftWithoutCatalog(t *testing.T) {
	kv := newTestKV(t)
	plan := service.EmptyPlan()
	plan[model.Monday] = []model.Entry{{WorkoutID: "old-1"}}
	plan[model.Thursday] = []model.Entry{{WorkoutID: "old-2"}}
	require.NoError(t, store.Save(kv, service.KeyPlan, plan))

	report, err := service.RunDoctor(kv, false)
	require.NoError(t, err)
	assert.Equal(t, service.RecordMissing, report.Catalog)
	assert.Equal(t, 2, report.DanglingEntries)
	assert.False(t, report.Healthy())

	report, err = service.RunDoctor(kv, true)
	require.NoError(t, err)
	assert.Equal(t, 2, report.PrunedEntries)

	reloaded := newReadyPlanner(t, kv)
	assert.Len(t, reloaded.Catalog(), 7)
	assert.Zero(t, reloaded.Plan().Total())
}

func TestDoctorRepairsCorruptPlan(t *testing.T) {
	kv := newTestKV(t)
	newReadyPlanner(t, kv)
	require.NoError(t, kv.Put(service.KeyPlan, []byte(`{"Mon":[]}`)))

	report, err := service.RunDoctor(kv, true)
	require.NoError(t, err)
	assert.Equal(t, service.RecordCorrupt, report.Plan)
	assert.Equal(t, 1, report.RepairedRecords)

	raw, found, err := kv.Get(service.KeyPlan)
	require.NoError(t, err)
	require.True(t, found)
	plan, err := service.DecodePlan(raw)
	require.NoError(t, err)
	assert.Equal(t, service.EmptyPlan(), plan)
}

func TestDoctorCountsDuplicateWorkoutIDs(t *testing.T) {
	kv := newTestKV(t)
	require.NoError(t, store.Save(kv, service.KeyWorkouts, model.Catalog{
		{ID: "a", Name: "One", Category: "Legs"},
		{ID: "a", Name: "Two", Category: "Legs"},
	}))
	report, err := service.RunDoctor(kv, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.DuplicateWorkoutIDs)
}

func TestBackupCreateAndRestore(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "fitweek.db")
	sqldb, err := db.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.ApplyMigrations(sqldb))
	kv := store.NewSQLiteKV(sqldb)
	p := newReadyPlanner(t, kv)
	_, err = p.AddToDay(model.Sunday, p.Catalog()[6].ID)
	require.NoError(t, err)

	backupPath := filepath.Join(dir, "backups", "fitweek-1.db")
	info, err := service.CreateBackup(sqldb, backupPath)
	require.NoError(t, err)
	assert.NotEmpty(t, info.Checksum)
	require.NoError(t, sqldb.Close())

	_, err = service.CreateBackup(sqldb, backupPath)
	require.Error(t, err)

	items, err := service.ListBackups(filepath.Join(dir, "backups"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, info.Checksum, items[0].Checksum)

	require.Error(t, service.RestoreBackup(backupPath, dbPath, false))

	restored := filepath.Join(dir, "restored.db")
	require.NoError(t, service.RestoreBackup(backupPath, restored, false))

	restoredDB, err := db.Open(restored)
	require.NoError(t, err)
	defer restoredDB.Close()
	again := newReadyPlanner(t, store.NewSQLiteKV(restoredDB))
	assert.Equal(t, p.Plan(), again.Plan())
}

func TestRestoreRejectsChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	backupPath := filepath.Join(dir, "b.db")
	require.NoError(t, os.WriteFile(backupPath, []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(backupPath+".sha256", []byte("deadbeef\n"), 0o644))

	err := service.RestoreBackup(backupPath, filepath.Join(dir, "target.db"), false)
	require.ErrorContains(t, err, "checksum mismatch")
}

func TestListBackupsMissingDirIsEmpty(t *testing.T) {
	items, err := service.ListBackups(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, items)
}
