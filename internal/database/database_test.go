package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	m "github.com/Kevengrf/residencia-onboard/internal/model"
)

var testDB *DBinstanceStruct

func TestMain(tm *testing.M) {
	var err error
	var dbTeardown func(context.Context, ...testcontainers.TerminateOption) error
	dbTeardown, testDB, err = GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	tm.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if dbTeardown != nil {
		_ = dbTeardown(ctx)
	}
}

// A repair connection must open even when the data would not survive
// migration, such as duplicate company names predating the unique index.
func TestRepairInstanceOpensOverDuplicateNames(t *testing.T) {
	require.NoError(t, testDB.Exec("DROP INDEX IF EXISTS idx_companies_name").Error)

	dup := m.Company{Name: TestCompany1.Name}
	require.NoError(t, testDB.Create(&dup).Error)
	defer func() {
		require.NoError(t, testDB.Delete(&m.Company{}, "id = ?", dup.ID).Error)
		require.NoError(t, testDB.Migrate())
	}()

	repair, err := NewRepairDBInstance(testDB.Config)
	require.NoError(t, err)

	var count int64
	require.NoError(t, repair.Model(&m.Company{}).
		Where("name = ?", TestCompany1.Name).
		Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestHealthReportsUp(t *testing.T) {
	stats := testDB.Health()
	assert.Equal(t, "up", stats["status"])
}
