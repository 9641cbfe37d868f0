package match

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"github.com/Kevengrf/residencia-onboard/internal/auth"
	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/middleware"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func deckRouter() *gin.Engine {
	r := gin.Default()
	mc := NewMatchController(testDB)
	r.GET("/student/deck", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleStudent), mc.GetDeck)
	return r
}

func TestGetDeck_ExcludesAppliedAndClosed(t *testing.T) {
	// Student1 already applied to job2; job3 is closed.
	token, err := auth.GetAccessToken(t, testDB, database.TestStudentUser1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	rec, resp := testutil.MakeJSONListRequest(nil, token, deckRouter(), "/student/deck", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.LessOrEqual(t, len(resp), deckSize)

	ids := make(map[float64]bool)
	for _, card := range resp {
		id, ok := card["id"].(float64)
		assert.True(t, ok)
		ids[id] = true

		assert.Equal(t, model.JobStatusOpen, card["status"])
		company, ok := card["company"].(map[string]interface{})
		if assert.True(t, ok) {
			assert.NotEmpty(t, company["name"])
		}
	}

	assert.True(t, ids[float64(database.TestJob1.ID)])
	assert.False(t, ids[float64(database.TestJob2.ID)])
	assert.False(t, ids[float64(database.TestJob3.ID)])
}

func TestGetDeck_FreshStudentSeesAllOpenJobs(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestStudentUser2.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	rec, resp := testutil.MakeJSONListRequest(nil, token, deckRouter(), "/student/deck", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)

	ids := make(map[float64]bool)
	for _, card := range resp {
		id, ok := card["id"].(float64)
		assert.True(t, ok)
		ids[id] = true
	}
	assert.True(t, ids[float64(database.TestJob1.ID)])
	assert.True(t, ids[float64(database.TestJob2.ID)])
	assert.False(t, ids[float64(database.TestJob3.ID)])
}

func TestGetDeck_CompanyForbidden(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestCompanyUser1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	rec, _ := testutil.MakeJSONListRequest(nil, token, deckRouter(), "/student/deck", http.MethodGet)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
