package project

import (
	"context"
	"fmt"
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

func TestNormalizeCompanyName(t *testing.T) {
	cases := map[string]string{
		"  Moura  ":        "moura",
		"MOURA":            "moura",
		"Startup Nordeste": "startup nordeste",
		"\tCESAR School\n": "cesar school",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeCompanyName(input))
	}
}

func importRouter() *gin.Engine {
	r := gin.Default()
	pc := NewProjectController(testDB)
	r.POST("/management/projects/import", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleManagement), pc.ImportHistoric)
	r.GET("/periods/:id/projects", pc.PeriodProjects)
	return r
}

func TestImportHistoric_MatchesRegisteredCompany(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestManagementUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	body := gin.H{
		"period_id":    database.TestPeriod1.ID,
		"company_name": "  MOURA ",
		"title":        "Monitoramento de frotas",
		"class_name":   "Turma A",
		"squad":        []string{database.TestStudentUser1.ID.String()},
	}
	rec, resp := testutil.MakeJSONRequest(body, token, importRouter(), "/management/projects/import", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)
	// Name matched ignoring case and whitespace, so the project links the
	// registered company instead of keeping free text.
	assert.Equal(t, database.TestCompany1.ID.String(), resp["company_id"])
	assert.Nil(t, resp["historic_company_name"])

	var allocations []model.ProjectAllocation
	err = testDB.Where("project_id = ?", resp["id"]).Find(&allocations).Error
	assert.NoError(t, err)
	if assert.Len(t, allocations, 1) {
		assert.Equal(t, model.ProjectAllocationCompleted, allocations[0].Status)
		assert.Equal(t, database.TestStudentUser1.ID, allocations[0].StudentID)
	}
}

func TestImportHistoric_UnknownCompanyKeptAsText(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestManagementUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	body := gin.H{
		"period_id":    database.TestPeriod1.ID,
		"company_name": " Empresa Extinta LTDA ",
		"title":        "Sistema legado",
	}
	rec, resp := testutil.MakeJSONRequest(body, token, importRouter(), "/management/projects/import", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, resp["company_id"])
	assert.Equal(t, "Empresa Extinta LTDA", resp["historic_company_name"])
}

func TestImportHistoric_UnknownSquadMemberRollsBack(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestManagementUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	body := gin.H{
		"period_id":    database.TestPeriod1.ID,
		"company_name": "Moura",
		"title":        "Projeto fantasma",
		"squad":        []string{"00000000-0000-0000-0000-000000000001"},
	}
	rec, _ := testutil.MakeJSONRequest(body, token, importRouter(), "/management/projects/import", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The project row must not survive the failed squad insert.
	var count int64
	testDB.Model(&model.CompanyProject{}).Where("title = ?", "Projeto fantasma").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPeriodProjects_ListsImported(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestManagementUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)
	r := importRouter()

	body := gin.H{
		"period_id":         database.TestPeriod1.ID,
		"company_name":      "Moura",
		"title":             "Vencedor do DemoDay",
		"is_demoday_winner": true,
	}
	rec, _ := testutil.MakeJSONRequest(body, token, r, "/management/projects/import", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)

	endpoint := fmt.Sprintf("/periods/%d/projects", database.TestPeriod1.ID)
	rec, resp := testutil.MakeJSONListRequest(nil, "", r, endpoint, http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.GreaterOrEqual(t, len(resp), 1)
	// DemoDay winners sort first.
	assert.Equal(t, true, resp[0]["is_demoday_winner"])
}
