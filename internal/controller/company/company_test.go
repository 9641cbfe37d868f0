package company

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

func TestListCompanies_OnlyApproved(t *testing.T) {
	r := gin.Default()
	cc := NewCompanyController(testDB, nil)
	r.GET("/companies", cc.ListCompanies)

	rec, resp := testutil.MakeJSONListRequest(nil, "", r, "/companies", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	for _, company := range resp {
		assert.Equal(t, model.StatusApproved, company["status"])
		assert.NotEqual(t, database.TestCompany2.Name, company["name"])
	}
}

func TestGetCompanyByID_PendingHidden(t *testing.T) {
	r := gin.Default()
	cc := NewCompanyController(testDB, nil)
	r.GET("/companies/:id", cc.GetCompanyByID)

	rec, _ := testutil.MakeJSONRequest(nil, "", r, "/companies/"+database.TestCompany2.ID.String(), http.MethodGet)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCompanyByID_Success(t *testing.T) {
	r := gin.Default()
	cc := NewCompanyController(testDB, nil)
	r.GET("/companies/:id", cc.GetCompanyByID)

	rec, resp := testutil.MakeJSONRequest(nil, "", r, "/companies/"+database.TestCompany1.ID.String(), http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestCompany1.Name, resp["name"])
}

func TestGetMyProfile_PendingCompanyStillVisible(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestCompanyUser2.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r := gin.Default()
	cc := NewCompanyController(testDB, nil)
	r.GET("/company/myprofile", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleCompany), cc.GetMyProfile)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/company/myprofile", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusPending, resp["status"])
}

func TestEditProfile_NonCompanyForbidden(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestStudentUser1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r := gin.Default()
	cc := NewCompanyController(testDB, nil)
	r.PATCH("/company/myprofile", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleCompany), cc.EditProfile)

	body := gin.H{"description": "Malicious update"}
	rec, _ := testutil.MakeJSONRequest(body, token, r, "/company/myprofile", http.MethodPatch)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEditProfile_PendingCompanyBlocked(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestCompanyUser2.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r := gin.Default()
	cc := NewCompanyController(testDB, nil)
	r.PATCH("/company/myprofile",
		middleware.RequireAuth(testDB),
		middleware.CheckRole(model.RoleCompany),
		middleware.CheckApproved(testDB),
		cc.EditProfile)

	body := gin.H{"description": "Should not pass the approval gate"}
	rec, _ := testutil.MakeJSONRequest(body, token, r, "/company/myprofile", http.MethodPatch)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEditProfile_Success(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestCompanyUser1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r := gin.Default()
	cc := NewCompanyController(testDB, nil)
	r.PATCH("/company/myprofile",
		middleware.RequireAuth(testDB),
		middleware.CheckRole(model.RoleCompany),
		middleware.CheckApproved(testDB),
		cc.EditProfile)

	body := gin.H{"website": "https://moura.example.com/carreiras"}
	rec, resp := testutil.MakeJSONRequest(body, token, r, "/company/myprofile", http.MethodPatch)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://moura.example.com/carreiras", resp["website"])
	// Untouched fields survive the merge.
	assert.Equal(t, database.TestCompany1.Description, resp["description"])
}

func TestEditProfile_UnknownFieldRejected(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestCompanyUser1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r := gin.Default()
	cc := NewCompanyController(testDB, nil)
	r.PATCH("/company/myprofile",
		middleware.RequireAuth(testDB),
		middleware.CheckRole(model.RoleCompany),
		middleware.CheckApproved(testDB),
		cc.EditProfile)

	// Status is not editable through this endpoint.
	body := gin.H{"status": model.StatusApproved}
	rec, _ := testutil.MakeJSONRequest(body, token, r, "/company/myprofile", http.MethodPatch)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrganization_AlreadyLinked(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestCompanyUser1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	r := gin.Default()
	cc := NewCompanyController(testDB, nil)
	r.POST("/company/organization", middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleCompany), cc.CreateOrganization)

	body := gin.H{"name": "Outra Empresa"}
	rec, _ := testutil.MakeJSONRequest(body, token, r, "/company/organization", http.MethodPost)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
