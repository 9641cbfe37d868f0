package identity

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
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
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

func resolveRouter() *gin.Engine {
	r := gin.Default()
	ic := NewIdentityController(testDB)
	r.GET("/me", middleware.RequireAuth(testDB), ic.Resolve)
	return r
}

func TestResolve_Student(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestStudentUser1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	rec, resp := testutil.MakeJSONRequest(nil, token, resolveRouter(), "/me", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	account, ok := resp["user"].(map[string]interface{})
	if assert.True(t, ok) {
		assert.Equal(t, model.RoleStudent, account["role"])
	}
	profile, ok := resp["student"].(map[string]interface{})
	if assert.True(t, ok) {
		assert.Equal(t, database.TestStudent1.MainRole, profile["main_role"])
	}
	assert.Nil(t, resp["company"])
	assert.Nil(t, resp["institution"])
}

func TestResolve_CompanyCarriesApprovalStatus(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestCompanyUser2.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	rec, resp := testutil.MakeJSONRequest(nil, token, resolveRouter(), "/me", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	company, ok := resp["company"].(map[string]interface{})
	if assert.True(t, ok) {
		assert.Equal(t, model.StatusPending, company["status"])
	}
	assert.Nil(t, resp["needs_organization"])
}

func TestResolve_UnlinkedCompanyNeedsOrganization(t *testing.T) {
	// Simulates the state right after a company Google sign-in.
	hashed, err := utilities.HashPassword(database.TestSeedPassword)
	assert.NoError(t, err)
	unlinked := model.User{
		Username: "unlinked_company",
		Password: hashed,
		Role:     model.RoleCompany,
	}
	assert.NoError(t, testDB.Create(&unlinked).Error)

	token, err := auth.GetAccessToken(t, testDB, unlinked.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	rec, resp := testutil.MakeJSONRequest(nil, token, resolveRouter(), "/me", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["needs_organization"])
	assert.Nil(t, resp["company"])
}

func TestResolve_Ies(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestIesUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	rec, resp := testutil.MakeJSONRequest(nil, token, resolveRouter(), "/me", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	institution, ok := resp["institution"].(map[string]interface{})
	if assert.True(t, ok) {
		assert.Equal(t, database.TestIes1.Name, institution["name"])
	}
}

func TestResolve_GarbageToken(t *testing.T) {
	rec, _ := testutil.MakeJSONRequest(nil, "not-a-jwt", resolveRouter(), "/me", http.MethodGet)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
