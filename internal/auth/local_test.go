package auth

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"

	"github.com/Kevengrf/residencia-onboard/internal/database"
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

func registerRouter() *gin.Engine {
	r := gin.Default()
	lh := NewLocalAuthHandler(testDB)
	r.POST("/auth/register", lh.LocalRegisterHandler)
	r.POST("/auth/login", lh.LocalLoginHandler)
	return r
}

func TestLocalRegister_StudentSuccess(t *testing.T) {
	r := registerRouter()

	body := gin.H{
		"username":  "new_student",
		"password":  "StrongPass123",
		"role":      "student",
		"full_name": "Novo Residente",
	}
	rec, resp := testutil.MakeJSONRequest(body, "", r, "/auth/register", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, resp["access_token"])

	var account model.User
	err := testDB.Where("username = ?", "new_student").First(&account).Error
	assert.NoError(t, err)

	var profile model.Student
	err = testDB.Where("user_id = ?", account.ID).First(&profile).Error
	assert.NoError(t, err)
	assert.Equal(t, model.StudentStatusActive, profile.Status)
}

func TestLocalRegister_ShortPassword(t *testing.T) {
	r := registerRouter()

	body := gin.H{
		"username": "short_pwd",
		"password": "short",
		"role":     "student",
	}
	rec, _ := testutil.MakeJSONRequest(body, "", r, "/auth/register", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLocalRegister_CompanyCreatesPendingAndLinks(t *testing.T) {
	r := registerRouter()

	body := gin.H{
		"username":     "new_company",
		"password":     "StrongPass123",
		"role":         "company",
		"company_name": "Fábrica de Software",
	}
	rec, _ := testutil.MakeJSONRequest(body, "", r, "/auth/register", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var account model.User
	err := testDB.Where("username = ?", "new_company").First(&account).Error
	assert.NoError(t, err)
	if assert.NotNil(t, account.CompanyID) {
		var company model.Company
		err = testDB.Where("id = ?", account.CompanyID).First(&company).Error
		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, company.Status)
		assert.Equal(t, "Fábrica de Software", company.Name)
	}
}

func TestLocalRegister_CompanyWithoutNameRejected(t *testing.T) {
	r := registerRouter()

	body := gin.H{
		"username": "nameless_company",
		"password": "StrongPass123",
		"role":     "company",
	}
	rec, _ := testutil.MakeJSONRequest(body, "", r, "/auth/register", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The account must not be half-created.
	var count int64
	testDB.Model(&model.User{}).Where("username = ?", "nameless_company").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestLocalRegister_DuplicateUsername(t *testing.T) {
	r := registerRouter()

	body := gin.H{
		"username": database.TestStudentUser1.Username,
		"password": "StrongPass123",
		"role":     "student",
	}
	rec, resp := testutil.MakeJSONRequest(body, "", r, "/auth/register", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "already exist")
}

func TestLocalLogin_Success(t *testing.T) {
	r := registerRouter()

	body := gin.H{
		"username": database.TestStudentUser1.Username,
		"password": database.TestSeedPassword,
	}
	rec, resp := testutil.MakeJSONRequest(body, "", r, "/auth/login", http.MethodPost)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp["access_token"])
}

func TestLocalLogin_WrongPassword(t *testing.T) {
	r := registerRouter()

	body := gin.H{
		"username": database.TestStudentUser1.Username,
		"password": "not-the-password",
	}
	rec, _ := testutil.MakeJSONRequest(body, "", r, "/auth/login", http.MethodPost)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
