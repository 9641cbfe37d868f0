package student

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

func studentRouter() *gin.Engine {
	r := gin.Default()
	sc := NewStudentController(testDB, nil)
	r.GET("/talents", sc.Talents)

	grp := r.Group("/student")
	grp.Use(middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleStudent))
	grp.GET("myprofile", sc.GetMyProfile)
	grp.PATCH("myprofile", sc.EditProfile)
	grp.GET("projects", sc.MyProjects)
	return r
}

func TestGetMyProfile_Success(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestStudentUser1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	rec, resp := testutil.MakeJSONRequest(nil, token, studentRouter(), "/student/myprofile", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestStudent1.MainRole, resp["main_role"])
	account, ok := resp["user"].(map[string]interface{})
	if assert.True(t, ok) {
		assert.Equal(t, database.TestStudentUser1.Username, account["username"])
	}
}

func TestEditProfile_MergesStudentAndUserFields(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestStudentUser1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	body := gin.H{
		"bio":  "Residente focado em plataformas distribuídas",
		"user": gin.H{"full_name": "Residente Um"},
	}
	rec, resp := testutil.MakeJSONRequest(body, token, studentRouter(), "/student/myprofile", http.MethodPatch)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Residente focado em plataformas distribuídas", resp["bio"])
	// Untouched profile fields survive the merge.
	assert.Equal(t, database.TestStudent1.MainRole, resp["main_role"])

	var account model.User
	err = testDB.Where("id = ?", database.TestStudentUser1.ID).First(&account).Error
	assert.NoError(t, err)
	assert.Equal(t, "Residente Um", account.FullName)
}

func TestEditProfile_ResidencyPeriodNotEditable(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestStudentUser1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	body := gin.H{"residency_period": 5}
	rec, _ := testutil.MakeJSONRequest(body, token, studentRouter(), "/student/myprofile", http.MethodPatch)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var profile model.Student
	err = testDB.Where("user_id = ?", database.TestStudentUser1.ID).First(&profile).Error
	assert.NoError(t, err)
	assert.Equal(t, 1, profile.ResidencyPeriod)
}

func TestTalents_PublicActiveStudents(t *testing.T) {
	rec, resp := testutil.MakeJSONListRequest(nil, "", studentRouter(), "/talents", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.GreaterOrEqual(t, len(resp), 2)
	for _, talent := range resp {
		assert.Equal(t, model.StudentStatusActive, talent["status"])
		account, ok := talent["user"].(map[string]interface{})
		if assert.True(t, ok) {
			// Password hashes never leak through the showcase.
			_, exposed := account["password"]
			assert.False(t, exposed)
		}
	}
}

func TestMyProjects_EmptyForFreshStudent(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestStudentUser2.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	rec, resp := testutil.MakeJSONListRequest(nil, token, studentRouter(), "/student/projects", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp, 0)
}
