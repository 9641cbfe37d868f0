package landing

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

func landingRouter() *gin.Engine {
	r := gin.Default()
	lc := NewLandingController(testDB, nil)
	r.GET("/landing-images", lc.ListActive)

	grp := r.Group("/management")
	grp.Use(middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleManagement))
	grp.PATCH("landing-images/:id/toggle", lc.ToggleActive)
	grp.DELETE("landing-images/:id", lc.Delete)
	return r
}

func TestListActive_SkipsInactiveAndKeepsOrder(t *testing.T) {
	rec, resp := testutil.MakeJSONListRequest(nil, "", landingRouter(), "/landing-images", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	lastOrder := -1
	for _, slide := range resp {
		assert.Equal(t, true, slide["is_active"])
		assert.NotEqual(t, database.TestLanding2.Title, slide["title"])

		order := int(slide["order_index"].(float64))
		assert.GreaterOrEqual(t, order, lastOrder)
		lastOrder = order
	}
}

func TestToggleActive_ActivatesHiddenSlide(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestManagementUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)
	r := landingRouter()

	endpoint := fmt.Sprintf("/management/landing-images/%d/toggle", database.TestLanding2.ID)
	rec, resp := testutil.MakeJSONRequest(nil, token, r, endpoint, http.MethodPatch)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["is_active"])

	// Flip it back so listing tests stay deterministic.
	rec, resp = testutil.MakeJSONRequest(nil, token, r, endpoint, http.MethodPatch)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, resp["is_active"])
}

func TestToggleActive_StudentForbidden(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestStudentUser1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	endpoint := fmt.Sprintf("/management/landing-images/%d/toggle", database.TestLanding1.ID)
	rec, _ := testutil.MakeJSONRequest(nil, token, landingRouter(), endpoint, http.MethodPatch)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDelete_RemovesSlide(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestManagementUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	slide := model.LandingImage{
		Title:      "Slide descartável",
		ImageURL:   "https://storage.example.com/landing/tmp.png",
		OrderIndex: 99,
	}
	assert.NoError(t, testDB.Create(&slide).Error)

	endpoint := fmt.Sprintf("/management/landing-images/%d", slide.ID)
	rec, _ := testutil.MakeJSONRequest(nil, token, landingRouter(), endpoint, http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	testDB.Model(&model.LandingImage{}).Where("id = ?", slide.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
