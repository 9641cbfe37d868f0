package ies

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

func iesRouter() *gin.Engine {
	r := gin.Default()
	ic := NewIesController(testDB, nil)
	r.GET("/ies", ic.ListIes)
	r.GET("/ies/:id", ic.GetIesByID)
	r.GET("/home/highlights", ic.HomeHighlights)

	grp := r.Group("")
	grp.Use(middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleIes, model.RoleManagement))
	grp.PATCH("/ies/myprofile", ic.EditProfile)
	grp.POST("/ies/cards", ic.CreateCard)
	grp.PATCH("/ies/cards/:id/feature", ic.ToggleCardFeature)
	grp.DELETE("/ies/cards/:id", ic.DeleteCard)
	return r
}

func TestGetIesByID_IncludesCards(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, "", iesRouter(), "/ies/"+database.TestIes1.ID.String(), http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestIes1.Name, resp["name"])
	cards, ok := resp["cards"].([]interface{})
	if assert.True(t, ok) {
		assert.GreaterOrEqual(t, len(cards), 2)
	}
}

func TestCreateCard_InvalidTypeRejected(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestIesUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	body := gin.H{"title": "Tipo errado", "type": "banner"}
	rec, _ := testutil.MakeJSONRequest(body, token, iesRouter(), "/ies/cards", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCard_IesUsesOwnInstitution(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestIesUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	body := gin.H{"title": "Semana de inovação", "content": "Programação completa", "type": model.CardTypeNews}
	rec, resp := testutil.MakeJSONRequest(body, token, iesRouter(), "/ies/cards", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, database.TestIes1.ID.String(), resp["ies_id"])
	assert.Equal(t, false, resp["is_featured_on_home"])
}

func TestToggleCardFeature_Flips(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestIesUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	endpoint := fmt.Sprintf("/ies/cards/%d/feature", database.TestCard2.ID)
	rec, resp := testutil.MakeJSONRequest(nil, token, iesRouter(), endpoint, http.MethodPatch)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["is_featured_on_home"])

	var card model.IesCard
	err = testDB.Where("id = ?", database.TestCard2.ID).First(&card).Error
	assert.NoError(t, err)
	assert.True(t, card.IsFeaturedOnHome)
}

func TestHomeHighlights_OnlyFeatured(t *testing.T) {
	rec, resp := testutil.MakeJSONListRequest(nil, "", iesRouter(), "/home/highlights", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.LessOrEqual(t, len(resp), homeHighlightLimit)
	assert.GreaterOrEqual(t, len(resp), 1)
	for _, card := range resp {
		assert.Equal(t, true, card["is_featured_on_home"])
		institution, ok := card["ies"].(map[string]interface{})
		if assert.True(t, ok) {
			assert.NotEmpty(t, institution["name"])
		}
	}
}

func TestDeleteCard_RemovesExactRow(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestIesUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)
	r := iesRouter()

	body := gin.H{"title": "Card temporário", "type": model.CardTypeAchievement}
	rec, resp := testutil.MakeJSONRequest(body, token, r, "/ies/cards", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
	cardID := resp["id"].(float64)

	var before int64
	testDB.Model(&model.IesCard{}).Where("ies_id = ?", database.TestIes1.ID).Count(&before)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, fmt.Sprintf("/ies/cards/%.0f", cardID), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)

	var after int64
	testDB.Model(&model.IesCard{}).Where("ies_id = ?", database.TestIes1.ID).Count(&after)
	assert.Equal(t, before-1, after)

	var count int64
	testDB.Model(&model.IesCard{}).Where("id = ?", cardID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeleteCard_StudentForbidden(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestStudentUser1.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	endpoint := fmt.Sprintf("/ies/cards/%d", database.TestCard1.ID)
	rec, _ := testutil.MakeJSONRequest(nil, token, iesRouter(), endpoint, http.MethodDelete)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEditIesProfile_MergesFields(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestIesUser.Username, database.TestSeedPassword)
	assert.NoError(t, err)

	body := gin.H{"website": "https://portal.unicap.br/residencia"}
	rec, resp := testutil.MakeJSONRequest(body, token, iesRouter(), "/ies/myprofile", http.MethodPatch)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://portal.unicap.br/residencia", resp["website"])
	assert.Equal(t, database.TestIes1.Description, resp["description"])
}
