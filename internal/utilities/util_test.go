package utilities

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Kevengrf/residencia-onboard/internal/model"
)

func TestMergeNonEmpty_OverwritesOnlyProvidedFields(t *testing.T) {
	dst := model.EditableCompanyInfo{
		Description: "old description",
		Website:     "https://old.example.com",
	}
	src := model.EditableCompanyInfo{
		Website: "https://new.example.com",
	}

	MergeNonEmpty(&dst, &src)

	assert.Equal(t, "old description", dst.Description)
	assert.Equal(t, "https://new.example.com", dst.Website)
}

func TestMergeNonEmpty_PointerFieldsMerge(t *testing.T) {
	yes := true
	dst := model.EditableStudentInfo{
		Bio:       "keep me",
		ClassName: "Turma A",
	}
	src := model.EditableStudentInfo{
		IsEmbarqueHolder: &yes,
		ClassName:        "Turma B",
	}

	MergeNonEmpty(&dst, &src)

	assert.Equal(t, "keep me", dst.Bio)
	assert.Equal(t, "Turma B", dst.ClassName)
	if assert.NotNil(t, dst.IsEmbarqueHolder) {
		assert.True(t, *dst.IsEmbarqueHolder)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("SenhaForte123")
	assert.NoError(t, err)
	assert.NotEqual(t, "SenhaForte123", hashed)

	assert.True(t, VerifyPassword("SenhaForte123", hashed))
	assert.False(t, VerifyPassword("senhaforte123", hashed))
}

func TestExtractBearerToken(t *testing.T) {
	makeCtx := func(header string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			c.Request.Header.Set("Authorization", header)
		}
		return c
	}

	token, err := ExtractBearerToken(makeCtx("Bearer abc.def.ghi"))
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = ExtractBearerToken(makeCtx(""))
	assert.Error(t, err)

	_, err = ExtractBearerToken(makeCtx("Bearer "))
	assert.Error(t, err)

	_, err = ExtractBearerToken(makeCtx("Basic dXNlcjpwYXNz"))
	assert.Error(t, err)
}

func TestValidCardType(t *testing.T) {
	assert.NoError(t, model.ValidCardType(model.CardTypeNews))
	assert.NoError(t, model.ValidCardType(model.CardTypeHighlight))
	assert.NoError(t, model.ValidCardType(model.CardTypeAchievement))
	assert.Error(t, model.ValidCardType("banner"))
	assert.Error(t, model.ValidCardType(""))
}
