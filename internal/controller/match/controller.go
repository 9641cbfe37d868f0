// Package match provides the swipe deck of open jobs for students.
package match

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

// deckSize caps how many jobs one deck fetch returns.
const deckSize = 20

// MatchController handles the job match deck endpoint
type MatchController struct {
	DB *database.DBinstanceStruct
}

// NewMatchController creates a new instance of MatchController
func NewMatchController(db *database.DBinstanceStruct) *MatchController {
	return &MatchController{
		DB: db,
	}
}

// GetDeck returns the requesting student's swipe deck: open jobs the student
// has not applied to, newest first.
// @Summary Get the job match deck
// @Description Open jobs excluding ones the student already applied to, newest first, up to 20
// @Tags Match
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Job "Deck of open jobs with companies preloaded"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /student/deck [get]
func (mc *MatchController) GetDeck(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applied := mc.DB.
		Model(&model.JobApplication{}).
		Select("job_id").
		Where("student_id = ?", user.ID)

	var deck []model.Job
	err = mc.DB.
		Preload("Company").
		Where("status = ?", model.JobStatusOpen).
		Where("id NOT IN (?)", applied).
		Order("post_time desc").
		Limit(deckSize).
		Find(&deck).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch deck: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, deck)
}
