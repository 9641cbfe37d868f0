// Package application provides HTTP handlers for job applications.
package application

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

// ApplicationController handles job application endpoints
type ApplicationController struct {
	DB *database.DBinstanceStruct
}

// NewApplicationController creates a new instance of ApplicationController
func NewApplicationController(db *database.DBinstanceStruct) *ApplicationController {
	return &ApplicationController{
		DB: db,
	}
}

// Apply records the requesting student's application to a job. At most one
// application per (job, student) pair ever exists.
// @Summary Apply to a job
// @Description Students only. Applying twice to the same job responds 409. Closed jobs cannot be applied to.
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Success 201 {object} model.JobApplication "Created application with status applied"
// @Failure 400 {object} utilities.ErrorResponse "Invalid job id or job is closed"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 409 {object} utilities.ErrorResponse "Already applied"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/apply [post]
func (ac *ApplicationController) Apply(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	jobID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job id"})
		return
	}

	var foundJob model.Job
	if err := ac.DB.Where("id = ?", jobID).First(&foundJob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch job: %s", err.Error()),
		})
		return
	}

	if foundJob.Status != model.JobStatusOpen {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Job is no longer open"})
		return
	}

	newApplication := model.JobApplication{
		JobID:     foundJob.ID,
		StudentID: user.ID,
		Status:    model.ApplicationStatusApplied,
	}
	if err := ac.DB.Create(&newApplication).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: "Already applied to this job"})
				return
			case "23503":
				c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Account has no student profile"})
				return
			}
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, newApplication)
}

type applicationStatusInfo struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}

// UpdateStatus lets the company owning the job accept or reject one
// application.
// @Summary Accept or reject an application
// @Description Only the company owning the applied job can change the status
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Application ID"
// @Param Status body applicationStatusInfo true "New status, accepted or rejected"
// @Success 200 {object} model.JobApplication "Updated application"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the job"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id} [patch]
func (ac *ApplicationController) UpdateStatus(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var info applicationStatusInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var foundApplication model.JobApplication
	err = ac.DB.
		Preload("Job").
		Where("id = ?", c.Param("id")).
		First(&foundApplication).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch application: %s", err.Error()),
		})
		return
	}

	if user.CompanyID == nil || foundApplication.Job.CompanyID.String() != user.CompanyID.String() {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to update this application"})
		return
	}

	foundApplication.Status = info.Status
	if err := ac.DB.Model(&foundApplication).Update("status", info.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, foundApplication)
}

// MyApplications returns every application the requesting student has made.
// @Summary List own applications
// @Description Newest first, with the applied job and its company preloaded
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.JobApplication "Own applications"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /student/applications [get]
func (ac *ApplicationController) MyApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var applications []model.JobApplication
	err = ac.DB.
		Preload("Job").
		Preload("Job.Company").
		Where("student_id = ?", user.ID).
		Order("applied_at desc").
		Find(&applications).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch applications: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, applications)
}
