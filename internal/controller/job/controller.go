// Package job provides HTTP handlers for job posting operations.
package job

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

// JobController handles job posting endpoints
type JobController struct {
	DB *database.DBinstanceStruct
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.DBinstanceStruct) *JobController {
	return &JobController{
		DB: db,
	}
}

// CreateJob creates a job posting owned by the requesting company.
// @Summary Create job posting
// @Description Only approved companies have access to this endpoint
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body model.EditableJobInfo true "Job posting information"
// @Success 201 {object} model.Job "Created job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Company not approved"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /company/jobs [post]
func (jc *JobController) CreateJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var info model.EditableJobInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if info.Status == "" {
		info.Status = model.JobStatusOpen
	}
	if info.Status != model.JobStatusOpen && info.Status != model.JobStatusClosed {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid job status: %s", info.Status),
		})
		return
	}

	newJob := model.Job{
		CompanyID:       *user.CompanyID,
		EditableJobInfo: info,
	}
	if err := jc.DB.Create(&newJob).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create job: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, newJob)
}

// GetJobByID returns one job posting with its company.
// @Summary Get a job posting by id
// @Description Students see their own application state on the response
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Success 200 {object} model.JobResponse "Job posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [get]
func (jc *JobController) GetJobByID(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var foundJob model.Job
	err = jc.DB.
		Preload("Company").
		Preload("Applications").
		Where("id = ?", c.Param("id")).
		First(&foundJob).Error

	switch {
	case err == nil:
		resp, err := foundJob.ToJobResponse(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to build response: %s", err.Error()),
			})
			return
		}
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch job: %s", err.Error()),
		})
	}
}

// EditJob overwrites the editable part of an owned job posting.
// @Summary Edit own job posting
// @Description Merge non-empty fields into the posting. Ownership cannot change.
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Param Job body model.EditableJobInfo true "Fields to overwrite"
// @Success 200 {object} model.Job "Updated job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /company/jobs/{id} [patch]
func (jc *JobController) EditJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	foundJob, ok := jc.ownedJob(c, user)
	if !ok {
		return
	}

	var edited model.EditableJobInfo
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if edited.Status != "" && edited.Status != model.JobStatusOpen && edited.Status != model.JobStatusClosed {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid job status: %s", edited.Status),
		})
		return
	}

	utilities.MergeNonEmpty(&foundJob.EditableJobInfo, &edited)

	if err := jc.DB.Save(&foundJob).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, foundJob)
}

// DeleteJob removes a job posting. The owning company or management can
// delete; applications cascade.
// @Summary Delete a job posting
// @Description Owning company or management only. Applications are removed with the posting.
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Success 200 {object} utilities.MessageResponse "Job deleted"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [delete]
func (jc *JobController) DeleteJob(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var foundJob model.Job
	if err := jc.DB.Where("id = ?", c.Param("id")).First(&foundJob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch job: %s", err.Error()),
		})
		return
	}

	if user.Role != model.RoleManagement &&
		(user.CompanyID == nil || foundJob.CompanyID.String() != user.CompanyID.String()) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to delete this job"})
		return
	}

	if err := jc.DB.Select("Applications").Delete(&foundJob).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete job: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job deleted"})
}

// MyPosts returns every job posting owned by the requesting company.
// @Summary List own job postings
// @Description Includes closed postings, newest first
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Job "Own job postings"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /company/jobs [get]
func (jc *JobController) MyPosts(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var posts []model.Job
	err = jc.DB.
		Where("company_id = ?", user.CompanyID).
		Order("post_time desc").
		Find(&posts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch jobs: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, posts)
}

// JobApplications lists every application on one owned job posting.
// @Summary List applications on a job posting
// @Description Owning company or management only. Student profiles come preloaded.
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Job ID"
// @Success 200 {array} model.JobApplication "Applications with student profiles"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/applications [get]
func (jc *JobController) JobApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var foundJob model.Job
	if err := jc.DB.Where("id = ?", c.Param("id")).First(&foundJob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch job: %s", err.Error()),
		})
		return
	}

	if user.Role != model.RoleManagement &&
		(user.CompanyID == nil || foundJob.CompanyID.String() != user.CompanyID.String()) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to view these applications"})
		return
	}

	var applications []model.JobApplication
	err = jc.DB.
		Preload("Student").
		Preload("Student.User").
		Where("job_id = ?", foundJob.ID).
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

// ownedJob fetches the job in the path and verifies the requester owns it.
// Writes the error response itself when the lookup or check fails.
func (jc *JobController) ownedJob(c *gin.Context, user model.User) (model.Job, bool) {
	var foundJob model.Job
	err := jc.DB.Where("id = ?", c.Param("id")).First(&foundJob).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return foundJob, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch job: %s", err.Error()),
		})
		return foundJob, false
	}

	if user.CompanyID == nil || foundJob.CompanyID.String() != user.CompanyID.String() {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to edit this job"})
		return foundJob, false
	}
	return foundJob, true
}
