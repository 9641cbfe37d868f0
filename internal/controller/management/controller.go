// Package management provides HTTP handlers for the management console:
// company approval, residency periods and company/IES allocations.
package management

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

// ManagementController handles management console endpoints
type ManagementController struct {
	DB *database.DBinstanceStruct
}

// NewManagementController creates a new instance of ManagementController
func NewManagementController(db *database.DBinstanceStruct) *ManagementController {
	return &ManagementController{
		DB: db,
	}
}

// GetCompanies lists companies of every status for review.
// @Summary List companies for review
// @Description Optional status query filters by pending, approved or rejected
// @Tags Management
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Filter by approval status"
// @Success 200 {array} model.Company "Companies, oldest first"
// @Failure 400 {object} utilities.ErrorResponse "Unknown status value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /management/companies [get]
func (mc *ManagementController) GetCompanies(c *gin.Context) {
	query := mc.DB.Order("created_at asc")

	if status := c.Query("status"); status != "" {
		if status != model.StatusPending && status != model.StatusApproved && status != model.StatusRejected {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Unknown status: %s", status),
			})
			return
		}
		query = query.Where("status = ?", status)
	}

	var companies []model.Company
	if err := query.Find(&companies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch companies: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, companies)
}

type companyStatusInfo struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// UpdateCompanyStatus approves or rejects one pending company. The decision
// is terminal.
// @Summary Approve or reject a company
// @Description Only pending companies can transition. Approved and rejected are terminal states.
// @Tags Management
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Company ID"
// @Param Status body companyStatusInfo true "New status, approved or rejected"
// @Success 200 {object} model.Company "Company with its new status"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 409 {object} utilities.ErrorResponse "Company is not pending"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /management/companies/{id}/status [patch]
func (mc *ManagementController) UpdateCompanyStatus(c *gin.Context) {
	var info companyStatusInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var company model.Company
	err := mc.DB.Where("id = ?", c.Param("id")).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Company not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch company: %s", err.Error()),
		})
		return
	}

	if company.Status != model.StatusPending {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: fmt.Sprintf("Company is already %s", company.Status),
		})
		return
	}

	company.Status = info.Status
	if err := mc.DB.Model(&company).Update("status", info.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update company: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, company)
}

type periodInfo struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status" binding:"omitempty,oneof=planning active finished"`
}

// CreatePeriod creates one residency period.
// @Summary Create a residency period
// @Description Period names like "2025.2" are unique
// @Tags Management
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Period body periodInfo true "Period information"
// @Success 201 {object} model.ResidencyPeriod "Created period"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 409 {object} utilities.ErrorResponse "Period name already exists"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /management/periods [post]
func (mc *ManagementController) CreatePeriod(c *gin.Context) {
	var info periodInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	period := model.ResidencyPeriod{
		Name:      info.Name,
		StartDate: info.StartDate,
		EndDate:   info.EndDate,
		Status:    info.Status,
	}
	if period.Status == "" {
		period.Status = model.PeriodStatusPlanning
	}

	if err := mc.DB.Create(&period).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, utilities.ErrorResponse{
				Error: fmt.Sprintf("Period %s already exists", info.Name),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create period: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusCreated, period)
}

// GetPeriods lists every residency period, newest first.
// @Summary List residency periods
// @Tags Management
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.ResidencyPeriod "Residency periods"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /management/periods [get]
func (mc *ManagementController) GetPeriods(c *gin.Context) {
	var periods []model.ResidencyPeriod
	if err := mc.DB.Order("name desc").Find(&periods).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch periods: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, periods)
}

type allocationBatchInfo struct {
	PeriodID  uint        `json:"residency_period_id" binding:"required"`
	CompanyID uuid.UUID   `json:"company_id" binding:"required"`
	IesIDs    []uuid.UUID `json:"ies_ids" binding:"required,min=1"`
}

// CreateAllocations links one company to a batch of institutions within one
// period. The whole batch commits or none of it does.
// @Summary Allocate a company to institutions for a period
// @Description Inserts one allocation per ies id in a single transaction. Any duplicate tuple rolls back the whole batch.
// @Tags Management
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Batch body allocationBatchInfo true "Period, company and institutions to link"
// @Success 201 {array} model.ResidencyAllocation "Created allocations"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or unknown period, company or ies"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 409 {object} utilities.ErrorResponse "Allocation already exists"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /management/allocations [post]
func (mc *ManagementController) CreateAllocations(c *gin.Context) {
	var info allocationBatchInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	allocations := make([]model.ResidencyAllocation, 0, len(info.IesIDs))
	for _, iesID := range info.IesIDs {
		allocations = append(allocations, model.ResidencyAllocation{
			PeriodID:  info.PeriodID,
			CompanyID: info.CompanyID,
			IesID:     iesID,
		})
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&allocations).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: "Allocation already exists for this period"})
				return
			case "23503":
				c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Unknown period, company or ies"})
				return
			}
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create allocations: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, allocations)
}

// GetAllocations lists allocations, optionally scoped to one period.
// @Summary List residency allocations
// @Description Optional period_id query scopes the listing to one period
// @Tags Management
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param period_id query int false "Residency period ID"
// @Success 200 {array} model.ResidencyAllocation "Allocations with company and ies preloaded"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /management/allocations [get]
func (mc *ManagementController) GetAllocations(c *gin.Context) {
	query := mc.DB.
		Preload("Company").
		Preload("Ies").
		Order("created_at desc")

	if periodID := c.Query("period_id"); periodID != "" {
		query = query.Where("period_id = ?", periodID)
	}

	var allocations []model.ResidencyAllocation
	if err := query.Find(&allocations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch allocations: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, allocations)
}

// DeleteAllocation removes one allocation.
// @Summary Delete a residency allocation
// @Tags Management
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Allocation ID"
// @Success 200 {object} utilities.MessageResponse "Allocation deleted"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Allocation not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /management/allocations/{id} [delete]
func (mc *ManagementController) DeleteAllocation(c *gin.Context) {
	var allocation model.ResidencyAllocation
	err := mc.DB.Where("id = ?", c.Param("id")).First(&allocation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Allocation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch allocation: %s", err.Error()),
		})
		return
	}

	if err := mc.DB.Delete(&allocation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete allocation: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Allocation deleted"})
}

// GetStudents lists every student profile for management.
// @Summary List students
// @Description Optional status query filters by active, graduated or dropped
// @Tags Management
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Filter by student status"
// @Success 200 {array} model.Student "Students with account info preloaded"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /management/students [get]
func (mc *ManagementController) GetStudents(c *gin.Context) {
	query := mc.DB.Preload("User").Order("created_at asc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var students []model.Student
	if err := query.Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch students: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, students)
}

type studentAdminInfo struct {
	Status          string `json:"status" binding:"omitempty,oneof=active graduated dropped"`
	ResidencyPeriod int    `json:"residency_period" binding:"omitempty,min=1"`
}

// UpdateStudent mutates the management-owned part of a student profile.
// @Summary Update a student's status or residency period
// @Description Only lifecycle status and residency period can change here
// @Tags Management
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Student user ID"
// @Param Student body studentAdminInfo true "Fields to update"
// @Success 200 {object} model.Student "Updated student"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Student not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /management/students/{id} [patch]
func (mc *ManagementController) UpdateStudent(c *gin.Context) {
	var info studentAdminInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var profile model.Student
	err := mc.DB.Preload("User").Where("user_id = ?", c.Param("id")).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch student: %s", err.Error()),
		})
		return
	}

	updates := map[string]interface{}{}
	if info.Status != "" {
		updates["status"] = info.Status
		profile.Status = info.Status
	}
	if info.ResidencyPeriod > 0 {
		updates["residency_period"] = info.ResidencyPeriod
		profile.ResidencyPeriod = info.ResidencyPeriod
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Nothing to update"})
		return
	}

	if err := mc.DB.Model(&model.Student{}).Where("user_id = ?", profile.UserID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update student: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, profile)
}
