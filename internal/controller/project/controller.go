// Package project provides HTTP handlers for residency projects, including
// the historic project importer.
package project

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

// ProjectController handles project endpoints
type ProjectController struct {
	DB *database.DBinstanceStruct
}

// NewProjectController creates a new instance of ProjectController
func NewProjectController(db *database.DBinstanceStruct) *ProjectController {
	return &ProjectController{
		DB: db,
	}
}

// NormalizeCompanyName canonicalizes a company name for matching imported
// records against registered companies.
func NormalizeCompanyName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type importProjectInfo struct {
	PeriodID        uint        `json:"period_id" binding:"required"`
	CompanyName     string      `json:"company_name" binding:"required"`
	Title           string      `json:"title" binding:"required"`
	Description     string      `json:"description"`
	PdfURL          *string     `json:"pdf_url"`
	VideoURL        *string     `json:"video_url"`
	ClassName       string      `json:"class_name"`
	Type            string      `json:"type"`
	IsDemoDayWinner bool        `json:"is_demoday_winner"`
	Squad           []uuid.UUID `json:"squad"`
}

// ImportHistoric stores one project from a past period. The company name is
// matched against registered companies ignoring case and surrounding
// whitespace; with no match the name is kept as free text. Squad members are
// allocated with status completed. The project and its allocations commit in
// one transaction.
// @Summary Import a historic project
// @Description Matches the company name against registered companies, falling back to free text. Squad allocations are created completed.
// @Tags Project
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Project body importProjectInfo true "Historic project record"
// @Success 201 {object} model.CompanyProject "Imported project with squad"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or unknown period or student"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /management/projects/import [post]
func (pc *ProjectController) ImportHistoric(c *gin.Context) {
	var info importProjectInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	newProject := model.CompanyProject{
		PeriodID:        info.PeriodID,
		Title:           info.Title,
		Description:     info.Description,
		PdfURL:          info.PdfURL,
		VideoURL:        info.VideoURL,
		ClassName:       info.ClassName,
		Type:            info.Type,
		IsDemoDayWinner: info.IsDemoDayWinner,
	}
	if newProject.Type == "" {
		newProject.Type = "custom"
	}

	var matched model.Company
	err := pc.DB.
		Where("lower(trim(name)) = ? AND status = ?", NormalizeCompanyName(info.CompanyName), model.StatusApproved).
		First(&matched).Error
	switch {
	case err == nil:
		newProject.CompanyID = &matched.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		name := strings.TrimSpace(info.CompanyName)
		newProject.HistoricCompanyName = &name
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to match company: %s", err.Error()),
		})
		return
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newProject).Error; err != nil {
			return err
		}
		for _, studentID := range info.Squad {
			allocation := model.ProjectAllocation{
				ProjectID: newProject.ID,
				StudentID: studentID,
				Status:    model.ProjectAllocationCompleted,
			}
			if err := tx.Create(&allocation).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Unknown period or squad member"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to import project: %s", err.Error()),
		})
		return
	}

	var created model.CompanyProject
	if err := pc.DB.Preload("Squad").Where("id = ?", newProject.ID).First(&created).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch imported project: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PeriodProjects lists every project of one residency period.
// @Summary List projects of a period
// @Description Public showcase. Squad members and companies come preloaded.
// @Tags Project
// @Produce json
// @Param id path int true "Residency period ID"
// @Success 200 {array} model.CompanyProject "Projects of the period"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /periods/{id}/projects [get]
func (pc *ProjectController) PeriodProjects(c *gin.Context) {
	var projects []model.CompanyProject
	err := pc.DB.
		Preload("Company").
		Preload("Squad").
		Preload("Squad.Student").
		Preload("Squad.Student.User").
		Where("period_id = ?", c.Param("id")).
		Order("is_demoday_winner desc, title asc").
		Find(&projects).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch projects: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, projects)
}
