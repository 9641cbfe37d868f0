// Package company provides HTTP handlers for company listing and profile
// operations.
package company

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Kevengrf/residencia-onboard/internal/controller/file"
	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

// CompanyController handles company related endpoints
type CompanyController struct {
	DB      *database.DBinstanceStruct
	Storage file.StorageClient
}

// NewCompanyController creates a new instance of CompanyController
func NewCompanyController(db *database.DBinstanceStruct, storage file.StorageClient) *CompanyController {
	return &CompanyController{
		DB:      db,
		Storage: storage,
	}
}

// ListCompanies returns every approved company.
// @Summary List approved companies
// @Description Public listing. Pending and rejected companies are never included.
// @Tags Company
// @Produce json
// @Success 200 {array} model.Company "Approved companies ordered by name"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies [get]
func (cc *CompanyController) ListCompanies(c *gin.Context) {
	var companies []model.Company
	err := cc.DB.
		Where("status = ?", model.StatusApproved).
		Order("name asc").
		Find(&companies).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch companies: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, companies)
}

// GetCompanyByID returns one approved company with its open jobs.
// @Summary Get an approved company by id
// @Description Public profile page. Unapproved companies respond 404.
// @Tags Company
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} model.Company "Company with open jobs preloaded"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/{id} [get]
func (cc *CompanyController) GetCompanyByID(c *gin.Context) {
	id := c.Param("id")

	var company model.Company
	err := cc.DB.
		Preload("Jobs", "status = ?", model.JobStatusOpen).
		Where("id = ? AND status = ?", id, model.StatusApproved).
		First(&company).Error

	switch {
	case err == nil:
		c.JSON(http.StatusOK, company)
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Company not found"})
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch company: %s", err.Error()),
		})
	}
}

// GetMyProfile returns the company linked to the authenticated account.
// @Summary Get own company profile
// @Description Returns the company record linked to the requesting account, regardless of approval status
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.Company "Own company profile"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Account has no linked company"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /company/myprofile [get]
func (cc *CompanyController) GetMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if user.CompanyID == nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Account is not linked to a company"})
		return
	}

	var company model.Company
	err = cc.DB.Where("id = ?", user.CompanyID).First(&company).Error
	switch {
	case err == nil:
		c.JSON(http.StatusOK, company)
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Company not found"})
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch company: %s", err.Error()),
		})
	}
}

// EditProfile overwrites the editable part of the linked company profile.
// @Summary Edit own company profile
// @Description Merge non-empty fields of the request body into the company record. Name and status cannot be changed here.
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Company body model.EditableCompanyInfo true "Fields to overwrite"
// @Success 200 {object} model.Company "Updated company profile"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Account has no linked company"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /company/myprofile [patch]
func (cc *CompanyController) EditProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if user.CompanyID == nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Account is not linked to a company"})
		return
	}

	var edited model.EditableCompanyInfo
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var company model.Company
	if err := cc.DB.Where("id = ?", user.CompanyID).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Company not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch company: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&company.EditableCompanyInfo, &edited)

	if err := cc.DB.Save(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update company: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, company)
}

type organizationInfo struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// CreateOrganization creates and links a company for an account that has
// none yet. Google sign-in creates company accounts without an organization,
// which land here to complete registration.
// @Summary Complete company registration for an unlinked account
// @Description Creates a pending company and links it to the requesting account in one transaction
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Organization body organizationInfo true "Organization information"
// @Success 201 {object} model.Company "Created company, pending approval"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 409 {object} utilities.ErrorResponse "Account already linked or company name taken"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /company/organization [post]
func (cc *CompanyController) CreateOrganization(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if user.CompanyID != nil {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: "Account is already linked to a company"})
		return
	}

	var info organizationInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	company := model.Company{
		Name: info.Name,
		EditableCompanyInfo: model.EditableCompanyInfo{
			Description: info.Description,
			Website:     info.Website,
		},
		Status: model.StatusPending,
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", user.ID).
			Update("company_id", company.ID).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: "Company name already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create company: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, company)
}

// UploadLogo replaces the company logo image.
// @Summary Upload company logo
// @Description Accepts a multipart image upload up to 10MB and updates the company logo
// @Tags Company
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param file formData file true "Logo image (png, jpg, jpeg, webp, gif)"
// @Success 200 {object} model.Company "Company with updated logo url"
// @Failure 400 {object} utilities.ErrorResponse "Missing file or unsupported extension"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Account has no linked company"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /company/logo [post]
func (cc *CompanyController) UploadLogo(c *gin.Context) {
	cc.uploadImage(c, "logo")
}

// UploadCover replaces the company cover image.
// @Summary Upload company cover image
// @Description Accepts a multipart image upload up to 10MB and updates the company cover
// @Tags Company
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param file formData file true "Cover image (png, jpg, jpeg, webp, gif)"
// @Success 200 {object} model.Company "Company with updated cover url"
// @Failure 400 {object} utilities.ErrorResponse "Missing file or unsupported extension"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Account has no linked company"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /company/cover [post]
func (cc *CompanyController) UploadCover(c *gin.Context) {
	cc.uploadImage(c, "cover")
}

func (cc *CompanyController) uploadImage(c *gin.Context, kind string) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if user.CompanyID == nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Account is not linked to a company"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to read uploaded file: %s", err.Error()),
		})
		return
	}

	if ext, ok := file.ValidImageExtension(header); !ok {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unsupported image extension: %s", ext),
		})
		return
	}

	var company model.Company
	if err := cc.DB.Where("id = ?", user.CompanyID).First(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch company: %s", err.Error()),
		})
		return
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		stored, err := file.PersistFile(tx, cc.Storage, header, "company/"+kind)
		if err != nil {
			return err
		}
		if kind == "logo" {
			company.LogoID = &stored.ID
			company.LogoURL = stored.URL
		} else {
			company.CoverID = &stored.ID
			company.CoverURL = stored.URL
		}
		return tx.Save(&company).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store image: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, company)
}
