// Package identity resolves the authenticated account into its role-specific
// profile so clients can route after login.
package identity

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

// IdentityController handles the account resolution endpoint
type IdentityController struct {
	DB *database.DBinstanceStruct
}

// NewIdentityController creates a new instance of IdentityController
func NewIdentityController(db *database.DBinstanceStruct) *IdentityController {
	return &IdentityController{
		DB: db,
	}
}

// resolveResponse describes the authenticated account and where its
// role-specific data lives.
type resolveResponse struct {
	User model.User `json:"user"`

	Student     *model.Student     `json:"student,omitempty"`
	Company     *model.Company     `json:"company,omitempty"`
	Institution *model.Institution `json:"institution,omitempty"`

	// NeedsOrganization marks company accounts that signed in through
	// Google and have not completed registration yet.
	NeedsOrganization bool `json:"needs_organization,omitempty"`
}

// Resolve returns the requesting account with its role-specific profile
// attached.
// @Summary Resolve the authenticated account
// @Description Returns the account plus its student, company or institution record. Company accounts without an organization get needs_organization set.
// @Tags Auth
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} resolveResponse "Account with role-specific profile"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /me [get]
func (ic *IdentityController) Resolve(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	resp := resolveResponse{User: user}

	switch user.Role {
	case model.RoleStudent:
		var profile model.Student
		err = ic.DB.Where("user_id = ?", user.ID).First(&profile).Error
		if err == nil {
			resp.Student = &profile
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to fetch student profile: %s", err.Error()),
			})
			return
		}
	case model.RoleCompany:
		if user.CompanyID == nil {
			resp.NeedsOrganization = true
			break
		}
		var company model.Company
		err = ic.DB.Where("id = ?", user.CompanyID).First(&company).Error
		if err == nil {
			resp.Company = &company
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to fetch company: %s", err.Error()),
			})
			return
		}
	case model.RoleIes:
		if user.IesID == nil {
			break
		}
		var institution model.Institution
		err = ic.DB.Where("id = ?", user.IesID).First(&institution).Error
		if err == nil {
			resp.Institution = &institution
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to fetch institution: %s", err.Error()),
			})
			return
		}
	}

	c.JSON(http.StatusOK, resp)
}
