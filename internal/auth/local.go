// Package auth contains handler relate to log in and create user account
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

// LocalAuthHandler holds DB reference for handler methods.
type LocalAuthHandler struct {
	DB *database.DBinstanceStruct
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.DBinstanceStruct) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB: db,
	}
}

type registerInfo struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=student company"`

	FullName string `json:"full_name"`

	// Company registration only.
	CompanyName        string `json:"company_name"`
	CompanyDescription string `json:"company_description"`
	CompanyWebsite     string `json:"company_website"`
}

type loginInfo struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LocalRegisterHandler function handles local registration by receiving username and password
// do nothing if username already exist in the database
// do nothing if password is shorter than 8 characters
// @Summary Handles local registration by receiving username, password and role
// @Description Username must not already exist and password must longer or equal to 8 characters long
// @Description Company registration also requires company_name; the company record is created pending approval
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "role can be only 'student' or 'company'"
// @Success 201 {object} model.StudentResponse "If role is student"
// @Success 201 {object} model.CompanyResponse "If role is company"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) LocalRegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username, password, and role (only 'student' or 'company') must be provided",
		})
		return
	}

	var user model.User
	err := lh.DB.Where("username = ?", info.Username).First(&user).Error

	switch {
	case err == nil:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username already exist",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	switch info.Role {
	case model.RoleStudent:
		student := model.Student{
			User: model.User{
				Username: info.Username,
				Password: hashedPassword,
				Role:     model.RoleStudent,
				EditableUserInfo: model.EditableUserInfo{
					FullName: info.FullName,
				},
			},
			Status: model.StudentStatusActive,
		}
		if err := lh.DB.Create(&student).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
			})
			return
		}

		accessToken, _, err := GenerateStandardToken(student.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
			})
			return
		}

		c.JSON(http.StatusCreated, model.StudentResponse{
			User:        student,
			AccessToken: accessToken,
		})

	case model.RoleCompany:
		if strings.TrimSpace(info.CompanyName) == "" {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "Company registration requires company_name",
			})
			return
		}

		// User, company record and the link between them are written in one
		// transaction so no half-registered account survives a failure.
		var companyUser model.User
		var company model.Company

		err := lh.DB.Transaction(func(tx *gorm.DB) error {
			company = model.Company{
				Name:   strings.TrimSpace(info.CompanyName),
				Status: model.StatusPending,
				EditableCompanyInfo: model.EditableCompanyInfo{
					Description: info.CompanyDescription,
					Website:     info.CompanyWebsite,
				},
			}
			if err := tx.Create(&company).Error; err != nil {
				return err
			}

			companyUser = model.User{
				Username:  info.Username,
				Password:  hashedPassword,
				Role:      model.RoleCompany,
				CompanyID: &company.ID,
				EditableUserInfo: model.EditableUserInfo{
					FullName: info.FullName,
				},
			}
			return tx.Create(&companyUser).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
			})
			return
		}

		accessToken, _, err := GenerateStandardToken(companyUser.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
			})
			return
		}

		c.JSON(http.StatusCreated, model.CompanyResponse{
			User:        companyUser,
			Company:     &company,
			AccessToken: accessToken,
		})

	default:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Role '%s' not allowed", info.Role),
		})
	}
}

// LocalLoginHandler function handles local login by receiving username and password
// do nothing if username does not exist in the database
// do nothing if password is incorrect
// @Summary Handles local login by receiving username and password
// @Description Username must exist and password match
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials for login"
// @Success 200 {object} model.StudentResponse "If role is student"
// @Success 200 {object} model.CompanyResponse "If role is company"
// @Success 200 {object} model.AccountResponse "For management, support and IES accounts"
// @Failure 400 {object} utilities.ErrorResponse "Info provided not met the condition"
// @Failure 401 {object} utilities.ErrorResponse "Username not exist or password incorrect"
// @Failure 500 {object} utilities.ErrorResponse "Database or password hashing error"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LocalLoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Username or password is not provided",
		})
		return
	}

	var user model.User
	err := lh.DB.Where("username = ?", info.Username).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Username or password is incorrect",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Password == "" {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Username or password is incorrect",
		})
		return
	}

	if !utilities.VerifyPassword(info.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Username or password is incorrect",
		})
		return
	}

	accessToken, _, err := GenerateStandardToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	switch user.Role {
	case model.RoleStudent:
		var student model.Student
		if err := lh.DB.Preload("User").Where("user_id = ?", user.ID).First(&student).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve user data: %s", err.Error()),
			})
			return
		}

		c.JSON(http.StatusOK, model.StudentResponse{
			User:        student,
			AccessToken: accessToken,
		})

	case model.RoleCompany:
		var company *model.Company
		if user.CompanyID != nil {
			company = &model.Company{}
			if err := lh.DB.Where("id = ?", user.CompanyID).First(company).Error; err != nil {
				c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
					Error: fmt.Sprintf("Failed to retrieve company data: %s", err.Error()),
				})
				return
			}
		}

		c.JSON(http.StatusOK, model.CompanyResponse{
			User:        user,
			Company:     company,
			AccessToken: accessToken,
		})

	default:
		c.JSON(http.StatusOK, model.AccountResponse{
			User:        user,
			AccessToken: accessToken,
		})
	}
}
