// Package student provides HTTP handlers for student profile operations.
package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Kevengrf/residencia-onboard/internal/controller/file"
	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

// StudentController handles student profile endpoints
type StudentController struct {
	DB      *database.DBinstanceStruct
	Storage file.StorageClient
}

// NewStudentController creates a new instance of StudentController
func NewStudentController(db *database.DBinstanceStruct, storage file.StorageClient) *StudentController {
	return &StudentController{
		DB:      db,
		Storage: storage,
	}
}

type editProfileInfo struct {
	model.EditableStudentInfo
	User *model.EditableUserInfo `json:"user"`
}

// GetMyProfile returns the requesting student's full profile.
// @Summary Get own student profile
// @Tags Student
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.Student "Own student profile"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Student profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /student/myprofile [get]
func (sc *StudentController) GetMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var profile model.Student
	err = sc.DB.
		Preload("User").
		Where("user_id = ?", user.ID).
		First(&profile).Error

	switch {
	case err == nil:
		c.JSON(http.StatusOK, profile)
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Student profile not found"})
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch profile: %s", err.Error()),
		})
	}
}

// EditProfile overwrites the editable part of the student profile and,
// optionally, the account fields nested under "user".
// @Summary Edit own student profile
// @Description Merge non-empty fields into the profile. Residency period and status only change through management.
// @Tags Student
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Profile body editProfileInfo true "Fields to overwrite"
// @Success 200 {object} model.Student "Updated student profile"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Student profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /student/myprofile [patch]
func (sc *StudentController) EditProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var edited editProfileInfo
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var profile model.Student
	if err := sc.DB.Preload("User").Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Student profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch profile: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&profile.EditableStudentInfo, &edited.EditableStudentInfo)

	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}
		if edited.User != nil {
			utilities.MergeNonEmpty(&profile.User.EditableUserInfo, edited.User)
			return tx.Save(&profile.User).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update profile: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadAvatar replaces the student avatar image.
// @Summary Upload student avatar
// @Description Accepts a multipart image upload up to 10MB
// @Tags Student
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param file formData file true "Avatar image (png, jpg, jpeg, webp, gif)"
// @Success 200 {object} model.Student "Student with updated avatar"
// @Failure 400 {object} utilities.ErrorResponse "Missing file or unsupported extension"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Student profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /student/avatar [post]
func (sc *StudentController) UploadAvatar(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
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

	var profile model.Student
	if err := sc.DB.Preload("User").Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Student profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch profile: %s", err.Error()),
		})
		return
	}

	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		stored, err := file.PersistFile(tx, sc.Storage, header, "student/avatar")
		if err != nil {
			return err
		}
		profile.AvatarID = &stored.ID
		profile.User.AvatarURL = stored.URL
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}
		return tx.Save(&profile.User).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store avatar: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Talents lists every active student for the public talent showcase.
// @Summary List active students
// @Description Public showcase of active students with account info preloaded
// @Tags Student
// @Produce json
// @Success 200 {array} model.Student "Active students"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /talents [get]
func (sc *StudentController) Talents(c *gin.Context) {
	var talents []model.Student
	err := sc.DB.
		Preload("User").
		Where("status = ?", model.StudentStatusActive).
		Order("created_at desc").
		Find(&talents).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch talents: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, talents)
}

// MyProjects lists every project the requesting student is or was allocated
// to, with grades and feedback.
// @Summary List own project allocations
// @Tags Student
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.ProjectAllocation "Own project allocations with projects preloaded"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /student/projects [get]
func (sc *StudentController) MyProjects(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var allocations []model.ProjectAllocation
	err = sc.DB.
		Preload("Project").
		Preload("Project.Company").
		Preload("Project.Period").
		Where("student_id = ?", user.ID).
		Find(&allocations).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch projects: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, allocations)
}
