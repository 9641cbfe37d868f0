// Package landing provides HTTP handlers for the public landing carousel.
package landing

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Kevengrf/residencia-onboard/internal/controller/file"
	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

// LandingController handles landing carousel endpoints
type LandingController struct {
	DB      *database.DBinstanceStruct
	Storage file.StorageClient
}

// NewLandingController creates a new instance of LandingController
func NewLandingController(db *database.DBinstanceStruct, storage file.StorageClient) *LandingController {
	return &LandingController{
		DB:      db,
		Storage: storage,
	}
}

// ListActive returns the active carousel slides in display order.
// @Summary List active carousel slides
// @Tags Landing
// @Produce json
// @Success 200 {array} model.LandingImage "Active slides ordered by order index"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /landing-images [get]
func (lc *LandingController) ListActive(c *gin.Context) {
	var slides []model.LandingImage
	err := lc.DB.
		Where("is_active = ?", true).
		Order("order_index asc").
		Find(&slides).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch slides: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, slides)
}

// Create uploads one carousel slide.
// @Summary Create a carousel slide
// @Description Management only. Multipart upload with title and order_index form fields.
// @Tags Landing
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param file formData file true "Slide image (png, jpg, jpeg, webp, gif)"
// @Param title formData string false "Slide title"
// @Param order_index formData int false "Display order, lowest first"
// @Success 201 {object} model.LandingImage "Created slide"
// @Failure 400 {object} utilities.ErrorResponse "Missing file or unsupported extension"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /management/landing-images [post]
func (lc *LandingController) Create(c *gin.Context) {
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

	orderIndex := 0
	if raw := c.PostForm("order_index"); raw != "" {
		orderIndex, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid order_index"})
			return
		}
	}

	slide := model.LandingImage{
		Title:      c.PostForm("title"),
		OrderIndex: orderIndex,
		IsActive:   true,
	}

	err = lc.DB.Transaction(func(tx *gorm.DB) error {
		stored, err := file.PersistFile(tx, lc.Storage, header, "landing")
		if err != nil {
			return err
		}
		slide.ImageID = &stored.ID
		slide.ImageURL = stored.URL
		return tx.Create(&slide).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create slide: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, slide)
}

// ToggleActive flips one slide's visibility.
// @Summary Toggle a carousel slide
// @Tags Landing
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Slide ID"
// @Success 200 {object} model.LandingImage "Slide with flipped active flag"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Slide not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /management/landing-images/{id}/toggle [patch]
func (lc *LandingController) ToggleActive(c *gin.Context) {
	var slide model.LandingImage
	err := lc.DB.Where("id = ?", c.Param("id")).First(&slide).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Slide not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch slide: %s", err.Error()),
		})
		return
	}

	slide.IsActive = !slide.IsActive
	if err := lc.DB.Model(&slide).Update("is_active", slide.IsActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update slide: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, slide)
}

// Delete removes one slide.
// @Summary Delete a carousel slide
// @Tags Landing
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Slide ID"
// @Success 200 {object} utilities.MessageResponse "Slide deleted"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Slide not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /management/landing-images/{id} [delete]
func (lc *LandingController) Delete(c *gin.Context) {
	var slide model.LandingImage
	err := lc.DB.Where("id = ?", c.Param("id")).First(&slide).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Slide not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch slide: %s", err.Error()),
		})
		return
	}

	if err := lc.DB.Delete(&slide).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete slide: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Slide deleted"})
}
