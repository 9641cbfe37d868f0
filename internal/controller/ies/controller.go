// Package ies provides HTTP handlers for partner institutions and their
// announcement cards.
package ies

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kevengrf/residencia-onboard/internal/controller/file"
	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
)

// homeHighlightLimit caps the landing page highlight feed.
const homeHighlightLimit = 12

// IesController handles institution and card endpoints
type IesController struct {
	DB      *database.DBinstanceStruct
	Storage file.StorageClient
}

// NewIesController creates a new instance of IesController
func NewIesController(db *database.DBinstanceStruct, storage file.StorageClient) *IesController {
	return &IesController{
		DB:      db,
		Storage: storage,
	}
}

// ListIes lists every partner institution.
// @Summary List partner institutions
// @Tags Ies
// @Produce json
// @Success 200 {array} model.Institution "Institutions ordered by name"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /ies [get]
func (ic *IesController) ListIes(c *gin.Context) {
	var institutions []model.Institution
	if err := ic.DB.Order("name asc").Find(&institutions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch institutions: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, institutions)
}

// GetIesByID returns one institution with its cards, newest first.
// @Summary Get an institution by id
// @Tags Ies
// @Produce json
// @Param id path string true "Institution ID"
// @Success 200 {object} model.Institution "Institution with cards preloaded"
// @Failure 404 {object} utilities.ErrorResponse "Institution not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /ies/{id} [get]
func (ic *IesController) GetIesByID(c *gin.Context) {
	var institution model.Institution
	err := ic.DB.
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc")
		}).
		Where("id = ?", c.Param("id")).
		First(&institution).Error

	switch {
	case err == nil:
		c.JSON(http.StatusOK, institution)
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Institution not found"})
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch institution: %s", err.Error()),
		})
	}
}

// EditProfile overwrites the editable part of the requester's institution.
// @Summary Edit own institution profile
// @Description IES accounts edit the institution they are linked to
// @Tags Ies
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Institution body model.EditableIesInfo true "Fields to overwrite"
// @Success 200 {object} model.Institution "Updated institution"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Account has no linked institution"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /ies/myprofile [patch]
func (ic *IesController) EditProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	if user.IesID == nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Account is not linked to an institution"})
		return
	}

	var edited model.EditableIesInfo
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var institution model.Institution
	if err := ic.DB.Where("id = ?", user.IesID).First(&institution).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Institution not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch institution: %s", err.Error()),
		})
		return
	}

	utilities.MergeNonEmpty(&institution.EditableIesInfo, &edited)

	if err := ic.DB.Save(&institution).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update institution: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, institution)
}

type cardInfo struct {
	IesID   *uuid.UUID `json:"ies_id"`
	Title   string     `json:"title" binding:"required"`
	Content string     `json:"content"`
	Type    string     `json:"type" binding:"required"`
}

// CreateCard publishes an announcement card. IES accounts publish on their
// own institution; management picks the institution in the request body.
// @Summary Create an institution card
// @Description Card type is one of news, highlight or achievement
// @Tags Ies
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Card body cardInfo true "Card content. ies_id is required for management, ignored for IES accounts."
// @Success 201 {object} model.IesCard "Created card"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or card type"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Institution not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /ies/cards [post]
func (ic *IesController) CreateCard(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var info cardInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if err := model.ValidCardType(info.Type); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var targetIes uuid.UUID
	switch {
	case user.Role == model.RoleIes:
		if user.IesID == nil {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Account is not linked to an institution"})
			return
		}
		targetIes = *user.IesID
	case info.IesID != nil:
		targetIes = *info.IesID
	default:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "ies_id is required"})
		return
	}

	var institution model.Institution
	if err := ic.DB.Where("id = ?", targetIes).First(&institution).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Institution not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch institution: %s", err.Error()),
		})
		return
	}

	card := model.IesCard{
		IesID:   targetIes,
		Title:   info.Title,
		Content: info.Content,
		Type:    info.Type,
	}
	if err := ic.DB.Create(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create card: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusCreated, card)
}

// ToggleCardFeature flips whether one card surfaces on the landing page.
// @Summary Toggle a card's featured flag
// @Description IES accounts toggle their own cards. Management toggles any card.
// @Tags Ies
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Card ID"
// @Success 200 {object} model.IesCard "Card with flipped featured flag"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Card belongs to another institution"
// @Failure 404 {object} utilities.ErrorResponse "Card not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /ies/cards/{id}/feature [patch]
func (ic *IesController) ToggleCardFeature(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	card, ok := ic.ownedCard(c, user)
	if !ok {
		return
	}

	card.IsFeaturedOnHome = !card.IsFeaturedOnHome
	if err := ic.DB.Model(&card).Update("is_featured_on_home", card.IsFeaturedOnHome).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update card: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, card)
}

// DeleteCard removes one card.
// @Summary Delete an institution card
// @Description IES accounts delete their own cards. Management deletes any card.
// @Tags Ies
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Card ID"
// @Success 200 {object} utilities.MessageResponse "Card deleted"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Card belongs to another institution"
// @Failure 404 {object} utilities.ErrorResponse "Card not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /ies/cards/{id} [delete]
func (ic *IesController) DeleteCard(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	card, ok := ic.ownedCard(c, user)
	if !ok {
		return
	}

	if err := ic.DB.Delete(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete card: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Card deleted"})
}

// UploadCardImage attaches an image to one card.
// @Summary Upload a card image
// @Description Accepts a multipart image upload up to 10MB and attaches it to the card
// @Tags Ies
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Card ID"
// @Param file formData file true "Card image (png, jpg, jpeg, webp, gif)"
// @Success 200 {object} model.IesCard "Card with updated image url"
// @Failure 400 {object} utilities.ErrorResponse "Missing file or unsupported extension"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Card belongs to another institution"
// @Failure 404 {object} utilities.ErrorResponse "Card not found"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /ies/cards/{id}/image [post]
func (ic *IesController) UploadCardImage(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	card, ok := ic.ownedCard(c, user)
	if !ok {
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

	err = ic.DB.Transaction(func(tx *gorm.DB) error {
		stored, err := file.PersistFile(tx, ic.Storage, header, "ies/card")
		if err != nil {
			return err
		}
		card.ImageID = &stored.ID
		card.ImageURL = stored.URL
		return tx.Save(&card).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store image: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, card)
}

// HomeHighlights returns featured cards for the landing page, newest first.
// @Summary List featured cards for the landing page
// @Description Up to 12 featured cards with their institutions preloaded
// @Tags Ies
// @Produce json
// @Success 200 {array} model.IesCard "Featured cards"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /home/highlights [get]
func (ic *IesController) HomeHighlights(c *gin.Context) {
	var cards []model.IesCard
	err := ic.DB.
		Preload("Ies").
		Where("is_featured_on_home = ?", true).
		Order("created_at desc").
		Limit(homeHighlightLimit).
		Find(&cards).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch highlights: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, cards)
}

// ownedCard fetches the card in the path and verifies the requester may
// mutate it. Writes the error response itself when the check fails.
func (ic *IesController) ownedCard(c *gin.Context, user model.User) (model.IesCard, bool) {
	var card model.IesCard
	err := ic.DB.Where("id = ?", c.Param("id")).First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Card not found"})
			return card, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch card: %s", err.Error()),
		})
		return card, false
	}

	if user.Role != model.RoleManagement &&
		(user.IesID == nil || card.IesID.String() != user.IesID.String()) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Card belongs to another institution"})
		return card, false
	}
	return card, true
}
