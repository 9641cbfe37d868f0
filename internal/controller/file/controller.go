package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Kevengrf/residencia-onboard/internal/database"
	"github.com/Kevengrf/residencia-onboard/internal/model"
	"github.com/Kevengrf/residencia-onboard/internal/utilities"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif"}

// FileController serves uploaded file content.
type FileController struct {
	DB      *database.DBinstanceStruct
	Storage StorageClient
}

func NewFileController(db *database.DBinstanceStruct, storage StorageClient) *FileController {
	return &FileController{DB: db, Storage: storage}
}

// GetFile serves the raw content of a stored file.
// @Summary Download a stored file
// @Description Serve the raw content of a file previously uploaded to the platform
// @Tags File
// @Produce octet-stream
// @Param id path int true "File ID"
// @Success 200 {file} binary "File content"
// @Failure 400 {object} utilities.ErrorResponse "Invalid file id"
// @Failure 404 {object} utilities.ErrorResponse "File not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /files/{id} [get]
func (fc *FileController) GetFile(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid file id"})
		return
	}

	var foundFile model.File
	err = fc.DB.First(&foundFile, id).Error
	switch {
	case err == nil:
		ctx.Header("Content-Disposition", fmt.Sprintf("inline; filename=file-%d%s", foundFile.ID, foundFile.Extension))
		ctx.Data(http.StatusOK, contentTypeFor(foundFile.Extension), foundFile.Content)
	case errors.Is(err, gorm.ErrRecordNotFound):
		ctx.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "File not found"})
	default:
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to fetch file"})
	}
}

func contentTypeFor(extension string) string {
	switch strings.ToLower(extension) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// ValidImageExtension reports whether the upload has an allowed image extension.
func ValidImageExtension(header *multipart.FileHeader) (string, bool) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	for _, allowed := range imageExtensions {
		if ext == allowed {
			return ext, true
		}
	}
	return ext, false
}

// PersistFile stores an upload as a File row inside tx and, when a storage
// client is configured, mirrors it to blob storage. It returns the created
// row with URL populated to either the public object URL or the local
// download route.
func PersistFile(tx *gorm.DB, storage StorageClient, header *multipart.FileHeader, objectPrefix string) (*model.File, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %v", err)
	}

	newFile := model.File{
		Content:   content,
		Extension: strings.ToLower(filepath.Ext(header.Filename)),
	}
	if err := tx.Create(&newFile).Error; err != nil {
		return nil, fmt.Errorf("failed to store file: %v", err)
	}

	if storage != nil {
		objectName := fmt.Sprintf("%s/%d%s", objectPrefix, newFile.ID, newFile.Extension)
		if err := storage.UploadFile(objectName, bytes.NewReader(content)); err != nil {
			return nil, fmt.Errorf("failed to upload file to storage: %v", err)
		}
		newFile.URL = storage.PublicURL(objectName)
	} else {
		newFile.URL = fmt.Sprintf("/api/v1/files/%d", newFile.ID)
	}

	if err := tx.Model(&newFile).Update("url", newFile.URL).Error; err != nil {
		return nil, fmt.Errorf("failed to record file url: %v", err)
	}
	return &newFile, nil
}
