// File: handlers/storage.go
package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"stagelink/config"
	"stagelink/services/storage"
	"stagelink/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadFileHandler accepts a multipart upload and stores it as a public
// asset (profile photo, event media). It returns the permanent public ID.
func (hb *HandlerBundle) UploadFileHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "file is required")
		return
	}

	folder := storage.FolderProfiles
	if c.PostForm("kind") == "event" {
		folder = storage.FolderEvents
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to buffer upload")
		return
	}
	defer os.Remove(tmpPath)

	publicID, err := hb.StorageService.UploadFile(c.Request.Context(), tmpPath, folder)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "upload failed")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"publicId": publicID})
}

// UploadKYCDocumentHandler accepts an identity document, encrypts it and
// stores the ciphertext. The returned reference goes into a KYC submission.
func (hb *HandlerBundle) UploadKYCDocumentHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "file is required")
		return
	}
	if config.AppConfig.KYCEncryptionKey == "" {
		utils.JSONError(c, http.StatusServiceUnavailable, "document encryption is not configured")
		return
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to buffer upload")
		return
	}
	defer os.Remove(tmpPath)

	publicID, err := hb.StorageService.UploadKYCDocument(c.Request.Context(), tmpPath,
		storage.FolderKYC, config.AppConfig.KYCEncryptionKey)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "upload failed")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{"documentRef": publicID})
}

// GetSecureURLHandler returns a short-lived signed URL for a stored document.
// Admins use it to inspect KYC uploads during review.
func (hb *HandlerBundle) GetSecureURLHandler(c *gin.Context) {
	publicID := c.Query("publicId")
	if publicID == "" {
		utils.JSONError(c, http.StatusBadRequest, "publicId is required")
		return
	}
	resourceType := c.DefaultQuery("resourceType", "image")

	url, err := hb.StorageService.GetSecureDownloadURL(c.Request.Context(), resourceType, publicID, 15*time.Minute)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to sign URL")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"url": url})
}
