package handlers

import (
	"net/http"

	"github.com/AnshRaj112/fitify-backend/internal/config"
	"github.com/AnshRaj112/fitify-backend/internal/services"
)

const maxAvatarBytes = 5 << 20

var cloudinaryService *services.CloudinaryService

func InitCloudinaryService(cfg *config.Config) error {
	service, err := services.NewCloudinaryService(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	cloudinaryService = service
	return nil
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// UploadAvatar stores the caller's profile picture and saves its URL.
func UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if cloudinaryService == nil {
		writeFailure(w, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes+(1<<10))
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeFailure(w, http.StatusBadRequest, "Image must be 5MB or smaller")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	url, err := cloudinaryService.UploadAvatar(r.Context(), userID, fileHeader)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := services.UpdateAvatar(r.Context(), userID, url); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{Success: true, Message: "Avatar updated", URL: url})
}
