package handlers

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"slimSquadAPI/services"
)

type UploadHandler struct {
	photoService *services.PhotoService
}

func NewUploadHandler(photoService *services.PhotoService) *UploadHandler {
	return &UploadHandler{photoService: photoService}
}

// ServeUpload streams a stored photo. Filenames are unique per upload,
// so the content is immutable and gets a far-future cache lifetime.
func (h *UploadHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	fileName := mux.Vars(r)["file"]

	fullPath, err := h.photoService.Resolve(fileName)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Not Found")
		return
	}

	raw, err := os.ReadFile(fullPath)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Not Found")
		return
	}

	w.Header().Set("Content-Type", services.MIMETypeFor(fileName))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}
