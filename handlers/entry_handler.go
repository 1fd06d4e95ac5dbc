package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"slimSquadAPI/middleware"
	"slimSquadAPI/services"
)

// maxEntryFormMemory bounds in-memory multipart parsing; two photos at
// 5 MB each plus the text fields fit comfortably.
const maxEntryFormMemory = 12 << 20

type EntryHandler struct {
	entryService *services.EntryService
}

func NewEntryHandler(entryService *services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// SaveEntry accepts a multipart form: date, weightKg, the optional
// metric fields, and up to two photo files (photo, mealPhoto). A field
// absent from the form keeps its previous value on an existing entry.
func (h *EntryHandler) SaveEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := r.ParseMultipartForm(maxEntryFormMemory); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	form := r.MultipartForm

	weight, err := strconv.ParseFloat(formValue(form, "weightKg"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "weightKg must be a number")
		return
	}

	input := services.SaveEntryInput{
		Date:         formValue(form, "date"),
		WeightKg:     weight,
		ActivityType: optionalValue(form, "activityType"),
		Breakfast:    optionalValue(form, "breakfast"),
		Lunch:        optionalValue(form, "lunch"),
		Dinner:       optionalValue(form, "dinner"),
		Note:         optionalValue(form, "note"),
	}

	if raw := optionalValue(form, "exerciseMinutes"); raw != nil && *raw != "" {
		minutes, err := strconv.Atoi(*raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "exerciseMinutes must be a whole number")
			return
		}
		input.ExerciseMinutes = &minutes
	}
	if raw := optionalValue(form, "photoShared"); raw != nil {
		shared := *raw == "on" || *raw == "true" || *raw == "1"
		input.PhotoShared = &shared
	}
	if raw := optionalValue(form, "mealPhotoShared"); raw != nil {
		shared := *raw == "on" || *raw == "true" || *raw == "1"
		input.MealPhotoShared = &shared
	}

	saved, err := h.entryService.SaveEntry(ctx, userID, input, formFile(form, "photo"), formFile(form, "mealPhoto"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, saved)
}

func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.entryService.DeleteEntry(ctx, mux.Vars(r)["entryId"], userID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Entry deleted"})
}

func (h *EntryHandler) ListMyEntries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	entries, err := h.entryService.ListEntriesForUser(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, entries)
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// optionalValue distinguishes "field absent" (nil) from "field sent
// empty" (pointer to ""), which clears the stored value.
func optionalValue(form *multipart.Form, key string) *string {
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	return &vals[0]
}

func formFile(form *multipart.Form, key string) *multipart.FileHeader {
	if files := form.File[key]; len(files) > 0 {
		return files[0]
	}
	return nil
}
