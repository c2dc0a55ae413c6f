package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"servis32/internal/imaging"
	"servis32/internal/model"
	"servis32/internal/search"
	"servis32/internal/store"
)

// maxUploadBytes caps a multipart request body (up to 5 images plus fields).
const maxUploadBytes = 32 << 20

var errTooManyImages = fmt.Errorf("at most %d images allowed", model.MaxImages)

// PartsHandler handles part CRUD and search endpoints.
type PartsHandler struct {
	DB        *sql.DB
	UploadDir string
}

// Create handles POST /api/parts.
func (h *PartsHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	images, err := h.saveImages(r)
	if err != nil {
		if errors.Is(err, errTooManyImages) || errors.Is(err, errBadImage) {
			jsonError(w, http.StatusBadRequest, err.Error())
		} else {
			jsonError(w, http.StatusInternalServerError, "failed to store image")
		}
		return
	}

	part := model.Part{
		Name:       r.FormValue("name"),
		Brand:      r.FormValue("brand"),
		Model:      r.FormValue("model"),
		Category:   r.FormValue("category"),
		Fuel:       r.FormValue("fuel"),
		Engine:     r.FormValue("engine"),
		PartNumber: r.FormValue("part_number"),
		Quantity:   parseQuantity(r.FormValue("quantity")),
		Price:      parsePrice(r.FormValue("price")),
		Note:       r.FormValue("note"),
		Location:   r.FormValue("location"),
		Images:     images,
	}

	id, err := store.CreatePart(r.Context(), h.DB, part)
	if errors.Is(err, store.ErrNameRequired) {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create part")
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]int64{"id": id})
}

// List handles GET /api/parts.
func (h *PartsHandler) List(w http.ResponseWriter, r *http.Request) {
	parts, err := store.ListParts(r.Context(), h.DB, store.ListLimit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list parts")
		return
	}
	if parts == nil {
		parts = []model.Part{}
	}
	jsonRows(w, parts)
}

// Get handles GET /api/parts/{id}.
func (h *PartsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid part id")
		return
	}

	part, err := store.GetPart(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get part")
		return
	}
	if part == nil {
		jsonError(w, http.StatusNotFound, "part not found")
		return
	}
	jsonResponse(w, http.StatusOK, part)
}

// Search handles GET /api/search?q=...
func (h *PartsHandler) Search(w http.ResponseWriter, r *http.Request) {
	parts, err := store.ListParts(r.Context(), h.DB, store.SearchWindow)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to search parts")
		return
	}
	jsonRows(w, search.Filter(parts, r.URL.Query().Get("q")))
}

// Update handles PUT /api/parts/{id}. Only supplied, non-empty fields change;
// newly attached images always overwrite the stored references.
func (h *PartsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid part id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	images, err := h.saveImages(r)
	if err != nil {
		if errors.Is(err, errTooManyImages) || errors.Is(err, errBadImage) {
			jsonError(w, http.StatusBadRequest, err.Error())
		} else {
			jsonError(w, http.StatusInternalServerError, "failed to store image")
		}
		return
	}

	var upd store.PartUpdate
	if v := r.FormValue("name"); v != "" {
		upd.Name = &v
	}
	if v := r.FormValue("brand"); v != "" {
		upd.Brand = &v
	}
	if v := r.FormValue("model"); v != "" {
		upd.Model = &v
	}
	if v := r.FormValue("category"); v != "" {
		upd.Category = &v
	}
	if v := r.FormValue("fuel"); v != "" {
		upd.Fuel = &v
	}
	if v := r.FormValue("engine"); v != "" {
		upd.Engine = &v
	}
	if v := r.FormValue("part_number"); v != "" {
		upd.PartNumber = &v
	}
	if v := r.FormValue("quantity"); v != "" {
		q := parseQuantity(v)
		upd.Quantity = &q
	}
	if v := r.FormValue("price"); v != "" {
		upd.Price = parsePrice(v)
	}
	if v := r.FormValue("note"); v != "" {
		upd.Note = &v
	}
	if v := r.FormValue("location"); v != "" {
		upd.Location = &v
	}
	if len(images) > 0 {
		upd.Images = images
	}

	err = store.UpdatePart(r.Context(), h.DB, id, upd)
	switch {
	case errors.Is(err, store.ErrNameRequired):
		jsonError(w, http.StatusBadRequest, "name required")
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "part not found")
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to update part")
	default:
		jsonResponse(w, http.StatusOK, map[string]string{"message": "part updated"})
	}
}

// Delete handles DELETE /api/parts/{id}.
func (h *PartsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid part id")
		return
	}

	err = store.DeletePart(r.Context(), h.DB, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "part not found")
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to delete part")
	default:
		jsonResponse(w, http.StatusOK, map[string]string{"message": "part deleted"})
	}
}

var errBadImage = errors.New("invalid image")

// saveImages processes and stores every uploaded image, returning the
// references to persist. Accepts both the multi-file "images" field and the
// older single-file "image" field.
func (h *PartsHandler) saveImages(r *http.Request) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		files = r.MultipartForm.File["image"]
	}
	if len(files) > model.MaxImages {
		return nil, errTooManyImages
	}

	var refs []string
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening upload: %w", err)
		}
		result, err := imaging.Process(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadImage, err)
		}

		name, err := imaging.Save(h.UploadDir, result.Data, ".jpg")
		if err != nil {
			return nil, err
		}
		refs = append(refs, "/uploads/"+name)
	}
	return refs, nil
}

// parseQuantity coerces a form value to an integer, defaulting to 0.
func parseQuantity(v string) int {
	q, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return q
}

// parsePrice coerces a form value to a price, absent when empty or malformed.
func parsePrice(v string) *float64 {
	if v == "" {
		return nil
	}
	p, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &p
}
