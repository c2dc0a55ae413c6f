package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"servis32/internal/invoice"
	"servis32/internal/model"
)

// InvoiceHandler renders invoice documents.
type InvoiceHandler struct {
	UploadDir string
}

// Render handles POST /api/invoice. The payload is read ad hoc and need not
// reference a stored part.
func (h *InvoiceHandler) Render(w http.ResponseWriter, r *http.Request) {
	var inv model.Invoice
	if err := decodeJSON(r, &inv); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Image references arrive as served paths; resolve them to disk.
	if name, ok := strings.CutPrefix(inv.ImagePath, "/uploads/"); ok {
		inv.ImagePath = filepath.Join(h.UploadDir, filepath.Base(name))
	}

	data, err := invoice.Render(inv)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to render invoice")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="invoice.pdf"`)
	w.Write(data)
}
