package api

import (
	"database/sql"
	"net/http"

	"servis32/internal/session"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, sessions *session.Registry, uploadDir string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, Sessions: sessions}
	partsHandler := &PartsHandler{DB: db, UploadDir: uploadDir}
	invoiceHandler := &InvoiceHandler{UploadDir: uploadDir}

	authMW := Auth(sessions)

	// Public: login and invoice rendering.
	mux.HandleFunc("POST /api/login", authHandler.Login)
	mux.HandleFunc("POST /api/invoice", invoiceHandler.Render)

	// Users (admin only).
	mux.Handle("POST /api/addUser", authMW(RequireAdmin(http.HandlerFunc(authHandler.AddUser))))

	// Parts.
	mux.Handle("POST /api/parts", authMW(http.HandlerFunc(partsHandler.Create)))
	mux.Handle("GET /api/parts", authMW(http.HandlerFunc(partsHandler.List)))
	mux.Handle("GET /api/parts/{id}", authMW(http.HandlerFunc(partsHandler.Get)))
	mux.Handle("PUT /api/parts/{id}", authMW(http.HandlerFunc(partsHandler.Update)))
	mux.Handle("DELETE /api/parts/{id}", authMW(http.HandlerFunc(partsHandler.Delete)))
	mux.Handle("GET /api/search", authMW(http.HandlerFunc(partsHandler.Search)))

	// Uploaded part images, served back by static path.
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	return mux
}
