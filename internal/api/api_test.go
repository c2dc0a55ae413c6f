package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"servis32/internal/db"
	"servis32/internal/model"
	"servis32/internal/session"
	"servis32/internal/store"
)

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)
	if err := store.SeedAdmin(context.Background(), database); err != nil {
		t.Fatalf("seeding admin: %v", err)
	}

	router := NewRouter(database, session.New(), t.TempDir())
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	// Get a token for the seeded admin.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "1234"})
	resp, err := http.Post(server.URL+"/api/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// formRequest builds an authenticated multipart request with the given fields
// and zero or more PNG images under the "images" field.
func formRequest(t *testing.T, method, url, token string, fields map[string]string, imageCount int) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	for i := 0; i < imageCount; i++ {
		part, err := writer.CreateFormFile("images", "part"+strconv.Itoa(i)+".png")
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		part.Write(testPNG())
	}
	writer.Close()

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func testPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.RGBA{200, 50, 50, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	// Bad password.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Alternate field spellings.
	body, _ = json.Marshal(map[string]string{"user": "admin", "pass": "1234"})
	resp, _ = http.Post(server.URL+"/api/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for user/pass fields, got %d", resp.StatusCode)
	}
	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	resp.Body.Close()
	if loginResp["role"] != model.RoleAdmin {
		t.Errorf("expected admin role in response, got %q", loginResp["role"])
	}
}

func TestUnauthenticatedAccess(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/parts")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Garbage token is rejected too.
	req, _ := authRequest("GET", server.URL+"/api/parts", "not-a-real-token", nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestAddUserRequiresAdmin(t *testing.T) {
	server, adminToken := setupTestServer(t)

	// Admin creates a regular user.
	req, _ := authRequest("POST", server.URL+"/api/addUser", adminToken, map[string]string{
		"username": "clerk", "password": "secret",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating user, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Duplicate username conflicts.
	req, _ = authRequest("POST", server.URL+"/api/addUser", adminToken, map[string]string{
		"username": "clerk", "password": "other",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate username, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The regular user may not create users.
	body, _ := json.Marshal(map[string]string{"username": "clerk", "password": "secret"})
	loginResp, _ := http.Post(server.URL+"/api/login", "application/json", bytes.NewReader(body))
	var login map[string]string
	json.NewDecoder(loginResp.Body).Decode(&login)
	loginResp.Body.Close()

	req, _ = authRequest("POST", server.URL+"/api/addUser", login["token"], map[string]string{
		"username": "another", "password": "secret",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCreatePartValidation(t *testing.T) {
	server, token := setupTestServer(t)

	req := formRequest(t, "POST", server.URL+"/api/parts", token, map[string]string{
		"brand": "Toyota",
	}, 0)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing name, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPartsCRUDFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// Create.
	req := formRequest(t, "POST", server.URL+"/api/parts", token, map[string]string{
		"name": "Brake Pad Set", "brand": "Toyota", "quantity": "4", "price": "24.90",
	}, 0)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created map[string]int64
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	id := created["id"]
	if id == 0 {
		t.Fatal("expected assigned id")
	}

	// List.
	req, _ = authRequest("GET", server.URL+"/api/parts", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var listing struct {
		Rows []model.Part `json:"rows"`
	}
	json.NewDecoder(resp.Body).Decode(&listing)
	resp.Body.Close()
	if len(listing.Rows) != 1 || listing.Rows[0].Name != "Brake Pad Set" {
		t.Fatalf("unexpected listing %+v", listing.Rows)
	}
	if listing.Rows[0].Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", listing.Rows[0].Quantity)
	}

	// Sparse update: change only the location.
	idStr := strconv.FormatInt(id, 10)
	req = formRequest(t, "PUT", server.URL+"/api/parts/"+idStr, token, map[string]string{
		"location": "B-7",
	}, 0)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 updating, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/api/parts/"+idStr, token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var part model.Part
	json.NewDecoder(resp.Body).Decode(&part)
	resp.Body.Close()
	if part.Location != "B-7" {
		t.Errorf("expected updated location, got %q", part.Location)
	}
	if part.Brand != "Toyota" || part.Name != "Brake Pad Set" {
		t.Errorf("unrelated fields changed: %+v", part)
	}

	// Delete.
	req, _ = authRequest("DELETE", server.URL+"/api/parts/"+idStr, token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 deleting, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("DELETE", server.URL+"/api/parts/"+idStr, token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 deleting again, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCreatePartWithImages(t *testing.T) {
	server, token := setupTestServer(t)

	req := formRequest(t, "POST", server.URL+"/api/parts", token, map[string]string{
		"name": "Brake Pad Set",
	}, 2)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/api/parts", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	var listing struct {
		Rows []model.Part `json:"rows"`
	}
	json.NewDecoder(resp.Body).Decode(&listing)
	resp.Body.Close()

	if len(listing.Rows) != 1 {
		t.Fatalf("expected 1 part, got %d", len(listing.Rows))
	}
	images := listing.Rows[0].Images
	if len(images) != 2 {
		t.Fatalf("expected 2 image references, got %v", images)
	}
	for _, ref := range images {
		if !strings.HasPrefix(ref, "/uploads/") {
			t.Errorf("expected /uploads/ reference, got %q", ref)
		}
	}
	if images[0] == images[1] {
		t.Error("expected distinct image references")
	}
}

func TestTooManyImagesRejected(t *testing.T) {
	server, token := setupTestServer(t)

	req := formRequest(t, "POST", server.URL+"/api/parts", token, map[string]string{
		"name": "Brake Pad Set",
	}, model.MaxImages+1)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for too many images, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSearchEndpoint(t *testing.T) {
	server, token := setupTestServer(t)

	for _, fields := range []map[string]string{
		{"name": "Brake Pad Set", "brand": "Toyota"},
		{"name": "Oil Filter", "brand": "Toyota"},
	} {
		req := formRequest(t, "POST", server.URL+"/api/parts", token, fields, 0)
		resp, _ := http.DefaultClient.Do(req)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("creating part: %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	searchRows := func(q string) []model.Part {
		req, _ := authRequest("GET", server.URL+"/api/search?q="+strings.ReplaceAll(q, " ", "+"), token, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("search %q: %v", q, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("search %q: %d", q, resp.StatusCode)
		}
		var result struct {
			Rows []model.Part `json:"rows"`
		}
		json.NewDecoder(resp.Body).Decode(&result)
		return result.Rows
	}

	if rows := searchRows("brake pad"); len(rows) != 1 || rows[0].Name != "Brake Pad Set" {
		t.Errorf("expected only the brake pad set, got %+v", rows)
	}
	if rows := searchRows("toyota"); len(rows) != 2 {
		t.Errorf("expected both Toyota parts, got %d", len(rows))
	}
	if rows := searchRows(""); len(rows) != 0 {
		t.Errorf("expected empty result for empty query, got %d", len(rows))
	}
}

func TestUpdateNotFound(t *testing.T) {
	server, token := setupTestServer(t)

	req := formRequest(t, "PUT", server.URL+"/api/parts/999", token, map[string]string{
		"name": "Ghost",
	}, 0)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestInvoiceEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	// Unauthenticated on purpose.
	body, _ := json.Marshal(map[string]any{
		"name": "Brake Pad Set", "brand": "Toyota", "quantity": 2, "price": 24.90,
	})
	resp, err := http.Post(server.URL+"/api/invoice", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("invoice request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}

	buf := make([]byte, 4)
	if _, err := io.ReadFull(resp.Body, buf); err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	if string(buf) != "%PDF" {
		t.Errorf("expected PDF magic bytes, got %q", buf)
	}
}
