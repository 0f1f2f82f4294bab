package v1

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/selinongun-dev/aspora-orgchart/internal/store"
)

const testSecret = "orgchart-test-secret"

const rosterCSV = "Name,Work Email,Manager Email,Team,Location,Photo URL,Pod\n" +
	"Ada,ada@aspora.dev,,Core,上海,,Growth\n" +
	"Bob,bob@aspora.dev,ada@aspora.dev,Core,北京,,Growth\n" +
	"Cat,cat@aspora.dev,ada@aspora.dev,Design,,,Platform\n"

func newTestRouter(t *testing.T, secret string) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "orgchart.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := NewHandler(st, Options{
		UploadSecret: secret,
		ExportsDir:   t.TempDir(),
	}, logger)

	r := gin.New()
	h.RegisterOrgRoutes(r)
	api := r.Group("/api")
	h.RegisterRoutes(api)
	return r, st
}

func multipartFile(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func uploadRoster(t *testing.T, r *gin.Engine, secret, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartFile(t, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/org", body)
	req.Header.Set("Content-Type", contentType)
	if secret != "" {
		req.Header.Set(UploadSecretHeader, secret)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadOrg_SecretUnconfigured(t *testing.T) {
	r, _ := newTestRouter(t, "")

	w := uploadRoster(t, r, "whatever", "people.csv", rosterCSV)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestUploadOrg_SecretMismatch(t *testing.T) {
	r, _ := newTestRouter(t, testSecret)

	w := uploadRoster(t, r, "wrong-secret", "people.csv", rosterCSV)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	w = uploadRoster(t, r, "", "people.csv", rosterCSV)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header status = %d, want 401", w.Code)
	}
}

func TestUploadOrg_MissingFile(t *testing.T) {
	r, _ := newTestRouter(t, testSecret)

	req := httptest.NewRequest(http.MethodPost, "/org", strings.NewReader(""))
	req.Header.Set(UploadSecretHeader, testSecret)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUploadOrg_ThenGetOrg(t *testing.T) {
	r, _ := newTestRouter(t, testSecret)

	w := uploadRoster(t, r, testSecret, "people.csv", rosterCSV)
	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		URL      string `json:"url"`
		Pathname string `json:"pathname"`
		Report   struct {
			PeopleRows int `json:"peopleRows"`
		} `json:"report"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, w.Body.String())
	}
	if !strings.HasSuffix(resp.URL, "/org") || resp.Pathname != store.OrgBlobName {
		t.Fatalf("unexpected upload response: %+v", resp)
	}
	if resp.Report.PeopleRows != 3 {
		t.Fatalf("report people rows = %d", resp.Report.PeopleRows)
	}

	req := httptest.NewRequest(http.MethodGet, "/org", nil)
	get := httptest.NewRecorder()
	r.ServeHTTP(get, req)
	if get.Code != http.StatusOK {
		t.Fatalf("get status = %d", get.Code)
	}
	if ct := get.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %s", ct)
	}
	if get.Body.String() != rosterCSV {
		t.Fatalf("roundtrip content mismatch")
	}
}

func TestUploadOrg_ReplacesPrevious(t *testing.T) {
	r, st := newTestRouter(t, testSecret)

	if w := uploadRoster(t, r, testSecret, "v1.csv", "Name\nAda\n"); w.Code != http.StatusOK {
		t.Fatalf("upload v1: %d", w.Code)
	}
	if w := uploadRoster(t, r, testSecret, "v2.csv", "Name\nBob\n"); w.Code != http.StatusOK {
		t.Fatalf("upload v2: %d", w.Code)
	}

	metas, err := st.ListBlobs(store.OrgBlobName)
	if err != nil {
		t.Fatalf("ListBlobs: %v", err)
	}
	if len(metas) != 1 || metas[0].Filename != "v2.csv" {
		t.Fatalf("versions = %+v", metas)
	}
}

func TestUploadOrg_TooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "orgchart.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := NewHandler(st, Options{
		UploadSecret:   testSecret,
		ExportsDir:     t.TempDir(),
		MaxUploadBytes: 8,
	}, logger)
	r := gin.New()
	h.RegisterOrgRoutes(r)

	w := uploadRoster(t, r, testSecret, "people.csv", rosterCSV)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetOrg_NoRoster(t *testing.T) {
	r, _ := newTestRouter(t, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/org", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
