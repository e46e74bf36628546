package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiranjan-on-git/WhistleSafe/internal/api/handlers"
	"github.com/chiranjan-on-git/WhistleSafe/internal/attachment"
	"github.com/chiranjan-on-git/WhistleSafe/internal/ingestion"
	"github.com/chiranjan-on-git/WhistleSafe/internal/scoring"
	"github.com/chiranjan-on-git/WhistleSafe/internal/storage/models"
	"github.com/chiranjan-on-git/WhistleSafe/internal/storage/reportlog"
)

const credibleFormBody = "Last month a supervisor ordered warehouse staff to reroute three " +
	"pallets of equipment into an unregistered storage unit, skipping every inventory check " +
	"and falsifying the delivery manifests afterwards."

type fixture struct {
	app       *fiber.App
	storePath string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	storePath := filepath.Join(dir, "reports.json")

	store, err := reportlog.NewStore(storePath)
	require.NoError(t, err)

	attachments, err := attachment.NewStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	pipeline := ingestion.NewPipeline(scoring.NewBasicPolicy(), store, attachments, nil)
	handler := handlers.NewReportHandler(pipeline, store, attachments)

	app := fiber.New()
	app.Post("/submit-report", handler.SubmitReport)
	app.Get("/reports", handler.ListReports)
	app.Get("/download/:filename", handler.DownloadAttachment)

	return &fixture{app: app, storePath: storePath}
}

func submitForm(t *testing.T, fields map[string]string, filename string, fileContent []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/submit-report", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestSubmitRequiresFields(t *testing.T) {
	f := newFixture(t)

	req := submitForm(t, map[string]string{"category": "fraud"}, "", nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitRejectedReportReturnsVerdict(t *testing.T) {
	f := newFixture(t)

	req := submitForm(t, map[string]string{
		"category": "corruption",
		"heading":  "Update",
		"body":     "Something happened at the office",
	}, "", nil)

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var verdict struct {
		Status string  `json:"status"`
		Score  float64 `json:"score"`
		Reason string  `json:"reason"`
	}
	decodeJSON(t, resp, &verdict)
	assert.Equal(t, "rejected", verdict.Status)
	assert.Equal(t, 0.2, verdict.Score)
	assert.NotEmpty(t, verdict.Reason)
}

func TestSubmitListDownloadRoundTrip(t *testing.T) {
	f := newFixture(t)
	fileContent := []byte("scanned invoice bytes")

	req := submitForm(t, map[string]string{
		"category": "fraud",
		"heading":  "Falsified delivery manifests",
		"body":     credibleFormBody,
		"location": "north depot",
	}, "invoice.pdf", fileContent)

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var accepted struct {
		Status string `json:"status"`
		Hash   string `json:"hash"`
	}
	decodeJSON(t, resp, &accepted)
	assert.Equal(t, "accepted", accepted.Status)
	require.NotEmpty(t, accepted.Hash)

	listResp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/reports", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var reports []models.Report
	decodeJSON(t, listResp, &reports)
	require.Len(t, reports, 1)
	assert.Equal(t, accepted.Hash, reports[0].HashID)
	require.NotNil(t, reports[0].File)
	assert.Equal(t, accepted.Hash+"_invoice.pdf", *reports[0].File)

	dlResp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/download/"+*reports[0].File, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, dlResp.StatusCode)
	defer dlResp.Body.Close()

	assert.Equal(t, "application/octet-stream", dlResp.Header.Get("Content-Type"))
	assert.Contains(t, dlResp.Header.Get("Content-Disposition"), `filename="invoice.pdf"`,
		"the suggested name is the original upload, not the stored name")

	body, err := io.ReadAll(dlResp.Body)
	require.NoError(t, err)
	assert.Equal(t, fileContent, body)
}

func TestListReportsOnEmptyStore(t *testing.T) {
	f := newFixture(t)

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/reports", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reports []models.Report
	decodeJSON(t, resp, &reports)
	assert.Empty(t, reports)
}

func TestListReportsOnCorruptStore(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.storePath, []byte(`{"bad": 1}`), 0o644))

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/reports", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	decodeJSON(t, resp, &body)
	assert.Contains(t, body.Error, "corrupted")
}

func TestDownloadMissingAttachment(t *testing.T) {
	f := newFixture(t)

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/download/nope_missing.txt", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
