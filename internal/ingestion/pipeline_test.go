package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiranjan-on-git/WhistleSafe/internal/attachment"
	"github.com/chiranjan-on-git/WhistleSafe/internal/scoring"
	"github.com/chiranjan-on-git/WhistleSafe/internal/storage/models"
	"github.com/chiranjan-on-git/WhistleSafe/internal/storage/reportlog"
)

var hashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

const crediblePipelineBody = "Last month a supervisor ordered warehouse staff to reroute three " +
	"pallets of equipment into an unregistered storage unit, skipping every inventory check " +
	"and falsifying the delivery manifests afterwards."

type stubTagger struct {
	entities []string
	err      error
}

func (s stubTagger) Entities(string) ([]string, error) {
	return s.entities, s.err
}

type pipelineFixture struct {
	pipeline    *Pipeline
	store       *reportlog.Store
	attachments *attachment.Store
	storePath   string
}

func newFixture(t *testing.T, tagger EntityTagger) *pipelineFixture {
	t.Helper()

	dir := t.TempDir()
	storePath := filepath.Join(dir, "reports.json")

	store, err := reportlog.NewStore(storePath)
	require.NoError(t, err)

	attachments, err := attachment.NewStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	return &pipelineFixture{
		pipeline:    NewPipeline(scoring.NewBasicPolicy(), store, attachments, tagger),
		store:       store,
		attachments: attachments,
		storePath:   storePath,
	}
}

func TestSubmitRejectedReportIsNotPersisted(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.pipeline.Submit(context.Background(), Submission{
		Category: "corruption",
		Heading:  "Update",
		Body:     "Something happened at the office",
	})
	require.NoError(t, err)

	assert.Equal(t, scoring.StatusRejected, result.Status)
	assert.Equal(t, 0.2, result.Score)
	assert.Empty(t, result.Hash)
	assert.Nil(t, result.File)

	reports, err := f.store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestSubmitAcceptedReportIsPersisted(t *testing.T) {
	f := newFixture(t, stubTagger{entities: []string{"north depot"}})

	result, err := f.pipeline.Submit(context.Background(), Submission{
		Category: "fraud",
		Heading:  "Falsified delivery manifests",
		Body:     crediblePipelineBody,
		Location: "north depot",
	})
	require.NoError(t, err)

	assert.Equal(t, scoring.StatusAccepted, result.Status)
	assert.Regexp(t, hashPattern, result.Hash)
	assert.Nil(t, result.File)

	reports, err := f.store.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)

	record := reports[0]
	assert.Equal(t, result.Hash, record.HashID)
	assert.Equal(t, "fraud", record.Category)
	assert.Equal(t, "north depot", record.Location)
	assert.Equal(t, string(scoring.StatusAccepted), record.Status)
	assert.Equal(t, []string{"north depot"}, record.Entities)
	assert.Nil(t, record.File)

	_, err = time.Parse(models.DateLayout, record.Date)
	assert.NoError(t, err, "date must carry second precision")
}

func TestSubmitWithAttachment(t *testing.T) {
	f := newFixture(t, nil)
	content := []byte("scanned invoice bytes")

	result, err := f.pipeline.Submit(context.Background(), Submission{
		Category: "fraud",
		Heading:  "Falsified delivery manifests",
		Body:     crediblePipelineBody,
		Attachment: &Upload{
			Filename: "invoice.pdf",
			Content:  bytes.NewReader(content),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.File)

	assert.Equal(t, result.Hash+"_invoice.pdf", *result.File)

	rc, err := f.attachments.Open(*result.File)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	reports, err := f.store.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.NotNil(t, reports[0].File)
	assert.Equal(t, *result.File, *reports[0].File)
	assert.NotEmpty(t, reports[0].HashID, "a stored file always has a fingerprint")
}

func TestSubmitTaggerFailureDoesNotBlockPersistence(t *testing.T) {
	f := newFixture(t, stubTagger{err: errors.New("model unavailable")})

	result, err := f.pipeline.Submit(context.Background(), Submission{
		Category: "fraud",
		Heading:  "Falsified delivery manifests",
		Body:     crediblePipelineBody,
	})
	require.NoError(t, err)
	assert.Equal(t, scoring.StatusAccepted, result.Status)

	reports, err := f.store.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Nil(t, reports[0].Entities)
}

func TestSubmitStoreFailurePropagates(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, os.WriteFile(f.storePath, []byte(`{"corrupt": true}`), 0o644))

	_, err := f.pipeline.Submit(context.Background(), Submission{
		Category: "fraud",
		Heading:  "Falsified delivery manifests",
		Body:     crediblePipelineBody,
	})
	assert.ErrorIs(t, err, reportlog.ErrCorruptStore)
}
