package ingestion

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chiranjan-on-git/WhistleSafe/internal/attachment"
	"github.com/chiranjan-on-git/WhistleSafe/internal/fingerprint"
	"github.com/chiranjan-on-git/WhistleSafe/internal/metrics"
	"github.com/chiranjan-on-git/WhistleSafe/internal/scoring"
	"github.com/chiranjan-on-git/WhistleSafe/internal/storage/models"
	"github.com/chiranjan-on-git/WhistleSafe/pkg/logger"
)

// Store is the durable append-only collection of report records.
type Store interface {
	Append(ctx context.Context, report models.Report) error
	ReadAll(ctx context.Context) ([]models.Report, error)
}

// EntityTagger annotates non-rejected reports with named entities. Tagging
// is best-effort: a failure is logged and the record persists untagged.
type EntityTagger interface {
	Entities(text string) ([]string, error)
}

type Upload struct {
	Filename string
	Content  io.Reader
}

type Submission struct {
	Category   string
	Heading    string
	Body       string
	Location   string
	Attachment *Upload
}

// Result is the terminal outcome surfaced to the transport layer. Hash and
// File are empty for rejected submissions, which are never persisted.
type Result struct {
	Status    scoring.Status
	Score     float64
	Reason    string
	Breakdown map[string]float64
	Hash      string
	File      *string
}

// Pipeline sequences one submission: score, short-circuit on rejection,
// fingerprint, persist the attachment, enrich, append to the store. The
// pipeline holds no per-submission state and may be invoked concurrently.
type Pipeline struct {
	policy      scoring.Policy
	store       Store
	attachments *attachment.Store
	tagger      EntityTagger
}

func NewPipeline(policy scoring.Policy, store Store, attachments *attachment.Store, tagger EntityTagger) *Pipeline {
	return &Pipeline{
		policy:      policy,
		store:       store,
		attachments: attachments,
		tagger:      tagger,
	}
}

func (p *Pipeline) Submit(ctx context.Context, sub Submission) (Result, error) {
	submissionID := uuid.New().String()

	start := time.Now()
	verdict := p.policy.Score(sub.Heading, sub.Body)
	metrics.ScoringDuration.WithLabelValues(p.policy.Name()).Observe(time.Since(start).Seconds())
	metrics.CredibilityScore.Observe(verdict.Score)

	logger.Info("Report scored",
		zap.String("submission_id", submissionID),
		zap.String("policy", p.policy.Name()),
		zap.String("status", string(verdict.Status)),
		zap.Float64("score", verdict.Score),
	)

	result := Result{
		Status:    verdict.Status,
		Score:     verdict.Score,
		Reason:    verdict.Reason,
		Breakdown: verdict.Breakdown,
	}

	if verdict.Status == scoring.StatusRejected {
		metrics.SubmissionsTotal.WithLabelValues(string(verdict.Status)).Inc()
		return result, nil
	}

	report := models.Report{
		Category:  sub.Category,
		Heading:   sub.Heading,
		Body:      sub.Body,
		Location:  sub.Location,
		Date:      time.Now().Format(models.DateLayout),
		Score:     verdict.Score,
		Status:    string(verdict.Status),
		Reason:    verdict.Reason,
		Breakdown: verdict.Breakdown,
	}

	hash, err := fingerprint.New(report)
	if err != nil {
		metrics.SubmissionFailures.WithLabelValues("fingerprint").Inc()
		return Result{}, fmt.Errorf("failed to fingerprint report: %w", err)
	}
	report.HashID = hash
	result.Hash = hash

	if sub.Attachment != nil && sub.Attachment.Filename != "" {
		storedName, err := p.attachments.Save(hash, sub.Attachment.Filename, sub.Attachment.Content)
		if err != nil {
			metrics.SubmissionFailures.WithLabelValues("attachment").Inc()
			return Result{}, fmt.Errorf("failed to save attachment: %w", err)
		}
		report.File = &storedName
		result.File = &storedName
		metrics.AttachmentsSaved.Inc()
	}

	if p.tagger != nil {
		entities, err := p.tagger.Entities(sub.Heading + " " + sub.Body)
		if err != nil {
			logger.Warn("Entity tagging failed, persisting untagged",
				zap.String("submission_id", submissionID),
				zap.Error(err),
			)
		} else {
			report.Entities = entities
		}
	}

	// The attachment write and the store append are not transactional with
	// each other: a failure here can leave an orphaned attachment file.
	if err := p.store.Append(ctx, report); err != nil {
		metrics.SubmissionFailures.WithLabelValues("store").Inc()
		return Result{}, fmt.Errorf("failed to persist report: %w", err)
	}

	metrics.SubmissionsTotal.WithLabelValues(string(verdict.Status)).Inc()

	logger.Info("Report persisted",
		zap.String("submission_id", submissionID),
		zap.String("hash_id", hash),
		zap.Bool("has_attachment", report.File != nil),
	)

	return result, nil
}
