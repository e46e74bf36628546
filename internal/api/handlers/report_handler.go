package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/chiranjan-on-git/WhistleSafe/internal/attachment"
	"github.com/chiranjan-on-git/WhistleSafe/internal/ingestion"
	"github.com/chiranjan-on-git/WhistleSafe/internal/metrics"
	"github.com/chiranjan-on-git/WhistleSafe/internal/scoring"
	"github.com/chiranjan-on-git/WhistleSafe/internal/storage/reportlog"
	"github.com/chiranjan-on-git/WhistleSafe/pkg/logger"
)

type ReportHandler struct {
	pipeline    *ingestion.Pipeline
	store       ingestion.Store
	attachments *attachment.Store
}

func NewReportHandler(pipeline *ingestion.Pipeline, store ingestion.Store, attachments *attachment.Store) *ReportHandler {
	return &ReportHandler{
		pipeline:    pipeline,
		store:       store,
		attachments: attachments,
	}
}

// SubmitReport handles a new whistleblowing report: multipart form fields
// plus an optional file. Rejected submissions come back as a client error
// carrying the verdict; pipeline failures are server errors.
func (h *ReportHandler) SubmitReport(c *fiber.Ctx) error {
	sub := ingestion.Submission{
		Category: c.FormValue("category"),
		Heading:  c.FormValue("heading"),
		Body:     c.FormValue("body"),
		Location: c.FormValue("location"),
	}

	if sub.Category == "" || sub.Heading == "" || sub.Body == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "category, heading and body are required",
		})
	}

	if fileHeader, err := c.FormFile("file"); err == nil && fileHeader.Filename != "" {
		file, err := fileHeader.Open()
		if err != nil {
			logger.Error("Failed to open uploaded file", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to read uploaded file",
			})
		}
		defer file.Close()

		sub.Attachment = &ingestion.Upload{
			Filename: fileHeader.Filename,
			Content:  file,
		}
	}

	result, err := h.pipeline.Submit(c.Context(), sub)
	if err != nil {
		logger.Error("Failed to process submission", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process report",
		})
	}

	if result.Status == scoring.StatusRejected {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": string(result.Status),
			"score":  result.Score,
			"reason": result.Reason,
		})
	}

	return c.JSON(fiber.Map{
		"status": string(result.Status),
		"hash":   result.Hash,
	})
}

// ListReports returns the full ordered sequence of persisted reports.
func (h *ReportHandler) ListReports(c *fiber.Ctx) error {
	reports, err := h.store.ReadAll(c.Context())
	if err != nil {
		logger.Error("Failed to read reports", zap.Error(err))
		if errors.Is(err, reportlog.ErrCorruptStore) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Report store is corrupted",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read reports",
		})
	}

	metrics.StoredReports.Set(float64(len(reports)))

	return c.JSON(reports)
}

// DownloadAttachment streams a stored blob back with a forced download
// disposition. The suggested filename is the original upload name; the
// fingerprint-qualified name stays an on-disk detail.
func (h *ReportHandler) DownloadAttachment(c *fiber.Ctx) error {
	storedName := c.Params("filename")
	if decoded, err := url.PathUnescape(storedName); err == nil {
		storedName = decoded
	}

	path, err := h.attachments.Path(storedName)
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues("not_found").Inc()
		if errors.Is(err, attachment.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "File not found: " + storedName,
			})
		}
		logger.Error("Failed to resolve attachment", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read attachment",
		})
	}

	if err := c.Download(path, attachment.OriginalName(storedName)); err != nil {
		metrics.DownloadsTotal.WithLabelValues("error").Inc()
		logger.Error("Failed to stream attachment", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read attachment",
		})
	}

	metrics.DownloadsTotal.WithLabelValues("ok").Inc()

	// SendFile guesses a content type from the extension; force the generic
	// binary type after the fact so every download is treated as opaque.
	c.Set(fiber.HeaderContentType, "application/octet-stream")
	return nil
}
