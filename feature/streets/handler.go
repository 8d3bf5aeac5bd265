package streets

import (
	"io"

	"street-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for street reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the streets routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/streets")
	group.Post("/reconcile", h.HandleReconcile)
	group.Get("/status", h.HandleStatus)
	group.Get("/snapshots", h.HandleListSnapshots)
	group.Get("/snapshots/:name", h.HandleGetSnapshot)
	group.Get("/integrity", h.HandleIntegrity)
}

func reportJSON(r *Report) fiber.Map {
	return fiber.Map{
		"started_at":  r.StartedAt,
		"finished_at": r.FinishedAt,
		"dry_run":     r.DryRun,
		"summary":     r.Summary,
		"snapshot":    r.Snapshot,
		"durations":   r.Durations.Map(),
		"report":      r.String(),
	}
}

// HandleReconcile runs a reconciliation.
// @Summary Reconcile Streets
// @Description Downloads the street feed, matches it against the canonical registry and writes the paginated snapshot. Concurrent requests share one run.
// @Tags streets
// @Accept json
// @Produce json
// @Param dry_run query boolean false "Match without writing the snapshot"
// @Success 200 {object} map[string]interface{} "Run Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /streets/reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	opts := RunOptions{DryRun: c.QueryBool("dry_run", false)}
	l.Info("Triggering street reconciliation", zap.Bool("dry_run", opts.DryRun))

	report, err := h.service.Run(c.Context(), opts)
	if err != nil {
		l.Error("Street reconciliation failed", zap.Error(err))
		body := fiber.Map{"error": err.Error()}
		if report != nil {
			body["report"] = reportJSON(report)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
	return c.JSON(reportJSON(report))
}

// HandleStatus returns the last run report.
// @Summary Last Reconciliation
// @Description Returns the report of the last completed reconciliation.
// @Tags streets
// @Produce json
// @Success 200 {object} map[string]interface{} "Run Report"
// @Failure 404 {object} map[string]string "No run yet"
// @Router /streets/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	report := h.service.Last()
	if report == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no reconciliation has completed yet"})
	}
	return c.JSON(reportJSON(report))
}

// HandleListSnapshots lists the current snapshot pages.
// @Summary List Snapshot Pages
// @Description Lists the file names in the current snapshot folder.
// @Tags streets
// @Produce json
// @Success 200 {object} map[string]interface{} "Snapshot Files"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /streets/snapshots [get]
func (h *Handler) HandleListSnapshots(c *fiber.Ctx) error {
	names, err := h.service.Writer().List(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list snapshots", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if names == nil {
		names = []string{}
	}
	return c.JSON(fiber.Map{"files": names, "count": len(names)})
}

// HandleGetSnapshot returns one page of the current snapshot.
// @Summary Get Snapshot Page
// @Description Returns the JSON content of one current snapshot page.
// @Tags streets
// @Produce json
// @Param name path string true "Page file name"
// @Success 200 {object} map[string]interface{} "Snapshot Page"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /streets/snapshots/{name} [get]
func (h *Handler) HandleGetSnapshot(c *fiber.Ctx) error {
	name := c.Params("name")
	data, err := h.readSnapshot(c, name)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "snapshot not found", "name": name})
		}
		logger.WithRayID(h.service.logger, c).Error("Failed to read snapshot", zap.String("name", name), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

func (h *Handler) readSnapshot(c *fiber.Ctx, name string) ([]byte, error) {
	rc, err := h.service.Writer().Open(c.Context(), name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// HandleIntegrity checks the registry schema and the snapshot bucket.
// @Summary Check Integrity
// @Description Verifies that the registry has every column the reconciliation reads and that the snapshot bucket is reachable. Creates the bucket when missing.
// @Tags streets
// @Produce json
// @Success 200 {object} IntegrityReport "Integrity Report"
// @Failure 503 {object} IntegrityReport "Integrity Report with failures"
// @Router /streets/integrity [get]
func (h *Handler) HandleIntegrity(c *fiber.Ctx) error {
	report := h.service.CheckIntegrity(c.Context())
	if !report.OK() {
		logger.WithRayID(h.service.logger, c).Warn("Integrity check failed",
			zap.Strings("missing_columns", report.MissingColumns),
			zap.String("schema_error", report.SchemaError),
			zap.String("storage_error", report.StorageError),
		)
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}
