package snapshots

import (
	"errors"

	"pns-snapshot/core/ledger"
	"pns-snapshot/core/logger"
	"pns-snapshot/core/snapshot"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultRunLimit = 50

// Handler handles HTTP requests for snapshots.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the snapshot routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/snapshots")
	group.Get("/:kind", h.HandleList)
	group.Get("/:kind/latest", h.HandleLatest)
	group.Get("/:kind/:name", h.HandleDocument)

	app.Get("/diff", h.HandleDiff)
	app.Get("/runs", h.HandleRuns)
	app.Get("/runs/:id", h.HandleRun)
}

// HandleList lists the artifacts of a kind.
// @Summary List Artifacts
// @Tags snapshots
// @Produce json
// @Param kind path string true "Artifact kind (e.g. 'all_accounts')"
// @Success 200 {array} snapshot.Artifact
// @Router /snapshots/{kind} [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	list, err := h.service.List(c.Context(), c.Params("kind"))
	if err != nil {
		return h.fail(c, "List artifacts failed", err)
	}
	return c.JSON(list)
}

// HandleLatest returns the newest document of a kind.
// @Summary Latest Artifact
// @Tags snapshots
// @Produce json
// @Param kind path string true "Artifact kind"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "No artifact"
// @Router /snapshots/{kind}/latest [get]
func (h *Handler) HandleLatest(c *fiber.Ctx) error {
	art, doc, err := h.service.Latest(c.Context(), c.Params("kind"))
	if err != nil {
		return h.fail(c, "Load latest artifact failed", err)
	}
	c.Set("X-Artifact", art.Name)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(doc)
}

// HandleDocument returns one stored document.
// @Summary Get Artifact
// @Tags snapshots
// @Produce json
// @Param kind path string true "Artifact kind"
// @Param name path string true "Artifact name (e.g. 'all_accounts1669365039.json')"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid name"
// @Failure 404 {object} map[string]string "Not found"
// @Router /snapshots/{kind}/{name} [get]
func (h *Handler) HandleDocument(c *fiber.Ctx) error {
	kind, name := c.Params("kind"), c.Params("name")
	parsed, _, err := snapshot.ParseName(name)
	if err != nil {
		return h.fail(c, "Invalid artifact name", err)
	}
	if parsed != kind {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "artifact " + name + " is not of kind " + kind,
		})
	}
	doc, err := h.service.Document(c.Context(), name)
	if err != nil {
		return h.fail(c, "Load artifact failed", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(doc)
}

// HandleDiff compares two all_accounts artifacts.
// @Summary Diff Accounts
// @Description Surplus accounts and toggled domains between two all_accounts artifacts. Defaults to the two newest.
// @Tags snapshots
// @Produce json
// @Param before query string false "Earlier artifact name"
// @Param after query string false "Later artifact name"
// @Success 200 {object} DiffResult
// @Router /diff [get]
func (h *Handler) HandleDiff(c *fiber.Ctx) error {
	res, err := h.service.Diff(c.Context(), c.Query("before"), c.Query("after"))
	if err != nil {
		return h.fail(c, "Diff failed", err)
	}
	return c.JSON(res)
}

// HandleRuns lists recent harvest runs.
// @Summary List Runs
// @Tags runs
// @Produce json
// @Param kind query string false "Artifact kind"
// @Param limit query int false "Maximum runs returned"
// @Success 200 {array} ledger.Run
// @Router /runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	runs, err := h.service.Runs(c.Context(), c.Query("kind"), c.QueryInt("limit", defaultRunLimit))
	if err != nil {
		return h.fail(c, "List runs failed", err)
	}
	return c.JSON(runs)
}

// HandleRun returns one harvest run.
// @Summary Get Run
// @Tags runs
// @Produce json
// @Param id path string true "Run id"
// @Success 200 {object} ledger.Run
// @Failure 404 {object} map[string]string "Not found"
// @Router /runs/{id} [get]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	run, err := h.service.Run(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Get run failed", err)
	}
	return c.JSON(run)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, snapshot.ErrNotFound), errors.Is(err, ledger.ErrRunNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, snapshot.ErrInvalidName):
		status = fiber.StatusBadRequest
	}

	l := logger.WithRayID(h.service.logger, c)
	if status == fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
