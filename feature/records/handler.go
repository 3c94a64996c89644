package records

import (
	"strconv"

	"qr-registry/core/logger"
	"qr-registry/core/reconcile"
	"qr-registry/core/server"
	"qr-registry/feature/media"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DraftRequest is the body of record create and update requests.
// Media is a remote URL or a handle previously returned by the scanner media
// upload; other local paths are rejected.
type DraftRequest struct {
	Code   string `json:"code" example:"ABC123"`
	Media  string `json:"media" example:"https://cdn.example.com/media/qr/photo.jpg"`
	Note   string `json:"note" example:"hallway"`
	Author string `json:"author" example:"Alice"`
}

func (r DraftRequest) draft() reconcile.Draft {
	return reconcile.Draft{Code: r.Code, Media: r.Media, Note: r.Note, Author: r.Author}
}

// Handler handles HTTP requests for records.
type Handler struct {
	service *Service
	spool   *media.Spool
}

// NewHandler creates a new HTTP handler. Local media must live in spool.
func NewHandler(service *Service, spool *media.Spool) *Handler {
	return &Handler{service: service, spool: spool}
}

// RegisterRoutes registers the record routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/records")
	group.Get("/", h.HandleList)
	group.Get("/recent", h.HandleRecent)
	group.Get("/lookup", h.HandleLookup)
	group.Post("/", h.HandleCreate)
	group.Put("/:id", h.HandleUpdate)
	group.Delete("/", h.HandleDeleteByCode)
	group.Delete("/:id", h.HandleDelete)
}

// HandleList returns the record listing.
// @Summary List Records
// @Description Returns every record, newest first. The listing is served from memory unless refresh is set.
// @Tags records
// @Produce json
// @Param refresh query boolean false "Reload from the store"
// @Success 200 {array} reconcile.Record "Records"
// @Failure 502 {object} map[string]string "Store unavailable"
// @Router /records [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	recs, err := h.service.List(c.Context(), c.QueryBool("refresh"))
	if err != nil {
		l.Error("Listing refresh failed", zap.Error(err))
		return server.Error(c, err)
	}
	return c.JSON(recs)
}

// HandleRecent returns the newest records.
// @Summary Recent Records
// @Description Returns the most recently created records.
// @Tags records
// @Produce json
// @Param limit query int false "Maximum number of records (default from config)"
// @Success 200 {array} reconcile.Record "Records"
// @Failure 400 {object} map[string]string "Invalid limit"
// @Failure 502 {object} map[string]string "Store unavailable"
// @Router /records/recent [get]
func (h *Handler) HandleRecent(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a non-negative integer"})
		}
		limit = n
	}

	recs, err := h.service.Recent(c.Context(), limit)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Recent listing failed", zap.Error(err))
		return server.Error(c, err)
	}
	return c.JSON(recs)
}

// HandleLookup resolves a scanned code.
// @Summary Lookup Code
// @Description Resolves a decoded QR value to its canonical record. A missing record is 404; an unreachable store is 502.
// @Tags records
// @Produce json
// @Param code query string true "Decoded QR value"
// @Success 200 {object} reconcile.LookupResult "Match"
// @Failure 404 {object} reconcile.LookupResult "No record for code"
// @Failure 502 {object} map[string]string "Lookup failed"
// @Router /records/lookup [get]
func (h *Handler) HandleLookup(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code is required"})
	}

	res, err := h.service.Lookup(c.Context(), code)
	if err != nil {
		return server.Error(c, err)
	}
	if !res.Found() {
		return c.Status(fiber.StatusNotFound).JSON(res)
	}
	return c.JSON(res)
}

// HandleCreate creates a record.
// @Summary Create Record
// @Description Uploads local media if needed, then stores a new record. All fields are required.
// @Tags records
// @Accept json
// @Produce json
// @Param record body DraftRequest true "Record fields"
// @Success 201 {object} reconcile.Record "Created"
// @Failure 400 {object} map[string]string "Malformed body or unspooled media"
// @Failure 422 {object} map[string]string "Incomplete draft"
// @Failure 502 {object} map[string]string "Upload or store failure"
// @Router /records [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req DraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.spool.Check(req.Media); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := h.service.Create(c.Context(), req.draft())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Record create failed", zap.String("code", req.Code), zap.Error(err))
		return server.Error(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// HandleUpdate updates a record in place.
// @Summary Update Record
// @Description Rewrites code, media, note and author of an existing record. Remote media is kept without re-upload.
// @Tags records
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param record body DraftRequest true "Record fields"
// @Success 200 {object} reconcile.Record "Updated"
// @Failure 400 {object} map[string]string "Malformed body or unspooled media"
// @Failure 404 {object} map[string]string "Record not found"
// @Failure 422 {object} map[string]string "Incomplete draft"
// @Failure 502 {object} map[string]string "Upload or store failure"
// @Router /records/{id} [put]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	id := c.Params("id")

	var req DraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.spool.Check(req.Media); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := h.service.Update(c.Context(), id, req.draft())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Record update failed", zap.String("id", id), zap.Error(err))
		return server.Error(c, err)
	}
	return c.JSON(rec)
}

// HandleDelete removes a record by id.
// @Summary Delete Record
// @Description Deletes record metadata. The media object is left in the bucket.
// @Tags records
// @Param id path string true "Record ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Record not found"
// @Failure 502 {object} map[string]string "Store failure"
// @Router /records/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.Context(), id); err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Record delete failed", zap.String("id", id), zap.Error(err))
		return server.Error(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteByCode removes every record with a code.
// @Summary Delete Records By Code
// @Description Deletes all records whose code matches. Returns the removed ids, also on partial failure.
// @Tags records
// @Produce json
// @Param code query string true "Decoded QR value"
// @Success 200 {object} map[string]interface{} "Removed ids"
// @Failure 400 {object} map[string]string "Missing code"
// @Failure 502 {object} map[string]interface{} "Store failure"
// @Router /records [delete]
func (h *Handler) HandleDeleteByCode(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code is required"})
	}

	removed, err := h.service.DeleteByCode(c.Context(), code)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Delete by code failed",
			zap.String("code", code), zap.Strings("removed", removed), zap.Error(err))
		return c.Status(server.StatusFor(err)).JSON(fiber.Map{
			"error":   err.Error(),
			"removed": removed,
		})
	}
	return c.JSON(fiber.Map{"removed": removed})
}
