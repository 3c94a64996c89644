package scanner

import (
	"errors"

	"qr-registry/core/logger"
	"qr-registry/core/server"
	"qr-registry/core/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionView is the JSON form of a scan session.
type SessionView struct {
	ID string `json:"id"`
	session.State
	Busy  bool   `json:"busy"`
	Error string `json:"error,omitempty"`
}

func viewOf(id string, st session.State) SessionView {
	return SessionView{ID: id, State: st, Busy: st.Busy(), Error: st.ErrorMessage()}
}

// DecodeRequest carries a decoded QR value.
type DecodeRequest struct {
	Code string `json:"code" example:"ABC123"`
}

// DraftRequest updates draft fields. Omitted fields are left unchanged.
// Media is a remote URL or a handle returned by the media endpoint.
type DraftRequest struct {
	Note   *string `json:"note,omitempty" example:"hallway"`
	Author *string `json:"author,omitempty" example:"Alice"`
	Media  *string `json:"media,omitempty" example:"https://cdn.example.com/media/qr/photo.jpg"`
}

// Handler handles HTTP requests for scan sessions.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the scanner routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/scan/sessions")
	group.Post("/", h.HandleCreate)
	group.Get("/:id", h.HandleGet)
	group.Delete("/:id", h.HandleClose)
	group.Post("/:id/decode", h.HandleDecode)
	group.Put("/:id/draft", h.HandleDraft)
	group.Post("/:id/media", h.HandleMedia)
	group.Post("/:id/edit", h.HandleEdit)
	group.Post("/:id/save", h.HandleSave)
	group.Post("/:id/rescan", h.HandleRescan)
}

// HandleCreate mounts a scan session.
// @Summary Create Scan Session
// @Description Creates a session in the idle phase, ready for a decoded code.
// @Tags scanner
// @Produce json
// @Success 201 {object} SessionView "Session"
// @Router /scan/sessions [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	sess := h.service.Create()
	logger.WithRayID(h.service.logger, c).Info("Scan session created", zap.String("session", sess.ID()))
	return c.Status(fiber.StatusCreated).JSON(viewOf(sess.ID(), sess.State()))
}

// HandleGet returns the session state.
// @Summary Get Scan Session
// @Description Returns the current phase, draft and last outcome of a session.
// @Tags scanner
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView "Session"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /scan/sessions/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	sess, err := h.service.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if c.QueryBool("wait") {
		sess.Wait()
	}
	return c.JSON(viewOf(sess.ID(), sess.State()))
}

// HandleClose discards a session.
// @Summary Close Scan Session
// @Description Discards the session and its spooled media. An in-flight save still completes.
// @Tags scanner
// @Param id path string true "Session ID"
// @Success 204 "Closed"
// @Failure 404 {object} map[string]string "Unknown session"
// @Router /scan/sessions/{id} [delete]
func (h *Handler) HandleClose(c *fiber.Ctx) error {
	if err := h.service.Close(c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDecode submits a decoded code.
// @Summary Submit Decoded Code
// @Description Starts a lookup. Only accepted in the idle phase; duplicates while resolving are rejected with 409.
// @Tags scanner
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param wait query boolean false "Wait for the lookup to finish"
// @Param body body DecodeRequest true "Decoded code"
// @Success 200 {object} SessionView "Lookup finished"
// @Success 202 {object} SessionView "Lookup in flight"
// @Failure 409 {object} SessionView "Session busy or not idle"
// @Failure 502 {object} SessionView "Lookup failed"
// @Router /scan/sessions/{id}/decode [post]
func (h *Handler) HandleDecode(c *fiber.Ctx) error {
	var req DecodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code is required"})
	}
	return h.apply(c, session.Decode{Code: req.Code})
}

// HandleDraft updates draft fields.
// @Summary Update Draft
// @Description Sets note, author and/or media of the draft. Only accepted while drafting.
// @Tags scanner
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body DraftRequest true "Fields to set"
// @Success 200 {object} SessionView "Session"
// @Failure 400 {object} map[string]string "Malformed body or unspooled media"
// @Failure 409 {object} SessionView "Not drafting"
// @Router /scan/sessions/{id}/draft [put]
func (h *Handler) HandleDraft(c *fiber.Ctx) error {
	sess, err := h.service.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	var req DraftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var events []session.Event
	if req.Note != nil {
		events = append(events, session.SetNote{Note: *req.Note})
	}
	if req.Author != nil {
		events = append(events, session.SetAuthor{Author: *req.Author})
	}
	if req.Media != nil {
		if err := h.service.spool.Check(*req.Media); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		events = append(events, session.SetMedia{Handle: *req.Media})
	}

	st := sess.State()
	for _, ev := range events {
		if st, err = sess.Try(ev); err != nil {
			return h.conflict(c, sess.ID(), st, err)
		}
	}
	return c.JSON(viewOf(sess.ID(), st))
}

// HandleMedia uploads an image for the draft.
// @Summary Attach Media
// @Description Spools a multipart image and sets it as the draft media. It is uploaded to the blob store on save.
// @Tags scanner
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "Image"
// @Success 200 {object} SessionView "Session"
// @Failure 400 {object} map[string]string "Missing file"
// @Failure 409 {object} SessionView "Not drafting"
// @Router /scan/sessions/{id}/media [post]
func (h *Handler) HandleMedia(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	defer f.Close()

	sess, st, err := h.service.AttachMedia(c.Params("id"), fh.Filename, f)
	switch {
	case err == nil:
		return c.JSON(viewOf(sess.ID(), st))
	case sess == nil:
		return h.fail(c, err)
	case isRejection(err):
		return h.conflict(c, sess.ID(), st, err)
	default:
		logger.WithRayID(h.service.logger, c).Error("Media spool failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// HandleEdit starts editing the matched record.
// @Summary Edit Match
// @Description Switches from viewing a matched record to drafting changes to it.
// @Tags scanner
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView "Session"
// @Failure 409 {object} SessionView "Not viewing a match"
// @Router /scan/sessions/{id}/edit [post]
func (h *Handler) HandleEdit(c *fiber.Ctx) error {
	return h.apply(c, session.Edit{})
}

// HandleSave commits the draft.
// @Summary Save Draft
// @Description Uploads local media and writes the record. Incomplete drafts are rejected with 422 and stay editable.
// @Tags scanner
// @Produce json
// @Param id path string true "Session ID"
// @Param wait query boolean false "Wait for the commit to finish"
// @Success 200 {object} SessionView "Saved"
// @Success 202 {object} SessionView "Commit in flight"
// @Failure 409 {object} SessionView "Not drafting"
// @Failure 422 {object} SessionView "Incomplete draft"
// @Failure 502 {object} SessionView "Upload or store failure"
// @Router /scan/sessions/{id}/save [post]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	return h.apply(c, session.Save{})
}

// HandleRescan abandons the current view or draft.
// @Summary Rescan
// @Description Returns the session to idle without touching the store.
// @Tags scanner
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionView "Session"
// @Failure 409 {object} SessionView "Busy or already idle"
// @Router /scan/sessions/{id}/rescan [post]
func (h *Handler) HandleRescan(c *fiber.Ctx) error {
	return h.apply(c, session.Rescan{})
}

func (h *Handler) apply(c *fiber.Ctx, ev session.Event) error {
	sess, err := h.service.Get(c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	st, err := sess.Try(ev)
	if err != nil {
		return h.conflict(c, sess.ID(), st, err)
	}

	if c.QueryBool("wait") {
		sess.Wait()
		st = sess.State()
	}

	view := viewOf(sess.ID(), st)
	switch {
	case st.Err != nil:
		logger.WithRayID(h.service.logger, c).Warn("Scan operation failed",
			zap.String("session", sess.ID()), zap.String("phase", string(st.Phase)), zap.Error(st.Err))
		return c.Status(server.StatusFor(st.Err)).JSON(view)
	case st.Busy():
		return c.Status(fiber.StatusAccepted).JSON(view)
	default:
		return c.JSON(view)
	}
}

func (h *Handler) conflict(c *fiber.Ctx, id string, st session.State, err error) error {
	view := viewOf(id, st)
	view.Error = err.Error()
	return c.Status(fiber.StatusConflict).JSON(view)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func isRejection(err error) bool {
	return errors.Is(err, session.ErrBusy) ||
		errors.Is(err, session.ErrNotApplicable) ||
		errors.Is(err, session.ErrClosed)
}
