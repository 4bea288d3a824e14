package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roadwatch/road-report-service/internal/draft"
	"github.com/roadwatch/road-report-service/internal/flow"
	"github.com/roadwatch/road-report-service/internal/model"
	"github.com/roadwatch/road-report-service/internal/repository"
)

// FlowHandler exposes the client flow state machine over HTTP. The screen
// the user should see is never stored directly; it is recomputed from the
// persisted flow slots on every GET, so duplicate or out-of-order updates
// from the client cannot push the user backwards.
type FlowHandler struct {
	Drafts   *draft.Store
	Profiles *repository.ProfileRepo
}

func NewFlowHandler(d *draft.Store, p *repository.ProfileRepo) *FlowHandler {
	return &FlowHandler{Drafts: d, Profiles: p}
}

type flowResp struct {
	State           flow.State              `json:"state"`
	LocationGranted bool                    `json:"location_granted"`
	UserPincode     string                  `json:"user_pincode,omitempty"`
	Selected        *model.SelectedLocation `json:"selected,omitempty"`
}

type permissionReq struct {
	Granted bool   `json:"granted"`
	Pincode string `json:"pincode"` // manual entry offered when permission is denied
}

type confirmLocationReq struct {
	Location string `json:"location"`
	Pincode  string `json:"pincode"`
}

func (h *FlowHandler) respond(c echo.Context, f draft.FlowState) error {
	return c.JSON(http.StatusOK, flowResp{
		State:           flow.Resume(true, f),
		LocationGranted: f.LocationGranted,
		UserPincode:     f.UserPincode,
		Selected:        f.Selected,
	})
}

// Get returns the screen a returning session should resume on, computed
// from the persisted flow slots. A session with no slots lands on the
// location permission screen.
func (h *FlowHandler) Get(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, _, err := h.Drafts.LoadFlow(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flow failed"})
	}
	return h.respond(c, f)
}

// Permission records the outcome of the browser geolocation prompt. A
// denial keeps the user on the permission screen but accepts a manually
// entered pincode as fallback, matching the screen's manual-entry field.
func (h *FlowHandler) Permission(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req permissionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, _, err := h.Drafts.LoadFlow(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flow failed"})
	}
	if req.Granted {
		f.LocationGranted = true
	}
	if p := strings.TrimSpace(req.Pincode); p != "" {
		f.UserPincode = p
		// Keep the profile's home pincode in sync; best effort, the flow
		// slot remains the source of truth for this session.
		_ = h.Profiles.UpdatePincode(ctx, uid, p)
		// A manual pincode stands in for a granted permission.
		f.LocationGranted = true
	}
	if err := h.Drafts.SaveFlow(ctx, uid, f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save flow failed"})
	}
	return h.respond(c, f)
}

// ConfirmLocation records the place picked on the search screen and
// advances the flow to the report screen. The selection is timestamped so
// a later edit supersedes it cleanly.
func (h *FlowHandler) ConfirmLocation(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req confirmLocationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Location = strings.TrimSpace(req.Location)
	if req.Location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, _, err := h.Drafts.LoadFlow(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flow failed"})
	}
	f.Selected = &model.SelectedLocation{
		Location:  req.Location,
		Pincode:   strings.TrimSpace(req.Pincode),
		Timestamp: time.Now().UTC(),
	}
	if err := h.Drafts.SaveFlow(ctx, uid, f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save flow failed"})
	}

	// Mirror the selection into the draft so the report screen shows it
	// even after a reload.
	d, _, err := h.Drafts.LoadDraft(ctx, uid)
	if err == nil {
		d.Location = req.Location
		d.ReportPincode = strings.TrimSpace(req.Pincode)
		if f.UserPincode != "" {
			d.UserPincode = f.UserPincode
		}
		_ = h.Drafts.SaveDraft(ctx, uid, d)
	}
	return h.respond(c, f)
}

// EditLocation drops the confirmed selection, sending the user back to the
// search screen. The draft keeps its other fields; only the location is
// re-chosen.
func (h *FlowHandler) EditLocation(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, _, err := h.Drafts.LoadFlow(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load flow failed"})
	}
	f.Selected = nil
	if err := h.Drafts.SaveFlow(ctx, uid, f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save flow failed"})
	}
	return h.respond(c, f)
}
