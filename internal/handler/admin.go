package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roadwatch/road-report-service/internal/config"
	"github.com/roadwatch/road-report-service/internal/model"
	"github.com/roadwatch/road-report-service/internal/repository"
)

// AdminHandler serves the privileged shim endpoints that run as a separate
// process. They use the service credentials directly and are guarded by a
// shared API key, never by end-user JWTs. Error bodies carry stable `code`
// values that callers branch on.
type AdminHandler struct {
	Cfg      config.Config
	Users    UserStore
	Profiles ProfileStore
	Reports  AdminReportStore
}

func NewAdminHandler(cfg config.Config, u UserStore, p ProfileStore, r AdminReportStore) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: u, Profiles: p, Reports: r}
}

// RequireKey guards the shim with the shared admin API key.
func (h *AdminHandler) RequireKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.Cfg.AdminAPIKey == "" || c.Request().Header.Get("X-Admin-Key") != h.Cfg.AdminAPIKey {
			return c.JSON(http.StatusUnauthorized, echo.Map{"code": "unauthorized", "error": "invalid admin key"})
		}
		return next(c)
	}
}

type adminRegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Pincode  string `json:"pincode"`
}

type adminReportReq struct {
	UserID   string `json:"user_id"`
	Location string `json:"location"`
	Pincode  string `json:"pincode"`
}

// Register creates a user with privileged credentials. The two inserts are
// not transactional across systems, so a failed profile insert rolls the
// auth user back by deleting it; otherwise a retry with the same email
// would permanently fail on the duplicate.
func (h *AdminHandler) Register(c echo.Context) error {
	var req adminRegisterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "invalid_body", "error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "invalid_body", "error": "name/email/password required"})
	}
	if len(req.Password) < minPasswordLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "invalid_body", "error": "password must be at least 6 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, "USER", h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"code": "admin_create_failed", "error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"code": "admin_create_failed", "error": "create user failed"})
	}

	profile := model.Profile{ID: uid, Name: req.Name, Email: req.Email}
	if p := strings.TrimSpace(req.Pincode); p != "" {
		profile.Pincode = &p
	}
	if err := h.Profiles.Create(ctx, profile); err != nil {
		// Best-effort cleanup; a failure here is logged and the original
		// error still surfaces to the caller.
		if delErr := h.Users.Delete(ctx, uid); delErr != nil {
			c.Logger().Errorf("admin: rollback of user %s failed: %v", uid, delErr)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"code": "profile_insert_failed", "error": "create profile failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"ok":      true,
		"user":    echo.Map{"id": uid, "email": req.Email},
		"profile": echo.Map{"id": uid, "name": profile.Name, "pincode": profile.Pincode},
	})
}

// Report inserts a report row directly into the confirmed table on behalf
// of a user, bypassing the client flow entirely.
func (h *AdminHandler) Report(c echo.Context) error {
	var req adminReportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "invalid_body", "error": "invalid body"})
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Location = strings.TrimSpace(req.Location)
	if req.UserID == "" || req.Location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"code": "invalid_body", "error": "user_id/location required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var pincode *string
	if p := strings.TrimSpace(req.Pincode); p != "" {
		pincode = &p
	}
	rec, err := h.Reports.AdminInsert(ctx, req.UserID, req.Location, pincode)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"code": "report_insert_failed", "error": "insert report failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"ok":     true,
		"report": echo.Map{"id": rec.ID, "location": rec.Location, "vote": rec.Vote},
	})
}
