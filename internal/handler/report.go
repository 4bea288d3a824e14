package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roadwatch/road-report-service/internal/draft"
	"github.com/roadwatch/road-report-service/internal/model"
	"github.com/roadwatch/road-report-service/internal/service"
)

// ReportHandler exposes report submission, the draft slot and questionnaire
// submission. Submission parsing happens here; all semantics (table
// routing, uploads, draft bookkeeping) live in the service engines.
type ReportHandler struct {
	Reports        *service.ReportService
	Questionnaires *service.QuestionnaireService
	Drafts         *draft.Store
}

func NewReportHandler(r *service.ReportService, q *service.QuestionnaireService, d *draft.Store) *ReportHandler {
	return &ReportHandler{Reports: r, Questionnaires: q, Drafts: d}
}

type reportResp struct {
	ReportID       string   `json:"report_id"`
	Confirmed      bool     `json:"confirmed"`
	FileURLs       []string `json:"file_urls,omitempty"`
	UploadWarnings []string `json:"upload_warnings,omitempty"`
}

// Submit accepts the report as a multipart form: vote, location,
// report_pincode, user_pincode, questionnaire_completed plus any number of
// "files" parts. Files stream straight from the multipart reader into
// object storage without buffering to disk.
func (h *ReportHandler) Submit(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	in := service.SubmitReportInput{
		UserID:                 uid,
		Location:               strings.TrimSpace(c.FormValue("location")),
		ReportPincode:          strings.TrimSpace(c.FormValue("report_pincode")),
		UserPincode:            strings.TrimSpace(c.FormValue("user_pincode")),
		Vote:                   strings.TrimSpace(c.FormValue("vote")),
		QuestionnaireCompleted: c.FormValue("questionnaire_completed") == "true",
		ReportID:               strings.TrimSpace(c.FormValue("report_id")),
	}

	form, err := c.MultipartForm()
	if err != nil && err != http.ErrNotMultipart {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid multipart body"})
	}
	var closers []interface{ Close() error }
	defer func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}()
	if form != nil {
		for _, fh := range form.File["files"] {
			f, err := fh.Open()
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable file part"})
			}
			closers = append(closers, f)
			in.Files = append(in.Files, service.MediaFile{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Reader:      f,
			})
		}
	}

	// Uploads can take a while; give them a broader budget than plain DB calls.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	res, err := h.Reports.Submit(ctx, in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVoteRequired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "vote required"})
		case errors.Is(err, service.ErrUserRequired):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit report failed"})
		}
	}
	return c.JSON(http.StatusCreated, reportResp{
		ReportID:       res.ReportID,
		Confirmed:      res.Confirmed,
		FileURLs:       res.FileURLs,
		UploadWarnings: res.UploadWarnings,
	})
}

// GetDraft returns the caller's draft slot, or 404 when none is saved.
func (h *ReportHandler) GetDraft(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, ok, err := h.Drafts.LoadDraft(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load draft failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no draft"})
	}
	return c.JSON(http.StatusOK, d)
}

// PutDraft overwrites the caller's draft slot. The client calls this on
// every field change; the slot holds exactly one in-progress report.
func (h *ReportHandler) PutDraft(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var d model.DraftReport
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if d.Vote != "" && !model.ValidVote(d.Vote) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vote"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Drafts.SaveDraft(ctx, uid, d); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save draft failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteDraft discards the caller's draft slot.
func (h *ReportHandler) DeleteDraft(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Drafts.ClearDraft(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear draft failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type questionnaireReq struct {
	ReportID    string                  `json:"report_id"`
	Location    string                  `json:"location"`
	Pincode     string                  `json:"pincode"`
	UserPincode string                  `json:"user_pincode"`
	Answers     map[string]model.Answer `json:"answers"`
	Comments    string                  `json:"comments"`
}

type questionnaireResp struct {
	ReportID    string `json:"report_id"`
	Confirmed   bool   `json:"confirmed"`
	CreatedStub bool   `json:"created_stub"`
}

// SubmitQuestionnaire accepts the fixed answer bundle. With no report_id a
// stub report row is created first; its id comes back so the client ties
// the eventual full submission to it.
func (h *ReportHandler) SubmitQuestionnaire(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req questionnaireReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Questionnaires.Submit(ctx, service.SubmitQuestionnaireInput{
		ReportID:    strings.TrimSpace(req.ReportID),
		UserID:      uid,
		Location:    strings.TrimSpace(req.Location),
		Pincode:     strings.TrimSpace(req.Pincode),
		UserPincode: strings.TrimSpace(req.UserPincode),
		Answers:     req.Answers,
		Comments:    req.Comments,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserRequired):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		case errors.Is(err, model.ErrUnansweredQuestion):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, service.ErrLocationRequired):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "location and pincode required"})
		case errors.Is(err, model.ErrWrongAnswerKind):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit questionnaire failed"})
		}
	}
	return c.JSON(http.StatusCreated, questionnaireResp{
		ReportID:    res.ReportID,
		Confirmed:   res.Confirmed,
		CreatedStub: res.CreatedStub,
	})
}

// Questions returns the fixed questionnaire definition so the client
// renders the same set the server validates against.
func (h *ReportHandler) Questions(c echo.Context) error {
	type questionResp struct {
		ID       string   `json:"id"`
		Text     string   `json:"text"`
		Options  []string `json:"options"`
		Multiple bool     `json:"multiple"`
	}
	out := make([]questionResp, 0, len(model.Questions))
	for _, q := range model.Questions {
		out = append(out, questionResp{ID: q.ID, Text: q.Text, Options: q.Options, Multiple: q.Multiple})
	}
	return c.JSON(http.StatusOK, out)
}

// GetAnswers returns the cached answer bundle for the caller's report, used
// to re-populate the questionnaire while the email is still unconfirmed.
func (h *ReportHandler) GetAnswers(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Reports are keyed by user id, so the cached bundle is too.
	answers, comments, ok, err := h.Drafts.LoadAnswers(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load answers failed"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no cached answers"})
	}
	return c.JSON(http.StatusOK, echo.Map{"answers": answers, "comments": comments})
}
