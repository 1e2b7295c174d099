package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"unicode/utf8"

	"talkproposals/internal/delivery/http/helpers"
	"talkproposals/internal/delivery/http/middleware"
	"talkproposals/internal/domain"
)

// SpeakerView is the read model for one speaker in API responses. The primary
// speaker (the submitter) is listed first with status "Proposal author".
type SpeakerView struct {
	UserID      string `json:"user_id"`
	SpeakerName string `json:"speaker_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Status      string `json:"status"`
}

func newSpeakerViews(speakers []domain.Speaker) []SpeakerView {
	views := make([]SpeakerView, 0, len(speakers))
	for _, s := range speakers {
		v := SpeakerView{Status: s.StatusDisplay()}
		if u := s.SpeakerUser(); u != nil {
			v.UserID = u.ID
			v.SpeakerName = u.SpeakerName
			v.Email = u.Email
		}
		views = append(views, v)
	}
	return views
}

// parseProposalRef reads the kind and id path segments into a tagged reference.
func parseProposalRef(r *http.Request) (domain.ProposalRef, error) {
	kind, err := domain.ParseProposalKind(r.PathValue("kind"))
	if err != nil {
		return domain.ProposalRef{}, err
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return domain.ProposalRef{}, domain.ErrInvalidInput
	}
	return domain.ProposalRef{Kind: kind, ID: id}, nil
}

type ProposalController struct {
	Logger       *slog.Logger
	Service      domain.ProposalService
	URLs         domain.ProposalURLResolver
	ConferenceID string
}

func NewProposalController(logger *slog.Logger, svc domain.ProposalService, urls domain.ProposalURLResolver, conferenceID string) *ProposalController {
	return &ProposalController{
		Logger:       logger,
		Service:      svc,
		URLs:         urls,
		ConferenceID: conferenceID,
	}
}

// CreateProposalRequest is the request body for POST /proposals/{kind}.
// Duration and first_time_speaker apply to talks only.
type CreateProposalRequest struct {
	Title               string `json:"title"`
	Abstract            string `json:"abstract"`
	DetailedDescription string `json:"detailed_description"`
	Outline             string `json:"outline"`
	Objective           string `json:"objective"`
	Supplementary       string `json:"supplementary"`
	Labels              string `json:"labels"`
	Duration            string `json:"duration"`
	FirstTimeSpeaker    bool   `json:"first_time_speaker"`
}

// Validate implements Validator.
func (c CreateProposalRequest) Validate() []string {
	var errs []string
	if c.Title == "" {
		errs = append(errs, "title is required")
	}
	if utf8.RuneCountInString(c.Objective) > domain.ObjectiveMaxLen {
		errs = append(errs, "objective must be at most 1000 characters")
	}
	return errs
}

func (c CreateProposalRequest) base(conferenceID, submitterID string) domain.ProposalBase {
	return domain.ProposalBase{
		ConferenceID:        conferenceID,
		SubmitterID:         submitterID,
		Title:               c.Title,
		Abstract:            c.Abstract,
		DetailedDescription: c.DetailedDescription,
		Outline:             c.Outline,
		Objective:           c.Objective,
		Supplementary:       c.Supplementary,
		Labels:              c.Labels,
	}
}

// ProposalURLs are the canonical web UI links for a proposal.
type ProposalURLs struct {
	Peek           string `json:"peek"`
	Update         string `json:"update"`
	Cancel         string `json:"cancel"`
	ManageSpeakers string `json:"manage_speakers"`
}

// ProposalDetail is the read model for a single proposal, with completion
// metrics and the composed speaker list.
type ProposalDetail struct {
	Kind                    domain.ProposalKind `json:"kind"`
	Proposal                domain.Proposal     `json:"proposal"`
	DurationDisplay         string              `json:"duration_display,omitempty"`
	FirstTimeSpeakerDisplay string              `json:"first_time_speaker_display,omitempty"`
	FinishPercentage        int                 `json:"finish_percentage"`
	UnfinishedFields        int                 `json:"unfinished_fields"`
	Speakers                []SpeakerView       `json:"speakers"`
	URLs                    ProposalURLs        `json:"urls"`
}

func (c *ProposalController) detail(p domain.Proposal, speakers []domain.Speaker) ProposalDetail {
	d := ProposalDetail{
		Kind:             p.Ref().Kind,
		Proposal:         p,
		FinishPercentage: p.Base().FinishPercentage(),
		UnfinishedFields: p.Base().UnfinishedFieldsCount(),
		Speakers:         newSpeakerViews(speakers),
		URLs: ProposalURLs{
			Peek:           c.URLs.PeekURL(p),
			Update:         c.URLs.UpdateURL(p),
			Cancel:         c.URLs.CancelURL(p),
			ManageSpeakers: c.URLs.ManageSpeakersURL(p),
		},
	}
	switch t := p.(type) {
	case *domain.TalkProposal:
		d.DurationDisplay = c.Service.TalkDurationLabel(t.Duration)
		d.FirstTimeSpeakerDisplay = t.FirstTimeSpeakerDisplay()
	case *domain.TutorialProposal:
		d.DurationDisplay = t.Duration
	}
	return d
}

// CreateProposalSuccessResponse is the success response envelope for POST /proposals/{kind} (201).
type CreateProposalSuccessResponse struct {
	Data  ProposalDetail    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateProposal godoc
// @Summary Submit a proposal
// @Description Submit a new talk or tutorial proposal. Talks require a duration from the configured choices; tutorials always get the fixed tutorial duration. The authenticated user becomes the submitter.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Proposal kind (talk or tutorial)"
// @Param proposal body CreateProposalRequest true "Proposal data"
// @Success 201 {object} controllers.CreateProposalSuccessResponse "data contains the created proposal"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /proposals/{kind} [post]
func (c *ProposalController) CreateProposal(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseProposalKind(r.PathValue("kind"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown proposal kind")
		return
	}
	var req CreateProposalRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var created domain.Proposal
	switch kind {
	case domain.ProposalKindTalk:
		talk := &domain.TalkProposal{
			ProposalBase:     req.base(c.ConferenceID, userID),
			Duration:         req.Duration,
			FirstTimeSpeaker: req.FirstTimeSpeaker,
		}
		err = c.Service.SubmitTalk(r.Context(), talk)
		created = talk
	case domain.ProposalKindTutorial:
		tutorial := &domain.TutorialProposal{
			ProposalBase: req.base(c.ConferenceID, userID),
			Duration:     req.Duration,
		}
		err = c.Service.SubmitTutorial(r.Context(), tutorial)
		created = tutorial
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	speakers, err := c.Service.Speakers(r.Context(), created, nil)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, c.detail(created, speakers))
}

// GetProposalSuccessResponse is the success response envelope for GET /proposals/{kind}/{id} (200).
type GetProposalSuccessResponse struct {
	Data  ProposalDetail    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetProposal godoc
// @Summary Get a proposal
// @Description Returns the proposal with completion metrics and the composed speaker list (submitter first, then non-cancelled co-speakers). Requires authentication.
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Proposal kind (talk or tutorial)"
// @Param id path int true "Proposal ID"
// @Success 200 {object} controllers.GetProposalSuccessResponse "data contains the proposal detail"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /proposals/{kind}/{id} [get]
func (c *ProposalController) GetProposal(w http.ResponseWriter, r *http.Request) {
	ref, err := parseProposalRef(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid proposal reference")
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	p, err := c.Service.Get(r.Context(), c.ConferenceID, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "proposal not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	speakers, err := c.Service.Speakers(r.Context(), p, nil)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.detail(p, speakers))
}

// UpdateProposalRequest is the request body for PATCH /proposals/{kind}/{id}.
// All fields optional; omitted fields are unchanged. Duration and
// first_time_speaker are accepted for talks only.
type UpdateProposalRequest struct {
	Title               *string `json:"title"`
	Abstract            *string `json:"abstract"`
	DetailedDescription *string `json:"detailed_description"`
	Outline             *string `json:"outline"`
	Objective           *string `json:"objective"`
	Supplementary       *string `json:"supplementary"`
	Labels              *string `json:"labels"`
	Duration            *string `json:"duration"`
	FirstTimeSpeaker    *bool   `json:"first_time_speaker"`
}

// Validate implements Validator.
func (u UpdateProposalRequest) Validate() []string {
	var errs []string
	if u.Title != nil && *u.Title == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Objective != nil && utf8.RuneCountInString(*u.Objective) > domain.ObjectiveMaxLen {
		errs = append(errs, "objective must be at most 1000 characters")
	}
	return errs
}

// UpdateProposalSuccessResponse is the success response envelope for PATCH /proposals/{kind}/{id} (200).
type UpdateProposalSuccessResponse struct {
	Data  ProposalDetail    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateProposal godoc
// @Summary Update a proposal
// @Description Updates proposal fields. Only the submitter can update. Omitted fields are unchanged. Requires authentication.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Proposal kind (talk or tutorial)"
// @Param id path int true "Proposal ID"
// @Param body body UpdateProposalRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UpdateProposalSuccessResponse "data contains the updated proposal"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not submitter)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /proposals/{kind}/{id} [patch]
func (c *ProposalController) UpdateProposal(w http.ResponseWriter, r *http.Request) {
	ref, err := parseProposalRef(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid proposal reference")
		return
	}
	var req UpdateProposalRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var updated domain.Proposal
	switch ref.Kind {
	case domain.ProposalKindTalk:
		updated, err = c.Service.UpdateTalk(r.Context(), c.ConferenceID, ref.ID, userID, domain.TalkUpdate{
			Title:               req.Title,
			Abstract:            req.Abstract,
			DetailedDescription: req.DetailedDescription,
			Outline:             req.Outline,
			Objective:           req.Objective,
			Supplementary:       req.Supplementary,
			Labels:              req.Labels,
			Duration:            req.Duration,
			FirstTimeSpeaker:    req.FirstTimeSpeaker,
		})
	case domain.ProposalKindTutorial:
		updated, err = c.Service.UpdateTutorial(r.Context(), c.ConferenceID, ref.ID, userID, domain.TutorialUpdate{
			Title:               req.Title,
			Abstract:            req.Abstract,
			DetailedDescription: req.DetailedDescription,
			Outline:             req.Outline,
			Objective:           req.Objective,
			Supplementary:       req.Supplementary,
			Labels:              req.Labels,
		})
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "proposal not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	speakers, err := c.Service.Speakers(r.Context(), updated, nil)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.detail(updated, speakers))
}

// CancelProposalResponse is the data payload for POST /proposals/{kind}/{id}/cancel (200).
type CancelProposalResponse struct {
	Status string `json:"status"`
}

// CancelProposalSuccessResponse is the success response envelope for POST /proposals/{kind}/{id}/cancel (200).
type CancelProposalSuccessResponse struct {
	Data  CancelProposalResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// CancelProposal godoc
// @Summary Cancel a proposal
// @Description Soft-deletes the proposal by setting its cancelled flag. Only the submitter can cancel. The row is retained. Requires authentication.
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Proposal kind (talk or tutorial)"
// @Param id path int true "Proposal ID"
// @Success 200 {object} controllers.CancelProposalSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not submitter)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /proposals/{kind}/{id}/cancel [post]
func (c *ProposalController) CancelProposal(w http.ResponseWriter, r *http.Request) {
	ref, err := parseProposalRef(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid proposal reference")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Cancel(r.Context(), c.ConferenceID, ref, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "proposal not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CancelProposalResponse{Status: "cancelled"})
}

// SetAcceptanceRequest is the request body for PUT /proposals/{kind}/{id}/acceptance.
// Accepted is tri-state: true, false, or null for undecided.
type SetAcceptanceRequest struct {
	Accepted *bool `json:"accepted"`
}

// SetAcceptanceResponse is the data payload for PUT /proposals/{kind}/{id}/acceptance (200).
type SetAcceptanceResponse struct {
	Status string `json:"status"`
}

// SetAcceptanceSuccessResponse is the success response envelope for PUT /proposals/{kind}/{id}/acceptance (200).
type SetAcceptanceSuccessResponse struct {
	Data  SetAcceptanceResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// SetAcceptance godoc
// @Summary Set proposal acceptance
// @Description Sets the tri-state acceptance of a proposal: accepted, rejected, or undecided (null). Programme team operation. Requires authentication.
// @Tags proposals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Proposal kind (talk or tutorial)"
// @Param id path int true "Proposal ID"
// @Param body body SetAcceptanceRequest true "Acceptance value (true, false, or null)"
// @Success 200 {object} controllers.SetAcceptanceSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /proposals/{kind}/{id}/acceptance [put]
func (c *ProposalController) SetAcceptance(w http.ResponseWriter, r *http.Request) {
	ref, err := parseProposalRef(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid proposal reference")
		return
	}
	var req SetAcceptanceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.SetAccepted(r.Context(), c.ConferenceID, ref, req.Accepted); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "proposal not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SetAcceptanceResponse{Status: "updated"})
}

// ProposalListItem is one entry in proposal list responses.
type ProposalListItem struct {
	Kind             domain.ProposalKind `json:"kind"`
	ID               int64               `json:"id"`
	Title            string              `json:"title"`
	Duration         string              `json:"duration"`
	FinishPercentage int                 `json:"finish_percentage"`
	Cancelled        bool                `json:"cancelled"`
	Accepted         *bool               `json:"accepted"`
	Speakers         []SpeakerView       `json:"speakers,omitempty"`
}

func newProposalListItem(p domain.Proposal) ProposalListItem {
	return ProposalListItem{
		Kind:             p.Ref().Kind,
		ID:               p.Ref().ID,
		Title:            p.Base().Title,
		Duration:         p.DurationValue(),
		FinishPercentage: p.Base().FinishPercentage(),
		Cancelled:        p.Base().Cancelled,
		Accepted:         p.Base().Accepted,
	}
}

// ListProposalsSuccessResponse is the success response envelope for GET /proposals/{kind} (200).
type ListProposalsSuccessResponse struct {
	Data  []ProposalListItem `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListProposals godoc
// @Summary List proposals
// @Description Lists proposals of a kind. filter=mine returns proposals the user submitted or co-speaks on (any invitation status). filter=reviewable returns all except cancelled ones and the user's own. filter=accepted returns non-cancelled accepted proposals with their speaker lists. Default is mine. Requires authentication.
// @Tags proposals
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Proposal kind (talk or tutorial)"
// @Param filter query string false "One of mine, reviewable, accepted (default mine)"
// @Success 200 {object} controllers.ListProposalsSuccessResponse "data is an array of proposals"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /proposals/{kind} [get]
func (c *ProposalController) ListProposals(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseProposalKind(r.PathValue("kind"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown proposal kind")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = "mine"
	}

	var items []ProposalListItem
	switch filter {
	case "mine":
		proposals, err := c.Service.ListViewable(r.Context(), c.ConferenceID, kind, userID)
		if err != nil {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
			return
		}
		items = make([]ProposalListItem, 0, len(proposals))
		for _, p := range proposals {
			items = append(items, newProposalListItem(p))
		}
	case "reviewable":
		proposals, err := c.Service.ListReviewable(r.Context(), c.ConferenceID, kind, userID)
		if err != nil {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
			return
		}
		items = make([]ProposalListItem, 0, len(proposals))
		for _, p := range proposals {
			items = append(items, newProposalListItem(p))
		}
	case "accepted":
		accepted, err := c.Service.ListAcceptedWithSpeakers(r.Context(), c.ConferenceID, kind)
		if err != nil {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
			return
		}
		items = make([]ProposalListItem, 0, len(accepted))
		for _, a := range accepted {
			item := newProposalListItem(a.Proposal)
			item.Speakers = newSpeakerViews(a.Speakers)
			items = append(items, item)
		}
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown filter")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}
