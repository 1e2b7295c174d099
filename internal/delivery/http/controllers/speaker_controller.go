package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"talkproposals/internal/delivery/http/helpers"
	"talkproposals/internal/delivery/http/middleware"
	"talkproposals/internal/domain"
)

// emailRegex matches a simple email format (local@domain with at least one dot in domain).
var emailRegex = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

type SpeakerController struct {
	Logger       *slog.Logger
	Service      domain.SpeakerService
	Proposals    domain.ProposalService
	ConferenceID string
}

func NewSpeakerController(logger *slog.Logger, svc domain.SpeakerService, proposals domain.ProposalService, conferenceID string) *SpeakerController {
	return &SpeakerController{
		Logger:       logger,
		Service:      svc,
		Proposals:    proposals,
		ConferenceID: conferenceID,
	}
}

// ListSpeakersSuccessResponse is the success response envelope for GET /proposals/{kind}/{id}/speakers (200).
type ListSpeakersSuccessResponse struct {
	Data  []SpeakerView     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListSpeakers godoc
// @Summary List speakers of a proposal
// @Description Returns the submitter first, then non-cancelled co-speakers in invitation order. Requires authentication.
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Proposal kind (talk or tutorial)"
// @Param id path int true "Proposal ID"
// @Success 200 {object} controllers.ListSpeakersSuccessResponse "data is an array of speakers"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /proposals/{kind}/{id}/speakers [get]
func (c *SpeakerController) ListSpeakers(w http.ResponseWriter, r *http.Request) {
	ref, err := parseProposalRef(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid proposal reference")
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	p, err := c.Proposals.Get(r.Context(), c.ConferenceID, ref)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "proposal not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	speakers, err := c.Proposals.Speakers(r.Context(), p, nil)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newSpeakerViews(speakers))
}

// InviteSpeakerRequest is the request body for POST /proposals/{kind}/{id}/speakers.
type InviteSpeakerRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (i InviteSpeakerRequest) Validate() []string {
	var errs []string
	if i.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegex.MatchString(strings.TrimSpace(i.Email)) {
		errs = append(errs, "email must be a valid email address")
	}
	return errs
}

// InviteSpeakerSuccessResponse is the success response envelope for POST /proposals/{kind}/{id}/speakers (201).
type InviteSpeakerSuccessResponse struct {
	Data  *domain.AdditionalSpeaker `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// InviteSpeaker godoc
// @Summary Invite a co-speaker
// @Description Invites the user with the given email as a co-speaker. The invitation starts pending and an email is sent to the invitee. Only the submitter can invite; the submitter cannot invite themselves; each user can be invited at most once per proposal. Requires authentication.
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Proposal kind (talk or tutorial)"
// @Param id path int true "Proposal ID"
// @Param body body InviteSpeakerRequest true "Email of the user to invite"
// @Success 201 {object} controllers.InviteSpeakerSuccessResponse "data contains the invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not submitter)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no user with that email)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already invited)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /proposals/{kind}/{id}/speakers [post]
func (c *SpeakerController) InviteSpeaker(w http.ResponseWriter, r *http.Request) {
	ref, err := parseProposalRef(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid proposal reference")
		return
	}
	var req InviteSpeakerRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	speaker, err := c.Service.Invite(r.Context(), c.ConferenceID, ref, userID, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no user with that email")
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "proposal not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrConflict) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "user is already invited")
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
	helpers.WriteJSONSuccess(w, http.StatusCreated, speaker)
}

// RespondInvitationRequest is the request body for PATCH /speakers/{speakerID}.
type RespondInvitationRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (i RespondInvitationRequest) Validate() []string {
	if i.Status != string(domain.SpeakingStatusAccepted) && i.Status != string(domain.SpeakingStatusDeclined) {
		return []string{"status must be accepted or declined"}
	}
	return nil
}

// RespondInvitationSuccessResponse is the success response envelope for PATCH /speakers/{speakerID} (200).
type RespondInvitationSuccessResponse struct {
	Data  *domain.AdditionalSpeaker `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// RespondInvitation godoc
// @Summary Accept or decline a co-speaker invitation
// @Description Sets the invitation status to accepted or declined. Only the invited user can respond. Cancelled invitations behave as missing. Requires authentication.
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param speakerID path int true "Invitation ID"
// @Param body body RespondInvitationRequest true "New status (accepted or declined)"
// @Success 200 {object} controllers.RespondInvitationSuccessResponse "data contains the updated invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the invitee)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/{speakerID} [patch]
func (c *SpeakerController) RespondInvitation(w http.ResponseWriter, r *http.Request) {
	speakerID, err := strconv.ParseInt(r.PathValue("speakerID"), 10, 64)
	if err != nil || speakerID < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid speakerID")
		return
	}
	var req RespondInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	speaker, err := c.Service.Respond(r.Context(), c.ConferenceID, speakerID, userID, domain.SpeakingStatus(req.Status))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invitation not found")
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
	helpers.WriteJSONSuccess(w, http.StatusOK, speaker)
}

// RemoveSpeakerResponse is the data payload for DELETE /speakers/{speakerID} (200).
type RemoveSpeakerResponse struct {
	Status string `json:"status"`
}

// RemoveSpeakerSuccessResponse is the success response envelope for DELETE /speakers/{speakerID} (200).
type RemoveSpeakerSuccessResponse struct {
	Data  RemoveSpeakerResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// RemoveSpeaker godoc
// @Summary Remove a co-speaker
// @Description Soft-deletes the invitation by setting its cancelled flag; the row is retained. Only the proposal submitter can remove. Requires authentication.
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Param speakerID path int true "Invitation ID"
// @Success 200 {object} controllers.RemoveSpeakerSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not submitter)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/{speakerID} [delete]
func (c *SpeakerController) RemoveSpeaker(w http.ResponseWriter, r *http.Request) {
	speakerID, err := strconv.ParseInt(r.PathValue("speakerID"), 10, 64)
	if err != nil || speakerID < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid speakerID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Remove(r.Context(), c.ConferenceID, speakerID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invitation not found")
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
	helpers.WriteJSONSuccess(w, http.StatusOK, RemoveSpeakerResponse{Status: "removed"})
}
