package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"talkproposals/internal/delivery/http/helpers"
	"talkproposals/internal/delivery/http/middleware"
	"talkproposals/internal/domain"
)

type ReviewController struct {
	Logger       *slog.Logger
	Service      domain.LLMReviewService
	ConferenceID string
}

func NewReviewController(logger *slog.Logger, svc domain.LLMReviewService, conferenceID string) *ReviewController {
	return &ReviewController{
		Logger:       logger,
		Service:      svc,
		ConferenceID: conferenceID,
	}
}

// ReviewRequest is the request body for POST /llm-reviews and PUT /llm-reviews/{reviewID}.
// proposal_id is required on create and ignored on update.
type ReviewRequest struct {
	ProposalID          int64    `json:"proposal_id"`
	Stage               string   `json:"stage"`
	Categories          []string `json:"categories"`
	Summary             string   `json:"summary"`
	Comment             string   `json:"comment"`
	TranslatedSummary   string   `json:"translated_summary"`
	TranslatedComment   string   `json:"translated_comment"`
	Vote                string   `json:"vote"`
	StageDiff           string   `json:"stage_diff"`
	TranslatedStageDiff string   `json:"translated_stage_diff"`
}

// Validate implements Validator. Stage, vote, and category membership are
// enforced by the service against the configured choices.
func (r ReviewRequest) Validate() []string {
	var errs []string
	if r.Stage == "" {
		errs = append(errs, "stage is required")
	}
	if r.Vote == "" {
		errs = append(errs, "vote is required")
	}
	if len(r.Categories) > domain.MaxReviewCategories {
		errs = append(errs, "at most 3 categories are allowed")
	}
	return errs
}

// CreateReviewSuccessResponse is the success response envelope for POST /llm-reviews (201).
type CreateReviewSuccessResponse struct {
	Data  *domain.LLMReview `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateReview godoc
// @Summary Record a generated review
// @Description Stores a machine-generated review of a talk proposal for one review stage. At most one review may exist per (proposal, stage) pair. Requires authentication.
// @Tags llm-reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ReviewRequest true "Review data"
// @Success 201 {object} controllers.CreateReviewSuccessResponse "data contains the stored review"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no such proposal)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (stage already reviewed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /llm-reviews [post]
func (c *ReviewController) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	review := &domain.LLMReview{
		ConferenceID:        c.ConferenceID,
		ProposalID:          req.ProposalID,
		Stage:               domain.ReviewStage(req.Stage),
		Categories:          req.Categories,
		Summary:             req.Summary,
		Comment:             req.Comment,
		TranslatedSummary:   req.TranslatedSummary,
		TranslatedComment:   req.TranslatedComment,
		Vote:                domain.ReviewVote(req.Vote),
		StageDiff:           req.StageDiff,
		TranslatedStageDiff: req.TranslatedStageDiff,
	}
	if err := c.Service.Record(r.Context(), review); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "proposal not found")
			return
		}
		if errors.Is(err, domain.ErrConflict) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "proposal already reviewed for this stage")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, review)
}

// GetReviewSuccessResponse is the success response envelope for GET /llm-reviews/{reviewID} (200).
type GetReviewSuccessResponse struct {
	Data  *domain.LLMReview `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetReview godoc
// @Summary Get a review
// @Description Returns a single stored review, including the reviewed proposal's title. Requires authentication.
// @Tags llm-reviews
// @Produce json
// @Security BearerAuth
// @Param reviewID path int true "Review ID"
// @Success 200 {object} controllers.GetReviewSuccessResponse "data contains the review"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /llm-reviews/{reviewID} [get]
func (c *ReviewController) GetReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(r.PathValue("reviewID"), 10, 64)
	if err != nil || reviewID < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid reviewID")
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	review, err := c.Service.GetByID(r.Context(), c.ConferenceID, reviewID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "review not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, review)
}

// ListReviewsResponse is the data payload for GET /llm-reviews (200).
type ListReviewsResponse struct {
	Items      []*domain.LLMReview    `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListReviewsSuccessResponse is the success response envelope for GET /llm-reviews (200).
type ListReviewsSuccessResponse struct {
	Data  ListReviewsResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ListReviews godoc
// @Summary List reviews
// @Description Returns a paginated list of stored reviews ordered by proposal title, stage, and creation time (newest first). Use page and page_size query params. Requires authentication.
// @Tags llm-reviews
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListReviewsSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /llm-reviews [get]
func (c *ReviewController) ListReviews(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	reviews, total, err := c.Service.List(r.Context(), c.ConferenceID, params)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if reviews == nil {
		reviews = []*domain.LLMReview{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListReviewsResponse{Items: reviews, Pagination: meta})
}

// ListProposalReviewsSuccessResponse is the success response envelope for GET /proposals/talk/{id}/llm-reviews (200).
type ListProposalReviewsSuccessResponse struct {
	Data  []*domain.LLMReview `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ListProposalReviews godoc
// @Summary List reviews of one proposal
// @Description Returns all stored reviews for a talk proposal, across stages. Requires authentication.
// @Tags llm-reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Talk proposal ID"
// @Success 200 {object} controllers.ListProposalReviewsSuccessResponse "data is an array of reviews"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /proposals/talk/{id}/llm-reviews [get]
func (c *ReviewController) ListProposalReviews(w http.ResponseWriter, r *http.Request) {
	proposalID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || proposalID < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid proposal ID")
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	reviews, err := c.Service.ListByProposal(r.Context(), c.ConferenceID, proposalID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if reviews == nil {
		reviews = []*domain.LLMReview{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reviews)
}

// UpdateReviewSuccessResponse is the success response envelope for PUT /llm-reviews/{reviewID} (200).
type UpdateReviewSuccessResponse struct {
	Data  *domain.LLMReview `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateReview godoc
// @Summary Replace a review
// @Description Replaces all mutable fields of a stored review. The creation timestamp and the reviewed proposal never change. Requires authentication.
// @Tags llm-reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reviewID path int true "Review ID"
// @Param body body ReviewRequest true "Review data (proposal_id ignored)"
// @Success 200 {object} controllers.UpdateReviewSuccessResponse "data contains the updated review"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (stage already reviewed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /llm-reviews/{reviewID} [put]
func (c *ReviewController) UpdateReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(r.PathValue("reviewID"), 10, 64)
	if err != nil || reviewID < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid reviewID")
		return
	}
	var req ReviewRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	review, err := c.Service.Update(r.Context(), c.ConferenceID, reviewID, domain.LLMReviewUpdate{
		Stage:               domain.ReviewStage(req.Stage),
		Categories:          req.Categories,
		Summary:             req.Summary,
		Comment:             req.Comment,
		TranslatedSummary:   req.TranslatedSummary,
		TranslatedComment:   req.TranslatedComment,
		Vote:                domain.ReviewVote(req.Vote),
		StageDiff:           req.StageDiff,
		TranslatedStageDiff: req.TranslatedStageDiff,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "review not found")
			return
		}
		if errors.Is(err, domain.ErrConflict) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "proposal already reviewed for this stage")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, review)
}

// DeleteReviewResponse is the data payload for DELETE /llm-reviews/{reviewID} (200).
type DeleteReviewResponse struct {
	Status string `json:"status"`
}

// DeleteReviewSuccessResponse is the success response envelope for DELETE /llm-reviews/{reviewID} (200).
type DeleteReviewSuccessResponse struct {
	Data  DeleteReviewResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// DeleteReview godoc
// @Summary Delete a review
// @Description Permanently deletes a stored review. Requires authentication.
// @Tags llm-reviews
// @Produce json
// @Security BearerAuth
// @Param reviewID path int true "Review ID"
// @Success 200 {object} controllers.DeleteReviewSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /llm-reviews/{reviewID} [delete]
func (c *ReviewController) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(r.PathValue("reviewID"), 10, 64)
	if err != nil || reviewID < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid reviewID")
		return
	}
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Delete(r.Context(), c.ConferenceID, reviewID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "review not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteReviewResponse{Status: "deleted"})
}
