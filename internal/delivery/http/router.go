package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"talkproposals/internal/delivery/http/controllers"
	"talkproposals/internal/delivery/http/middleware"
	"talkproposals/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Every API route requires a Bearer token.
func NewRouter(
	proposalController *controllers.ProposalController,
	speakerController *controllers.SpeakerController,
	reviewController *controllers.ReviewController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Proposals
	mux.HandleFunc("POST /proposals/{kind}", auth(proposalController.CreateProposal))
	mux.HandleFunc("GET /proposals/{kind}", auth(proposalController.ListProposals))
	mux.HandleFunc("GET /proposals/{kind}/{id}", auth(proposalController.GetProposal))
	mux.HandleFunc("PATCH /proposals/{kind}/{id}", auth(proposalController.UpdateProposal))
	mux.HandleFunc("POST /proposals/{kind}/{id}/cancel", auth(proposalController.CancelProposal))
	mux.HandleFunc("PUT /proposals/{kind}/{id}/acceptance", auth(proposalController.SetAcceptance))

	// Co-speakers
	mux.HandleFunc("GET /proposals/{kind}/{id}/speakers", auth(speakerController.ListSpeakers))
	mux.HandleFunc("POST /proposals/{kind}/{id}/speakers", auth(speakerController.InviteSpeaker))
	mux.HandleFunc("PATCH /speakers/{speakerID}", auth(speakerController.RespondInvitation))
	mux.HandleFunc("DELETE /speakers/{speakerID}", auth(speakerController.RemoveSpeaker))

	// Generated reviews
	mux.HandleFunc("POST /llm-reviews", auth(reviewController.CreateReview))
	mux.HandleFunc("GET /llm-reviews", auth(reviewController.ListReviews))
	mux.HandleFunc("GET /llm-reviews/{reviewID}", auth(reviewController.GetReview))
	mux.HandleFunc("PUT /llm-reviews/{reviewID}", auth(reviewController.UpdateReview))
	mux.HandleFunc("DELETE /llm-reviews/{reviewID}", auth(reviewController.DeleteReview))
	mux.HandleFunc("GET /proposals/talk/{id}/llm-reviews", auth(reviewController.ListProposalReviews))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
