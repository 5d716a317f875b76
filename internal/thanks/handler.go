package thanks

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"thanksboard/internal/common"
	"thanksboard/internal/pagination"
)

// Handler serves thanks notes and the reactions on them.
type Handler struct {
	thanksService   ThanksService
	reactionService ReactionService
	logger          *zap.Logger
}

func NewHandler(thanksService ThanksService, reactionService ReactionService, logger *zap.Logger) *Handler {
	return &Handler{
		thanksService:   thanksService,
		reactionService: reactionService,
		logger:          logger.Named("thanks.http"),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router, auth *common.Authenticator) {
	s := r.PathPrefix("/thanks").Subrouter()
	access := auth.Require(common.AccessToken)
	admin := func(fn http.HandlerFunc) http.Handler { return access(auth.RequireAdmin(fn)) }

	rs := s.PathPrefix("/reactions").Subrouter()
	rs.Use(access)
	rs.HandleFunc("/find/{reactionId:[0-9]+}", h.FindMyReaction).Methods(http.MethodGet)
	rs.HandleFunc("/{thanksId:[0-9]+}", h.CreateReaction).Methods(http.MethodPost)
	rs.HandleFunc("/{thanksId:[0-9]+}", h.ListReactions).Methods(http.MethodGet)
	rs.HandleFunc("/{reactionId:[0-9]+}", h.ChangeReaction).Methods(http.MethodPatch)
	rs.HandleFunc("/{reactionId:[0-9]+}", h.RemoveReaction).Methods(http.MethodDelete)

	s.Handle("", auth.Optional(http.HandlerFunc(h.ListThanks))).Methods(http.MethodGet)
	s.Handle("/new", access(http.HandlerFunc(h.CreateThanks))).Methods(http.MethodPost)
	s.Handle("/{id:[0-9]+}", auth.Optional(http.HandlerFunc(h.GetThanks))).Methods(http.MethodGet)
	s.Handle("/{id:[0-9]+}/reactions/count", auth.Optional(http.HandlerFunc(h.ReactionsCount))).Methods(http.MethodGet)
	s.Handle("/{id:[0-9]+}", access(http.HandlerFunc(h.UpdateThanks))).Methods(http.MethodPatch)
	s.Handle("/{id:[0-9]+}/active", admin(h.ToggleActive)).Methods(http.MethodPatch)
	s.Handle("/{id:[0-9]+}/report", access(http.HandlerFunc(h.Report))).Methods(http.MethodPatch)
	s.Handle("/{id:[0-9]+}/report/reset", admin(h.ResetReports)).Methods(http.MethodPatch)
	s.Handle("/{id:[0-9]+}", access(http.HandlerFunc(h.DeleteThanks))).Methods(http.MethodDelete)
}

type contentRequest struct {
	Content string `json:"content"`
}

type reactionRequest struct {
	Type string `json:"type"`
}

func (h *Handler) CreateThanks(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	thanks, err := h.thanksService.CreateThanks(r.Context(), common.PrincipalFrom(r.Context()), req.Content)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, thanks)
}

func (h *Handler) ListThanks(w http.ResponseWriter, r *http.Request) {
	req, err := pagination.ParseRequest(r.URL.Query())
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	page, err := h.thanksService.ListThanks(r.Context(), common.PrincipalFrom(r.Context()), r.URL.Query().Get("type"), req)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) GetThanks(w http.ResponseWriter, r *http.Request) {
	thanksID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	thanks, err := h.thanksService.GetThanks(r.Context(), common.PrincipalFrom(r.Context()), thanksID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, thanks)
}

func (h *Handler) ReactionsCount(w http.ResponseWriter, r *http.Request) {
	thanksID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	counts, err := h.thanksService.ReactionsCount(r.Context(), common.PrincipalFrom(r.Context()), thanksID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, counts)
}

func (h *Handler) UpdateThanks(w http.ResponseWriter, r *http.Request) {
	thanksID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	var req contentRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	thanks, err := h.thanksService.UpdateThanks(r.Context(), common.PrincipalFrom(r.Context()), thanksID, req.Content)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, thanks)
}

func (h *Handler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	thanksID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	active, err := h.thanksService.ToggleActive(r.Context(), common.PrincipalFrom(r.Context()), thanksID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"isActive": active})
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	thanksID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	res, err := h.thanksService.Report(r.Context(), common.PrincipalFrom(r.Context()), thanksID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) ResetReports(w http.ResponseWriter, r *http.Request) {
	thanksID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	if err := h.thanksService.ResetReports(r.Context(), common.PrincipalFrom(r.Context()), thanksID); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteThanks(w http.ResponseWriter, r *http.Request) {
	thanksID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	if err := h.thanksService.DeleteThanks(r.Context(), common.PrincipalFrom(r.Context()), thanksID); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateReaction(w http.ResponseWriter, r *http.Request) {
	thanksID, err := common.PathID(r, "thanksId")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	var req reactionRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	reaction, err := h.reactionService.CreateReaction(r.Context(), common.PrincipalFrom(r.Context()), thanksID, req.Type)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, reaction)
}

func (h *Handler) ListReactions(w http.ResponseWriter, r *http.Request) {
	thanksID, err := common.PathID(r, "thanksId")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	reactions, err := h.reactionService.ListReactions(r.Context(), thanksID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, reactions)
}

func (h *Handler) FindMyReaction(w http.ResponseWriter, r *http.Request) {
	reactionID, err := common.PathID(r, "reactionId")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	reaction, err := h.reactionService.FindMyReaction(r.Context(), common.PrincipalFrom(r.Context()), reactionID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, reaction)
}

func (h *Handler) ChangeReaction(w http.ResponseWriter, r *http.Request) {
	reactionID, err := common.PathID(r, "reactionId")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	var req reactionRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	change, err := h.reactionService.ChangeReaction(r.Context(), common.PrincipalFrom(r.Context()), reactionID, req.Type)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, change)
}

func (h *Handler) RemoveReaction(w http.ResponseWriter, r *http.Request) {
	reactionID, err := common.PathID(r, "reactionId")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	if err := h.reactionService.RemoveReaction(r.Context(), common.PrincipalFrom(r.Context()), reactionID); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
