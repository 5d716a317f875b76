package card

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"thanksboard/internal/common"
	"thanksboard/internal/pagination"
)

type Handler struct {
	cardService CardService
	logger      *zap.Logger
}

func NewHandler(cardService CardService, logger *zap.Logger) *Handler {
	return &Handler{cardService: cardService, logger: logger.Named("card.http")}
}

// RegisterRoutes mounts /card. Reads work anonymously; a valid token only adds isPicked.
func (h *Handler) RegisterRoutes(r *mux.Router, auth *common.Authenticator) {
	s := r.PathPrefix("/card").Subrouter()
	access := auth.Require(common.AccessToken)
	admin := func(fn http.HandlerFunc) http.Handler { return access(auth.RequireAdmin(fn)) }

	s.Handle("", auth.Optional(http.HandlerFunc(h.ListCards))).Methods(http.MethodGet)
	s.Handle("/new", access(http.HandlerFunc(h.CreateCard))).Methods(http.MethodPost)
	s.Handle("/my", access(http.HandlerFunc(h.ListMyCards))).Methods(http.MethodGet)
	s.Handle("/inactive", admin(h.ListInactiveCards)).Methods(http.MethodGet)
	s.Handle("/search", auth.Optional(http.HandlerFunc(h.SearchCards))).Methods(http.MethodGet)
	s.Handle("/search/tag", auth.Optional(http.HandlerFunc(h.ListCardsByTags))).Methods(http.MethodGet)
	s.Handle("/random", auth.Optional(http.HandlerFunc(h.RandomCard))).Methods(http.MethodGet)

	s.Handle("/{id:[0-9]+}/answered", access(http.HandlerFunc(h.SetAnswered))).Methods(http.MethodPatch)
	s.Handle("/{id:[0-9]+}/pick", access(http.HandlerFunc(h.TogglePick))).Methods(http.MethodPatch)
	s.Handle("/{id:[0-9]+}/report", access(http.HandlerFunc(h.Report))).Methods(http.MethodPatch)
	s.Handle("/{id:[0-9]+}/report/reset", admin(h.ResetReports)).Methods(http.MethodPatch)
	s.Handle("/{id:[0-9]+}/active", admin(h.ToggleActive)).Methods(http.MethodPatch)
	s.Handle("/{id:[0-9]+}", access(http.HandlerFunc(h.DeleteCard))).Methods(http.MethodDelete)
}

type answeredRequest struct {
	IsAnswered bool `json:"isAnswered"`
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var in CreateCardInput
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	card, err := h.cardService.CreateCard(r.Context(), common.PrincipalFrom(r.Context()), in)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, card)
}

// writePage parses the page request and writes whatever fetch returns.
func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, fetch func(req pagination.Request) (pagination.Page[CardView], error)) {
	req, err := pagination.ParseRequest(r.URL.Query())
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	page, err := fetch(req)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, func(req pagination.Request) (pagination.Page[CardView], error) {
		return h.cardService.ListCards(r.Context(), common.PrincipalFrom(r.Context()), req)
	})
}

func (h *Handler) ListMyCards(w http.ResponseWriter, r *http.Request) {
	var answered *bool
	if raw := r.URL.Query().Get("answered"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			common.WriteError(w, h.logger, common.BadRequest("answered must be true or false"))
			return
		}
		answered = &v
	}
	h.writePage(w, r, func(req pagination.Request) (pagination.Page[CardView], error) {
		return h.cardService.ListMyCards(r.Context(), common.PrincipalFrom(r.Context()), answered, req)
	})
}

func (h *Handler) ListInactiveCards(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, func(req pagination.Request) (pagination.Page[CardView], error) {
		return h.cardService.ListInactiveCards(r.Context(), common.PrincipalFrom(r.Context()), req)
	})
}

func (h *Handler) SearchCards(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, func(req pagination.Request) (pagination.Page[CardView], error) {
		return h.cardService.SearchCards(r.Context(), common.PrincipalFrom(r.Context()), r.URL.Query().Get("keyword"), req)
	})
}

func (h *Handler) ListCardsByTags(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, func(req pagination.Request) (pagination.Page[CardView], error) {
		return h.cardService.ListCardsByTags(r.Context(), common.PrincipalFrom(r.Context()), r.URL.Query().Get("keyword"), req)
	})
}

func (h *Handler) RandomCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.cardService.RandomCard(r.Context(), common.PrincipalFrom(r.Context()))
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, card)
}

func (h *Handler) SetAnswered(w http.ResponseWriter, r *http.Request) {
	cardID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	var req answeredRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	if err := h.cardService.SetAnswered(r.Context(), common.PrincipalFrom(r.Context()), cardID, req.IsAnswered); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) TogglePick(w http.ResponseWriter, r *http.Request) {
	cardID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	res, err := h.cardService.TogglePick(r.Context(), common.PrincipalFrom(r.Context()), cardID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	cardID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	res, err := h.cardService.Report(r.Context(), common.PrincipalFrom(r.Context()), cardID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) ResetReports(w http.ResponseWriter, r *http.Request) {
	cardID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	if err := h.cardService.ResetReports(r.Context(), common.PrincipalFrom(r.Context()), cardID); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	cardID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	active, err := h.cardService.ToggleActive(r.Context(), common.PrincipalFrom(r.Context()), cardID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"isActive": active})
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	if err := h.cardService.DeleteCard(r.Context(), common.PrincipalFrom(r.Context()), cardID); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
