package tag

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"thanksboard/internal/common"
	"thanksboard/internal/pagination"
)

type Handler struct {
	tagService TagService
	logger     *zap.Logger
}

func NewHandler(tagService TagService, logger *zap.Logger) *Handler {
	return &Handler{tagService: tagService, logger: logger.Named("tag.http")}
}

func (h *Handler) RegisterRoutes(r *mux.Router, auth *common.Authenticator) {
	s := r.PathPrefix("/tag").Subrouter()
	access := auth.Require(common.AccessToken)

	s.HandleFunc("/best", h.ListBestTags).Methods(http.MethodGet)
	s.HandleFunc("/search", h.SearchTags).Methods(http.MethodGet)
	s.Handle("/new", access(http.HandlerFunc(h.CreateTag))).Methods(http.MethodPost)
	s.Handle("/clear", access(auth.RequireAdmin(http.HandlerFunc(h.ClearOrphanTags)))).Methods(http.MethodDelete)
	s.Handle("/{id:[0-9]+}", access(auth.RequireAdmin(http.HandlerFunc(h.DeleteTag)))).Methods(http.MethodDelete)
	s.HandleFunc("/{keyword}", h.GetTagByKeyword).Methods(http.MethodGet)
}

type createTagRequest struct {
	Keyword string `json:"keyword"`
}

func (h *Handler) GetTagByKeyword(w http.ResponseWriter, r *http.Request) {
	tag, err := h.tagService.GetTagByKeyword(r.Context(), mux.Vars(r)["keyword"])
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, tag)
}

func (h *Handler) ListBestTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.ListBestTags(r.Context())
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, tags)
}

func (h *Handler) SearchTags(w http.ResponseWriter, r *http.Request) {
	req, err := pagination.ParseRequest(r.URL.Query())
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	page, err := h.tagService.SearchTags(r.Context(), r.URL.Query().Get("keyword"), req)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	tag, err := h.tagService.CreateTag(r.Context(), req.Keyword)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, tag)
}

func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	tagID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	if err := h.tagService.DeleteTag(r.Context(), common.PrincipalFrom(r.Context()), tagID); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearOrphanTags(w http.ResponseWriter, r *http.Request) {
	n, err := h.tagService.ClearOrphanTags(r.Context(), common.PrincipalFrom(r.Context()))
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
