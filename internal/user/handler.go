package user

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"thanksboard/internal/common"
)

// Handler exposes UserService over HTTP.
type Handler struct {
	userService UserService
	logger      *zap.Logger
}

func NewHandler(userService UserService, logger *zap.Logger) *Handler {
	return &Handler{userService: userService, logger: logger.Named("user.http")}
}

// RegisterRoutes mounts /user. Every route needs an access token.
func (h *Handler) RegisterRoutes(r *mux.Router, auth *common.Authenticator) {
	s := r.PathPrefix("/user").Subrouter()
	s.Use(auth.Require(common.AccessToken))

	s.HandleFunc("/myinfo", h.GetMyInfo).Methods(http.MethodGet)
	s.HandleFunc("/password", h.UpdatePassword).Methods(http.MethodPatch)
	s.HandleFunc("/name", h.UpdateName).Methods(http.MethodPatch)
	s.HandleFunc("/nickname", h.UpdateNickname).Methods(http.MethodPatch)
	s.HandleFunc("/email", h.UpdateEmail).Methods(http.MethodPatch)
	s.HandleFunc("/email/code", h.RequestEmailCode).Methods(http.MethodPost)
	s.HandleFunc("/email/verify", h.VerifyEmailCode).Methods(http.MethodPost)
	s.HandleFunc("/activate", h.ToggleActivate).Methods(http.MethodPatch)
	s.HandleFunc("/role", h.ToggleOwnRole).Methods(http.MethodPatch)
	s.HandleFunc("/{id:[0-9]+}/role", h.ToggleRole).Methods(http.MethodPatch)
	s.HandleFunc("", h.DeleteUser).Methods(http.MethodDelete)
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type nameRequest struct {
	Name string `json:"name"`
}

type nicknameRequest struct {
	Nickname       string `json:"nickname"`
	IsShowNickname bool   `json:"isShowNickname"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type emailVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	p := common.PrincipalFrom(r.Context())
	u, err := h.userService.GetMyInfo(r.Context(), p.UserID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	p := common.PrincipalFrom(r.Context())
	if err := h.userService.UpdatePassword(r.Context(), p.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) UpdateName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	p := common.PrincipalFrom(r.Context())
	u, err := h.userService.UpdateName(r.Context(), p.UserID, req.Name)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateNickname(w http.ResponseWriter, r *http.Request) {
	var req nicknameRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	p := common.PrincipalFrom(r.Context())
	u, err := h.userService.UpdateNickname(r.Context(), p.UserID, req.Nickname, req.IsShowNickname)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	p := common.PrincipalFrom(r.Context())
	u, err := h.userService.UpdateEmail(r.Context(), p.UserID, req.Email)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) RequestEmailCode(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	p := common.PrincipalFrom(r.Context())
	if err := h.userService.RequestEmailCode(r.Context(), p.UserID, req.Email); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusAccepted, map[string]bool{"success": true})
}

func (h *Handler) VerifyEmailCode(w http.ResponseWriter, r *http.Request) {
	var req emailVerifyRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	p := common.PrincipalFrom(r.Context())
	u, err := h.userService.VerifyEmailCode(r.Context(), p.UserID, req.Email, req.Code)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) ToggleActivate(w http.ResponseWriter, r *http.Request) {
	p := common.PrincipalFrom(r.Context())
	u, err := h.userService.ToggleActivate(r.Context(), p.UserID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) ToggleOwnRole(w http.ResponseWriter, r *http.Request) {
	p := common.PrincipalFrom(r.Context())
	h.toggleRole(w, r, p, p.UserID)
}

func (h *Handler) ToggleRole(w http.ResponseWriter, r *http.Request) {
	targetID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	h.toggleRole(w, r, common.PrincipalFrom(r.Context()), targetID)
}

func (h *Handler) toggleRole(w http.ResponseWriter, r *http.Request, actor *common.Principal, targetID int64) {
	u, err := h.userService.ToggleRole(r.Context(), actor, targetID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	p := common.PrincipalFrom(r.Context())
	if err := h.userService.DeleteUser(r.Context(), p.UserID); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
