package auth

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"thanksboard/internal/common"
)

type Handler struct {
	authService AuthService
	logger      *zap.Logger
}

func NewHandler(authService AuthService, logger *zap.Logger) *Handler {
	return &Handler{authService: authService, logger: logger.Named("auth.http")}
}

func (h *Handler) RegisterRoutes(r *mux.Router, auth *common.Authenticator) {
	s := r.PathPrefix("/auth").Subrouter()

	s.HandleFunc("/signup", h.SignUp).Methods(http.MethodPost)
	s.HandleFunc("/signin", h.SignIn).Methods(http.MethodPost)
	s.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
	s.HandleFunc("/password/reset/request", h.RequestPasswordReset).Methods(http.MethodPost)
	s.HandleFunc("/password/reset/verify", h.VerifyPasswordReset).Methods(http.MethodPost)

	refresh := s.PathPrefix("/token").Subrouter()
	refresh.Use(auth.Require(common.RefreshToken))
	refresh.HandleFunc("/access", h.reissue(common.AccessToken)).Methods(http.MethodPost)
	refresh.HandleFunc("/refresh", h.reissue(common.RefreshToken)).Methods(http.MethodPost)

	s.Handle("/isadmin", auth.Require(common.AccessToken)(http.HandlerFunc(h.IsAdmin))).Methods(http.MethodGet)
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var in SignUpInput
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	u, err := h.authService.SignUp(r.Context(), in)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	raw, err := common.AuthorizationValue(r, "Basic")
	if err != nil {
		common.WriteError(w, h.logger, common.BadRequest("basic authorization required"))
		return
	}
	creds, err := DecodeBasic(raw)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	pair, err := h.authService.SignIn(r.Context(), creds)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, pair)
}

func (h *Handler) reissue(kind common.TokenKind) http.HandlerFunc {
	field := "accessToken"
	if kind == common.RefreshToken {
		field = "refreshToken"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		p := common.PrincipalFrom(r.Context())
		token, err := h.authService.Reissue(r.Context(), p.UserID, kind)
		if err != nil {
			common.WriteError(w, h.logger, err)
			return
		}
		common.WriteJSON(w, http.StatusOK, map[string]string{field: token})
	}
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	pair, err := h.authService.Logout()
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, pair)
}

func (h *Handler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	p := common.PrincipalFrom(r.Context())
	ok, err := h.authService.IsAdmin(r.Context(), p.UserID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"isAdmin": ok})
}

func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var in PasswordResetRequest
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	if err := h.authService.RequestPasswordReset(r.Context(), in); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusAccepted, map[string]bool{"success": true})
}

func (h *Handler) VerifyPasswordReset(w http.ResponseWriter, r *http.Request) {
	var in PasswordResetVerify
	if err := common.DecodeJSON(r, &in); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	if err := h.authService.VerifyPasswordReset(r.Context(), in); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
