package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/auth"
	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/services"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      *services.AuthService
	cfg       config.Auth
}

func newAuthHandler(authService *services.AuthService, cfg config.Auth) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      authService,
		cfg:       cfg,
	}
}

// UserView is the public shape of an account
type UserView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

func newUserView(u *models.User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Role: u.Role}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// setup creates the initial admin account from ADMIN_USERNAME / ADMIN_PASSWORD
// @Summary Create initial admin
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{} "Created username"
// @Failure 400 {object} ErrorResponse "Admin user already exists"
// @Router /auth/setup [post]
func (h authHandler) setup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.auth.Setup(r.Context(), h.cfg.AdminUsername, h.cfg.AdminPassword)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "Admin user created successfully", map[string]any{
			"username": user.Username,
		}, nil)
	}
}

// login checks credentials and starts a session
// @Summary Login
// @Description Returns the token in the body and sets it as the auth-token cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} map[string]interface{} "User and token"
// @Failure 400 {object} ErrorResponse "Missing username or password"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !h.responder.decodeJSON(w, r, &req) {
			return
		}

		session, err := h.auth.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		http.SetCookie(w, h.sessionCookie(session.Token, session.ExpiresAt))
		h.logger.Info().Str("username", session.User.Username).Msg("admin logged in")
		h.responder.WriteSuccess(w, http.StatusOK, "Login successful", map[string]any{
			"user":  newUserView(session.User),
			"token": session.Token,
		}, nil)
	}
}

// me returns the signed-in account
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{} "User"
// @Failure 401 {object} ErrorResponse "No token provided or invalid token"
// @Router /auth/me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.auth.Me(r.Context(), tokenFromRequest(r))
		if err != nil {
			if errs.IsNotFound(err) {
				err = errs.NewUnauthorizedError("Invalid token")
			}
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", newUserView(user), nil)
	}
}

// logout clears the session cookie
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{} "Logged out"
// @Router /auth/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie := h.sessionCookie("", time.Unix(0, 0))
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
		h.responder.WriteSuccess(w, http.StatusOK, "Logout successful", nil, nil)
	}
}

func (h authHandler) sessionCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(h.auth.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}
