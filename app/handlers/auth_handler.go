package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/helpers"
	"github.com/Rakhulsr/venue-admin/app/models"
	"github.com/Rakhulsr/venue-admin/app/models/other"
	"github.com/Rakhulsr/venue-admin/app/repositories"
	"github.com/Rakhulsr/venue-admin/app/services"
	"github.com/Rakhulsr/venue-admin/app/utils/breadcrumb"
	"github.com/Rakhulsr/venue-admin/app/utils/liststate"
	"github.com/Rakhulsr/venue-admin/app/utils/logger"
	"github.com/Rakhulsr/venue-admin/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type AuthHandler struct {
	render     *render.Render
	validator  *validator.Validate
	manager    *sessions.Manager
	authRepo   repositories.AuthRepositoryImpl
	workspaces *liststate.Registry[*services.Workspace]
	logger     *zap.Logger
}

func NewAuthHandler(
	r *render.Render,
	validator *validator.Validate,
	manager *sessions.Manager,
	authRepo repositories.AuthRepositoryImpl,
	workspaces *liststate.Registry[*services.Workspace],
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		render:     r,
		validator:  validator,
		manager:    manager,
		authRepo:   authRepo,
		workspaces: workspaces,
		logger:     logger.OrNop(log),
	}
}

type LoginPageData struct {
	other.BasePageData
	Email    string
	Remember bool
	Errors   map[string]string
}

// Home has no page of its own. Admins go to the dashboard, everyone else to
// login with the message they were sent here with.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if user, ok := helpers.UserFromContext(r.Context()); ok && user.IsAdmin() {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}
	target := "/login"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *AuthHandler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	if auth, ok := helpers.AuthFromContext(r.Context()); ok && auth.RequireAdmin() == nil {
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, &LoginPageData{})
}

func (h *AuthHandler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("LoginPostHandler: error parsing form", zap.Error(err))
		helpers.RedirectWithMessage(w, r, "/login", helpers.StatusError, "Terjadi kesalahan saat memproses data.")
		return
	}

	form := models.LoginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	remember := r.PostFormValue("remember_me") == "on"
	page := &LoginPageData{Email: form.Email, Remember: remember}

	if errs := helpers.ValidateStruct(h.validator, &form); len(errs) > 0 {
		page.Errors = errs
		h.renderLogin(w, r, http.StatusUnprocessableEntity, page)
		return
	}

	result, err := h.authRepo.Login(r.Context(), form)
	if err != nil {
		h.logger.Info("LoginPostHandler: login rejected", zap.String("email", form.Email), zap.Error(err))
		page.MessageStatus = helpers.StatusError
		page.Message = loginFailureMessage(err)
		h.renderLogin(w, r, http.StatusOK, page)
		return
	}

	if !result.User.IsAdmin() {
		h.logger.Info("LoginPostHandler: non admin login refused", zap.String("email", form.Email), zap.String("role", result.User.Role))
		page.MessageStatus = helpers.StatusForbidden
		page.Message = "Akun ini tidak memiliki akses ke admin panel."
		h.renderLogin(w, r, http.StatusForbidden, page)
		return
	}

	profile, err := json.Marshal(result.User)
	if err != nil {
		h.logger.Error("LoginPostHandler: failed to encode profile", zap.Error(err))
		helpers.RedirectWithMessage(w, r, "/login", helpers.StatusError, "Gagal menyimpan sesi.")
		return
	}
	if err := h.manager.Login(w, r, result.Token, string(profile), remember); err != nil {
		h.logger.Error("LoginPostHandler: failed to save session", zap.Error(err))
		helpers.RedirectWithMessage(w, r, "/login", helpers.StatusError, "Gagal menyimpan sesi.")
		return
	}

	h.logger.Info("LoginPostHandler: admin logged in", zap.String("user_id", result.User.ID), zap.Bool("remember", remember))
	http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
}

// LogoutHandler clears both cookies and forgets the cached lists.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.workspaces.Drop(h.manager.ScreenKey(w, r))

	auth, ok := helpers.AuthFromContext(r.Context())
	if !ok {
		auth = h.manager.AuthContext(w, r)
	}
	if err := auth.Clear(); err != nil {
		h.logger.Warn("LogoutHandler: error clearing session", zap.Error(err))
		helpers.RedirectWithMessage(w, r, "/login", helpers.StatusError, "Gagal logout.")
		return
	}

	helpers.RedirectWithMessage(w, r, "/login", helpers.StatusSuccess, "Anda telah berhasil logout.")
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data *LoginPageData) {
	if data.Errors == nil {
		data.Errors = make(map[string]string)
	}
	data.Title = "Login Admin"
	helpers.PopulateBase(r, &data.BasePageData)
	data.IsAuthPage = true
	data.Breadcrumbs = []breadcrumb.Breadcrumb{{Name: "Beranda", URL: "/"}, {Name: "Login", URL: "/login"}}
	_ = h.render.HTML(w, status, "auth/login", data)
}

func loginFailureMessage(err error) string {
	switch client.KindOf(err) {
	case client.KindUnauthenticated, client.KindUnauthorized, client.KindNotFound, client.KindValidation:
		return "Email atau password salah."
	}
	if msg := client.UserMessage(err); msg != "" {
		return msg
	}
	return "Login gagal."
}
