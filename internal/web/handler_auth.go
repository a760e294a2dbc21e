package web

import (
	"errors"
	"net/http"

	"github.com/vbonduro/wishlist/internal/auth"
	"github.com/vbonduro/wishlist/internal/domain"
	"github.com/vbonduro/wishlist/internal/forms"
)

const msgInvalidLogin = "Please enter a correct username and password. Note that both fields may be case-sensitive."

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderLogin(w, r, http.StatusOK, &forms.LoginForm{}, auth.SafeNext(r.URL.Query().Get("next")), nil)
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, form *forms.LoginForm, next string, errs forms.Errors) {
	data := s.page(w, r, nil, "login")
	data["Form"] = form
	data["Next"] = next
	data["Errors"] = errs
	if err := s.renderPage(w, status, data, "pages/login.html"); err != nil {
		s.logger.Error("failed to render login page", "error", err)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	form := &forms.LoginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	next := auth.SafeNext(r.PostFormValue("next"))

	user, err := s.accounts.Authenticate(r.Context(), form)
	var errs forms.Errors
	switch {
	case errors.As(err, &errs):
		form.Password = ""
		s.renderLogin(w, r, http.StatusBadRequest, form, next, errs)
		return
	case errors.Is(err, domain.ErrInvalidCredentials):
		form.Password = ""
		s.renderLogin(w, r, http.StatusBadRequest, form, next, forms.Errors{"__all__": msgInvalidLogin})
		return
	case err != nil:
		s.logger.Error("failed to authenticate", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.startSession(w, r, user, next)
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.renderRegister(w, r, http.StatusOK, &forms.RegisterForm{}, nil)
}

func (s *Server) renderRegister(w http.ResponseWriter, r *http.Request, status int, form *forms.RegisterForm, errs forms.Errors) {
	data := s.page(w, r, nil, "register")
	data["Form"] = form
	data["Errors"] = errs
	if err := s.renderPage(w, status, data, "pages/register.html"); err != nil {
		s.logger.Error("failed to render register page", "error", err)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	form := &forms.RegisterForm{
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		PasswordConfirm: r.PostFormValue("password_confirm"),
	}

	user, err := s.accounts.Register(r.Context(), form)
	var errs forms.Errors
	if errors.As(err, &errs) {
		form.Password, form.PasswordConfirm = "", ""
		s.renderRegister(w, r, http.StatusBadRequest, form, errs)
		return
	}
	if err != nil {
		s.logger.Error("failed to register user", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s.startSession(w, r, user, "/")
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user *domain.User, next string) {
	if err := s.sessions.Start(w, user.ID); err != nil {
		s.logger.Error("failed to start session", "user_id", user.ID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.End(w)
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}
