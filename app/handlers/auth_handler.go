package handlers

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/unrolled/render"
	"github.com/vportale/marketplace/app/helpers"
	"github.com/vportale/marketplace/app/models"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/services"
	"github.com/vportale/marketplace/app/utils/breadcrumb"
	"github.com/vportale/marketplace/app/utils/sessions"
)

type AuthHandler struct {
	render       *render.Render
	userRepo     repositories.UserRepositoryImpl
	sessionStore sessions.SessionStore
	mailer       *services.Mailer
	validator    *validator.Validate
}

func NewAuthHandler(r *render.Render, userRepo repositories.UserRepositoryImpl, sessionStore sessions.SessionStore, mailer *services.Mailer, validator *validator.Validate) *AuthHandler {
	return &AuthHandler{
		render:       r,
		userRepo:     userRepo,
		sessionStore: sessionStore,
		mailer:       mailer,
		validator:    validator,
	}
}

type RegisterForm struct {
	Email         string `form:"email" validate:"required,email"`
	Password      string `form:"password" validate:"required,min=6"`
	CompanyName   string `form:"company_name" validate:"required,min=2,max=200"`
	INN           string `form:"inn" validate:"omitempty,min=10,max=12,numeric"`
	LegalAddress  string `form:"legal_address"`
	ContactPerson string `form:"contact_person" validate:"omitempty,max=100"`
	Position      string `form:"position" validate:"omitempty,max=100"`
	Phone         string `form:"phone" validate:"omitempty,max=20"`
	Industry      string `form:"industry" validate:"omitempty,max=100"`
}

type ProfileForm struct {
	CompanyName   string `form:"company_name" validate:"required,min=2,max=200"`
	INN           string `form:"inn" validate:"omitempty,min=10,max=12,numeric"`
	LegalAddress  string `form:"legal_address"`
	ContactPerson string `form:"contact_person" validate:"omitempty,max=100"`
	Position      string `form:"position" validate:"omitempty,max=100"`
	Phone         string `form:"phone" validate:"omitempty,max=20"`
	Industry      string `form:"industry" validate:"omitempty,max=100"`
	About         string `form:"about"`
	Password      string `form:"password" validate:"omitempty,min=6"`
}

func (h *AuthHandler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	if userID, ok := r.Context().Value(helpers.ContextKeyUserID).(string); ok && userID != "" {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	pageSpecificData := map[string]interface{}{
		"Title": "Login",
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Home", URL: "/"},
			{Name: "Login", URL: "/login"},
		},
		"IsAuthPage": true,
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "auth/login", data)
}

func (h *AuthHandler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("LoginPostHandler: Error parsing form: %v", err)
		http.Redirect(w, r, fmt.Sprintf("/login?status=error&message=%s", url.QueryEscape("Something went wrong while processing the form.")), http.StatusSeeOther)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.userRepo.FindByEmail(r.Context(), email)
	if err != nil {
		log.Printf("LoginPostHandler: Error getting user by email '%s': %v", email, err)
		http.Redirect(w, r, fmt.Sprintf("/login?status=error&message=%s", url.QueryEscape("Server error. Please try again.")), http.StatusSeeOther)
		return
	}
	if user == nil || !helpers.PasswordCompare(user.Password, []byte(password)) {
		http.Redirect(w, r, fmt.Sprintf("/login?status=error&message=%s", url.QueryEscape("Invalid email or password.")), http.StatusSeeOther)
		return
	}

	if !user.IsActive {
		log.Printf("LoginPostHandler: Deactivated account %s attempted to log in.", user.Email)
		http.Redirect(w, r, fmt.Sprintf("/login?status=error&message=%s", url.QueryEscape("This account has been deactivated.")), http.StatusSeeOther)
		return
	}

	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		log.Printf("LoginPostHandler: Error setting user session: %v", err)
		http.Redirect(w, r, fmt.Sprintf("/login?status=error&message=%s", url.QueryEscape("Failed to create login session.")), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/dashboard?status=success&message=%s", url.QueryEscape(fmt.Sprintf("Welcome back, %s!", user.CompanyName))), http.StatusSeeOther)
}

func (h *AuthHandler) RegisterGetHandler(w http.ResponseWriter, r *http.Request) {
	if userID, ok := r.Context().Value(helpers.ContextKeyUserID).(string); ok && userID != "" {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	pageSpecificData := map[string]interface{}{
		"Title": "Create Account",
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Home", URL: "/"},
			{Name: "Register", URL: "/register"},
		},
		"IsAuthPage": true,
		"Form":       &RegisterForm{},
		"Errors":     map[string]string{},
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "auth/register", data)
}

func (h *AuthHandler) RegisterPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("RegisterPostHandler: Error parsing form: %v", err)
		http.Redirect(w, r, fmt.Sprintf("/register?status=error&message=%s", url.QueryEscape("Something went wrong while processing the form.")), http.StatusSeeOther)
		return
	}

	form := RegisterForm{
		Email:         r.FormValue("email"),
		Password:      r.FormValue("password"),
		CompanyName:   r.FormValue("company_name"),
		INN:           r.FormValue("inn"),
		LegalAddress:  r.FormValue("legal_address"),
		ContactPerson: r.FormValue("contact_person"),
		Position:      r.FormValue("position"),
		Phone:         r.FormValue("phone"),
		Industry:      r.FormValue("industry"),
	}

	if r.FormValue("password") != r.FormValue("confirm_password") {
		http.Redirect(w, r, fmt.Sprintf("/register?status=error&message=%s", url.QueryEscape("Password confirmation does not match.")), http.StatusSeeOther)
		return
	}

	if err := h.validator.Struct(&form); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		pageSpecificData := map[string]interface{}{
			"Title":      "Create Account",
			"IsAuthPage": true,
			"Form":       &form,
			"Errors":     helpers.FormatValidationErrors(validationErrors),
		}
		data := helpers.GetBaseData(r, pageSpecificData)
		_ = h.render.HTML(w, http.StatusOK, "auth/register", data)
		return
	}

	existingUser, err := h.userRepo.FindByEmail(r.Context(), form.Email)
	if err != nil {
		log.Printf("RegisterPostHandler: Error checking existing user: %v", err)
		http.Redirect(w, r, fmt.Sprintf("/register?status=error&message=%s", url.QueryEscape("Server error during registration.")), http.StatusSeeOther)
		return
	}
	if existingUser != nil {
		http.Redirect(w, r, fmt.Sprintf("/register?status=error&message=%s", url.QueryEscape("This email is already registered. Please log in or use a different email.")), http.StatusSeeOther)
		return
	}

	user := &models.User{
		ID:            uuid.New().String(),
		Email:         form.Email,
		Password:      helpers.HashPassword(form.Password),
		CompanyName:   form.CompanyName,
		INN:           form.INN,
		LegalAddress:  form.LegalAddress,
		ContactPerson: form.ContactPerson,
		Position:      form.Position,
		Phone:         form.Phone,
		Industry:      form.Industry,
		Role:          models.RoleUser,
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := h.userRepo.Create(r.Context(), user); err != nil {
		log.Printf("RegisterPostHandler: Error creating user: %v", err)
		http.Redirect(w, r, fmt.Sprintf("/register?status=error&message=%s", url.QueryEscape("Registration failed. Please try again.")), http.StatusSeeOther)
		return
	}

	log.Printf("RegisterPostHandler: User %s (%s) registered successfully.", user.Email, user.ID)

	h.mailer.SendHTMLEmailAsync(user.Email, "Welcome to the marketplace", services.BuildWelcomeEmailBody(user.CompanyName))

	http.Redirect(w, r, fmt.Sprintf("/login?status=success&message=%s", url.QueryEscape("Your account has been created. Please log in.")), http.StatusSeeOther)
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		log.Printf("LogoutHandler: Error clearing session: %v", err)
		http.Redirect(w, r, fmt.Sprintf("/?status=error&message=%s", url.QueryEscape("Failed to log out.")), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/?status=success&message=%s", url.QueryEscape("You have been logged out.")), http.StatusSeeOther)
}

func (h *AuthHandler) ProfileGetHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(helpers.ContextKeyUser).(*models.User)
	if !ok || user == nil {
		http.Redirect(w, r, fmt.Sprintf("/login?status=warning&message=%s", url.QueryEscape("You must log in to access this page.")), http.StatusSeeOther)
		return
	}

	pageSpecificData := map[string]interface{}{
		"Title": "My Profile",
		"Breadcrumbs": []breadcrumb.Breadcrumb{
			{Name: "Home", URL: "/"},
			{Name: "Profile", URL: "/profile"},
		},
		"Profile": user,
		"Errors":  map[string]string{},
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "auth/profile", data)
}

func (h *AuthHandler) ProfilePostHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(helpers.ContextKeyUser).(*models.User)
	if !ok || user == nil {
		http.Redirect(w, r, fmt.Sprintf("/login?status=warning&message=%s", url.QueryEscape("You must log in to access this page.")), http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Printf("ProfilePostHandler: Error parsing form: %v", err)
		http.Redirect(w, r, fmt.Sprintf("/profile?status=error&message=%s", url.QueryEscape("Something went wrong while processing the form.")), http.StatusSeeOther)
		return
	}

	form := ProfileForm{
		CompanyName:   r.PostFormValue("company_name"),
		INN:           r.PostFormValue("inn"),
		LegalAddress:  r.PostFormValue("legal_address"),
		ContactPerson: r.PostFormValue("contact_person"),
		Position:      r.PostFormValue("position"),
		Phone:         r.PostFormValue("phone"),
		Industry:      r.PostFormValue("industry"),
		About:         r.PostFormValue("about"),
		Password:      r.PostFormValue("password"),
	}

	if err := h.validator.Struct(&form); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		pageSpecificData := map[string]interface{}{
			"Title":   "My Profile",
			"Profile": user,
			"Errors":  helpers.FormatValidationErrors(validationErrors),
		}
		data := helpers.GetBaseData(r, pageSpecificData)
		_ = h.render.HTML(w, http.StatusOK, "auth/profile", data)
		return
	}

	user.CompanyName = form.CompanyName
	user.INN = form.INN
	user.LegalAddress = form.LegalAddress
	user.ContactPerson = form.ContactPerson
	user.Position = form.Position
	user.Phone = form.Phone
	user.Industry = form.Industry
	user.About = form.About
	if form.Password != "" {
		user.Password = helpers.HashPassword(form.Password)
	}
	user.UpdatedAt = time.Now()

	if err := h.userRepo.UpdateUser(r.Context(), user); err != nil {
		log.Printf("ProfilePostHandler: Failed to update user %s: %v", user.ID, err)
		http.Redirect(w, r, fmt.Sprintf("/profile?status=error&message=%s", url.QueryEscape("Failed to update profile.")), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/profile?status=success&message=%s", url.QueryEscape("Profile updated.")), http.StatusSeeOther)
}
