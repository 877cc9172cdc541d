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
	"github.com/vportale/marketplace/app/models"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/services"
)

type ContactHandler struct {
	render      *render.Render
	contactRepo repositories.ContactRepositoryImpl
	mailer      *services.Mailer
	notifier    *services.TelegramNotifier
	validator   *validator.Validate
	adminEmail  string
}

func NewContactHandler(r *render.Render, contactRepo repositories.ContactRepositoryImpl, mailer *services.Mailer, notifier *services.TelegramNotifier, validator *validator.Validate, adminEmail string) *ContactHandler {
	return &ContactHandler{
		render:      r,
		contactRepo: contactRepo,
		mailer:      mailer,
		notifier:    notifier,
		validator:   validator,
		adminEmail:  adminEmail,
	}
}

type ContactForm struct {
	Name    string `form:"name" validate:"required,min=2,max=100"`
	Email   string `form:"email" validate:"required,email"`
	Phone   string `form:"phone" validate:"omitempty,max=20"`
	Message string `form:"message" validate:"required,min=5"`
}

func (h *ContactHandler) ContactPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("ContactPost: Error parsing form: %v", err)
		http.Redirect(w, r, "/?status=error&message="+url.QueryEscape("Something went wrong while processing the form."), http.StatusSeeOther)
		return
	}

	form := ContactForm{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Phone:   r.FormValue("phone"),
		Message: r.FormValue("message"),
	}

	if err := h.validator.Struct(&form); err != nil {
		http.Redirect(w, r, "/?status=error&message="+url.QueryEscape("Please fill in your name, a valid email and a message."), http.StatusSeeOther)
		return
	}

	request := &models.ContactRequest{
		ID:        uuid.New().String(),
		Name:      form.Name,
		Email:     form.Email,
		Phone:     form.Phone,
		Message:   form.Message,
		Status:    models.ContactStatusNew,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.contactRepo.Create(r.Context(), request); err != nil {
		log.Printf("ContactPost: Failed to save contact request: %v", err)
		http.Redirect(w, r, "/?status=error&message="+url.QueryEscape("Failed to send your message. Please try again."), http.StatusSeeOther)
		return
	}

	if h.adminEmail != "" {
		h.mailer.SendHTMLEmailAsync(h.adminEmail, "New contact request", services.BuildContactRequestEmailBody(form.Name, form.Email, form.Phone, form.Message))
	}
	h.notifier.SendAsync(fmt.Sprintf("📨 Contact request from %s (%s)", form.Name, form.Email))

	http.Redirect(w, r, "/?status=success&message="+url.QueryEscape("Your message has been sent."), http.StatusSeeOther)
}
