package admin

import (
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/vportale/marketplace/app/helpers"
)

const usersPerPage = 25

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	users, total, err := h.userRepo.GetAllPaginated(r.Context(), usersPerPage, (page-1)*usersPerPage)
	if err != nil {
		log.Printf("Users: Error loading users: %v", err)
	}

	totalPages := int((total + usersPerPage - 1) / usersPerPage)

	pageSpecificData := map[string]interface{}{
		"Title":       "Users",
		"IsAdminPage": true,
		"Users":       users,
		"Total":       total,
		"CurrentPage": page,
		"TotalPages":  totalPages,
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "admin/users/index", data)
}

// ToggleUserActivePost flips the account on or off. A deactivated account
// cannot log in and is treated as logged out by the session middleware.
func (h *AdminHandler) ToggleUserActivePost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	target, err := h.userRepo.FindByID(r.Context(), vars["id"])
	if err != nil || target == nil {
		http.NotFound(w, r)
		return
	}

	admin := currentUser(r)
	if admin != nil && admin.ID == target.ID {
		http.Redirect(w, r, "/admin/users?status=error&message="+url.QueryEscape("You cannot deactivate your own account."), http.StatusSeeOther)
		return
	}

	if err := h.userRepo.SetActive(r.Context(), target.ID, !target.IsActive); err != nil {
		log.Printf("ToggleUserActivePost: Failed for user %s: %v", target.ID, err)
		http.Redirect(w, r, "/admin/users?status=error&message="+url.QueryEscape("Failed to update the account."), http.StatusSeeOther)
		return
	}

	msg := "Account activated."
	if target.IsActive {
		msg = "Account deactivated."
	}
	http.Redirect(w, r, "/admin/users?status=success&message="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (h *AdminHandler) DeleteUserPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	target, err := h.userRepo.FindByID(r.Context(), vars["id"])
	if err != nil || target == nil {
		http.NotFound(w, r)
		return
	}

	admin := currentUser(r)
	if admin != nil && admin.ID == target.ID {
		http.Redirect(w, r, "/admin/users?status=error&message="+url.QueryEscape("You cannot delete your own account."), http.StatusSeeOther)
		return
	}

	if err := h.userRepo.Delete(r.Context(), target.ID); err != nil {
		log.Printf("DeleteUserPost: Failed to delete user %s: %v", target.ID, err)
		http.Redirect(w, r, "/admin/users?status=error&message="+url.QueryEscape("Failed to delete the account."), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/users?status=success&message="+url.QueryEscape("Account deleted."), http.StatusSeeOther)
}

// ImpersonatePost logs the admin in as another user while remembering who
// started the impersonation, so StopImpersonatePost can switch back.
func (h *AdminHandler) ImpersonatePost(w http.ResponseWriter, r *http.Request) {
	admin := currentUser(r)
	if admin == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	vars := mux.Vars(r)
	target, err := h.userRepo.FindByID(r.Context(), vars["id"])
	if err != nil || target == nil {
		http.NotFound(w, r)
		return
	}

	if target.ID == admin.ID {
		http.Redirect(w, r, "/admin/users?status=error&message="+url.QueryEscape("You are already logged in as this user."), http.StatusSeeOther)
		return
	}
	if !target.IsActive {
		http.Redirect(w, r, "/admin/users?status=error&message="+url.QueryEscape("Cannot impersonate a deactivated account."), http.StatusSeeOther)
		return
	}

	if err := h.sessionStore.SetImpersonatorID(w, r, admin.ID); err != nil {
		log.Printf("ImpersonatePost: Failed to store impersonator: %v", err)
		http.Redirect(w, r, "/admin/users?status=error&message="+url.QueryEscape("Failed to start impersonation."), http.StatusSeeOther)
		return
	}
	if err := h.sessionStore.SetUserID(w, r, target.ID); err != nil {
		log.Printf("ImpersonatePost: Failed to switch session: %v", err)
		http.Redirect(w, r, "/admin/users?status=error&message="+url.QueryEscape("Failed to start impersonation."), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard?status=success&message="+url.QueryEscape("You are now browsing as "+target.CompanyName+"."), http.StatusSeeOther)
}

func (h *AdminHandler) StopImpersonatePost(w http.ResponseWriter, r *http.Request) {
	impersonatorID := h.sessionStore.GetImpersonatorID(r)
	if impersonatorID == "" {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := h.sessionStore.SetUserID(w, r, impersonatorID); err != nil {
		log.Printf("StopImpersonatePost: Failed to restore session: %v", err)
		http.Redirect(w, r, "/?status=error&message="+url.QueryEscape("Failed to stop impersonation."), http.StatusSeeOther)
		return
	}
	_ = h.sessionStore.ClearImpersonatorID(w, r)

	http.Redirect(w, r, "/admin/users?status=success&message="+url.QueryEscape("Back to your own account."), http.StatusSeeOther)
}
