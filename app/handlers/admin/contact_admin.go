package admin

import (
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/vportale/marketplace/app/helpers"
)

func (h *AdminHandler) ContactRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.contactRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("ContactRequests: Error loading contact requests: %v", err)
	}

	pageSpecificData := map[string]interface{}{
		"Title":       "Contact Requests",
		"IsAdminPage": true,
		"Requests":    requests,
	}

	data := helpers.GetBaseData(r, pageSpecificData)
	_ = h.render.HTML(w, http.StatusOK, "admin/contacts/index", data)
}

// ToggleContactStatusPost advances the request through new -> read ->
// resolved and wraps back to new.
func (h *AdminHandler) ToggleContactStatusPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	request, err := h.contactRepo.GetByID(r.Context(), vars["id"])
	if err != nil || request == nil {
		http.NotFound(w, r)
		return
	}

	request.CycleStatus()
	if err := h.contactRepo.Update(r.Context(), request); err != nil {
		log.Printf("ToggleContactStatusPost: Failed for request %s: %v", request.ID, err)
		http.Redirect(w, r, "/admin/contacts?status=error&message="+url.QueryEscape("Failed to update the request."), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/contacts", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteContactPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.contactRepo.Delete(r.Context(), vars["id"]); err != nil {
		log.Printf("DeleteContactPost: Failed to delete request %s: %v", vars["id"], err)
		http.Redirect(w, r, "/admin/contacts?status=error&message="+url.QueryEscape("Failed to delete the request."), http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/contacts?status=success&message="+url.QueryEscape("Request deleted."), http.StatusSeeOther)
}
