package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/vportale/marketplace/app/repositories"
	"github.com/vportale/marketplace/app/services"
)

type UploadHandler struct {
	imageStore   *services.ImageStore
	categoryRepo repositories.CategoryRepositoryImpl
}

func NewUploadHandler(imageStore *services.ImageStore, categoryRepo repositories.CategoryRepositoryImpl) *UploadHandler {
	return &UploadHandler{
		imageStore:   imageStore,
		categoryRepo: categoryRepo,
	}
}

// ServeUpload serves a stored file. filepath.Base strips any traversal
// attempt from the requested name.
func (h *UploadHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	filename := filepath.Base(vars["filename"])
	if filename == "." || filename == "/" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, h.imageStore.Path(filename))
}

// CategoryImageBySize serves a category image derivative by its size name,
// falling back to the original for unknown sizes.
func (h *UploadHandler) CategoryImageBySize(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	category, err := h.categoryRepo.GetByID(r.Context(), vars["id"])
	if err != nil || category == nil || category.Image == "" {
		http.NotFound(w, r)
		return
	}

	size := vars["size"]
	if _, known := services.CategoryImageSizes[size]; !known {
		size = "original"
	}

	http.ServeFile(w, r, h.imageStore.Path(services.VariantFilename(category.Image, size)))
}
