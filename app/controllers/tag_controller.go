package controllers

import (
	"log"
	"net/http"

	"inkwell/app/services"
)

// TagController handles HTTP requests for tags
type TagController struct {
	tagService *services.TagService
}

// NewTagController creates a new TagController
func NewTagController(tagService *services.TagService) *TagController {
	return &TagController{tagService: tagService}
}

// Index lists every tag with its linked-post count
func (tc *TagController) Index(w http.ResponseWriter, r *http.Request) {
	counts, err := tc.tagService.List()
	if err != nil {
		log.Printf("list tags error: %v", err)
		sendError(w, http.StatusInternalServerError, "failed to fetch tags")
		return
	}
	sendJSON(w, http.StatusOK, counts)
}
