package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"inkwell/app/models"
	"inkwell/app/repositories"
	"inkwell/app/services"
)

const defaultPageSize = 10

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService) *PostController {
	return &PostController{postService: postService}
}

// Index handles listing posts with filtering, sorting, and pagination
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.ListFilter{
		Query: query.Get("q"),
		Tag:   query.Get("tag"),
		Sort:  query.Get("sort"),
		Limit: defaultPageSize,
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if v, err := strconv.Atoi(offsetStr); err == nil && v >= 0 {
			filter.Offset = v
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v >= 0 {
			filter.Limit = v
		}
	}

	list, err := pc.postService.List(filter)
	if err != nil {
		log.Printf("list posts error: %v", err)
		sendError(w, http.StatusInternalServerError, "failed to fetch posts")
		return
	}
	sendJSON(w, http.StatusOK, list)
}

// Show handles displaying a single post by slug
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	post, err := pc.postService.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			sendError(w, http.StatusNotFound, "post not found")
			return
		}
		log.Printf("get post error: %v", err)
		sendError(w, http.StatusInternalServerError, "failed to fetch post")
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var in models.PostIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := pc.postService.Create(&in)
	if err != nil {
		pc.sendMutationError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, post)
}

// Edit handles updating an existing post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		sendError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var in models.PostIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := pc.postService.Update(id, &in)
	if err != nil {
		pc.sendMutationError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		sendError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := pc.postService.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			sendError(w, http.StatusNotFound, "post not found")
			return
		}
		log.Printf("delete post error: %v", err)
		sendError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sendMutationError maps create/update failures to status codes.
func (pc *PostController) sendMutationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, repositories.ErrSlugConflict):
		sendError(w, http.StatusBadRequest, repositories.ErrSlugConflict.Error())
	case errors.Is(err, repositories.ErrNotFound):
		sendError(w, http.StatusNotFound, "post not found")
	case errors.As(err, &verrs):
		sendError(w, http.StatusBadRequest, "invalid post payload")
	default:
		log.Printf("post mutation error: %v", err)
		sendError(w, http.StatusInternalServerError, "failed to save post")
	}
}
