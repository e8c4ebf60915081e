// Package lessons exposes the catalog: listing, admin add and the
// whitelisted field update.
package lessons

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"talentclub/apperr"
	"talentclub/models"
	"talentclub/rdx"
	"talentclub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// Store is the catalog slice of the document store.
type Store interface {
	List(ctx context.Context) ([]models.Lesson, error)
	Get(ctx context.Context, id string) (*models.Lesson, error)
	Insert(ctx context.Context, lesson models.Lesson) error
	Update(ctx context.Context, id string, fields bson.M) (int64, error)
}

type Handlers struct {
	Store    Store
	imageURL string
}

func NewHandlers(store Store) *Handlers {
	return &Handlers{Store: store, imageURL: utils.ImageBaseURL()}
}

// GetLessons handles GET /api/lessons, serving from the Redis cache when
// it is warm.
func (h *Handlers) GetLessons(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lessons := rdx.GetCachedLessons(r.Context())
	if lessons == nil {
		var err error
		lessons, err = h.Store.List(r.Context())
		if err != nil {
			log.Println("store failure:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		rdx.CacheLessons(r.Context(), lessons)
	}

	for i := range lessons {
		lessons[i].ResolveImage(h.imageURL)
	}
	utils.RespondWithJSON(w, http.StatusOK, lessons)
}

// GetLesson handles GET /api/lessons/:id.
func (h *Handlers) GetLesson(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	lesson, err := h.Store.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		log.Println("store failure:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if lesson == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Lesson not found")
		return
	}
	lesson.ResolveImage(h.imageURL)
	utils.RespondWithJSON(w, http.StatusOK, lesson)
}

type addLessonRequest struct {
	Topic    string   `json:"topic"`
	Location string   `json:"location"`
	Price    *float64 `json:"price"`
	Spaces   *int     `json:"spaces"`
	Image    string   `json:"image"`
}

// AddLesson handles POST /api/lessons (admin-guarded).
func (h *Handlers) AddLesson(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req addLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Topic == "" || req.Location == "" || req.Price == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if *req.Price < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Price must be non-negative")
		return
	}

	spaces := models.DefaultSpaces
	if req.Spaces != nil {
		if *req.Spaces < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Spaces must be non-negative")
			return
		}
		spaces = *req.Spaces
	}

	lesson := models.Lesson{
		ID:       utils.GetUUID(),
		Topic:    req.Topic,
		Location: req.Location,
		Price:    *req.Price,
		Spaces:   spaces,
		Image:    req.Image,
	}
	if err := h.Store.Insert(r.Context(), lesson); err != nil {
		log.Println("store failure:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	rdx.InvalidateLessonCache(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Lesson added",
		"id":      lesson.ID,
	})
}

// UpdateLesson handles PUT /api/lessons/:id (admin-guarded). Only the
// whitelisted fields may be patched; NotFound covers both a missing lesson
// and a no-op patch.
func (h *Handlers) UpdateLesson(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	fields, err := ParsePatch(raw)
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), apperr.PublicMessage(err))
		return
	}

	modified, err := h.Store.Update(r.Context(), ps.ByName("id"), fields)
	if err != nil {
		log.Println("store failure:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if modified == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Lesson not found or no change")
		return
	}

	rdx.InvalidateLessonCache(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Lesson updated"})
}
