package search

import (
	"log"
	"net/http"

	"talentclub/apperr"
	"talentclub/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	Svc      *Service
	imageURL string
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{Svc: svc, imageURL: utils.ImageBaseURL()}
}

// Search handles GET /api/search?q=.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query().Get("q")

	results, err := h.Svc.Search(r.Context(), query)
	if err != nil {
		if apperr.Is(err, apperr.StoreFailure) {
			log.Println("store failure:", err)
		}
		utils.RespondWithError(w, apperr.HTTPStatus(err), apperr.PublicMessage(err))
		return
	}

	for i := range results {
		results[i].ResolveImage(h.imageURL)
	}
	utils.RespondWithJSON(w, http.StatusOK, results)
}
