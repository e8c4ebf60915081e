package booking

import (
	"encoding/json"
	"log"
	"net/http"

	"talentclub/apperr"
	"talentclub/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	Svc *Service
}

func NewHandlers(svc *Service) *Handlers {
	return &Handlers{Svc: svc}
}

type placeOrderRequest struct {
	Lessons  []string `json:"lessons"`
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	Password string   `json:"password"`
}

// PlaceOrder handles POST /api/orders.
func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	confirmation, err := h.Svc.PlaceOrder(r.Context(), req.Lessons, req.Name, req.Phone, req.Password)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, confirmation)
}

// ListOrders handles GET /api/orders (admin-guarded).
func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	orders, err := h.Svc.ListOrders(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// respondWithAppError maps the error taxonomy onto transport codes. Store
// failures are logged here with their cause and reported generically.
func respondWithAppError(w http.ResponseWriter, err error) {
	if apperr.Is(err, apperr.StoreFailure) {
		log.Println("store failure:", err)
	}
	utils.RespondWithError(w, apperr.HTTPStatus(err), apperr.PublicMessage(err))
}
