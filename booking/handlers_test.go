package booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"talentclub/models"

	"github.com/julienschmidt/httprouter"
)

func newTestRouter(svc *Service) *httprouter.Router {
	h := NewHandlers(svc)
	router := httprouter.New()
	router.POST("/api/orders", h.PlaceOrder)
	router.GET("/api/orders", h.ListOrders)
	return router
}

func postOrder(t *testing.T, router *httprouter.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	router.ServeHTTP(rec, req)
	return rec
}

func TestPlaceOrderHandlerSuccess(t *testing.T) {
	svc := NewService(yogaCatalog(), &fakeAccountStore{}, nil, nil)
	rec := postOrder(t, newTestRouter(svc),
		`{"lessons":["1"],"name":"Amy","phone":"555","password":"pw"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var conf Confirmation
	if err := json.NewDecoder(rec.Body).Decode(&conf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if conf.OrderID == "" || conf.AccountID == "" {
		t.Fatalf("incomplete confirmation: %+v", conf)
	}
}

func TestPlaceOrderHandlerStatusCodes(t *testing.T) {
	existing := models.Account{ID: "a1", Phone: "555", Name: "Amy", Password: "pw"}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad json", `{`, http.StatusBadRequest},
		{"empty cart", `{"lessons":[],"name":"Amy","phone":"555","password":"pw"}`, http.StatusBadRequest},
		{"unknown lesson", `{"lessons":["99"],"name":"Amy","phone":"555","password":"pw"}`, http.StatusBadRequest},
		{"identity conflict", `{"lessons":["1"],"name":"Bob","phone":"555","password":"pw"}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(yogaCatalog(),
				&fakeAccountStore{accounts: []models.Account{existing}}, nil, nil)
			rec := postOrder(t, newTestRouter(svc), tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestPlaceOrderHandlerCapacityRaceIsConflict(t *testing.T) {
	store := yogaCatalog()
	store.loseRace["1"] = true
	svc := NewService(store, &fakeAccountStore{}, nil, nil)

	rec := postOrder(t, newTestRouter(svc),
		`{"lessons":["1"],"name":"Amy","phone":"555","password":"pw"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d, want 409: %s", rec.Code, rec.Body.String())
	}
}

func TestListOrdersHandler(t *testing.T) {
	accounts := &fakeAccountStore{accounts: []models.Account{
		{ID: "a1", Phone: "555", Name: "Amy", Orders: []models.Order{{ID: "o1"}}},
	}}
	svc := NewService(yogaCatalog(), accounts, nil, nil)

	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got []models.Account
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || len(got[0].Orders) != 1 {
		t.Fatalf("unexpected listing: %+v", got)
	}
}
