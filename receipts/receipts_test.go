package receipts

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"talentclub/globals"
	"talentclub/middleware"
	"talentclub/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

type fakeOrders struct {
	standalone bool
	account    *models.Account
	flat       *models.StandaloneOrder
}

func (f *fakeOrders) Standalone() bool { return f.standalone }

func (f *fakeOrders) FindByID(_ context.Context, _ string) (*models.Account, error) {
	return f.account, nil
}

func (f *fakeOrders) FindStandaloneByID(_ context.Context, _ string) (*models.StandaloneOrder, error) {
	return f.flat, nil
}

func adminToken(t *testing.T) string {
	t.Helper()
	claims := middleware.Claims{
		Username: "root",
		AdminID:  "admin-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestPrintReceiptAccountPath(t *testing.T) {
	orders := &fakeOrders{account: &models.Account{
		ID:    "a1",
		Name:  "Amy",
		Phone: "555",
		Orders: []models.Order{
			{ID: "o1", Lines: []models.OrderLine{{LessonID: "1", Topic: "Yoga"}}, CreatedAt: time.Now()},
			{ID: "o2", Lines: []models.OrderLine{{LessonID: "2", Topic: "Piano"}}, CreatedAt: time.Now()},
		},
	}}
	h := NewHandlers(orders)

	r := httptest.NewRequest(http.MethodGet, "/api/orders/a1/receipt?orderId=o1", nil)
	r.Header.Set("Authorization", "Bearer "+adminToken(t))
	w := httptest.NewRecorder()
	h.PrintReceipt(w, r, httprouter.Params{{Key: "accountId", Value: "a1"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("response is not a PDF document")
	}
}

func TestPrintReceiptStandalonePath(t *testing.T) {
	orders := &fakeOrders{standalone: true, flat: &models.StandaloneOrder{
		ID:        "o9",
		Name:      "Bea",
		Phone:     "777",
		Lines:     []models.OrderLine{{LessonID: "1", Topic: "Yoga"}},
		CreatedAt: time.Now(),
	}}
	h := NewHandlers(orders)

	r := httptest.NewRequest(http.MethodGet, "/api/orders/o9/receipt", nil)
	w := httptest.NewRecorder()
	h.PrintReceipt(w, r, httprouter.Params{{Key: "accountId", Value: "o9"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("response is not a PDF document")
	}
}

func TestPrintReceiptUnknownAccount(t *testing.T) {
	h := NewHandlers(&fakeOrders{})

	r := httptest.NewRequest(http.MethodGet, "/api/orders/missing/receipt", nil)
	w := httptest.NewRecorder()
	h.PrintReceipt(w, r, httprouter.Params{{Key: "accountId", Value: "missing"}})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestPickOrder(t *testing.T) {
	orders := []models.Order{{ID: "o1"}, {ID: "o2"}}

	if got := pickOrder(orders, ""); got == nil || got.ID != "o2" {
		t.Fatalf("default must be the latest order, got %+v", got)
	}
	if got := pickOrder(orders, "o1"); got == nil || got.ID != "o1" {
		t.Fatalf("lookup by id failed, got %+v", got)
	}
	if got := pickOrder(orders, "nope"); got != nil {
		t.Fatalf("unknown id must yield nil, got %+v", got)
	}
	if got := pickOrder(nil, ""); got != nil {
		t.Fatalf("no orders must yield nil, got %+v", got)
	}
}
