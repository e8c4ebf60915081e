package booking

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func TestHandleWSRejectsPlainHTTP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws/lessons/77", nil)
	w := httptest.NewRecorder()

	HandleWS(w, r, httprouter.Params{{Key: "id", Value: "77"}})

	// Upgrade writes the 400 itself; the handler must not write again.
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on a non-upgrade request, got %d", w.Code)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(subscribers["77"]) != 0 {
		t.Fatal("failed upgrade must not register a subscriber")
	}
}
