// Package receipts renders a printable PDF confirmation for a recorded
// order, with an HMAC-signed QR payload for verification at the venue.
package receipts

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"talentclub/middleware"
	"talentclub/models"
	"talentclub/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// OrderFinder is the slice of the order store the receipt renderer needs.
type OrderFinder interface {
	Standalone() bool
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindStandaloneByID(ctx context.Context, id string) (*models.StandaloneOrder, error)
}

type Handlers struct {
	Orders OrderFinder
	secret []byte
}

func NewHandlers(orders OrderFinder) *Handlers {
	secret := os.Getenv("RECEIPT_SECRET")
	if secret == "" {
		secret = "receipt-signing-key"
	}
	return &Handlers{Orders: orders, secret: []byte(secret)}
}

// signedPayload returns accountID|orderID|timestamp|signature.
func (h *Handlers) signedPayload(accountID, orderID string) string {
	data := fmt.Sprintf("%s|%s|%d", accountID, orderID, time.Now().Unix())

	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// PrintReceipt handles GET /api/orders/:accountId/receipt?orderId=
// (admin-guarded). In the standalone storage variant the path id is the
// order id itself.
func (h *Handlers) PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("accountId")

	var (
		name, phone string
		order       *models.Order
		accountID   string
	)

	if h.Orders.Standalone() {
		standalone, err := h.Orders.FindStandaloneByID(r.Context(), id)
		if err != nil {
			log.Println("store failure:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if standalone == nil {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		name, phone, accountID = standalone.Name, standalone.Phone, standalone.ID
		order = &models.Order{ID: standalone.ID, Lines: standalone.Lines, CreatedAt: standalone.CreatedAt}
	} else {
		account, err := h.Orders.FindByID(r.Context(), id)
		if err != nil {
			log.Println("store failure:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if account == nil {
			utils.RespondWithError(w, http.StatusNotFound, "Account not found")
			return
		}
		name, phone, accountID = account.Name, account.Phone, account.ID
		order = pickOrder(account.Orders, r.URL.Query().Get("orderId"))
		if order == nil {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
	}

	// The route is admin-guarded, so the claims are good; the username is
	// stamped on the receipt as the issuer.
	issuedBy := ""
	if claims, err := middleware.ValidateJWT(r.Header.Get("Authorization")); err == nil {
		issuedBy = claims.Username
	}

	qrPNG, err := qrcode.Encode(h.signedPayload(accountID, order.ID), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdfBytes, err := renderPDF(name, phone, issuedBy, order, qrPNG)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", order.ID))
	w.Write(pdfBytes)
}

// pickOrder returns the order with the given id, or the most recent one when
// no id is given.
func pickOrder(orders []models.Order, orderID string) *models.Order {
	if len(orders) == 0 {
		return nil
	}
	if orderID == "" {
		return &orders[len(orders)-1]
	}
	for i := range orders {
		if orders[i].ID == orderID {
			return &orders[i]
		}
	}
	return nil
}

func renderPDF(name, phone, issuedBy string, order *models.Order, qrPNG []byte) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Lesson Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Name: %s", name))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Phone: %s", phone))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Order: %s", order.ID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Placed: %s", order.CreatedAt.Format(time.RFC1123)))
	pdf.Ln(8)
	if issuedBy != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Issued by: %s", issuedBy))
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Booked lessons")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	for _, line := range order.Lines {
		pdf.Cell(0, 7, fmt.Sprintf("- %s (%s)", line.Topic, line.LessonID))
		pdf.Ln(7)
	}

	pdf.Ln(6)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 10, pdf.GetY(), 50, 50, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
