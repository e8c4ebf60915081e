// Package auth issues admin tokens for the guarded catalog and order
// endpoints. Admin passwords are bcrypt-hashed; this is entirely separate
// from the plaintext customer reconciliation in booking.
package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"talentclub/db"
	"talentclub/globals"
	"talentclub/middleware"
	"talentclub/models"
	"talentclub/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 12 * time.Hour

type Handlers struct {
	Admins *db.AdminStore
}

func NewHandlers(admins *db.AdminStore) *Handlers {
	return &Handlers{Admins: admins}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || len(input.Password) < 6 {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and a password of at least 6 characters are required")
		return
	}

	existing, err := h.Admins.FindByUsername(r.Context(), input.Username)
	if err != nil {
		log.Println("admin lookup failed:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing != nil {
		utils.RespondWithError(w, http.StatusConflict, "Username already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	admin := models.AdminUser{
		ID:           utils.GetUUID(),
		Username:     input.Username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := h.Admins.Insert(r.Context(), admin); err != nil {
		log.Println("admin insert failed:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message": "Admin registered",
		"id":      admin.ID,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Username == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	admin, err := h.Admins.FindByUsername(r.Context(), input.Username)
	if err != nil {
		log.Println("admin lookup failed:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if admin == nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	tokenString, err := generateAccessToken(r.Context(), admin)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token":   tokenString,
		"adminId": admin.ID,
	})
}

func generateAccessToken(_ context.Context, admin *models.AdminUser) (string, error) {
	claims := middleware.Claims{
		Username: admin.Username,
		AdminID:  admin.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   admin.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}
