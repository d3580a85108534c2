package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	db "walletly-server/src/db/sql"
	"walletly-server/src/models"
	"walletly-server/src/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func Register(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode register request body: %v", err)
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		req.Name = strings.TrimSpace(req.Name)

		if !util.ValidateEmail(req.Email) {
			log.Printf("ERROR: Email validation failed during registration - Email: %s", req.Email)
			respondError(w, http.StatusBadRequest, "invalid email format")
			return
		}

		if !util.ValidateName(req.Name) {
			respondError(w, http.StatusBadRequest, "name must be between 1 and 60 characters")
			return
		}

		if !util.ValidatePassword(req.Password) {
			log.Printf("ERROR: Password validation failed during registration - Email: %s", req.Email)
			respondError(w, http.StatusBadRequest, "password must be at least 8 characters with uppercase, lowercase, digit, and special character")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash password for %s: %v", req.Email, err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}

		user, err := db.CreateUser(r.Context(), pool, req.Email, req.Name, hashedPassword)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				log.Printf("ERROR: Registration failed - email already exists - Email: %s", req.Email)
				respondError(w, http.StatusConflict, "email already exists")
				return
			}
			log.Printf("ERROR: Failed to create user %s: %v", req.Email, err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// Seed the standard income/expense categories for the new user
		if err := db.CreateDefaultCategories(r.Context(), pool, user.ID); err != nil {
			log.Printf("ERROR: Failed to create default categories for user %d: %v", user.ID, err)
		}

		log.Printf("INFO: Successful registration - User: %s, ID: %d", user.Email, user.ID)

		tokenString, err := issueToken(user)
		if err != nil {
			log.Printf("ERROR: Failed to generate JWT token for user %s: %v", user.Email, err)
			respondError(w, http.StatusInternalServerError, "error generating token")
			return
		}

		respondData(w, http.StatusCreated, map[string]string{"token": tokenString})
	}
}

func Login(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}

		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Printf("ERROR: Failed to decode login request body: %v", err)
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		if credentials.Email == "" || credentials.Password == "" {
			respondError(w, http.StatusBadRequest, "please provide an email and password")
			return
		}

		user, err := db.GetUserByEmail(r.Context(), pool, strings.ToLower(strings.TrimSpace(credentials.Email)))
		if err != nil {
			log.Printf("ERROR: Failed to find user during login - Email: %s: %v", credentials.Email, err)
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(credentials.Password)); err != nil {
			log.Printf("ERROR: Invalid password attempt for email %s from IP %s", credentials.Email, r.RemoteAddr)
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		tokenString, err := issueToken(user)
		if err != nil {
			log.Printf("ERROR: Failed to generate JWT token for user %s: %v", user.Email, err)
			respondError(w, http.StatusInternalServerError, "error generating token")
			return
		}

		log.Printf("INFO: Successful login - User: %s, ID: %d", user.Email, user.ID)

		respondData(w, http.StatusOK, map[string]string{"token": tokenString})
	}
}

// VerifyToken echoes back the authenticated user so clients can validate
// a stored token on startup.
func VerifyToken(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		user, err := db.GetUserByID(r.Context(), pool, userID)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "user not found")
			return
		}
		respondData(w, http.StatusOK, map[string]interface{}{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		})
	}
}

func issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"exp":     time.Now().Add(time.Hour * 168).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
