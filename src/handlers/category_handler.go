package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	db "walletly-server/src/db/sql"
	"walletly-server/src/models"
	"walletly-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
)

func GetCategories(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		categoryType := models.TransactionType(r.URL.Query().Get("type"))
		if categoryType != "" && !util.ValidateTransactionType(categoryType) {
			respondError(w, http.StatusBadRequest, "type must be either income or expense")
			return
		}

		categories, err := db.GetAllCategoriesForUser(r.Context(), pool, userID, categoryType)
		if err != nil {
			log.Printf("ERROR: Failed to get categories for user %d: %v", userID, err)
			respondError(w, http.StatusInternalServerError, "failed to get categories")
			return
		}
		respondList(w, categories, len(categories))
	}
}

func CreateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		var req struct {
			Name  string                 `json:"name"`
			Type  models.TransactionType `json:"type"`
			Icon  string                 `json:"icon"`
			Color string                 `json:"color"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create category request body for user %d: %v", userID, err)
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if req.Name == "" {
			respondError(w, http.StatusBadRequest, "please provide a name")
			return
		}
		if !util.ValidateTransactionType(req.Type) {
			respondError(w, http.StatusBadRequest, "type must be either income or expense")
			return
		}
		if req.Icon == "" {
			req.Icon = "default"
		}
		if req.Color == "" {
			req.Color = "#000000"
		}

		created, err := db.CreateCategory(r.Context(), pool, &models.Category{
			UserID: userID,
			Name:   strings.ToLower(req.Name),
			Type:   req.Type,
			Icon:   req.Icon,
			Color:  req.Color,
		})
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				respondError(w, http.StatusBadRequest, "category already exists")
				return
			}
			log.Printf("ERROR: Failed to create category for user %d: %v", userID, err)
			respondError(w, http.StatusInternalServerError, "failed to create category")
			return
		}
		log.Printf("INFO: Created category id %d for user %d, name %s", created.ID, userID, created.Name)
		respondData(w, http.StatusCreated, created)
	}
}

func UpdateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		categoryID, err := parseIDParam(r, "category_id")
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid category id")
			return
		}

		var req struct {
			Name  *string                 `json:"name"`
			Type  *models.TransactionType `json:"type"`
			Icon  *string                 `json:"icon"`
			Color *string                 `json:"color"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request")
			return
		}

		category, err := db.GetCategoryByID(r.Context(), pool, userID, categoryID)
		if err != nil {
			respondError(w, http.StatusNotFound, "category not found")
			return
		}
		if category.IsDefault {
			respondError(w, http.StatusBadRequest, "cannot update default category")
			return
		}

		if req.Name != nil && *req.Name != "" {
			category.Name = strings.ToLower(*req.Name)
		}
		if req.Type != nil {
			if !util.ValidateTransactionType(*req.Type) {
				respondError(w, http.StatusBadRequest, "type must be either income or expense")
				return
			}
			category.Type = *req.Type
		}
		if req.Icon != nil {
			category.Icon = *req.Icon
		}
		if req.Color != nil {
			category.Color = *req.Color
		}

		updated, err := db.UpdateCategory(r.Context(), pool, category)
		if err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				respondError(w, http.StatusBadRequest, "category name already exists")
				return
			}
			log.Printf("ERROR: Failed to update category id %d for user %d: %v", categoryID, userID, err)
			respondError(w, http.StatusInternalServerError, "failed to update category")
			return
		}
		log.Printf("INFO: Updated category id %d for user %d", updated.ID, userID)
		respondData(w, http.StatusOK, updated)
	}
}

func DeleteCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		categoryID, err := parseIDParam(r, "category_id")
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid category id")
			return
		}

		category, err := db.GetCategoryByID(r.Context(), pool, userID, categoryID)
		if err != nil {
			respondError(w, http.StatusNotFound, "category not found")
			return
		}
		if category.IsDefault {
			respondError(w, http.StatusBadRequest, "cannot delete default category")
			return
		}

		if err := db.DeleteCategory(r.Context(), pool, userID, categoryID); err != nil {
			log.Printf("ERROR: Failed to delete category id %d for user %d: %v", categoryID, userID, err)
			respondError(w, http.StatusNotFound, "category not found")
			return
		}
		log.Printf("INFO: Deleted category id %d for user %d", categoryID, userID)
		respondData(w, http.StatusOK, map[string]string{"message": "category deleted"})
	}
}
