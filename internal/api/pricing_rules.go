package api

import (
	"encoding/json"
	"net/http"
	"time"

	"staylink/channelsync/internal/constants"
	"staylink/channelsync/internal/db/repositories"
	"staylink/channelsync/internal/models/dtos"
	gormModels "staylink/channelsync/internal/models/gorm"
	"staylink/channelsync/internal/services"

	"github.com/go-chi/chi/v5"
)

func ruleFromRequest(propertyID string, req dtos.PricingRuleRequest) (*gormModels.PricingRule, error) {
	rule := &gormModels.PricingRule{
		PropertyID:      propertyID,
		Priority:        req.Priority,
		MatcherType:     req.MatcherType,
		DaysOfWeek:      req.DaysOfWeek,
		AdjustmentType:  req.AdjustmentType,
		AdjustmentValue: req.AdjustmentValue,
		IsActive:        true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	switch req.AdjustmentType {
	case constants.AdjustmentPercentage, constants.AdjustmentFixed:
	default:
		return nil, constants.NewValidationError("unknown adjustment type %q", req.AdjustmentType)
	}

	switch req.MatcherType {
	case constants.MatcherDateRange:
		if req.StartDate == "" && req.EndDate == "" {
			return nil, constants.NewValidationError("date range matcher needs a start or end date")
		}
		if req.StartDate != "" {
			start, err := time.ParseInLocation(services.DateFormat, req.StartDate, time.UTC)
			if err != nil {
				return nil, constants.NewValidationError("invalid start date %q", req.StartDate)
			}
			rule.StartDate = &start
		}
		if req.EndDate != "" {
			end, err := time.ParseInLocation(services.DateFormat, req.EndDate, time.UTC)
			if err != nil {
				return nil, constants.NewValidationError("invalid end date %q", req.EndDate)
			}
			rule.EndDate = &end
		}
		if rule.StartDate != nil && rule.EndDate != nil && rule.EndDate.Before(*rule.StartDate) {
			return nil, constants.NewValidationError("end date before start date")
		}
	case constants.MatcherDaysOfWeek:
		if len(rule.Weekdays()) == 0 {
			return nil, constants.NewValidationError("days of week matcher needs at least one valid weekday")
		}
	default:
		return nil, constants.NewValidationError("unknown matcher type %q", req.MatcherType)
	}

	return rule, nil
}

// CreatePricingRuleHandler handles POST /properties/{propertyID}/pricing-rules
func CreatePricingRuleHandler(ruleRepo *repositories.PricingRuleRepo, propertyRepo *repositories.PropertyRepo, pricingSvc *services.PricingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := chi.URLParam(r, "propertyID")

		exists, err := propertyRepo.Exists(r.Context(), propertyID)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		if !exists {
			respondWithDomainError(w, constants.NewNotFoundError("property", propertyID))
			return
		}

		var req dtos.PricingRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rule, err := ruleFromRequest(propertyID, req)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		if err := ruleRepo.Create(r.Context(), rule); err != nil {
			respondWithDomainError(w, err)
			return
		}
		pricingSvc.InvalidateRules(propertyID)

		respondWithSuccess(w, http.StatusCreated, rule)
	}
}

// ListPricingRulesHandler handles GET /properties/{propertyID}/pricing-rules
func ListPricingRulesHandler(ruleRepo *repositories.PricingRuleRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := chi.URLParam(r, "propertyID")

		rules, err := ruleRepo.ListByProperty(r.Context(), propertyID)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &rules)
	}
}

// UpdatePricingRuleHandler handles PUT /pricing-rules/{ruleID}
func UpdatePricingRuleHandler(ruleRepo *repositories.PricingRuleRepo, pricingSvc *services.PricingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "ruleID")

		existing, err := ruleRepo.GetByID(r.Context(), id)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		var req dtos.PricingRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rule, err := ruleFromRequest(existing.PropertyID, req)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}
		rule.ID = existing.ID

		if err := ruleRepo.Update(r.Context(), rule); err != nil {
			respondWithDomainError(w, err)
			return
		}
		pricingSvc.InvalidateRules(existing.PropertyID)

		respondWithSuccess(w, http.StatusOK, rule)
	}
}

// DeletePricingRuleHandler handles DELETE /pricing-rules/{ruleID}
func DeletePricingRuleHandler(ruleRepo *repositories.PricingRuleRepo, pricingSvc *services.PricingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "ruleID")

		existing, err := ruleRepo.GetByID(r.Context(), id)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		if err := ruleRepo.Delete(r.Context(), id); err != nil {
			respondWithDomainError(w, err)
			return
		}
		pricingSvc.InvalidateRules(existing.PropertyID)

		type deleted struct {
			ID string `json:"id"`
		}
		respondWithSuccess(w, http.StatusOK, &deleted{ID: id})
	}
}

// QuoteHandler handles GET /properties/{propertyID}/quote?date=
func QuoteHandler(pricingSvc *services.PricingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := chi.URLParam(r, "propertyID")

		dateStr := r.URL.Query().Get("date")
		date, err := time.ParseInLocation(services.DateFormat, dateStr, time.UTC)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "date query parameter must be YYYY-MM-DD")
			return
		}

		quote, err := pricingSvc.Quote(r.Context(), propertyID, date)
		if err != nil {
			respondWithDomainError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, quote)
	}
}
