package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"exchange-backend/internal/services"
	"exchange-backend/pkg/ratelimit"
	"exchange-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

type BidHandler struct {
	auctionService *services.AuctionService
	limiter        ratelimit.Limiter
	maxRequests    int
	validator      *validator.Validate
}

// BidRequest is the auction request body. Tmax is the simulated bidder
// deadline in milliseconds; zero means the configured default.
type BidRequest struct {
	SupplyID string `json:"supply_id" validate:"required"`
	IP       string `json:"ip" validate:"required"`
	Country  string `json:"country" validate:"required,country_code"`
	Tmax     int    `json:"tmax" validate:"omitempty,min=1,max=5000"`
}

func NewBidHandler(auctionService *services.AuctionService, limiter ratelimit.Limiter, maxRequests int) *BidHandler {
	v := validator.New()
	_ = v.RegisterValidation("country_code", validCountryCode)

	return &BidHandler{
		auctionService: auctionService,
		limiter:        limiter,
		maxRequests:    maxRequests,
		validator:      v,
	}
}

// validCountryCode accepts two uppercase ASCII letters.
func validCountryCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Bid runs an auction for the requested supply, subject to the
// per-identity rate limit keyed by the request's declared IP.
func (h *BidHandler) Bid(c *gin.Context) {
	var req BidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	if !h.limiter.Allow(c.Request.Context(), req.IP) {
		utils.ErrorResponse(c, http.StatusTooManyRequests,
			fmt.Sprintf("Rate limit exceeded. Maximum %d requests per minute per IP address.", h.maxRequests))
		return
	}

	result, err := h.auctionService.RunAuction(c.Request.Context(), req.SupplyID, req.Country, req.Tmax)
	if err != nil {
		if isAuctionRejection(err) {
			log.WithError(err).WithField("supply_id", req.SupplyID).Warn("Auction rejected")
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		log.WithError(err).WithField("supply_id", req.SupplyID).Error("Auction failed")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, result)
}

// isAuctionRejection separates business outcomes from infrastructure
// failures.
func isAuctionRejection(err error) bool {
	return errors.Is(err, services.ErrSupplyNotFound) ||
		errors.Is(err, services.ErrNoEligibleBidders) ||
		errors.Is(err, services.ErrNoBidsReceived)
}
