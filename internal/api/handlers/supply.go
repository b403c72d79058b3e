package handlers

import (
	"net/http"

	"exchange-backend/internal/repository"
	"exchange-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type SupplyHandler struct {
	supplyRepo *repository.SupplyRepository
}

type supplyItem struct {
	ID string `json:"id"`
}

func NewSupplyHandler(supplyRepo *repository.SupplyRepository) *SupplyHandler {
	return &SupplyHandler{supplyRepo: supplyRepo}
}

// GetSupplies lists the supply IDs usable in bid requests.
func (h *SupplyHandler) GetSupplies(c *gin.Context) {
	supplies, err := h.supplyRepo.FindAll(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list supplies")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve supplies")
		return
	}

	out := make([]supplyItem, 0, len(supplies))
	for _, s := range supplies {
		out = append(out, supplyItem{ID: s.ID})
	}
	c.JSON(http.StatusOK, out)
}
