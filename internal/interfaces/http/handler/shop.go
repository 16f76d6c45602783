package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/application/shop"
)

// ShopHandler serves the shop owner profile printed on reports
type ShopHandler struct {
	BaseHandler
	shopService *shop.Service
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(shopService *shop.Service) *ShopHandler {
	return &ShopHandler{shopService: shopService}
}

// Get godoc
// @Summary      Get the shop owner profile
// @Tags         shop
// @Produce      json
// @Success      200 {object} dto.Response{data=shop.OwnerResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /shop-owner [get]
func (h *ShopHandler) Get(c *gin.Context) {
	owner, err := h.shopService.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, owner)
}

// Upsert godoc
// @Summary      Create or replace the shop owner profile
// @Tags         shop
// @Accept       json
// @Produce      json
// @Param        request body shop.UpdateOwnerRequest true "Shop profile"
// @Success      200 {object} dto.Response{data=shop.OwnerResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /shop-owner [put]
func (h *ShopHandler) Upsert(c *gin.Context) {
	var req shop.UpdateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	owner, err := h.shopService.Upsert(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, owner)
}
