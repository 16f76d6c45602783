package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/application/report"
	"github.com/pos/backend/internal/application/sales"
)

// SalesHandler handles recording, revoking and listing sales
type SalesHandler struct {
	BaseHandler
	coordinator   *sales.Coordinator
	reportService *report.Service
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(coordinator *sales.Coordinator, reportService *report.Service) *SalesHandler {
	return &SalesHandler{
		coordinator:   coordinator,
		reportService: reportService,
	}
}

// PaymentMethodsResponse lists the accepted payment methods
type PaymentMethodsResponse struct {
	PaymentMethods []string `json:"payment_methods" example:"Cash,Card,Mobile"`
}

// Record godoc
// @Summary      Record a sale
// @Description  Decrement stock and append the sale to the ledger in one transaction.
// @Description  Not idempotent: every successful call records a new sale.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body sales.RecordSaleRequest true "Sale"
// @Success      201 {object} dto.Response{data=sales.SaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SalesHandler) Record(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req sales.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sale, err := h.coordinator.RecordSale(c.Request.Context(), session, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// Revoke godoc
// @Summary      Revoke a sale
// @Description  Delete the ledger entry and return its quantity to stock
// @Tags         sales
// @Produce      json
// @Param        id path int true "Sale ID"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id} [delete]
func (h *SalesHandler) Revoke(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.coordinator.RevokeSale(c.Request.Context(), session, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Message(c, "Sale revoked")
}

// History godoc
// @Summary      Sales history
// @Description  Every sale with its product name, newest first
// @Tags         sales
// @Produce      json
// @Success      200 {object} dto.Response{data=[]sales.SaleResponse}
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SalesHandler) History(c *gin.Context) {
	history, err := h.reportService.SalesHistory(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// PaymentMethods godoc
// @Summary      Accepted payment methods
// @Tags         sales
// @Produce      json
// @Success      200 {object} dto.Response{data=PaymentMethodsResponse}
// @Security     BearerAuth
// @Router       /sales/payment-methods [get]
func (h *SalesHandler) PaymentMethods(c *gin.Context) {
	methods := h.coordinator.PaymentMethods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}
	h.Success(c, PaymentMethodsResponse{PaymentMethods: names})
}
