package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/Arvinajith/online-event-server/internal/domain/errors"
	"github.com/Arvinajith/online-event-server/internal/domain/model"
	"github.com/Arvinajith/online-event-server/internal/server/http/dto"
	"github.com/Arvinajith/online-event-server/internal/usecase"
)

// OrderHandler manages purchase endpoints.
type OrderHandler struct {
	facade PurchaseFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade PurchaseFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/orders/checkout.
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid payload"))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	attendees := make([]model.Attendee, 0, len(req.Attendees))
	for _, a := range req.Attendees {
		attendees = append(attendees, model.Attendee{Name: a.Name, Email: a.Email})
	}

	result, err := h.facade.Checkout(c.Request.Context(), userID, usecase.CheckoutRequest{
		EventID:     req.EventID,
		TicketLabel: req.TicketLabel,
		Quantity:    req.Quantity,
		Attendees:   attendees,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrEventNotFound):
			c.JSON(http.StatusNotFound, errorBody("Event not found"))
		case errors.Is(err, domainErrors.ErrTierNotFound):
			c.JSON(http.StatusBadRequest, errorBody("Ticket not found"))
		case errors.Is(err, domainErrors.ErrInsufficientInventory):
			c.JSON(http.StatusBadRequest, errorBody("Not enough tickets available"))
		case errors.Is(err, domainErrors.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, errorBody("Invalid quantity"))
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	response := dto.CheckoutResponse{
		OrderID:          result.Order.ID,
		PaymentReference: string(result.Order.PaymentReference),
	}
	if result.ClientSecret != "" {
		secret := result.ClientSecret
		response.ClientSecret = &secret
	}
	c.JSON(http.StatusCreated, response)
}

// List handles GET /api/orders/mine.
func (h *OrderHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	orders, err := h.facade.Orders(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			EventID:     item.EventID,
			TicketLabel: item.TicketLabel,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return dto.OrderResponse{
		ID:               order.ID,
		Items:            items,
		TotalAmount:      order.TotalAmount,
		PaymentStatus:    string(order.PaymentStatus),
		PaymentReference: string(order.PaymentReference),
		CreatedAt:        order.CreatedAt,
	}
}
