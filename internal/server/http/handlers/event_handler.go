package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/Arvinajith/online-event-server/internal/domain/errors"
	"github.com/Arvinajith/online-event-server/internal/domain/model"
	"github.com/Arvinajith/online-event-server/internal/server/http/dto"
)

// EventHandler manages event listing endpoints.
type EventHandler struct {
	facade EventFacade
}

// NewEventHandler constructs EventHandler.
func NewEventHandler(facade EventFacade) *EventHandler {
	return &EventHandler{facade: facade}
}

// Create handles POST /api/events.
func (h *EventHandler) Create(c *gin.Context) {
	organizerID := CurrentUserID(c)

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid payload"))
		return
	}

	tiers := make([]model.TicketTier, 0, len(req.TicketTypes))
	for _, t := range req.TicketTypes {
		tiers = append(tiers, model.TicketTier{
			Label:         t.Label,
			UnitPrice:     t.Price,
			QuantityTotal: t.QuantityTotal,
		})
	}

	event, err := h.facade.CreateEvent(c.Request.Context(), organizerID, &model.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Published:   req.Published,
		Tiers:       tiers,
	})
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidEvent), errors.Is(err, domainErrors.ErrInvalidTier):
			c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.JSON(http.StatusConflict, errorBody(err.Error()))
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, toEventResponse(*event))
}

// Get handles GET /api/events/:id.
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.facade.Event(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, errorBody("Event not found"))
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(*event))
}

// List handles GET /api/events.
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.facade.PublishedEvents(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	response := make([]dto.EventResponse, 0, len(events))
	for _, e := range events {
		response = append(response, toEventResponse(e))
	}
	c.JSON(http.StatusOK, response)
}

func toEventResponse(event model.Event) dto.EventResponse {
	tiers := make([]dto.TicketTierResponse, 0, len(event.Tiers))
	for _, t := range event.Tiers {
		tiers = append(tiers, dto.TicketTierResponse{
			Label:         t.Label,
			Price:         t.UnitPrice,
			QuantityTotal: t.QuantityTotal,
			QuantitySold:  t.QuantitySold,
		})
	}
	return dto.EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Location:    event.Location,
		StartDate:   event.StartDate,
		EndDate:     event.EndDate,
		Published:   event.Published,
		TicketTypes: tiers,
	}
}
