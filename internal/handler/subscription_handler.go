package handler

import (
	"net/http"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type SubscriptionHandler struct {
	uc *usecase.SubscriptionUsecase
}

// DI
func NewSubscriptionHandler(uc *usecase.SubscriptionUsecase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc}
}

func (h *SubscriptionHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/subscriptions/c/:channelId", h.toggle)
	g.GET("/subscriptions/c/:channelId/subscribers", h.listSubscribers)
	g.GET("/subscriptions/subscribed", h.listSubscribed)
}

func (h *SubscriptionHandler) toggle(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	channelID, err := paramID(c, "channelId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid channel id"})
	}

	out, err := h.uc.Toggle(c.Request().Context(), user.ID, channelID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *SubscriptionHandler) listSubscribers(c echo.Context) error {
	channelID, err := paramID(c, "channelId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid channel id"})
	}

	out, err := h.uc.ListSubscribers(c.Request().Context(), channelID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *SubscriptionHandler) listSubscribed(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListSubscribedChannels(c.Request().Context(), user.ID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
