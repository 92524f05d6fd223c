// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"beacon/config"
	"beacon/internal/delivery/http/middleware"
	"beacon/internal/delivery/http/router/handler"
	"beacon/internal/delivery/realtime"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	Config              *config.Config
	NotificationHandler *handler.NotificationHandler
	DeviceHandler       *handler.DeviceHandler
	AdminHandler        *handler.AdminHandler
	Gateway             *realtime.Gateway
	AuthMiddleware      *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	cfg                 *config.Config
	notificationHandler *handler.NotificationHandler
	deviceHandler       *handler.DeviceHandler
	adminHandler        *handler.AdminHandler
	gateway             *realtime.Gateway
	authMiddleware      *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		cfg:                 params.Config,
		notificationHandler: params.NotificationHandler,
		deviceHandler:       params.DeviceHandler,
		adminHandler:        params.AdminHandler,
		gateway:             params.Gateway,
		authMiddleware:      params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
// Every route goes through Authorize with its entry in middleware.RoutePolicies.
func (r *router) RegisterRoutes(e *echo.Echo) {
	auth := r.authMiddleware.Authorize

	// Health check endpoint
	e.GET("/health", handler.HealthCheck, auth(middleware.RouteHealth))

	// Realtime gateway
	e.GET(r.cfg.Gateway.Path, r.gateway.Handle, auth(middleware.RouteRealtimeGateway))

	api := e.Group("/api")

	notificationGroup := api.Group("/notifications")
	{
		notificationGroup.GET("", r.notificationHandler.ListNotifications, auth(middleware.RouteListNotifications))
		notificationGroup.GET("/unread-count", r.notificationHandler.UnreadCount, auth(middleware.RouteUnreadCount))
		notificationGroup.PATCH("/read-all", r.notificationHandler.MarkAllRead, auth(middleware.RouteMarkAllRead))
		notificationGroup.PATCH("/:id/read", r.notificationHandler.MarkRead, auth(middleware.RouteMarkNotificationRead))
		notificationGroup.POST("/replay", r.notificationHandler.Replay, auth(middleware.RouteReplay))
	}

	deviceGroup := api.Group("/devices")
	{
		deviceGroup.GET("", r.deviceHandler.GetUserDevices, auth(middleware.RouteListDevices))
		deviceGroup.POST("", r.deviceHandler.RegisterDevice, auth(middleware.RouteRegisterDevice))
		deviceGroup.DELETE("/:token", r.deviceHandler.RemoveDevice, auth(middleware.RouteRemoveDevice))
	}

	adminGroup := api.Group("/admin")
	{
		adminGroup.GET("/presence", r.adminHandler.Presence, auth(middleware.RouteAdminPresence))
		adminGroup.POST("/broadcast", r.adminHandler.Broadcast, auth(middleware.RouteAdminBroadcast))
	}
}
