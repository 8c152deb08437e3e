package handlers

import (
	"storehouse/internal/metrics"
	"storehouse/internal/middleware"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers bundles every route handler of the API
type Handlers struct {
	Categories       *CategoryHandlers
	Units            *UnitHandlers
	Commodities      *CommodityHandlers
	Orders           *OrderHandlers
	OrderCommodities *OrderCommodityHandlers
	Admin            *AdminHandlers
	Health           *HealthHandlers
}

// Register mounts the versioned API plus the health, metrics and docs routes
func Register(e *echo.Echo, versions *middleware.VersionMiddleware, h *Handlers) {
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/health/ready", h.Health.ReadinessCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := versions.Group(e, "v1")

	v1.GET("/categories", h.Categories.ListCategories)
	v1.POST("/categories", h.Categories.CreateCategory)
	v1.DELETE("/categories", h.Categories.DeleteCategories)
	v1.GET("/categories/:id", h.Categories.GetCategory)
	v1.PUT("/categories/:id", h.Categories.UpdateCategory)
	v1.DELETE("/categories/:id", h.Categories.DeleteCategory)

	v1.GET("/units", h.Units.ListUnits)
	v1.POST("/units", h.Units.CreateUnit)
	v1.DELETE("/units", h.Units.DeleteUnits)
	v1.GET("/units/:id", h.Units.GetUnit)
	v1.PUT("/units/:id", h.Units.UpdateUnit)
	v1.DELETE("/units/:id", h.Units.DeleteUnit)

	v1.GET("/commodities", h.Commodities.ListCommodities)
	v1.POST("/commodities", h.Commodities.CreateCommodity)
	v1.DELETE("/commodities", h.Commodities.DeleteCommodities)
	v1.GET("/commodities/:id", h.Commodities.GetCommodity)
	v1.PUT("/commodities/:id", h.Commodities.UpdateCommodity)
	v1.DELETE("/commodities/:id", h.Commodities.DeleteCommodity)

	v1.GET("/orders", h.Orders.GetOrders)
	v1.POST("/orders", h.Orders.CreateOrder)
	v1.DELETE("/orders", h.Orders.DeleteOrders)
	v1.GET("/orders/:id", h.Orders.GetOrder)
	v1.PUT("/orders/:id", h.Orders.UpdateOrder)
	v1.DELETE("/orders/:id", h.Orders.DeleteOrder)
	v1.GET("/orders/:id/commodities", h.Orders.GetOrderLines)
	v1.POST("/orders/:id/report", h.Orders.ExportOrderReport)

	v1.GET("/order-commodities", h.OrderCommodities.ListOrderCommodities)
	v1.POST("/order-commodities", h.OrderCommodities.CreateOrderCommodity)
	v1.DELETE("/order-commodities", h.OrderCommodities.DeleteOrderCommodities)
	v1.GET("/order-commodities/:id", h.OrderCommodities.GetOrderCommodity)
	v1.PUT("/order-commodities/:id", h.OrderCommodities.UpdateOrderCommodity)
	v1.DELETE("/order-commodities/:id", h.OrderCommodities.DeleteOrderCommodity)

	v1.GET("/admin/reference-audit", h.Admin.ReferenceAudit)
}
