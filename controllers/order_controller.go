package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tunik/tunik-api/config"
	"github.com/tunik/tunik-api/services"
	"github.com/tunik/tunik-api/utils"
)

// orderInputFromBody is the single place where order request bodies are
// coerced, including every accepted field spelling.
func orderInputFromBody(body map[string]interface{}) (services.OrderInput, error) {
	var in services.OrderInput
	var err error

	if in.SupplierID, err = utils.OptionalID(body, "idproveedor", "proveedor_id", "supplier_id"); err != nil {
		return in, paramError(err)
	}
	if in.OrderDate, err = utils.OptionalDate(body, "fechaPedido", "fecha_pedido", "order_date"); err != nil {
		return in, paramError(err)
	}
	if in.Status, err = utils.OptionalString(body, "estado", "status"); err != nil {
		return in, paramError(err)
	}
	if in.Items, in.ItemsSent, err = optionalItems(body); err != nil {
		return in, paramError(err)
	}
	return in, nil
}

// ListOrders handles GET /api/v1/orders
func ListOrders(c *gin.Context) {
	supplierID, err := optionalQueryID(c, "supplier_id", "idproveedor")
	if err != nil {
		respondError(c, err)
		return
	}

	orders, err := services.NewOrderService(config.GetDB()).List(c.Request.Context(), services.OrderFilter{
		SupplierID: supplierID,
		Status:     firstQuery(c, "status", "estado"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := services.NewOrderService(config.GetDB()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// CreateOrder handles POST /api/v1/orders - creates an order and raises stock
func CreateOrder(c *gin.Context) {
	body, err := bindBody(c)
	if err != nil {
		respondError(c, err)
		return
	}
	in, err := orderInputFromBody(body)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := services.NewOrderService(config.GetDB()).Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, order)
}

// UpdateOrder handles PUT /api/v1/orders/:id
func UpdateOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	body, err := bindBody(c)
	if err != nil {
		respondError(c, err)
		return
	}
	in, err := orderInputFromBody(body)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := services.NewOrderService(config.GetDB()).Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/v1/orders/:id - reverses stock first
func DeleteOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := services.NewOrderService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Order deleted")
}
