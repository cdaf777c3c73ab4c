package handlers

import (
	"net/http"

	"tienda-gateway/catalog"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	Snapshot *catalog.Snapshot
}

// GetProducts serves the catalog snapshot. An unreachable upstream
// degrades to the cached (possibly empty) list so the storefront keeps
// rendering.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.Snapshot.Products(c.Request.Context()))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")

	product, ok := h.Snapshot.Resolve(id)
	if !ok {
		// The snapshot may simply not have been loaded yet, or be stale.
		// One refresh before reporting not-found.
		if err := h.Snapshot.Refresh(c.Request.Context()); err == nil {
			product, ok = h.Snapshot.Resolve(id)
		}
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}
