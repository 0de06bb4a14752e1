// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/office-pulse/catalog"
	"github.com/danielhkuo/office-pulse/middleware"
)

type CatalogHandler struct {
	cat *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: cat}
}

// GetCatalog handles GET /catalog
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	// Options change only on restart
	w.Header().Set("Cache-Control", "public, max-age=300")
	middleware.JSONResponse(w, http.StatusOK, h.cat)
}
