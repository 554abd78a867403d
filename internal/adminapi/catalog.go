package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/voltdesk/internal/catalog"
	"github.com/talkincode/voltdesk/internal/webserver"
)

func registerCatalogRoutes() {
	webserver.PubGET("/catalog", listCatalog)
	webserver.PubGET("/catalog/:id", getCatalogProduct)
}

func listCatalog(c echo.Context) error {
	return ok(c, catalog.Products())
}

func getCatalogProduct(c echo.Context) error {
	p, found := catalog.Find(c.Param("id"))
	if !found {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}
