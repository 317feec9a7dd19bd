package http

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/gtu-transit/auth-gateway/internal/util"
)

// RegisterSwagger serves the API spec and the Swagger UI under /swagger. The
// spec is kept as YAML on disk and converted to JSON per request so edits to
// docs/swagger.yaml show up without a rebuild.
func RegisterSwagger(e *echo.Echo) {
	e.GET("/swagger/doc.json", func(c echo.Context) error {
		jsonSpec, err := loadSpecJSON()
		if err != nil {
			c.Logger().Errorf("swagger spec: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("unable to load swagger spec"))
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, jsonSpec)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}

func loadSpecJSON() ([]byte, error) {
	data, err := os.ReadFile(filepath.Join("docs", "swagger.yaml"))
	if err != nil {
		return nil, err
	}
	return yaml.YAMLToJSON(data)
}
