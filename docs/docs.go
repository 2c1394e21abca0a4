// Package docs registers the OpenAPI document served under /docs.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var swaggerJSON string

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "GST Billing API",
	Description:      "GST tax invoices: preview, numbering, storage, PDF/print and billing history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  swaggerJSON,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

// JSON returns the rendered document.
func JSON() ([]byte, error) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
