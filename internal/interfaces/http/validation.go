package http

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names ("items[0].item_name") instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validationFields maps each failing field to a short reason.
func validationFields(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fe.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		fields[key] = reason
	}
	return fields
}

// parseBody decodes the JSON body into out and validates it. On failure it
// writes the 400 response and returns ok=false.
func parseBody(c *fiber.Ctx, out any) (ok bool, err error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
	}
	return checkStruct(c, out)
}

// parseQuery decodes the query string into out and validates it.
func parseQuery(c *fiber.Ctx, out any) (ok bool, err error) {
	if err := c.QueryParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "malformed query string"})
	}
	return checkStruct(c, out)
}

func checkStruct(c *fiber.Ctx, out any) (bool, error) {
	if fields := validationFields(out); len(fields) > 0 {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: fmt.Sprintf("%d field(s) failed validation", len(fields)),
			Fields:  fields,
		})
	}
	return true, nil
}
