// Package http provides the HTTP handlers and routing of the storefront
// reference backend.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/atinyakov/storefront/internal/middleware"
	"github.com/atinyakov/storefront/internal/models"
)

// MsgInternal is written with every 500 response.
const MsgInternal = middleware.MsgInternal

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Success: false, Message: msg})
}

// decodeBody decodes the JSON body into dst and validates it. The returned
// error text is suitable for the shopper.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New(fieldMessage(verrs[0]))
		}
		return err
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "gte":
		return fmt.Sprintf("%q must be greater than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%q is invalid", fe.Field())
	}
}
