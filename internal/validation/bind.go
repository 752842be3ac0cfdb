package validation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/fne-certify/internal/fne"
)

// BindAndValidate binds JSON body into `out` and runs validation.
// If validation fails, it writes a 400 response and returns an error for the handler to short-circuit.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		bad := &fne.BadRequestError{Message: "invalid request body: " + err.Error(), Err: err}
		c.JSON(http.StatusBadRequest, fne.Format(bad, c.GetHeader("X-Request-Id")))
		return bad
	}

	if err := v.Struct(out); err != nil {
		bad := &fne.BadRequestError{
			Message: "request validation failed",
			Fields:  FieldErrors(err),
			Err:     err,
		}
		c.JSON(http.StatusBadRequest, fne.Format(bad, c.GetHeader("X-Request-Id")))
		return bad
	}
	return nil
}

// FieldErrors converts validator errors into per-field messages keyed by the
// JSON path of the field, e.g. "items[0].id".
func FieldErrors(err error) map[string][]string {
	out := map[string][]string{}
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		out["error"] = []string{err.Error()}
		return out
	}
	for _, fe := range ve {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		out[field] = append(out[field], describe(fe))
	}
	return out
}

func describe(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "The " + fe.Field() + " field is required."
	case "uuid":
		return "The " + fe.Field() + " field must be a valid UUID."
	case "gt":
		return "The " + fe.Field() + " field must be greater than " + fe.Param() + "."
	case "min":
		return "The " + fe.Field() + " field must have at least " + fe.Param() + " entries."
	case "oneof":
		return "The " + fe.Field() + " field must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	case "unique_ids":
		return "Each item can only be refunded once per request."
	}
	return fe.Error()
}
