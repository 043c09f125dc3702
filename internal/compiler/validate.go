package compiler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/mdaq/internal/ir"
)

// validate is shared; validator caches struct metadata per type.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their file names, not Go names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a document. Returns all errors found (does not fail-fast).
func Validate(doc *Document) ValidationErrors {
	var errs ValidationErrors

	if err := validate.Struct(doc); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return ValidationErrors{{Field: "document", Message: err.Error(), Code: ErrInvalidValue}}
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fromFieldError(fe))
		}
	}

	// Cross-field checks only make sense on a structurally valid order.
	validComposition := doc.ZComposition == "" || doc.ZComposition == string(ir.ZCompositionAdditive)
	if !errs.HasCode(ErrInvalidAxisOrder) && validComposition {
		s := ir.AcquisitionSettings{
			AxisOrder:    toAxes(doc.AxisOrder),
			ZComposition: ir.ZComposition(doc.ZComposition),
		}
		if err := s.CheckOrder(); err != nil {
			errs = append(errs, ValidationError{
				Field:   "axis_order",
				Message: err.Error(),
				Code:    ErrInvalidAxisOrder,
			})
		}
	}

	// E204: a grid is only used when no explicit positions are given, and
	// then needs a camera to size its tiles.
	if doc.Grid != nil && len(doc.Positions) == 0 && doc.Camera == nil {
		errs = append(errs, ValidationError{
			Field:   "camera",
			Message: "grid requires a camera block (width_px, height_px, pixel_size_um)",
			Code:    ErrGridNeedsCamera,
		})
	}

	return errs
}

func fromFieldError(fe validator.FieldError) ValidationError {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	code := ErrInvalidValue
	switch fe.Tag() {
	case "required":
		code = ErrRequired
	case "gt", "gte", "lt", "lte", "gtefield":
		code = ErrOutOfRange
	}
	if strings.HasPrefix(field, "axis_order") {
		code = ErrInvalidAxisOrder
	}

	return ValidationError{
		Field:   field,
		Message: formatValidationMessage(field, fe),
		Code:    code,
	}
}

// formatValidationMessage creates human-readable error messages
func formatValidationMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be below %s", field, strings.ToLower(fe.Param()))
	case "len":
		return fmt.Sprintf("%s must list exactly %s axes", field, fe.Param())
	case "unique":
		return fmt.Sprintf("%s must not repeat an axis", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func toAxes(names []string) []ir.Axis {
	if len(names) == 0 {
		return nil
	}
	axes := make([]ir.Axis, len(names))
	for i, n := range names {
		axes[i] = ir.Axis(n)
	}
	return axes
}
