package services

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/SscSPs/portfolio_performance_app/internal/dto"
	"github.com/go-playground/validator/v10"
)

// Field error messages, worded the way API clients already display them.
const (
	msgRequired     = "This field is required."
	msgInvalidDate  = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	msgInvalidBool  = "Must be a valid boolean."
	msgRestriction  = "Must be a valid boolean or \"All\"."
	msgUnknownPK    = "Invalid pk \"%s\" - object does not exist."
	msgInvalidValue = "\"%s\" is not a valid choice."
)

var boolLike = []string{"true", "false", "1", "0", "yes", "no", "on", "off"}

// parseBoolLike reads a boolean-like flag; the empty string is false.
func parseBoolLike(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off", "":
		return false, true
	}
	return false, false
}

// newJobValidator builds a validator knowing the job request's custom tags.
func newJobValidator(supported []string) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("currency_or_all", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		return code == domain.AllCurrencies || slices.Contains(supported, domain.NormalizeCurrency(code))
	})
	_ = v.RegisterValidation("restriction", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseRestrictionFilter(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("boollike", func(fl validator.FieldLevel) bool {
		return slices.Contains(boolLike, strings.ToLower(strings.TrimSpace(fl.Field().String())))
	})
	return v
}

// fieldErrors turns validator output into per-field messages.
func fieldErrors(err error) dto.FieldErrors {
	errs := dto.FieldErrors{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("non_field_errors", err.Error())
		return errs
	}
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			errs.Add(field, msgRequired)
		case "datetime":
			errs.Add(field, msgInvalidDate)
		case "boollike":
			errs.Add(field, msgInvalidBool)
		case "restriction":
			errs.Add(field, msgRestriction)
		default:
			errs.Add(field, fmt.Sprintf(msgInvalidValue, fe.Value()))
		}
	}
	return errs
}
