package dto

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var phoneRe = regexp.MustCompile(`^\+?\d{9,13}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("mpesa_phone", validatePhone)
		_ = v.RegisterValidation("safe_url", validateSafeURL)
	}
}

// validatePhone accepts local (07...) and international (2547..., +2547...)
// MSISDN forms. Normalisation happens in the service layer.
func validatePhone(fl validator.FieldLevel) bool {
	return phoneRe.MatchString(strings.TrimSpace(fl.Field().String()))
}

// validateSafeURL accepts http/https URLs plus the internal:// scheme used
// for provider retry jobs.
func validateSafeURL(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true // optional field; use "required" tag to enforce presence
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "internal"
}
