package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	pkgvalidator "github.com/jwalitptl/legal-services-api/pkg/validator"
)

// RegisterBindingTagNames makes gin's binding validator report fields by
// their json names, matching the service-level validation messages.
func RegisterBindingTagNames() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(pkgvalidator.JSONTagName)
	}
}
