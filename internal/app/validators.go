package app

import (
	"strings"

	"syntax_feed_backend/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		return model.Level(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	// settings accept any casing, the service lowercases before saving
	return v.RegisterValidation("datausage", func(fl validator.FieldLevel) bool {
		return model.DataUsage(strings.ToLower(fl.Field().String())).Valid()
	})
}
