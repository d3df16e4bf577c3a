package utils

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/boreas/internal/week"
)

var registerOnce sync.Once

// RegisterValidators adds the "weekday" binding tag to gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Fatal().Msg("gin validator engine is not validator/v10")
		}
		if err := v.RegisterValidation("weekday", isWeekday); err != nil {
			log.Fatal().Err(err).Msg("failed to register weekday validation")
		}
	})
}

func isWeekday(fl validator.FieldLevel) bool {
	_, err := week.ParseDay(fl.Field().String())
	return err == nil
}
