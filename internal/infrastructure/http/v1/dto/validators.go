package dto

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"inventrack/internal/core/entity"
	"inventrack/internal/core/types"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags used by the DTOs:
//
//	payment_status  paid | unpaid | partial
//	money           a non-negative decimal string
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("payment_status", validatePaymentStatus)
		_ = v.RegisterValidation("money", validateMoney)
	})
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	return entity.PaymentStatus(fl.Field().String()).Valid()
}

func validateMoney(fl validator.FieldLevel) bool {
	m, err := types.NewMoneyFromString(fl.Field().String())
	return err == nil && !m.IsNegative()
}

// parseMoney converts a value that passed the money tag.
func parseMoney(s string) types.Money {
	m, err := types.NewMoneyFromString(s)
	if err != nil {
		return types.Zero()
	}
	return m
}
