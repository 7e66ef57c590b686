package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/core/entity"
	"inventrack/internal/core/types"
)

func TestRegisterValidators(t *testing.T) {
	RegisterValidators()

	ok := InventoryRequest{ProductID: 1, Quantity: 5, PaymentStatus: "paid"}
	require.NoError(t, binding.Validator.ValidateStruct(&ok))

	bad := InventoryRequest{ProductID: 1, Quantity: 5, PaymentStatus: "owed"}
	assert.Error(t, binding.Validator.ValidateStruct(&bad))

	price := ProductRequest{Name: "Milk", CategoryID: 1, BuyPrice: "40.00", SellPrice: "-1"}
	assert.Error(t, binding.Validator.ValidateStruct(&price))

	price.SellPrice = "55.5"
	assert.NoError(t, binding.Validator.ValidateStruct(&price))
	assert.True(t, price.ToEntity().SellPrice.Equal(types.MustMoney("55.5")))
}

func TestMpesaCallback_ToConfirmation(t *testing.T) {
	tests := []struct {
		name string
		in   MpesaCallback
		want string
	}{
		{"string amount", MpesaCallback{TransAmount: "100.50"}, "100.50"},
		{"number amount", MpesaCallback{TransAmount: float64(250)}, "250"},
		{"legacy field", MpesaCallback{Amount: "75"}, "75"},
		{"missing", MpesaCallback{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.ToConfirmation().Amount)
		})
	}

	c := MpesaCallback{TransID: "QK1", BillRefNumber: "12", MSISDN: "254712345678", TransAmount: "10"}.ToConfirmation()
	assert.Equal(t, "QK1", c.TransID)
	assert.Equal(t, "12", c.Reference)
	assert.Equal(t, "254712345678", c.MSISDN)
}

func TestTransactionRequest_ToEntry(t *testing.T) {
	inv := int64(3)
	e := (&TransactionRequest{InventoryID: &inv, TransactionType: "sale", Quantity: 2}).ToEntry()
	assert.Equal(t, entity.TransactionSale, e.Type)
	assert.Equal(t, &inv, e.InventoryID)
}
