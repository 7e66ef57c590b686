package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/types"
)

func TestSupplyStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to SupplyStatus
		want     bool
	}{
		{SupplyPending, SupplyApproved, true},
		{SupplyPending, SupplyRejected, true},
		{SupplyPending, SupplyCompleted, false},
		{SupplyApproved, SupplyCompleted, true},
		{SupplyApproved, SupplyRejected, false},
		{SupplyApproved, SupplyApproved, false},
		{SupplyRejected, SupplyApproved, false},
		{SupplyCompleted, SupplyPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, SupplyRejected.IsTerminal())
	assert.True(t, SupplyCompleted.IsTerminal())
	assert.False(t, SupplyPending.IsTerminal())
}

func TestSupplyRequest_CanModify(t *testing.T) {
	r := &SupplyRequest{ID: 7, Status: SupplyPending}
	require.NoError(t, r.CanModify())

	r.Status = SupplyApproved
	err := r.CanModify()
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition))
}

func TestInventory_Validate(t *testing.T) {
	inv := Inventory{ProductID: 1, Quantity: 10, SpoiltQuantity: 10, PaymentStatus: PaymentPaid}
	require.NoError(t, inv.Validate())
	assert.Equal(t, 0, inv.Usable())

	inv.SpoiltQuantity = 11
	assert.True(t, apperror.IsCode(inv.Validate(), apperror.CodeValidation))

	inv.SpoiltQuantity = -1
	assert.Error(t, inv.Validate())

	inv.SpoiltQuantity = 0
	inv.PaymentStatus = "later"
	assert.Error(t, inv.Validate())
}

func TestStockComponents_Effective(t *testing.T) {
	c := StockComponents{Usable: 8, Purchased: 5, Sold: 10, Returned: 2}
	assert.Equal(t, 5, c.Effective())
}

func TestProduct_Validate(t *testing.T) {
	p := Product{Name: "  Tea ", CategoryID: 1, BuyPrice: types.MustMoney("1.50"), SellPrice: types.MustMoney("2")}
	require.NoError(t, p.Validate())
	assert.Equal(t, "Tea", p.Name)

	p.BuyPrice = types.MustMoney("-1")
	assert.Error(t, p.Validate())
}

func TestSale_Total(t *testing.T) {
	s := Sale{Quantity: 3, Price: types.MustMoney("2.50")}
	assert.True(t, s.Total().Equal(types.MustMoney("7.5")))
}
