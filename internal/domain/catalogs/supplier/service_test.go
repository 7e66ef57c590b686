package supplier_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/types"
	"inventrack/internal/domain/catalogs/supplier"
	"inventrack/internal/infrastructure/storage/memory"
)

func TestService_Offers(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := supplier.NewService(store.Suppliers(), store.Ledger(), store)

	cat := &entity.Category{Name: "Grains"}
	require.NoError(t, store.Categories().Create(ctx, cat))
	rice := &entity.Product{Name: "Rice 2kg", CategoryID: cat.ID, BuyPrice: types.MustMoney("250"), SellPrice: types.MustMoney("300")}
	require.NoError(t, store.Products().Create(ctx, rice))

	mill := &entity.Supplier{Name: "Mwea Mills", ContactInfo: "0700111222"}
	require.NoError(t, svc.Create(ctx, mill))
	other := &entity.Supplier{Name: "Coast Traders"}
	require.NoError(t, svc.Create(ctx, other))

	err := svc.Create(ctx, &entity.Supplier{})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	require.NoError(t, svc.AddOffer(ctx, &entity.SupplierProduct{SupplierID: mill.ID, ProductID: rice.ID, Quantity: 100, Price: types.MustMoney("240")}))
	require.NoError(t, svc.AddOffer(ctx, &entity.SupplierProduct{SupplierID: other.ID, ProductID: rice.ID, Quantity: 50, Price: types.MustMoney("245")}))

	tests := []struct {
		name  string
		offer entity.SupplierProduct
	}{
		{"unknown supplier", entity.SupplierProduct{SupplierID: 99, ProductID: rice.ID}},
		{"unknown product", entity.SupplierProduct{SupplierID: mill.ID, ProductID: 99}},
		{"negative price", entity.SupplierProduct{SupplierID: mill.ID, ProductID: rice.ID, Price: types.MustMoney("-1")}},
		{"negative quantity", entity.SupplierProduct{SupplierID: mill.ID, ProductID: rice.ID, Quantity: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := tt.offer
			err := svc.AddOffer(ctx, &offer)
			assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
		})
	}

	all, err := svc.ListOffers(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListOffers(ctx, mill.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].Price.Equal(types.MustMoney("240")))

	suppliers, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, suppliers, 2)
}
