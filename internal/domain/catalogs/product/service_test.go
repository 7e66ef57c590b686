package product_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/core/apperror"
	"inventrack/internal/core/entity"
	"inventrack/internal/core/security"
	"inventrack/internal/core/types"
	"inventrack/internal/domain/auth"
	"inventrack/internal/domain/catalogs/product"
	"inventrack/internal/domain/documents/supply_request"
	"inventrack/internal/domain/registers/stock"
	"inventrack/internal/infrastructure/storage/memory"
)

func newService(t *testing.T) (*product.Service, *memory.Store, int64) {
	t.Helper()
	store := memory.New()
	cat := &entity.Category{Name: "Household"}
	require.NoError(t, store.Categories().Create(context.Background(), cat))
	return product.NewService(store.Products(), store.Categories(), store), store, cat.ID
}

func TestService_CreateUpdateList(t *testing.T) {
	ctx := context.Background()
	svc, store, catID := newService(t)

	soap := &entity.Product{Name: "Bar soap", CategoryID: catID, BuyPrice: types.MustMoney("80"), SellPrice: types.MustMoney("100")}
	require.NoError(t, svc.Create(ctx, soap))
	assert.False(t, soap.CreatedAt.IsZero())

	err := svc.Create(ctx, &entity.Product{Name: "Ghost", CategoryID: 999})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	err = svc.Create(ctx, &entity.Product{Name: "Cheap", CategoryID: catID, SellPrice: types.MustMoney("-1")})
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	other := &entity.Category{Name: "Toiletries"}
	require.NoError(t, store.Categories().Create(ctx, other))
	require.NoError(t, svc.Create(ctx, &entity.Product{Name: "Toothpaste", CategoryID: other.ID}))

	soap.Name = "Bar soap 250g"
	soap.SellPrice = types.MustMoney("110")
	require.NoError(t, svc.Update(ctx, soap))
	got, err := svc.Get(ctx, soap.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bar soap 250g", got.Name)
	assert.True(t, got.SellPrice.Equal(types.MustMoney("110")))

	moved := *soap
	moved.CategoryID = 999
	assert.True(t, apperror.IsCode(svc.Update(ctx, &moved), apperror.CodeValidation))

	missing := *soap
	missing.ID = 999
	assert.True(t, apperror.IsNotFound(svc.Update(ctx, &missing)))

	found, err := svc.List(ctx, product.Filter{Search: "SOAP"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, soap.ID, found[0].ID)

	byCat, err := svc.ListByCategory(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, "Toothpaste", byCat[0].Name)

	_, err = svc.ListByCategory(ctx, 999)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	svc, store, catID := newService(t)

	p := &entity.Product{Name: "Matches", CategoryID: catID, BuyPrice: types.MustMoney("2"), SellPrice: types.MustMoney("5")}
	require.NoError(t, svc.Create(ctx, p))
	keep := &entity.Product{Name: "Candles", CategoryID: catID, BuyPrice: types.MustMoney("10"), SellPrice: types.MustMoney("15")}
	require.NoError(t, svc.Create(ctx, keep))

	engine := stock.NewEngine(store.Ledger(), store)
	inv, err := engine.RecordInventory(ctx, stock.InventoryInput{ProductID: p.ID, Quantity: 10})
	require.NoError(t, err)
	sale, err := engine.RecordSale(ctx, stock.SaleInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = engine.RecordReturn(ctx, sale.ID, 1)
	require.NoError(t, err)
	_, err = engine.RecordPurchase(ctx, stock.PurchaseInput{ProductID: p.ID, Quantity: 5, UnitPrice: types.MustMoney("2")})
	require.NoError(t, err)
	_, err = engine.RecordPurchase(ctx, stock.PurchaseInput{ProductID: keep.ID, Quantity: 3, UnitPrice: types.MustMoney("10")})
	require.NoError(t, err)

	clerk := &auth.Account{Name: "Clerk", Email: "clerk@example.com", Role: security.RoleClerk}
	require.NoError(t, store.Accounts().Create(ctx, clerk))
	require.NoError(t, store.SupplyRequests().Create(ctx, &entity.SupplyRequest{ProductID: p.ID, Quantity: 4, ClerkID: clerk.ID, Status: entity.SupplyPending}))
	row := &entity.Transaction{AccountID: clerk.ID, InventoryID: &inv.ID, Type: entity.TransactionSale, Quantity: 2, CreatedAt: time.Now()}
	require.NoError(t, store.Journal().Create(ctx, row))
	require.NoError(t, store.Payments().Create(ctx, &entity.Payment{InventoryID: &inv.ID, Amount: types.MustMoney("50"), PaymentDate: time.Now()}))

	require.NoError(t, svc.Delete(ctx, p.ID))

	_, err = svc.Get(ctx, p.ID)
	assert.True(t, apperror.IsNotFound(err))
	_, err = engine.GetInventory(ctx, inv.ID)
	assert.True(t, apperror.IsNotFound(err))
	_, err = engine.GetSale(ctx, sale.ID)
	assert.True(t, apperror.IsNotFound(err))

	purchases, err := engine.ListPurchases(ctx, stock.LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, keep.ID, purchases[0].ProductID)

	requests, err := store.SupplyRequests().List(ctx, supply_request.Filter{})
	require.NoError(t, err)
	assert.Empty(t, requests)

	history, err := store.Journal().ListByAccount(ctx, clerk.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].InventoryID, "journal rows survive with the intake reference cleared")

	payments, err := store.Payments().List(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Nil(t, payments[0].InventoryID)

	assert.True(t, apperror.IsNotFound(svc.Delete(ctx, p.ID)))
}
