package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/sangkips/supermarket-api/pkg/apperror"
	"github.com/sangkips/supermarket-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(t *testing.T) (*CatalogService, *fakeProductRepo) {
	t.Helper()
	milk := product("dai001", "Fresh Milk 1L", "Dairy", "1.10", 40, 20, "0.00")
	milk.Barcode = "5000000000011"
	repo := newFakeProductRepo(
		milk,
		product("gro001", "Basmati Rice 5kg", "Groceries", "8.50", 12, 30, "0.05"),
		product("cln001", "Dish Soap", "Cleaning", "2.25", 80, 25, "0.16"),
	)
	svc := NewCatalogService(repo, NewCatalogGuard(), 0)
	svc.newID = sequentialIDs("gen00001", "gen00002")
	return svc, repo
}

func intPtr(n int) *int { return &n }

func TestCreateProduct(t *testing.T) {
	svc, repo := newCatalogFixture(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, &CreateProductInput{ID: "bak001", Name: " Bread ", Category: "Bakery", Price: dec("0.90"), Quantity: 15})
	require.NoError(t, err)
	assert.Equal(t, "Bread", p.Name)
	assert.Equal(t, 50, p.MinStockLevel, "default minimum applies")
	assert.True(t, p.TaxRate.IsZero())
	assert.Equal(t, 1, repo.saves)

	generated, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Eggs", Category: "Dairy", Price: dec("3"), MinStockLevel: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, "gen00001", generated.ID)
	assert.Equal(t, 5, generated.MinStockLevel)

	got, err := svc.GetProduct(ctx, "gen00001")
	require.NoError(t, err)
	assert.Equal(t, "Eggs", got.Name)
}

func TestCreateProduct_Conflicts(t *testing.T) {
	svc, repo := newCatalogFixture(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, &CreateProductInput{ID: "gro001", Name: "Dup", Price: dec("1")})
	assert.Equal(t, 409, apperror.GetAppError(err).Code)

	_, err = svc.CreateProduct(ctx, &CreateProductInput{ID: "new001", Name: "Other milk", Price: dec("1"), Barcode: "5000000000011"})
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
	assert.Equal(t, 0, repo.saves)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, repo := newCatalogFixture(t)
	tax := dec("1.5")

	_, err := svc.CreateProduct(context.Background(), &CreateProductInput{Name: "", Price: dec("-1"), Quantity: -2, MinStockLevel: intPtr(-1), TaxRate: &tax})
	require.True(t, apperror.IsValidationError(err))

	var fields []string
	for _, fe := range apperror.GetAppError(err).Errors.([]apperror.FieldError) {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"name", "price", "quantity", "min_stock_level", "tax_rate"}, fields)
	assert.Equal(t, 0, repo.saves)
}

func TestUpdateProduct(t *testing.T) {
	svc, _ := newCatalogFixture(t)
	ctx := context.Background()
	name := "Whole Milk 1L"
	price := dec("1.25")

	p, err := svc.UpdateProduct(ctx, "dai001", &UpdateProductInput{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Whole Milk 1L", p.Name)
	assert.True(t, p.Price.Equal(dec("1.25")))
	assert.Equal(t, 40, p.Quantity)
	assert.Equal(t, "Dairy", p.Category)

	_, err = svc.UpdateProduct(ctx, "missing", &UpdateProductInput{Name: &name})
	var nf *apperror.ProductNotFoundError
	assert.True(t, errors.As(err, &nf))

	taken := "5000000000011"
	_, err = svc.UpdateProduct(ctx, "gro001", &UpdateProductInput{Barcode: &taken})
	assert.Equal(t, 409, apperror.GetAppError(err).Code)

	// re-saving its own barcode is fine
	_, err = svc.UpdateProduct(ctx, "dai001", &UpdateProductInput{Barcode: &taken})
	assert.NoError(t, err)
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := newCatalogFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteProduct(ctx, "cln001"))
	_, err := svc.GetProduct(ctx, "cln001")
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	err = svc.DeleteProduct(ctx, "cln001")
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestStockAdjustments(t *testing.T) {
	svc, repo := newCatalogFixture(t)
	ctx := context.Background()

	p, err := svc.SetQuantity(ctx, "gro001", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)

	p, err = svc.AddStock(ctx, "gro001", 25)
	require.NoError(t, err)
	assert.Equal(t, 25, p.Quantity)
	assert.Equal(t, 25, repo.quantity("gro001"))

	_, err = svc.SetQuantity(ctx, "gro001", -1)
	assert.True(t, apperror.IsValidationError(err))
	_, err = svc.AddStock(ctx, "gro001", 0)
	assert.True(t, apperror.IsValidationError(err))
	_, err = svc.AddStock(ctx, "nope", 3)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
	assert.Equal(t, 25, repo.quantity("gro001"))
}

func TestAddStockRejectsOverflow(t *testing.T) {
	svc, repo := newCatalogFixture(t)
	ctx := context.Background()

	_, err := svc.SetQuantity(ctx, "gro001", 100)
	require.NoError(t, err)
	saves := repo.saves

	_, err = svc.AddStock(ctx, "gro001", math.MaxInt)
	require.True(t, apperror.IsValidationError(err))
	assert.Equal(t, 100, repo.quantity("gro001"))
	assert.Equal(t, saves, repo.saves)

	p, err := svc.AddStock(ctx, "gro001", math.MaxInt-100)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, p.Quantity)
}

func TestBulkSetQuantities(t *testing.T) {
	svc, repo := newCatalogFixture(t)

	results, err := svc.BulkSetQuantities(context.Background(), map[string]int{
		"gro001": 100,
		"dai001": -4,
		"zzz999": 5,
		"cln001": 7,
	})
	require.NoError(t, err)
	assert.Equal(t, []BulkQuantityResult{
		{ProductID: "cln001", Success: true},
		{ProductID: "dai001", Error: "quantity cannot be negative"},
		{ProductID: "gro001", Success: true},
		{ProductID: "zzz999", Error: "product not found"},
	}, results)

	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, 100, repo.quantity("gro001"))
	assert.Equal(t, 7, repo.quantity("cln001"))
	assert.Equal(t, 40, repo.quantity("dai001"))
}

func TestListProducts_Filters(t *testing.T) {
	svc, _ := newCatalogFixture(t)
	ctx := context.Background()

	ids := func(f ProductFilter) []string {
		page, err := svc.ListProducts(ctx, f, nil)
		require.NoError(t, err)
		var out []string
		for _, p := range page.Items {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []string{"cln001", "dai001", "gro001"}, ids(ProductFilter{}))
	assert.Equal(t, []string{"dai001"}, ids(ProductFilter{Category: "dairy"}))
	assert.Equal(t, []string{"gro001"}, ids(ProductFilter{LowStock: true}))
	assert.Equal(t, []string{"gro001"}, ids(ProductFilter{Search: "RICE"}))
	assert.Equal(t, []string{"dai001"}, ids(ProductFilter{Search: "0000000011"}))

	page, err := svc.ListProducts(ctx, ProductFilter{}, &pagination.PaginationParams{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "gro001", page.Items[0].ID)
	assert.False(t, page.Pagination.HasNext)
}

func TestCategoriesAndBarcode(t *testing.T) {
	svc, _ := newCatalogFixture(t)
	ctx := context.Background()

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cleaning", "Dairy", "Groceries"}, cats)

	p, err := svc.GetByBarcode(ctx, " 5000000000011 ")
	require.NoError(t, err)
	assert.Equal(t, "dai001", p.ID)

	_, err = svc.GetByBarcode(ctx, "123")
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestCatalog_SaveFailure(t *testing.T) {
	svc, repo := newCatalogFixture(t)
	repo.saveErrs = []error{errDiskFull}

	_, err := svc.AddStock(context.Background(), "gro001", 5)
	var pe *apperror.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 12, repo.quantity("gro001"))
}
