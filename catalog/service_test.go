package catalog

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/apperror"
	"storefront/models"
)

// memoryStore is an in-memory Store with the same semantics as the Mongo repository
type memoryStore struct {
	products map[string]models.Product
	clock    time.Time
	calls    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		products: map[string]models.Product{},
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memoryStore) List(ctx context.Context) ([]models.Product, error) {
	m.calls++
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	m.calls++
	p, ok := m.products[id]
	if !ok {
		return nil, apperror.NotFound("Product not found")
	}
	return &p, nil
}

func (m *memoryStore) Insert(ctx context.Context, p *models.Product) error {
	now := m.tick()
	p.ID = primitive.NewObjectID()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	m.products[p.ID.Hex()] = *p
	return nil
}

func (m *memoryStore) Update(ctx context.Context, id string, f models.ProductFields) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, apperror.NotFound("Product not found")
	}
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.Description != nil {
		p.Description = *f.Description
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.Discount != nil {
		p.Discount = f.Discount
	}
	if f.PhotoPath != nil {
		p.PhotoPath = *f.PhotoPath
	}
	p.UpdatedAt = m.tick()
	m.products[id] = p
	return &p, nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return apperror.NotFound("Product not found")
	}
	delete(m.products, id)
	return nil
}

type recordingCache struct {
	noCache
	list        []models.Product
	invalidated []string
}

func (c *recordingCache) GetList(context.Context) ([]models.Product, bool) {
	return c.list, c.list != nil
}

func (c *recordingCache) SetList(_ context.Context, products []models.Product) { c.list = products }

func (c *recordingCache) Invalidate(_ context.Context, id string) {
	c.list = nil
	c.invalidated = append(c.invalidated, id)
}

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }

func lampFields() models.ProductFields {
	return models.ProductFields{
		Name:        strPtr("Desk Lamp"),
		Description: strPtr("LED lamp"),
		Price:       floatPtr(19.99),
	}
}

func TestCreateThenGet(t *testing.T) {
	svc := NewService(newMemoryStore(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, lampFields())
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", got.Name)
	assert.Equal(t, "LED lamp", got.Description)
	assert.Equal(t, 19.99, got.Price)
	assert.Equal(t, 0.0, got.Rating)
	assert.Equal(t, "", got.PhotoPath)
	assert.Equal(t, []string{}, got.Gallery)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreateRequiresFields(t *testing.T) {
	svc := NewService(newMemoryStore(), nil)

	cases := []models.ProductFields{
		{Description: strPtr("d"), Price: floatPtr(1)},
		{Name: strPtr(""), Description: strPtr("d"), Price: floatPtr(1)},
		{Name: strPtr("n"), Price: floatPtr(1)},
		{Name: strPtr("n"), Description: strPtr("d")},
	}
	for _, f := range cases {
		_, err := svc.Create(context.Background(), f)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := NewService(newMemoryStore(), nil)
	ctx := context.Background()

	first, _ := svc.Create(ctx, lampFields())
	second, _ := svc.Create(ctx, lampFields())

	products, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, second.ID, products[0].ID)
	assert.Equal(t, first.ID, products[1].ID)
}

func TestEmptyUpdateOnlyTouchesUpdatedAt(t *testing.T) {
	svc := NewService(newMemoryStore(), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, lampFields())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID.Hex(), models.ProductFields{})
	require.NoError(t, err)

	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	updated.UpdatedAt = created.UpdatedAt
	assert.Equal(t, *created, *updated)
}

func TestUpdateRejectsBlankName(t *testing.T) {
	svc := NewService(newMemoryStore(), nil)
	created, _ := svc.Create(context.Background(), lampFields())

	_, err := svc.Update(context.Background(), created.ID.Hex(), models.ProductFields{Name: strPtr("")})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestUpdateAndDeleteUnknown(t *testing.T) {
	svc := NewService(newMemoryStore(), nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, primitive.NewObjectID().Hex(), models.ProductFields{})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	err = svc.Delete(ctx, primitive.NewObjectID().Hex())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	svc := NewService(newMemoryStore(), nil)
	ctx := context.Background()

	created, _ := svc.Create(ctx, lampFields())
	require.NoError(t, svc.Delete(ctx, created.ID.Hex()))

	_, err := svc.Get(ctx, created.ID.Hex())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestListUsesCacheAndWritesInvalidate(t *testing.T) {
	store := newMemoryStore()
	c := &recordingCache{}
	svc := NewService(store, c)
	ctx := context.Background()

	created, err := svc.Create(ctx, lampFields())
	require.NoError(t, err)
	assert.Equal(t, []string{created.ID.Hex()}, c.invalidated)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)

	_, err = svc.Update(ctx, created.ID.Hex(), models.ProductFields{Price: floatPtr(24.99)})
	require.NoError(t, err)
	products, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
	assert.Equal(t, 24.99, products[0].Price)
}
