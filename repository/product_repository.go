package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/apperror"
	"storefront/models"
)

// ProductCollection is the collection holding product documents
const ProductCollection = "products"

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// ProductRepository reads and writes product documents
type ProductRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		coll: db.Collection(ProductCollection),
		now:  time.Now,
	}
}

// List returns every product, newest first
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

// Search returns at most limit products whose name or description matches
// pattern case-insensitively, newest first. pattern must already be escaped.
func (r *ProductRepository) Search(ctx context.Context, pattern string, limit int64) ([]models.Product, error) {
	opts := options.Find().SetSort(newestFirst).SetLimit(limit)
	return r.find(ctx, SearchFilter(pattern), opts)
}

// SearchFilter builds the name-or-description regex filter
func SearchFilter(pattern string) bson.M {
	regex := primitive.Regex{Pattern: pattern, Options: "i"}
	return bson.M{
		"$or": []bson.M{
			{"name": regex},
			{"description": regex},
		},
	}
}

func (r *ProductRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeError("find products", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, storeError("decode products", err)
	}
	return products, nil
}

// FindByID returns the product or a NotFound error. Malformed ids never resolve.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("Product not found")
	}

	var product models.Product
	err = r.coll.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("Product not found")
	}
	if err != nil {
		return nil, storeError("find product", err)
	}
	return &product, nil
}

// Insert stores a new product, assigning its id and timestamps
func (r *ProductRepository) Insert(ctx context.Context, product *models.Product) error {
	now := r.now().UTC().Truncate(time.Millisecond)
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Gallery == nil {
		product.Gallery = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return storeError("insert product", err)
	}
	return nil
}

// InsertMany stores several products at once, used by seeding
func (r *ProductRepository) InsertMany(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	docs := BatchDocuments(products, r.now())
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return storeError("insert products", err)
	}
	return nil
}

// BatchDocuments stamps a batch for insertion. Each product is one
// millisecond older than the one before it, so newest-first listing keeps
// the batch order.
func BatchDocuments(products []models.Product, now time.Time) []interface{} {
	base := now.UTC().Truncate(time.Millisecond)
	docs := make([]interface{}, 0, len(products))
	for i := range products {
		p := products[i]
		created := base.Add(-time.Duration(i) * time.Millisecond)
		p.ID = primitive.NewObjectID()
		p.CreatedAt = created
		p.UpdatedAt = created
		if p.Gallery == nil {
			p.Gallery = []string{}
		}
		docs = append(docs, p)
	}
	return docs
}

// Update applies the present fields and returns the updated document
func (r *ProductRepository) Update(ctx context.Context, id string, fields models.ProductFields) (*models.Product, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.NotFound("Product not found")
	}

	set := UpdateDocument(fields)
	set["updatedAt"] = r.now().UTC().Truncate(time.Millisecond)
	update := bson.M{"$set": set}
	if unset := UnsetDocument(fields); len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("Product not found")
	}
	if err != nil {
		return nil, storeError("update product", err)
	}
	return &product, nil
}

// UpdateDocument converts present fields into a $set document
func UpdateDocument(fields models.ProductFields) bson.M {
	set := bson.M{}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Price != nil {
		set["price"] = *fields.Price
	}
	if fields.OriginalPrice != nil {
		set["originalPrice"] = *fields.OriginalPrice
	}
	if fields.Discount != nil {
		set["discount"] = *fields.Discount
	}
	if fields.Rating != nil {
		set["rating"] = *fields.Rating
	}
	if fields.Reviews != nil {
		set["reviews"] = *fields.Reviews
	}
	if fields.PhotoPath != nil {
		set["photo_path"] = *fields.PhotoPath
	}
	if fields.Gallery != nil {
		set["gallery"] = fields.Gallery
	}
	if fields.Stock != nil {
		set["stock"] = *fields.Stock
	}
	if fields.Category != nil {
		set["category"] = *fields.Category
	}
	return set
}

// UnsetDocument lists the cleared optional fields. A field that is also
// being set is left to $set.
func UnsetDocument(fields models.ProductFields) bson.M {
	unset := bson.M{}
	for _, key := range fields.Clear {
		switch {
		case key == "originalPrice" && fields.OriginalPrice == nil:
			unset[key] = ""
		case key == "discount" && fields.Discount == nil:
			unset[key] = ""
		}
	}
	return unset
}

// Delete removes the product or returns NotFound
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperror.NotFound("Product not found")
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return storeError("delete product", err)
	}
	if result.DeletedCount == 0 {
		return apperror.NotFound("Product not found")
	}
	return nil
}

// DeleteAll clears the collection, used by seeding
func (r *ProductRepository) DeleteAll(ctx context.Context) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return storeError("clear products", err)
}
