package repository

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/apperror"
	"storefront/models"
)

const UserCollection = "users"

// UserRepository reads admin accounts
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(UserCollection)}
}

// FindByEmail looks up an account by its lowercased email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperror.NotFound("User not found")
	}
	if err != nil {
		return nil, storeError("find user", err)
	}
	return &user, nil
}

// Upsert creates or replaces the account with the same email
func (r *UserRepository) Upsert(ctx context.Context, user models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"email": user.Email},
		bson.M{"$set": bson.M{
			"name":     user.Name,
			"email":    user.Email,
			"password": user.Password,
			"role":     user.Role,
		}},
		options.Update().SetUpsert(true),
	)
	return storeError("upsert user", err)
}
