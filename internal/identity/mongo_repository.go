package identity

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UsersCollection is the document collection holding user records.
const UsersCollection = "users"

type userDocument struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	Email              string             `bson:"email"`
	PaymentMethods     []paymentMethodDoc `bson:"paymentMethods,omitempty"`
	BidViewPermissions []permissionDoc    `bson:"bidViewPermissions,omitempty"`
}

type paymentMethodDoc struct {
	TokenID        string `bson:"tokenId"`
	LastFourDigits string `bson:"lastFourDigits"`
	CardBrand      string `bson:"cardBrand"`
}

type permissionDoc struct {
	AuctionID string     `bson:"auctionId"`
	Expiry    *time.Time `bson:"expiry"`
}

// MongoRepository implements Repository on a MongoDB users collection.
type MongoRepository struct {
	users *mongo.Collection
}

// NewMongoRepository builds a repository over db's users collection.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{users: db.Collection(UsersCollection)}
}

// FindByEmail fetches a user by email address.
func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, bson.M{"email": bson.M{"$eq": email}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return doc.toUser(), nil
}

// SetPaymentMethods replaces the stored payment-method list.
func (r *MongoRepository) SetPaymentMethods(ctx context.Context, email string, methods []PaymentMethod) error {
	docs := make([]paymentMethodDoc, 0, len(methods))
	for _, m := range methods {
		docs = append(docs, paymentMethodDoc(m))
	}
	res, err := r.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"paymentMethods": docs}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetBidViewPermissions replaces the stored permission list.
func (r *MongoRepository) SetBidViewPermissions(ctx context.Context, userID string, permissions []BidViewPermission) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ErrUserNotFound
	}
	docs := make([]permissionDoc, 0, len(permissions))
	for _, p := range permissions {
		docs = append(docs, permissionDoc(p))
	}
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": bson.M{"$eq": oid}},
		bson.M{"$set": bson.M{"bidViewPermissions": docs}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (d userDocument) toUser() User {
	user := User{ID: d.ID.Hex(), Email: d.Email}
	for _, m := range d.PaymentMethods {
		user.PaymentMethods = append(user.PaymentMethods, PaymentMethod(m))
	}
	for _, p := range d.BidViewPermissions {
		user.BidViewPermissions = append(user.BidViewPermissions, BidViewPermission(p))
	}
	return user
}
