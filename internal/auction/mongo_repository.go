package auction

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuctionsCollection is the document collection holding auctions.
const AuctionsCollection = "auctions"

type auctionDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	HighestBid *bidDocument       `bson:"highestBid"`
}

type bidDocument struct {
	UserID any   `bson:"userId"`
	Amount int64 `bson:"amount"`
}

// MongoRepository implements Repository on a MongoDB auctions collection.
type MongoRepository struct {
	auctions *mongo.Collection
}

// NewMongoRepository builds a repository over db's auctions collection.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{auctions: db.Collection(AuctionsCollection)}
}

// FindByID fetches an auction by its hex object id.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (Auction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Auction{}, ErrNotFound
	}
	var doc auctionDocument
	if err := r.auctions.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Auction{}, ErrNotFound
		}
		return Auction{}, err
	}
	a := Auction{ID: doc.ID.Hex()}
	if doc.HighestBid != nil {
		a.HighestBid = &Bid{UserID: userIDString(doc.HighestBid.UserID), Amount: doc.HighestBid.Amount}
	}
	return a, nil
}

// RaiseHighestBid sets highestBid with a filter that only matches while the
// stored amount is absent or lower, so concurrent raises cannot regress it.
func (r *MongoRepository) RaiseHighestBid(ctx context.Context, auctionID string, bid Bid) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(auctionID)
	if err != nil {
		return false, nil
	}
	filter := bson.M{
		"_id": oid,
		"$or": bson.A{
			bson.M{"highestBid": nil},
			bson.M{"highestBid.amount": bson.M{"$lt": bid.Amount}},
		},
	}
	update := bson.M{"$set": bson.M{"highestBid": bidDocument{UserID: userIDValue(bid.UserID), Amount: bid.Amount}}}

	res, err := r.auctions.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// User ids are stored as object ids when they parse as one.
func userIDValue(id string) any {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func userIDString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}
