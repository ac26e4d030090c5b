package ledger

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PaymentsCollection is the document collection holding payment submissions.
const PaymentsCollection = "payments"

type submissionDocument struct {
	ID               primitive.ObjectID `bson:"_id"`
	UserID           any                `bson:"userId"`
	StripeCustomerID string             `bson:"stripeCustomerId"`
	BidType          string             `bson:"bidType"`
	AuctionID        string             `bson:"auctionId"`
	Amount           int64              `bson:"amount"`
	Status           string             `bson:"status"`
	CreatedAt        time.Time          `bson:"createdAt"`
}

// MongoLedger persists payment submissions in a MongoDB collection.
type MongoLedger struct {
	payments *mongo.Collection
}

// NewMongoLedger builds a ledger over db's payments collection.
func NewMongoLedger(db *mongo.Database) *MongoLedger {
	return &MongoLedger{payments: db.Collection(PaymentsCollection)}
}

// Insert stores sub as a new document.
func (l *MongoLedger) Insert(ctx context.Context, sub Submission) (Submission, error) {
	doc := submissionDocument{
		ID:               primitive.NewObjectID(),
		UserID:           sub.UserID,
		StripeCustomerID: sub.CustomerID,
		BidType:          string(sub.BidType),
		AuctionID:        sub.AuctionID,
		Amount:           sub.Amount,
		Status:           sub.Status,
		CreatedAt:        sub.CreatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(sub.UserID); err == nil {
		doc.UserID = oid
	}
	if _, err := l.payments.InsertOne(ctx, doc); err != nil {
		return Submission{}, err
	}
	sub.ID = doc.ID.Hex()
	return sub, nil
}
