package auction

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func lookupInt64(t *testing.T, doc bson.Raw, path ...string) int64 {
	t.Helper()
	v, err := doc.LookupErr(path...)
	if err != nil {
		t.Fatalf("lookup %v: %v", path, err)
	}
	n, ok := v.Int64OK()
	if !ok {
		t.Fatalf("lookup %v: expected int64, got %s", path, v.Type)
	}
	return n
}

func TestMongoRaiseHighestBid(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	auctionID := primitive.NewObjectID()
	bidder := primitive.NewObjectID()

	mt.Run("applied when a document matches", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		applied, err := repo.RaiseHighestBid(context.Background(), auctionID.Hex(), Bid{UserID: bidder.Hex(), Amount: 500})
		if err != nil {
			mt.Fatalf("raise: %v", err)
		}
		if !applied {
			mt.Fatalf("expected raise to apply")
		}

		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "update" {
			mt.Fatalf("expected an update command, got %+v", evt)
		}
		if coll := evt.Command.Lookup("update").StringValue(); coll != AuctionsCollection {
			mt.Fatalf("update sent to %q", coll)
		}
		query, err := evt.Command.LookupErr("updates", "0", "q")
		if err != nil {
			mt.Fatalf("missing query: %v", err)
		}
		q := query.Document()
		if got := q.Lookup("_id").ObjectID(); got != auctionID {
			mt.Fatalf("filter _id = %s, want %s", got.Hex(), auctionID.Hex())
		}
		if typ := q.Lookup("$or", "0", "highestBid").Type; typ != bson.TypeNull {
			mt.Fatalf("first $or branch should match a missing bid, got %s", typ)
		}
		if lt := lookupInt64(mt.T, q, "$or", "1", "highestBid.amount", "$lt"); lt != 500 {
			mt.Fatalf("$lt = %d, want 500", lt)
		}

		set, err := evt.Command.LookupErr("updates", "0", "u", "$set", "highestBid")
		if err != nil {
			mt.Fatalf("missing $set: %v", err)
		}
		if amount := lookupInt64(mt.T, set.Document(), "amount"); amount != 500 {
			mt.Fatalf("stored amount = %d", amount)
		}
		if got := set.Document().Lookup("userId").ObjectID(); got != bidder {
			mt.Fatalf("stored userId = %s, want %s", got.Hex(), bidder.Hex())
		}
	})

	mt.Run("not applied when nothing matches", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		applied, err := repo.RaiseHighestBid(context.Background(), auctionID.Hex(), Bid{UserID: "legacy-user", Amount: 100})
		if err != nil {
			mt.Fatalf("raise: %v", err)
		}
		if applied {
			mt.Fatalf("expected raise to be rejected")
		}
		set, err := mt.GetStartedEvent().Command.LookupErr("updates", "0", "u", "$set", "highestBid", "userId")
		if err != nil {
			mt.Fatalf("missing userId: %v", err)
		}
		if got := set.StringValue(); got != "legacy-user" {
			mt.Fatalf("non-hex user ids are stored as strings, got %q", got)
		}
	})

	mt.Run("invalid id sends nothing", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		applied, err := repo.RaiseHighestBid(context.Background(), "not-an-object-id", Bid{UserID: "u1", Amount: 100})
		if err != nil || applied {
			mt.Fatalf("expected (false, nil), got (%v, %v)", applied, err)
		}
		if evt := mt.GetStartedEvent(); evt != nil {
			mt.Fatalf("unexpected %s command", evt.CommandName)
		}
	})
}

func TestMongoFindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := mtest.TestDb + "." + AuctionsCollection
	auctionID := primitive.NewObjectID()
	bidder := primitive.NewObjectID()

	mt.Run("decodes the highest bid", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: auctionID},
			{Key: "highestBid", Value: bson.D{
				{Key: "userId", Value: bidder},
				{Key: "amount", Value: int64(750)},
			}},
		}))

		a, err := repo.FindByID(context.Background(), auctionID.Hex())
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if a.ID != auctionID.Hex() || a.HighestBid == nil {
			mt.Fatalf("unexpected auction %+v", a)
		}
		if a.HighestBid.UserID != bidder.Hex() || a.HighestBid.Amount != 750 {
			mt.Fatalf("unexpected bid %+v", *a.HighestBid)
		}
	})

	mt.Run("auction without bids", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: auctionID},
		}))

		a, err := repo.FindByID(context.Background(), auctionID.Hex())
		if err != nil {
			mt.Fatalf("find: %v", err)
		}
		if a.HighestBid != nil {
			mt.Fatalf("expected no bid, got %+v", *a.HighestBid)
		}
	})

	mt.Run("missing auction", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		if _, err := repo.FindByID(context.Background(), auctionID.Hex()); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("invalid id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.DB)

		if _, err := repo.FindByID(context.Background(), "xyz"); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
