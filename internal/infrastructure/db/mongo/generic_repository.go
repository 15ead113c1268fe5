package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stayhub/hotel-api/internal/core/domain"
	"github.com/stayhub/hotel-api/internal/core/ports"
)

// envelope is the stored shape of a generic entity: the identity promoted to
// _id, an insertion timestamp that fixes FindAll ordering, and the entity
// itself as a sub-document.
type envelope[T any] struct {
	ID         string    `bson:"_id"`
	InsertedAt time.Time `bson:"inserted_at"`
	Entity     T         `bson:"entity"`
}

// GenericRepository is the MongoDB-backed ports.Repository. Every mutating
// call runs inside its own session transaction and rolls back fully on
// failure; nothing holds a session open across calls.
type GenericRepository[T ports.Entity] struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewGenericRepository[T ports.Entity](db *mongo.Database, collection string) *GenericRepository[T] {
	return &GenericRepository[T]{client: db.Client(), coll: db.Collection(collection)}
}

func (r *GenericRepository[T]) Create(ctx context.Context, entity T) (T, error) {
	var zero T
	if entity.EntityID() == "" {
		entity.SetEntityID(primitive.NewObjectID().Hex())
	}

	doc := envelope[T]{ID: entity.EntityID(), InsertedAt: time.Now().UTC(), Entity: entity}
	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		if _, err := r.coll.InsertOne(sc, doc); err != nil {
			return classify("insert entity", err)
		}
		return nil
	})
	if err != nil {
		return zero, err
	}
	return entity, nil
}

func (r *GenericRepository[T]) CreateAll(ctx context.Context, entities []T) ([]T, error) {
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(entities))
	for _, e := range entities {
		if e.EntityID() == "" {
			e.SetEntityID(primitive.NewObjectID().Hex())
		}
		docs = append(docs, envelope[T]{ID: e.EntityID(), InsertedAt: now, Entity: e})
	}

	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		// Ordered insert inside the transaction: one bad document aborts and
		// rolls back the whole batch.
		if _, err := r.coll.InsertMany(sc, docs, options.InsertMany().SetOrdered(true)); err != nil {
			return classify("insert batch", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *GenericRepository[T]) Read(ctx context.Context, id string) (T, error) {
	var zero T
	var doc envelope[T]
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, domain.ErrNotFound
		}
		return zero, classify("find entity", err)
	}
	doc.Entity.SetEntityID(doc.ID)
	return doc.Entity, nil
}

func (r *GenericRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "inserted_at", Value: 1}}))
	if err != nil {
		return nil, classify("find all", err)
	}
	defer cur.Close(ctx)

	entities := make([]T, 0)
	for cur.Next(ctx) {
		var doc envelope[T]
		if err := cur.Decode(&doc); err != nil {
			return nil, classify("decode entity", err)
		}
		doc.Entity.SetEntityID(doc.ID)
		entities = append(entities, doc.Entity)
	}
	if err := cur.Err(); err != nil {
		return nil, classify("iterate entities", err)
	}
	return entities, nil
}

func (r *GenericRepository[T]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		return r.updateOne(sc, entity)
	})
	if err != nil {
		return zero, err
	}
	return entity, nil
}

func (r *GenericRepository[T]) UpdateAll(ctx context.Context, entities []T) ([]T, error) {
	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		for _, e := range entities {
			if err := r.updateOne(sc, e); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// updateOne replaces the stored entity sub-document wholesale: last writer
// wins, no version check. The insertion timestamp is left untouched.
func (r *GenericRepository[T]) updateOne(sc mongo.SessionContext, entity T) error {
	res, err := r.coll.UpdateOne(sc,
		bson.M{"_id": entity.EntityID()},
		bson.M{"$set": bson.M{"entity": entity}},
	)
	if err != nil {
		return classify("update entity", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GenericRepository[T]) Delete(ctx context.Context, entity T) error {
	return r.DeleteByID(ctx, entity.EntityID())
}

func (r *GenericRepository[T]) DeleteByID(ctx context.Context, id string) error {
	return withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		// Resolve existence first so an absent id is a NotFound, not a
		// silently successful no-op delete.
		if err := r.coll.FindOne(sc, bson.M{"_id": id}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return domain.ErrNotFound
			}
			return classify("find entity", err)
		}
		if _, err := r.coll.DeleteOne(sc, bson.M{"_id": id}); err != nil {
			return classify("delete entity", err)
		}
		return nil
	})
}

// withTransaction runs fn inside a single session transaction. The session
// never escapes this call.
func withTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	sess, err := client.StartSession()
	if err != nil {
		return classify("start session", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// classify maps driver failures onto the domain taxonomy. Domain errors pass
// through untouched so transaction bodies can abort with them directly.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrStorage):
		return err
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrAlreadyExists
	default:
		return fmt.Errorf("%s: %v: %w", op, err, domain.ErrStorage)
	}
}
