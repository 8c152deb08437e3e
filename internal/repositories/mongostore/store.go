// Package mongostore implements the repositories on MongoDB. It keeps the
// legacy collection and timestamp names (category, unit, commodity, order,
// order_commodity with create_at/update_at/deleted fields), but documents
// carry UUID string ids and a description field, so rows written with
// ObjectId ids or a desc field are not readable here.
//
// Soft deletes here check dependents and then flip the flag in two steps, so a
// dependent inserted between the two can slip through. The PostgreSQL store
// does both in one statement and has no such window.
package mongostore

import (
	"context"
	"time"

	"storehouse/internal/common"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	categoryCollection       = "category"
	unitCollection           = "unit"
	commodityCollection      = "commodity"
	orderCollection          = "order"
	orderCommodityCollection = "order_commodity"
)

// Store owns the client and the database handle
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri and pings the server before returning
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(20)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "mongostore: connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "mongostore: ping")
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the partial unique indexes that keep names unique
// among active documents, plus the lookup indexes used by dependent checks.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	activeOnly := bson.D{{Key: "deleted", Value: false}}
	uniqueActive := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(activeOnly),
		}
	}

	plan := map[string][]mongo.IndexModel{
		categoryCollection: {uniqueActive(bson.D{{Key: "name", Value: 1}})},
		unitCollection:     {uniqueActive(bson.D{{Key: "name", Value: 1}})},
		orderCollection:    {uniqueActive(bson.D{{Key: "name", Value: 1}})},
		commodityCollection: {
			uniqueActive(bson.D{{Key: "name", Value: 1}}),
			{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "deleted", Value: 1}}},
			{Keys: bson.D{{Key: "unit_id", Value: 1}, {Key: "deleted", Value: 1}}},
		},
		orderCommodityCollection: {
			uniqueActive(bson.D{{Key: "order_id", Value: 1}, {Key: "commodity_id", Value: 1}}),
			{Keys: bson.D{{Key: "commodity_id", Value: 1}, {Key: "deleted", Value: 1}}},
		},
	}

	for name, indexes := range plan {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return errors.Wrapf(err, "mongostore: create indexes on %s", name)
		}
	}
	return nil
}

// classify maps driver errors onto the domain taxonomy
func classify(resource, operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return common.NotFoundError(resource)
	}
	if mongo.IsDuplicateKeyError(err) {
		return common.ConflictError("%s already exists", resource)
	}
	return common.StorageError(operation, errors.Wrap(err, resource))
}

// dependent names a collection field that references another document
type dependent struct {
	collection string
	field      string
}

func (s *Store) hasActiveDependent(ctx context.Context, dep dependent, id string) (bool, error) {
	filter := bson.M{dep.field: id, "deleted": false}
	n, err := s.db.Collection(dep.collection).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// softDelete checks dep (when set) and then marks the document deleted
func (s *Store) softDelete(ctx context.Context, resource, collection string, dep *dependent, id uuid.UUID) error {
	key := id.String()
	if dep != nil {
		referenced, err := s.hasActiveDependent(ctx, *dep, key)
		if err != nil {
			return classify(resource, "delete "+resource, err)
		}
		if referenced {
			active, err := s.db.Collection(collection).CountDocuments(ctx, activeByID(key), options.Count().SetLimit(1))
			if err != nil {
				return classify(resource, "delete "+resource, err)
			}
			if active == 0 {
				return common.NotFoundError(resource)
			}
			return common.ConflictError("%s is still referenced by active %s, cannot delete", resource, dep.collection)
		}
	}

	res, err := s.db.Collection(collection).UpdateOne(ctx, activeByID(key),
		bson.M{"$set": bson.M{"deleted": true, "update_at": now()}})
	if err != nil {
		return classify(resource, "delete "+resource, err)
	}
	if res.MatchedCount == 0 {
		return common.NotFoundError(resource)
	}
	return nil
}

func activeByID(id string) bson.M {
	return bson.M{"_id": id, "deleted": false}
}

func idKeys(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func page(limit, offset int) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "create_at", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
}

// now is truncated to the millisecond precision BSON dates keep
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func parseID(resource, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, common.StorageError("decode "+resource, errors.Wrapf(err, "bad id %q", raw))
	}
	return id, nil
}
