package mongostore

import (
	"context"
	"time"

	"storehouse/internal/models"
	"storehouse/internal/repositories"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderCommodityDocument struct {
	ID          string    `bson:"_id"`
	OrderID     string    `bson:"order_id"`
	CommodityID string    `bson:"commodity_id"`
	Count       float64   `bson:"count"`
	Price       float64   `bson:"price"`
	Description string    `bson:"description"`
	CreateAt    time.Time `bson:"create_at"`
	UpdateAt    time.Time `bson:"update_at"`
	Deleted     bool      `bson:"deleted"`
}

func (d *orderCommodityDocument) model() (*models.OrderCommodity, error) {
	id, err := parseID("order commodity", d.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := parseID("order commodity", d.OrderID)
	if err != nil {
		return nil, err
	}
	commodityID, err := parseID("order commodity", d.CommodityID)
	if err != nil {
		return nil, err
	}
	return &models.OrderCommodity{
		ID:          id,
		OrderID:     orderID,
		CommodityID: commodityID,
		Count:       d.Count,
		Price:       d.Price,
		Description: d.Description,
		CreatedAt:   d.CreateAt,
		UpdatedAt:   d.UpdateAt,
		Deleted:     d.Deleted,
	}, nil
}

type orderCommodityRepo struct {
	store *Store
}

// OrderCommodities returns the order line repository backed by this store
func (s *Store) OrderCommodities() repositories.OrderCommodityRepository {
	return &orderCommodityRepo{store: s}
}

func (r *orderCommodityRepo) coll() *mongo.Collection {
	return r.store.db.Collection(orderCommodityCollection)
}

func (r *orderCommodityRepo) Create(ctx context.Context, line *models.OrderCommodity) error {
	ts := now()
	doc := &orderCommodityDocument{
		ID:          line.ID.String(),
		OrderID:     line.OrderID.String(),
		CommodityID: line.CommodityID.String(),
		Count:       line.Count,
		Price:       line.Price,
		Description: line.Description,
		CreateAt:    ts,
		UpdateAt:    ts,
	}
	if _, err := r.coll().InsertOne(ctx, doc); err != nil {
		return classify("order commodity", "create order commodity", err)
	}
	line.CreatedAt, line.UpdatedAt = ts, ts
	return nil
}

func (r *orderCommodityRepo) findOne(ctx context.Context, filter bson.M) (*models.OrderCommodity, error) {
	doc := &orderCommodityDocument{}
	if err := r.coll().FindOne(ctx, filter).Decode(doc); err != nil {
		return nil, classify("order commodity", "get order commodity", err)
	}
	return doc.model()
}

func (r *orderCommodityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderCommodity, error) {
	return r.findOne(ctx, activeByID(id.String()))
}

func (r *orderCommodityRepo) GetByOrderAndCommodity(ctx context.Context, orderID, commodityID uuid.UUID) (*models.OrderCommodity, error) {
	return r.findOne(ctx, bson.M{
		"order_id":     orderID.String(),
		"commodity_id": commodityID.String(),
		"deleted":      false,
	})
}

func (r *orderCommodityRepo) Update(ctx context.Context, line *models.OrderCommodity) error {
	set := bson.M{"$set": bson.M{
		"commodity_id": line.CommodityID.String(),
		"count":        line.Count,
		"price":        line.Price,
		"description":  line.Description,
		"update_at":    now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	doc := &orderCommodityDocument{}
	if err := r.coll().FindOneAndUpdate(ctx, activeByID(line.ID.String()), set, opts).Decode(doc); err != nil {
		return classify("order commodity", "update order commodity", err)
	}
	line.UpdatedAt = doc.UpdateAt
	return nil
}

func (r *orderCommodityRepo) List(ctx context.Context, filter *models.OrderCommodityFilter) ([]*models.OrderCommodity, error) {
	query := bson.M{"deleted": false}
	if filter.OrderID != nil {
		query["order_id"] = filter.OrderID.String()
	}
	if filter.CommodityID != nil {
		query["commodity_id"] = filter.CommodityID.String()
	}
	return r.find(ctx, query, page(filter.Limit, filter.Offset))
}

func (r *orderCommodityRepo) ListActiveByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderCommodity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "create_at", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"order_id": orderID.String(), "deleted": false}, opts)
}

func (r *orderCommodityRepo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*models.OrderCommodity, error) {
	cursor, err := r.coll().Find(ctx, filter, opts...)
	if err != nil {
		return nil, classify("order commodity", "list order commodities", err)
	}
	docs := []*orderCommodityDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classify("order commodity", "list order commodities", err)
	}

	out := make([]*models.OrderCommodity, 0, len(docs))
	for _, doc := range docs {
		line, err := doc.model()
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

func (r *orderCommodityRepo) ExistsActiveByOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	exists, err := r.store.hasActiveDependent(ctx, dependent{collection: orderCommodityCollection, field: "order_id"}, orderID.String())
	if err != nil {
		return false, classify("order commodity", "check order commodities by order", err)
	}
	return exists, nil
}

func (r *orderCommodityRepo) ExistsActiveByCommodity(ctx context.Context, commodityID uuid.UUID) (bool, error) {
	exists, err := r.store.hasActiveDependent(ctx, dependent{collection: orderCommodityCollection, field: "commodity_id"}, commodityID.String())
	if err != nil {
		return false, classify("order commodity", "check order commodities by commodity", err)
	}
	return exists, nil
}

func (r *orderCommodityRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.store.softDelete(ctx, "order commodity", orderCommodityCollection, nil, id)
}
