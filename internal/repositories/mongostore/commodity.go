package mongostore

import (
	"context"
	"regexp"
	"strings"
	"time"

	"storehouse/internal/models"
	"storehouse/internal/repositories"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type commodityDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Price       float64   `bson:"price"`
	CategoryID  string    `bson:"category_id"`
	UnitID      string    `bson:"unit_id"`
	CreateAt    time.Time `bson:"create_at"`
	UpdateAt    time.Time `bson:"update_at"`
	Deleted     bool      `bson:"deleted"`
}

func (d *commodityDocument) model() (*models.Commodity, error) {
	id, err := parseID("commodity", d.ID)
	if err != nil {
		return nil, err
	}
	categoryID, err := parseID("commodity", d.CategoryID)
	if err != nil {
		return nil, err
	}
	unitID, err := parseID("commodity", d.UnitID)
	if err != nil {
		return nil, err
	}
	return &models.Commodity{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		CategoryID:  categoryID,
		UnitID:      unitID,
		CreatedAt:   d.CreateAt,
		UpdatedAt:   d.UpdateAt,
		Deleted:     d.Deleted,
	}, nil
}

type commodityRepo struct {
	store *Store
}

// Commodities returns the commodity repository backed by this store
func (s *Store) Commodities() repositories.CommodityRepository {
	return &commodityRepo{store: s}
}

func (r *commodityRepo) coll() *mongo.Collection {
	return r.store.db.Collection(commodityCollection)
}

func (r *commodityRepo) Create(ctx context.Context, commodity *models.Commodity) error {
	ts := now()
	doc := &commodityDocument{
		ID:          commodity.ID.String(),
		Name:        commodity.Name,
		Description: commodity.Description,
		Price:       commodity.Price,
		CategoryID:  commodity.CategoryID.String(),
		UnitID:      commodity.UnitID.String(),
		CreateAt:    ts,
		UpdateAt:    ts,
	}
	if _, err := r.coll().InsertOne(ctx, doc); err != nil {
		return classify("commodity", "create commodity", err)
	}
	commodity.CreatedAt, commodity.UpdatedAt = ts, ts
	return nil
}

func (r *commodityRepo) findOne(ctx context.Context, filter bson.M) (*models.Commodity, error) {
	doc := &commodityDocument{}
	if err := r.coll().FindOne(ctx, filter).Decode(doc); err != nil {
		return nil, classify("commodity", "get commodity", err)
	}
	return doc.model()
}

func (r *commodityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Commodity, error) {
	return r.findOne(ctx, activeByID(id.String()))
}

func (r *commodityRepo) GetByName(ctx context.Context, name string) (*models.Commodity, error) {
	return r.findOne(ctx, bson.M{"name": name, "deleted": false})
}

func (r *commodityRepo) Update(ctx context.Context, commodity *models.Commodity) error {
	set := bson.M{"$set": bson.M{
		"name":        commodity.Name,
		"description": commodity.Description,
		"price":       commodity.Price,
		"category_id": commodity.CategoryID.String(),
		"unit_id":     commodity.UnitID.String(),
		"update_at":   now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	doc := &commodityDocument{}
	if err := r.coll().FindOneAndUpdate(ctx, activeByID(commodity.ID.String()), set, opts).Decode(doc); err != nil {
		return classify("commodity", "update commodity", err)
	}
	commodity.UpdatedAt = doc.UpdateAt
	return nil
}

func (r *commodityRepo) List(ctx context.Context, filter *models.CommodityFilter) ([]*models.Commodity, error) {
	query := bson.M{"deleted": false}
	if filter.CategoryID != nil {
		query["category_id"] = filter.CategoryID.String()
	}
	if filter.UnitID != nil {
		query["unit_id"] = filter.UnitID.String()
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}
	}
	return r.find(ctx, query, page(filter.Limit, filter.Offset))
}

func (r *commodityRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Commodity, error) {
	if len(ids) == 0 {
		return []*models.Commodity{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": idKeys(ids)}})
}

func (r *commodityRepo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*models.Commodity, error) {
	cursor, err := r.coll().Find(ctx, filter, opts...)
	if err != nil {
		return nil, classify("commodity", "list commodities", err)
	}
	docs := []*commodityDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classify("commodity", "list commodities", err)
	}

	out := make([]*models.Commodity, 0, len(docs))
	for _, doc := range docs {
		commodity, err := doc.model()
		if err != nil {
			return nil, err
		}
		out = append(out, commodity)
	}
	return out, nil
}

func (r *commodityRepo) ExistsActiveByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	exists, err := r.store.hasActiveDependent(ctx, dependent{collection: commodityCollection, field: "category_id"}, categoryID.String())
	if err != nil {
		return false, classify("commodity", "check commodities by category", err)
	}
	return exists, nil
}

func (r *commodityRepo) ExistsActiveByUnit(ctx context.Context, unitID uuid.UUID) (bool, error) {
	exists, err := r.store.hasActiveDependent(ctx, dependent{collection: commodityCollection, field: "unit_id"}, unitID.String())
	if err != nil {
		return false, classify("commodity", "check commodities by unit", err)
	}
	return exists, nil
}

func (r *commodityRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.store.softDelete(ctx, "commodity", commodityCollection,
		&dependent{collection: orderCommodityCollection, field: "commodity_id"}, id)
}
