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

// namedDocument is the shape shared by categories, units and orders
type namedDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	CreateAt    time.Time `bson:"create_at"`
	UpdateAt    time.Time `bson:"update_at"`
	Deleted     bool      `bson:"deleted"`
}

// namedCollection holds the CRUD logic for the three id/name/description collections
type namedCollection struct {
	store      *Store
	resource   string
	collection string
	dependent  *dependent
}

func (c *namedCollection) coll() *mongo.Collection {
	return c.store.db.Collection(c.collection)
}

func (c *namedCollection) create(ctx context.Context, id uuid.UUID, name, description string) (*namedDocument, error) {
	ts := now()
	doc := &namedDocument{
		ID:          id.String(),
		Name:        name,
		Description: description,
		CreateAt:    ts,
		UpdateAt:    ts,
	}
	if _, err := c.coll().InsertOne(ctx, doc); err != nil {
		return nil, classify(c.resource, "create "+c.resource, err)
	}
	return doc, nil
}

func (c *namedCollection) findOne(ctx context.Context, filter bson.M) (*namedDocument, error) {
	doc := &namedDocument{}
	if err := c.coll().FindOne(ctx, filter).Decode(doc); err != nil {
		return nil, classify(c.resource, "get "+c.resource, err)
	}
	return doc, nil
}

func (c *namedCollection) update(ctx context.Context, id uuid.UUID, name, description string) (*namedDocument, error) {
	set := bson.M{"$set": bson.M{"name": name, "description": description, "update_at": now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	doc := &namedDocument{}
	err := c.coll().FindOneAndUpdate(ctx, activeByID(id.String()), set, opts).Decode(doc)
	if err != nil {
		return nil, classify(c.resource, "update "+c.resource, err)
	}
	return doc, nil
}

func (c *namedCollection) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*namedDocument, error) {
	cursor, err := c.coll().Find(ctx, filter, opts...)
	if err != nil {
		return nil, classify(c.resource, "list "+c.resource, err)
	}
	docs := []*namedDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, classify(c.resource, "list "+c.resource, err)
	}
	return docs, nil
}

func (c *namedCollection) softDelete(ctx context.Context, id uuid.UUID) error {
	return c.store.softDelete(ctx, c.resource, c.collection, c.dependent, id)
}

type categoryRepo struct{ named *namedCollection }

// Categories returns the category repository backed by this store
func (s *Store) Categories() repositories.CategoryRepository {
	return &categoryRepo{named: &namedCollection{
		store:      s,
		resource:   "category",
		collection: categoryCollection,
		dependent:  &dependent{collection: commodityCollection, field: "category_id"},
	}}
}

func toCategory(doc *namedDocument) (*models.Category, error) {
	id, err := parseID("category", doc.ID)
	if err != nil {
		return nil, err
	}
	return &models.Category{
		ID:          id,
		Name:        doc.Name,
		Description: doc.Description,
		CreatedAt:   doc.CreateAt,
		UpdatedAt:   doc.UpdateAt,
		Deleted:     doc.Deleted,
	}, nil
}

func toCategories(docs []*namedDocument) ([]*models.Category, error) {
	out := make([]*models.Category, 0, len(docs))
	for _, doc := range docs {
		category, err := toCategory(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, category)
	}
	return out, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	doc, err := r.named.create(ctx, category.ID, category.Name, category.Description)
	if err != nil {
		return err
	}
	category.CreatedAt, category.UpdatedAt = doc.CreateAt, doc.UpdateAt
	return nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	doc, err := r.named.findOne(ctx, activeByID(id.String()))
	if err != nil {
		return nil, err
	}
	return toCategory(doc)
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	doc, err := r.named.findOne(ctx, bson.M{"name": name, "deleted": false})
	if err != nil {
		return nil, err
	}
	return toCategory(doc)
}

func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	doc, err := r.named.update(ctx, category.ID, category.Name, category.Description)
	if err != nil {
		return err
	}
	category.UpdatedAt = doc.UpdateAt
	return nil
}

func (r *categoryRepo) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	docs, err := r.named.find(ctx, bson.M{"deleted": false}, page(limit, offset))
	if err != nil {
		return nil, err
	}
	return toCategories(docs)
}

func (r *categoryRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Category, error) {
	if len(ids) == 0 {
		return []*models.Category{}, nil
	}
	docs, err := r.named.find(ctx, bson.M{"_id": bson.M{"$in": idKeys(ids)}})
	if err != nil {
		return nil, err
	}
	return toCategories(docs)
}

func (r *categoryRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.named.softDelete(ctx, id)
}

type unitRepo struct{ named *namedCollection }

// Units returns the unit repository backed by this store
func (s *Store) Units() repositories.UnitRepository {
	return &unitRepo{named: &namedCollection{
		store:      s,
		resource:   "unit",
		collection: unitCollection,
		dependent:  &dependent{collection: commodityCollection, field: "unit_id"},
	}}
}

func toUnit(doc *namedDocument) (*models.Unit, error) {
	id, err := parseID("unit", doc.ID)
	if err != nil {
		return nil, err
	}
	return &models.Unit{
		ID:          id,
		Name:        doc.Name,
		Description: doc.Description,
		CreatedAt:   doc.CreateAt,
		UpdatedAt:   doc.UpdateAt,
		Deleted:     doc.Deleted,
	}, nil
}

func toUnits(docs []*namedDocument) ([]*models.Unit, error) {
	out := make([]*models.Unit, 0, len(docs))
	for _, doc := range docs {
		unit, err := toUnit(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, unit)
	}
	return out, nil
}

func (r *unitRepo) Create(ctx context.Context, unit *models.Unit) error {
	doc, err := r.named.create(ctx, unit.ID, unit.Name, unit.Description)
	if err != nil {
		return err
	}
	unit.CreatedAt, unit.UpdatedAt = doc.CreateAt, doc.UpdateAt
	return nil
}

func (r *unitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	doc, err := r.named.findOne(ctx, activeByID(id.String()))
	if err != nil {
		return nil, err
	}
	return toUnit(doc)
}

func (r *unitRepo) GetByName(ctx context.Context, name string) (*models.Unit, error) {
	doc, err := r.named.findOne(ctx, bson.M{"name": name, "deleted": false})
	if err != nil {
		return nil, err
	}
	return toUnit(doc)
}

func (r *unitRepo) Update(ctx context.Context, unit *models.Unit) error {
	doc, err := r.named.update(ctx, unit.ID, unit.Name, unit.Description)
	if err != nil {
		return err
	}
	unit.UpdatedAt = doc.UpdateAt
	return nil
}

func (r *unitRepo) List(ctx context.Context, limit, offset int) ([]*models.Unit, error) {
	docs, err := r.named.find(ctx, bson.M{"deleted": false}, page(limit, offset))
	if err != nil {
		return nil, err
	}
	return toUnits(docs)
}

func (r *unitRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Unit, error) {
	if len(ids) == 0 {
		return []*models.Unit{}, nil
	}
	docs, err := r.named.find(ctx, bson.M{"_id": bson.M{"$in": idKeys(ids)}})
	if err != nil {
		return nil, err
	}
	return toUnits(docs)
}

func (r *unitRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.named.softDelete(ctx, id)
}

type orderRepo struct{ named *namedCollection }

// Orders returns the order repository backed by this store
func (s *Store) Orders() repositories.OrderRepository {
	return &orderRepo{named: &namedCollection{
		store:      s,
		resource:   "order",
		collection: orderCollection,
		dependent:  &dependent{collection: orderCommodityCollection, field: "order_id"},
	}}
}

func toOrder(doc *namedDocument) (*models.Order, error) {
	id, err := parseID("order", doc.ID)
	if err != nil {
		return nil, err
	}
	return &models.Order{
		ID:          id,
		Name:        doc.Name,
		Description: doc.Description,
		CreatedAt:   doc.CreateAt,
		UpdatedAt:   doc.UpdateAt,
		Deleted:     doc.Deleted,
	}, nil
}

func toOrders(docs []*namedDocument) ([]*models.Order, error) {
	out := make([]*models.Order, 0, len(docs))
	for _, doc := range docs {
		order, err := toOrder(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	return out, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	doc, err := r.named.create(ctx, order.ID, order.Name, order.Description)
	if err != nil {
		return err
	}
	order.CreatedAt, order.UpdatedAt = doc.CreateAt, doc.UpdateAt
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	doc, err := r.named.findOne(ctx, activeByID(id.String()))
	if err != nil {
		return nil, err
	}
	return toOrder(doc)
}

func (r *orderRepo) GetByName(ctx context.Context, name string) (*models.Order, error) {
	doc, err := r.named.findOne(ctx, bson.M{"name": name, "deleted": false})
	if err != nil {
		return nil, err
	}
	return toOrder(doc)
}

func (r *orderRepo) Update(ctx context.Context, order *models.Order) error {
	doc, err := r.named.update(ctx, order.ID, order.Name, order.Description)
	if err != nil {
		return err
	}
	order.UpdatedAt = doc.UpdateAt
	return nil
}

// List returns active orders, newest first like the PostgreSQL store
func (r *orderRepo) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "create_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	docs, err := r.named.find(ctx, bson.M{"deleted": false}, opts)
	if err != nil {
		return nil, err
	}
	return toOrders(docs)
}

func (r *orderRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Order, error) {
	if len(ids) == 0 {
		return []*models.Order{}, nil
	}
	docs, err := r.named.find(ctx, bson.M{"_id": bson.M{"$in": idKeys(ids)}})
	if err != nil {
		return nil, err
	}
	return toOrders(docs)
}

func (r *orderRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.named.softDelete(ctx, id)
}
