package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/locallink/booking-api/internal/core/domain"
	"github.com/locallink/booking-api/internal/core/ports"
)

const servicesCollection = "services"

type MongoServiceRepository struct {
	coll *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *MongoServiceRepository {
	return &MongoServiceRepository{coll: db.Collection(servicesCollection)}
}

type mongoService struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Price       float64            `bson:"price"`
	ImageURL    string             `bson:"image_url,omitempty"`
	ProviderID  string             `bson:"provider_id"`
	CategoryID  string             `bson:"category_id"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (ms mongoService) toDomain() *domain.Service {
	return &domain.Service{
		ID:          ms.ID.Hex(),
		Title:       ms.Title,
		Description: ms.Description,
		Price:       ms.Price,
		ImageURL:    ms.ImageURL,
		ProviderID:  ms.ProviderID,
		CategoryID:  ms.CategoryID,
		CreatedAt:   ms.CreatedAt.UTC(),
	}
}

func (r *MongoServiceRepository) Create(ctx context.Context, svc *domain.Service) (*domain.Service, error) {
	doc := mongoService{
		Title:       svc.Title,
		Description: svc.Description,
		Price:       svc.Price,
		ImageURL:    svc.ImageURL,
		ProviderID:  svc.ProviderID,
		CategoryID:  svc.CategoryID,
		CreatedAt:   time.Now().UTC(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert service: %w", err)
	}

	created := *svc
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.CreatedAt = doc.CreatedAt
	return &created, nil
}

func (r *MongoServiceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrServiceNotFound
	}

	var ms mongoService
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	return ms.toDomain(), nil
}

func (r *MongoServiceRepository) List(ctx context.Context) ([]*domain.Service, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoServiceRepository) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Service, error) {
	return r.find(ctx, bson.M{"category_id": categoryID})
}

func (r *MongoServiceRepository) ListByProvider(ctx context.Context, providerID string) ([]*domain.Service, error) {
	return r.find(ctx, bson.M{"provider_id": providerID})
}

func (r *MongoServiceRepository) find(ctx context.Context, filter bson.M) ([]*domain.Service, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer cur.Close(ctx)

	var svcs []*domain.Service
	for cur.Next(ctx) {
		var ms mongoService
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode service: %w", err)
		}
		svcs = append(svcs, ms.toDomain())
	}
	return svcs, cur.Err()
}

// Patch applies only the non-nil fields; unmentioned fields keep their
// stored values.
func (r *MongoServiceRepository) Patch(ctx context.Context, id string, patch ports.ServicePatch) (*domain.Service, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrServiceNotFound
	}

	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.ImageURL != nil {
		set["image_url"] = *patch.ImageURL
	}
	if patch.CategoryID != nil {
		set["category_id"] = *patch.CategoryID
	}
	if patch.ProviderID != nil {
		set["provider_id"] = *patch.ProviderID
	}
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ms mongoService
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, after).Decode(&ms); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("patch service: %w", err)
	}
	return ms.toDomain(), nil
}

func (r *MongoServiceRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrServiceNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

func (r *MongoServiceRepository) DeleteByCategory(ctx context.Context, categoryID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"category_id": categoryID}); err != nil {
		return fmt.Errorf("delete services by category: %w", err)
	}
	return nil
}

func (r *MongoServiceRepository) DeleteByProvider(ctx context.Context, providerID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"provider_id": providerID}); err != nil {
		return fmt.Errorf("delete services by provider: %w", err)
	}
	return nil
}
