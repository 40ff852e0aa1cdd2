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

const bookingsCollection = "bookings"

type MongoBookingRepository struct {
	coll *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *MongoBookingRepository {
	return &MongoBookingRepository{coll: db.Collection(bookingsCollection)}
}

type mongoBooking struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ServiceID    string             `bson:"service_id"`
	ClientID     string             `bson:"client_id"`
	Date         time.Time          `bson:"date"`
	Status       string             `bson:"status"`
	Notes        string             `bson:"notes,omitempty"`
	Location     string             `bson:"location,omitempty"`
	ContactPhone string             `bson:"contact_phone,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (mb mongoBooking) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:           mb.ID.Hex(),
		ServiceID:    mb.ServiceID,
		ClientID:     mb.ClientID,
		Date:         mb.Date.UTC(),
		Status:       domain.BookingStatus(mb.Status),
		Notes:        mb.Notes,
		Location:     mb.Location,
		ContactPhone: mb.ContactPhone,
		CreatedAt:    mb.CreatedAt.UTC(),
	}
}

func (r *MongoBookingRepository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	doc := mongoBooking{
		ServiceID:    b.ServiceID,
		ClientID:     b.ClientID,
		Date:         b.Date,
		Status:       string(b.Status),
		Notes:        b.Notes,
		Location:     b.Location,
		ContactPhone: b.ContactPhone,
		CreatedAt:    b.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	created := *b
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *MongoBookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookingNotFound
	}

	var mb mongoBooking
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mb); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return mb.toDomain(), nil
}

func (r *MongoBookingRepository) List(ctx context.Context) ([]*domain.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoBookingRepository) ListByClient(ctx context.Context, clientID string) ([]*domain.Booking, error) {
	return r.find(ctx, bson.M{"client_id": clientID})
}

func (r *MongoBookingRepository) find(ctx context.Context, filter bson.M) ([]*domain.Booking, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cur.Close(ctx)

	var bookings []*domain.Booking
	for cur.Next(ctx) {
		var mb mongoBooking
		if err := cur.Decode(&mb); err != nil {
			return nil, fmt.Errorf("decode booking: %w", err)
		}
		bookings = append(bookings, mb.toDomain())
	}
	return bookings, cur.Err()
}

func patchSet(patch ports.BookingPatch) bson.M {
	set := bson.M{}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.ContactPhone != nil {
		set["contact_phone"] = *patch.ContactPhone
	}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	return set
}

// Patch applies only the non-nil fields; unmentioned fields keep their
// stored values.
func (r *MongoBookingRepository) Patch(ctx context.Context, id string, patch ports.BookingPatch) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookingNotFound
	}

	set := patchSet(patch)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mb mongoBooking
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, after).Decode(&mb); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("patch booking: %w", err)
	}
	return mb.toDomain(), nil
}

// PatchIfStatus is a compare-and-set: the update only applies while the
// booking still belongs to clientID and its status equals current. A miss on
// an existing booking means the status moved underneath the caller.
func (r *MongoBookingRepository) PatchIfStatus(ctx context.Context, id, clientID string, current domain.BookingStatus, patch ports.BookingPatch) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookingNotFound
	}

	filter := bson.M{"_id": oid, "client_id": clientID, "status": string(current)}
	set := patchSet(patch)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mb mongoBooking
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, after).Decode(&mb); err != nil {
		if err == mongo.ErrNoDocuments {
			// Distinguish a vanished booking from a concurrent transition.
			if _, findErr := r.FindByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, domain.ErrInvalidTransition
		}
		return nil, fmt.Errorf("patch booking: %w", err)
	}
	return mb.toDomain(), nil
}

func (r *MongoBookingRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBookingNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (r *MongoBookingRepository) DeleteByService(ctx context.Context, serviceID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"service_id": serviceID}); err != nil {
		return fmt.Errorf("delete bookings by service: %w", err)
	}
	return nil
}

func (r *MongoBookingRepository) DeleteByClient(ctx context.Context, clientID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"client_id": clientID}); err != nil {
		return fmt.Errorf("delete bookings by client: %w", err)
	}
	return nil
}
