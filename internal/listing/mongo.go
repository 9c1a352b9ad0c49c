package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/imadgeboyega/roommate-finder/internal/models"
)

const listingsCollection = "properties"

type listingDoc struct {
	ID           string    `bson:"_id"`
	Latitude     float64   `bson:"latitude"`
	Longitude    float64   `bson:"longitude"`
	Price        int64     `bson:"price"`
	Title        string    `bson:"title"`
	Description  *string   `bson:"description,omitempty"`
	Address      string    `bson:"address"`
	Station      *string   `bson:"station,omitempty"`
	Rooms        int       `bson:"rooms"`
	AreaM2       float64   `bson:"area_m2"`
	Floor        *int      `bson:"floor,omitempty"`
	TotalFloors  *int      `bson:"total_floors,omitempty"`
	PropertyType string    `bson:"property_type"`
	Photos       []string  `bson:"photos"`
	Amenities    []string  `bson:"amenities"`
	IsActive     bool      `bson:"is_active"`
	CreatedAt    time.Time `bson:"created_at"`
}

func toListingDoc(l *models.Listing) *listingDoc {
	return &listingDoc{
		ID:           l.ID.String(),
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		Price:        l.Price,
		Title:        l.Title,
		Description:  l.Description,
		Address:      l.Address,
		Station:      l.Station,
		Rooms:        l.Rooms,
		AreaM2:       l.AreaM2,
		Floor:        l.Floor,
		TotalFloors:  l.TotalFloors,
		PropertyType: l.PropertyType,
		Photos:       l.Photos,
		Amenities:    l.Amenities,
		IsActive:     l.IsActive,
		CreatedAt:    l.CreatedAt,
	}
}

func (d *listingDoc) toModel() (*models.Listing, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", d.ID, err)
	}
	return &models.Listing{
		ID:           id,
		Latitude:     d.Latitude,
		Longitude:    d.Longitude,
		Price:        d.Price,
		Title:        d.Title,
		Description:  d.Description,
		Address:      d.Address,
		Station:      d.Station,
		Rooms:        d.Rooms,
		AreaM2:       d.AreaM2,
		Floor:        d.Floor,
		TotalFloors:  d.TotalFloors,
		PropertyType: d.PropertyType,
		Photos:       d.Photos,
		Amenities:    d.Amenities,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
	}, nil
}

type mongoRepository struct {
	listings *mongo.Collection
}

// NewMongoRepository prepares the properties collection and its indexes
func NewMongoRepository(ctx context.Context, db *mongo.Database) (Repository, error) {
	coll := db.Collection(listingsCollection)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("active_created"),
		},
		{
			Keys:    bson.D{{Key: "station", Value: 1}},
			Options: options.Index().SetName("station"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mongo ensure listing indexes: %w", err)
	}
	return &mongoRepository{listings: coll}, nil
}

func (r *mongoRepository) CreateListing(ctx context.Context, l *models.Listing) error {
	if _, err := r.listings.InsertOne(ctx, toListingDoc(l)); err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var doc listingDoc
	err := r.listings.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return doc.toModel()
}

func (r *mongoRepository) find(ctx context.Context, filter bson.D, limit int) ([]*models.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.listings.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find listings: %w", err)
	}
	defer cur.Close(ctx)

	var docs []listingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}

	out := make([]*models.Listing, 0, len(docs))
	for i := range docs {
		l, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *mongoRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Listing, error) {
	if len(ids) == 0 {
		return []*models.Listing{}, nil
	}
	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}
	return r.find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: strIDs}}}}, 0)
}

func (r *mongoRepository) ListListings(ctx context.Context, c Criteria) ([]*models.Listing, error) {
	filter := bson.D{}
	if c.ActiveOnly {
		filter = append(filter, bson.E{Key: "is_active", Value: true})
	}
	return r.find(ctx, filter, c.Limit)
}
