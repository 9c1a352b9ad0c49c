package profile

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

const profilesCollection = "users"

type profileDoc struct {
	ID             string    `bson:"_id"`
	TelegramID     int64     `bson:"telegram_id"`
	Username       *string   `bson:"username,omitempty"`
	FirstName      string    `bson:"first_name"`
	LastName       *string   `bson:"last_name,omitempty"`
	PhotoURL       *string   `bson:"photo_url,omitempty"`
	About          *string   `bson:"about,omitempty"`
	Age            int       `bson:"age"`
	Gender         string    `bson:"gender"`
	Latitude       float64   `bson:"latitude"`
	Longitude      float64   `bson:"longitude"`
	Station        *string   `bson:"station,omitempty"`
	SearchRadiusKm *float64  `bson:"search_radius_km,omitempty"`
	PriceMin       *int64    `bson:"price_min,omitempty"`
	PriceMax       *int64    `bson:"price_max,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func toProfileDoc(p *models.UserProfile) *profileDoc {
	return &profileDoc{
		ID:             p.ID.String(),
		TelegramID:     p.TelegramID,
		Username:       p.Username,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		PhotoURL:       p.PhotoURL,
		About:          p.About,
		Age:            p.Age,
		Gender:         string(p.Gender),
		Latitude:       p.Latitude,
		Longitude:      p.Longitude,
		Station:        p.Station,
		SearchRadiusKm: p.SearchRadiusKm,
		PriceMin:       p.PriceMin,
		PriceMax:       p.PriceMax,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (d *profileDoc) toModel() (*models.UserProfile, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", d.ID, err)
	}
	return &models.UserProfile{
		ID:             id,
		TelegramID:     d.TelegramID,
		Username:       d.Username,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		PhotoURL:       d.PhotoURL,
		About:          d.About,
		Age:            d.Age,
		Gender:         models.Gender(d.Gender),
		Latitude:       d.Latitude,
		Longitude:      d.Longitude,
		Station:        d.Station,
		SearchRadiusKm: d.SearchRadiusKm,
		PriceMin:       d.PriceMin,
		PriceMax:       d.PriceMax,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

// mongoRepository implements Repository on a MongoDB collection
type mongoRepository struct {
	users *mongo.Collection
}

// NewMongoRepository prepares the users collection and its indexes
func NewMongoRepository(ctx context.Context, db *mongo.Database) (Repository, error) {
	users := db.Collection(profilesCollection)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "telegram_id", Value: 1}},
			Options: options.Index().SetName("telegram_id_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("created_at_id"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mongo ensure profile indexes: %w", err)
	}
	return &mongoRepository{users: users}, nil
}

func (r *mongoRepository) CreateProfile(ctx context.Context, p *models.UserProfile) error {
	if _, err := r.users.InsertOne(ctx, toProfileDoc(p)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrProfileExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *mongoRepository) findOne(ctx context.Context, filter bson.D) (*models.UserProfile, error) {
	var doc profileDoc
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return doc.toModel()
}

func (r *mongoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

func (r *mongoRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.UserProfile, error) {
	return r.findOne(ctx, bson.D{{Key: "telegram_id", Value: telegramID}})
}

func (r *mongoRepository) find(ctx context.Context, filter bson.D) ([]*models.UserProfile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []profileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	out := make([]*models.UserProfile, 0, len(docs))
	for i := range docs {
		p, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *mongoRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.UserProfile, error) {
	if len(ids) == 0 {
		return []*models.UserProfile{}, nil
	}
	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}
	return r.find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: strIDs}}}})
}

func (r *mongoRepository) ListProfiles(ctx context.Context) ([]*models.UserProfile, error) {
	return r.find(ctx, bson.D{})
}

func (r *mongoRepository) UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*models.UserProfile, error) {
	set := bson.D{}
	add := func(key string, value interface{}) {
		set = append(set, bson.E{Key: key, Value: value})
	}

	if req.Username != nil {
		add("username", *req.Username)
	}
	if req.FirstName != nil {
		add("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		add("last_name", *req.LastName)
	}
	if req.PhotoURL != nil {
		add("photo_url", *req.PhotoURL)
	}
	if req.About != nil {
		add("about", *req.About)
	}
	if req.Age != nil {
		add("age", *req.Age)
	}
	if req.Gender != nil {
		add("gender", *req.Gender)
	}
	if req.Latitude != nil {
		add("latitude", *req.Latitude)
	}
	if req.Longitude != nil {
		add("longitude", *req.Longitude)
	}
	if req.Station != nil {
		add("station", *req.Station)
	}
	if req.SearchRadiusKm != nil {
		add("search_radius_km", *req.SearchRadiusKm)
	}
	if req.PriceMin != nil {
		add("price_min", *req.PriceMin)
	}
	if req.PriceMax != nil {
		add("price_max", *req.PriceMax)
	}
	for key, clear := range req.clearedColumns() {
		if clear {
			add(key, nil)
		}
	}
	add("updated_at", time.Now().UTC())

	res, err := r.users.UpdateOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrProfileNotFound
	}
	return r.GetByID(ctx, id)
}
