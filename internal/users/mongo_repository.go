package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/techlab/challenge-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// userDocument is the Mongo representation of a user. DeletedAt is null
// while the user is active.
type userDocument struct {
	ID        string     `bson:"_id"`
	Username  string     `bson:"username"`
	Email     string     `bson:"email"`
	Password  string     `bson:"password"`
	Profile   string     `bson:"profile"`
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt"`
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:        d.ID,
		Username:  d.Username,
		Email:     d.Email,
		Password:  d.Password,
		Profile:   models.Profile(d.Profile),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Posts:     []models.Post{},
		Comments:  []models.Comment{},
	}
}

// MongoRepository implements Repository using MongoDB collections
// "users", "posts" and "comments".
type MongoRepository struct {
	users    *mongo.Collection
	posts    *mongo.Collection
	comments *mongo.Collection
	now      func() time.Time
}

// NewMongoRepository creates a repository over the given database.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		users:    db.Collection("users"),
		posts:    db.Collection("posts"),
		comments: db.Collection("comments"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the unique indexes on username and email, limited to
// active users, plus lookup indexes on the attached collections.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	active := bson.M{"deletedAt": bson.M{"$type": "null"}}
	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetPartialFilterExpression(active)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetPartialFilterExpression(active)},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	for _, col := range []*mongo.Collection{r.posts, r.comments} {
		if _, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}); err != nil {
			return fmt.Errorf("%s indexes: %w", col.Name(), err)
		}
	}
	return nil
}

func activeFilter(extra bson.M) bson.M {
	extra["deletedAt"] = nil
	return extra
}

func (r *MongoRepository) FindActiveByID(ctx context.Context, id string) (*models.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, activeFilter(bson.M{"_id": id})).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by id %s: %w", id, err)
	}
	u := doc.toModel()

	posts, err := r.posts.Find(ctx, bson.M{"userId": id})
	if err != nil {
		return nil, fmt.Errorf("failed to load posts for user %s: %w", id, err)
	}
	if err := posts.All(ctx, &u.Posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts for user %s: %w", id, err)
	}

	comments, err := r.comments.Find(ctx, bson.M{"userId": id})
	if err != nil {
		return nil, fmt.Errorf("failed to load comments for user %s: %w", id, err)
	}
	if err := comments.All(ctx, &u.Comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments for user %s: %w", id, err)
	}
	return u, nil
}

func (r *MongoRepository) FindActiveByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	filter := activeFilter(bson.M{"$or": bson.A{
		bson.M{"username": identifier},
		bson.M{"email": identifier},
	}})
	cur, err := r.users.Find(ctx, filter, options.Find().SetLimit(2))
	if err != nil {
		return nil, fmt.Errorf("failed to find user by identifier: %w", err)
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	found := make([]models.User, 0, len(docs))
	for i := range docs {
		found = append(found, *docs[i].toModel())
	}
	return pickIdentifierMatch(found, identifier)
}

func (r *MongoRepository) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = r.now()
	set := bson.M{
		"username":  u.Username,
		"email":     u.Email,
		"password":  u.Password,
		"profile":   string(u.Profile),
		"updatedAt": u.UpdatedAt,
	}
	res, err := r.users.UpdateOne(ctx, activeFilter(bson.M{"_id": u.ID}), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user id %s: %w", u.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) SoftDelete(ctx context.Context, id string) error {
	now := r.now()
	res, err := r.users.UpdateOne(ctx, activeFilter(bson.M{"_id": id}), bson.M{"$set": bson.M{"deletedAt": now, "updatedAt": now}})
	if err != nil {
		return fmt.Errorf("failed to delete user id %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := r.now()
	u.CreatedAt = now
	u.UpdatedAt = now
	doc := userDocument{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		Profile:   string(u.Profile),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}
