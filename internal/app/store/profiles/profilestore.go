// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/sprinthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateProfile = errors.New("this user already has a profile")
	ErrDuplicateEmail   = errors.New("a profile with this email already exists")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_profiles")}
}

// Create inserts a profile for a user. One profile per user and one
// user per email (unique indexes).
func (s *Store) Create(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.FullNameCI = text.Fold(p.FullName)
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, p)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.UserProfile{}, ErrDuplicateProfile
		}
		return models.UserProfile{}, err
	}
	return p, nil
}

// GetByUserID returns the profile owned by the given user.
func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (models.UserProfile, error) {
	var p models.UserProfile
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		return models.UserProfile{}, err
	}
	return p, nil
}

// UpdateInfo changes the contact fields of a profile. Empty strings
// leave the field untouched except Phone, which can be cleared.
func (s *Store) UpdateInfo(ctx context.Context, userID primitive.ObjectID, fullName, email, phone string) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if fullName != "" {
		set["full_name"] = fullName
		set["full_name_ci"] = text.Fold(fullName)
	}
	if email != "" {
		set["email"] = email
	}
	set["phone"] = phone
	_, err := s.c.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}
