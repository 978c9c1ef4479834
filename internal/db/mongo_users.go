package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wuwenbin0122/taskpad/internal/models"
)

func (m *Mongo) CreateUser(ctx context.Context, user *models.User) error {
	if err := user.CheckSecurityPair(); err != nil {
		return err
	}

	if _, err := m.Users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("mongo insert user: %w", err)
	}
	return nil
}

func (m *Mongo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findUser(ctx, bson.M{"email": email})
}

func (m *Mongo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return m.findUser(ctx, bson.M{"_id": id})
}

func (m *Mongo) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := m.Users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo query user: %w", err)
	}
	return &user, nil
}

func (m *Mongo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.updateUser(ctx, id, bson.M{"passwordHash": passwordHash})
}

func (m *Mongo) SetSecurityQuestion(ctx context.Context, id, question, answerHash string) error {
	if err := (models.User{SecurityQuestion: question, SecurityAnswerHash: answerHash}).CheckSecurityPair(); err != nil {
		return err
	}
	return m.updateUser(ctx, id, bson.M{
		"securityQuestion":   question,
		"securityAnswerHash": answerHash,
	})
}

func (m *Mongo) updateUser(ctx context.Context, id string, set bson.M) error {
	set["updatedAt"] = time.Now().UTC()

	result, err := m.Users.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("mongo update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) UpdatePreferences(ctx context.Context, id string, update models.PreferencesUpdate) (*models.Preferences, error) {
	if update.Empty() {
		user, err := m.FindUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &user.Preferences, nil
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.DefaultFilterStatus != nil {
		set["defaultFilterStatus"] = *update.DefaultFilterStatus
	}
	if update.DefaultFilterPriority != nil {
		set["defaultFilterPriority"] = *update.DefaultFilterPriority
	}
	if update.DefaultSortOption != nil {
		set["defaultSortOption"] = *update.DefaultSortOption
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	if err := m.Users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo update preferences: %w", err)
	}
	return &user.Preferences, nil
}
