package repository

import (
	"context"
	"errors"
	"fmt"

	"skylens/mediascope/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID string) (*model.User, error)
	Exists(ctx context.Context, userID string) (bool, error)
	UpdateLastLogin(ctx context.Context, userID, timestamp string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type userRepository struct {
	db    *dynamodb.Client
	table string
}

func NewUserRepository(db *dynamodb.Client, table string) UserRepository {
	return &userRepository{db: db, table: table}
}

func (r *userRepository) profileKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: UserPK(userID)},
		"sk": &types.AttributeValueMemberS{Value: profileSortKey},
	}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user profile: %w", err)
	}
	item["pk"] = &types.AttributeValueMemberS{Value: UserPK(user.UserID)}
	item["sk"] = &types.AttributeValueMemberS{Value: profileSortKey}

	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put user profile: %w", err)
	}

	return nil
}

func (r *userRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       r.profileKey(userID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	if len(out.Item) == 0 {
		return nil, ErrUserNotFound
	}

	var user model.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user profile: %w", err)
	}
	user.UserID = userID

	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := r.FindByID(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, userID, timestamp string) error {
	_, err := r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.table),
		Key:              r.profileKey(userID),
		UpdateExpression: aws.String("SET last_login = :login"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":login": &types.AttributeValueMemberS{Value: timestamp},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.table),
		Key:              r.profileKey(userID),
		UpdateExpression: aws.String("SET password_hash = :hash"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":hash": &types.AttributeValueMemberS{Value: passwordHash},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
