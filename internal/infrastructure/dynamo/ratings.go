package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/donationswap/api/internal/domain"
)

// RatingRepo provides typed DynamoDB operations for the ratings table
// (PK: rated_user_id, SK: rater_user_id). Writes return the previous item so
// the caller can hand the (before, after) pair to the aggregate fold.
type RatingRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewRatingRepo(client *dynamodb.Client, tableName string) *RatingRepo {
	return &RatingRepo{client: client, tableName: tableName}
}

// Put writes a rating and returns the record it replaced, or nil on a fresh
// create.
func (r *RatingRepo) Put(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	item, err := attributevalue.MarshalMap(rating)
	if err != nil {
		return nil, fmt.Errorf("marshal rating: %w", err)
	}
	out, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:    aws.String(r.tableName),
		Item:         item,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, err
	}
	return unmarshalOldRating(out.Attributes)
}

// Delete removes a rating and returns the deleted record, or nil when there
// was nothing to delete.
func (r *RatingRepo) Delete(ctx context.Context, ratedUserID, raterUserID string) (*domain.Rating, error) {
	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(r.tableName),
		Key:          compositeKey("rated_user_id", ratedUserID, "rater_user_id", raterUserID),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, err
	}
	return unmarshalOldRating(out.Attributes)
}

func (r *RatingRepo) Get(ctx context.Context, ratedUserID, raterUserID string) (*domain.Rating, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("rated_user_id", ratedUserID, "rater_user_id", raterUserID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("rating not found: %w", domain.ErrNotFound)
	}
	var rating domain.Rating
	if err := attributevalue.UnmarshalMap(out.Item, &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

func unmarshalOldRating(attrs map[string]types.AttributeValue) (*domain.Rating, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	var before domain.Rating
	if err := attributevalue.UnmarshalMap(attrs, &before); err != nil {
		return nil, err
	}
	return &before, nil
}
