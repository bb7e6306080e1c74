package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/donationswap/api/internal/domain"
)

// maxFoldAttempts bounds the optimistic retry of the rating aggregate fold.
// Mirrors the conflict-retry budget a document store's native transaction
// runner would apply before surfacing the abort.
const maxFoldAttempts = 5

// UserRepo provides typed DynamoDB operations for the users table.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

func (r *UserRepo) Put(ctx context.Context, u *domain.User) error {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user via the email GSI. Email must already be
// normalized by the caller.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("email-index"),
		KeyConditionExpression:    aws.String("#e = :v"),
		ExpressionAttributeNames:  map[string]string{"#e": fieldEmail},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("user_id", userID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// SetPasswordHash overwrites the stored credential for an account.
func (r *UserRepo) SetPasswordHash(ctx context.Context, userID, hash string) error {
	return r.Update(ctx, userID, map[string]interface{}{fieldPasswordHash: hash})
}

// ApplyRatingDelta folds a rating delta into the user's aggregate with an
// optimistic read-modify-write: read (count, sum, version) with a consistent
// read, fold, then write all three derived fields conditioned on the version
// still matching. A concurrent fold bumps the version, fails the condition
// and triggers a re-read. Callers never retry; the conflict loop lives here.
func (r *UserRepo) ApplyRatingDelta(ctx context.Context, userID string, d domain.RatingDelta) error {
	for attempt := 0; attempt < maxFoldAttempts; attempt++ {
		snap, err := r.readAggregate(ctx, userID)
		if err != nil {
			return err
		}

		count, sum, avg := domain.FoldAggregate(snap.Count, snap.Sum, d)

		ue, err := buildUpdateExpr(map[string]interface{}{
			"rating_count":      count,
			"rating_sum":        sum,
			"rating_avg":        avg,
			"aggregate_version": snap.Version + 1,
		})
		if err != nil {
			return err
		}

		input := &dynamodb.UpdateItemInput{
			TableName:                 aws.String(r.tableName),
			Key:                       strKey("user_id", userID),
			UpdateExpression:          aws.String(ue.Expr),
			ExpressionAttributeNames:  ue.Names,
			ExpressionAttributeValues: ue.Values,
		}
		if snap.Exists {
			input.ConditionExpression = aws.String("aggregate_version = :ver")
			input.ExpressionAttributeValues[":ver"] = &types.AttributeValueMemberN{
				Value: strconv.FormatInt(snap.Version, 10),
			}
		} else {
			input.ConditionExpression = aws.String("attribute_not_exists(aggregate_version)")
		}

		_, err = r.client.UpdateItem(ctx, input)
		if err == nil {
			return nil
		}
		if !isConditionalCheckFailed(err) {
			return err
		}
		// Lost the race to a concurrent fold; re-read and try again.
	}
	return fmt.Errorf("rating aggregate fold for user %s kept conflicting: %w", userID, domain.ErrConflict)
}

type aggregateSnapshot struct {
	Count   int64
	Sum     float64
	Version int64
	Exists  bool
}

// readAggregate reads the current aggregate fields, defaulting absent
// attributes (and an absent item) to zero.
func (r *UserRepo) readAggregate(ctx context.Context, userID string) (aggregateSnapshot, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.tableName),
		Key:                  strKey("user_id", userID),
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String("rating_count, rating_sum, aggregate_version"),
	})
	if err != nil {
		return aggregateSnapshot{}, err
	}
	if out.Item == nil {
		return aggregateSnapshot{}, nil
	}
	var snap struct {
		Count   int64   `dynamodbav:"rating_count"`
		Sum     float64 `dynamodbav:"rating_sum"`
		Version int64   `dynamodbav:"aggregate_version"`
	}
	if err := attributevalue.UnmarshalMap(out.Item, &snap); err != nil {
		return aggregateSnapshot{}, err
	}
	_, hasVersion := out.Item["aggregate_version"]
	return aggregateSnapshot{Count: snap.Count, Sum: snap.Sum, Version: snap.Version, Exists: hasVersion}, nil
}
