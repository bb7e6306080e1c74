package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/donationswap/api/internal/domain"
)

// ResetTokenRepo provides typed DynamoDB operations for the reset_tokens
// table. The token string is the partition key; there is no secondary lookup.
type ResetTokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewResetTokenRepo(client *dynamodb.Client, tableName string) *ResetTokenRepo {
	return &ResetTokenRepo{client: client, tableName: tableName}
}

func (r *ResetTokenRepo) Put(ctx context.Context, t *domain.ResetToken) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal reset token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *ResetTokenRepo) Get(ctx context.Context, token string) (*domain.ResetToken, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("token", token),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("reset token not found: %w", domain.ErrNotFound)
	}
	var t domain.ResetToken
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkUsed flips the token to consumed. Runs after the credential change, so
// a crash between the two leaves the token reusable; that window is a known
// property of the flow, not something this repo papers over.
func (r *ResetTokenRepo) MarkUsed(ctx context.Context, token string, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldUsed:   true,
		fieldUsedAt: at.Unix(),
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("token", token),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
