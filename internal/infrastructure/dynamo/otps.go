package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/donationswap/api/internal/domain"
)

// OTPRepo manages the otp_requests parent table (PK: email) and its
// otp_codes child table (PK: email, SK: code_id). A single email may own any
// number of live codes at once; issuance never invalidates earlier codes.
type OTPRepo struct {
	client        *dynamodb.Client
	requestsTable string
	codesTable    string
}

func NewOTPRepo(client *dynamodb.Client, requestsTable, codesTable string) *OTPRepo {
	return &OTPRepo{client: client, requestsTable: requestsTable, codesTable: codesTable}
}

// UpsertRequest creates or refreshes the per-email parent record. UpdateItem
// gives merge semantics: unrelated attributes on an existing record survive.
// The email already lives in the item key, and UpdateItem rejects expressions
// that write key attributes, so the expression only touches the
// last-requested timestamp.
func (r *OTPRepo) UpsertRequest(ctx context.Context, email string) error {
	ue, err := upsertRequestExpr(time.Now().UTC())
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.requestsTable),
		Key:                       strKey("email", email),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// upsertRequestExpr builds the parent-record refresh expression. It must
// never reference a key attribute of otp_requests.
func upsertRequestExpr(at time.Time) (updateExpr, error) {
	return buildUpdateExpr(map[string]interface{}{fieldLastRequestedAt: at.Unix()})
}

// AppendCode adds a freshly issued code under its email parent.
func (r *OTPRepo) AppendCode(ctx context.Context, c *domain.OTPCode) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal otp code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.codesTable),
		Item:      item,
	})
	return err
}

// FindUnusedByDigest returns the first unused code under email whose stored
// digest matches. Digests are effectively unique per issuance, so which match
// wins is not significant. ErrNotFound covers both never-issued and
// already-used; callers must not distinguish the two.
func (r *OTPRepo) FindUnusedByDigest(ctx context.Context, email, digest string) (*domain.OTPCode, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.codesTable),
		KeyConditionExpression: aws.String("email = :e"),
		FilterExpression:       aws.String("otp_hash = :h AND #u = :f"),
		ExpressionAttributeNames: map[string]string{
			"#u": fieldUsed,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":e": &types.AttributeValueMemberS{Value: email},
			":h": &types.AttributeValueMemberS{Value: digest},
			":f": &types.AttributeValueMemberBOOL{Value: false},
		},
	}
	item, err := firstItemAcrossPages(ctx, func(ctx context.Context, start map[string]types.AttributeValue) (*dynamodb.QueryOutput, error) {
		input.ExclusiveStartKey = start
		return r.client.Query(ctx, input)
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("otp code not found: %w", domain.ErrNotFound)
	}
	var c domain.OTPCode
	if err := attributevalue.UnmarshalMap(item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

type queryPage func(ctx context.Context, start map[string]types.AttributeValue) (*dynamodb.QueryOutput, error)

// firstItemAcrossPages drains a filtered query until a page yields an item or
// the pagination ends. A filter is applied after the page is read, so an
// empty page with a LastEvaluatedKey does not mean no match exists.
func firstItemAcrossPages(ctx context.Context, query queryPage) (map[string]types.AttributeValue, error) {
	var start map[string]types.AttributeValue
	for {
		out, err := query(ctx, start)
		if err != nil {
			return nil, err
		}
		if len(out.Items) > 0 {
			return out.Items[0], nil
		}
		if out.LastEvaluatedKey == nil {
			return nil, nil
		}
		start = out.LastEvaluatedKey
	}
}

// Consume flips the code to used, conditioned on it still being unused.
// Two concurrent verifications of the same code can both pass the read; the
// condition guarantees only one of them wins. The loser gets ErrConflict.
func (r *OTPRepo) Consume(ctx context.Context, email, codeID string, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldUsed:   true,
		fieldUsedAt: at.Unix(),
	})
	if err != nil {
		return err
	}
	ue.Names["#cond"] = fieldUsed
	ue.Values[":unused"] = &types.AttributeValueMemberBOOL{Value: false}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.codesTable),
		Key:                       compositeKey("email", email, "code_id", codeID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#cond = :unused"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("otp code already consumed: %w", domain.ErrConflict)
	}
	return err
}
