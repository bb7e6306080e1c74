package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// maxBatchDeletes is the BatchWriteItem request cap. Each committed batch is
// the unit of progress: a crash mid-sweep loses at most the uncommitted
// remainder, which the next run picks up again.
const maxBatchDeletes = 25

// maxBatchRounds bounds resubmission of unprocessed delete requests within
// one batch before giving up.
const maxBatchRounds = 5

// SweepRepo deletes expired and stale records across the three swept record
// families. Each family is independent; passes may run in any order.
type SweepRepo struct {
	client      *dynamodb.Client
	postsTable  string
	codesTable  string
	tokensTable string
}

func NewSweepRepo(client *dynamodb.Client, postsTable, codesTable, tokensTable string) *SweepRepo {
	return &SweepRepo{
		client:      client,
		postsTable:  postsTable,
		codesTable:  codesTable,
		tokensTable: tokensTable,
	}
}

// SweepExpiredPosts deletes posts with expires_at <= now. Returns the number
// of records deleted.
func (r *SweepRepo) SweepExpiredPosts(ctx context.Context, now time.Time) (int, error) {
	keys, err := r.scanKeys(ctx, r.postsTable, "expires_at <= :now", nil,
		map[string]types.AttributeValue{
			":now": numAttr(now.Unix()),
		}, "post_id")
	if err != nil {
		return 0, err
	}
	return r.batchDelete(ctx, r.postsTable, keys)
}

// SweepExpiredCodes deletes OTP codes with expires_at <= now across all
// email parents.
func (r *SweepRepo) SweepExpiredCodes(ctx context.Context, now time.Time) (int, error) {
	keys, err := r.scanKeys(ctx, r.codesTable, "expires_at <= :now", nil,
		map[string]types.AttributeValue{
			":now": numAttr(now.Unix()),
		}, "email, code_id")
	if err != nil {
		return 0, err
	}
	return r.batchDelete(ctx, r.codesTable, keys)
}

// SweepStaleTokens deletes reset tokens that are past expiry, or that were
// consumed longer than usedRetention ago.
func (r *SweepRepo) SweepStaleTokens(ctx context.Context, now time.Time, usedRetention time.Duration) (int, error) {
	cutoff := now.Add(-usedRetention)
	keys, err := r.scanKeys(ctx, r.tokensTable,
		"expires_at <= :now OR (#u = :t AND used_at <= :cutoff)",
		map[string]string{"#u": fieldUsed, "#tk": "token"},
		map[string]types.AttributeValue{
			":now":    numAttr(now.Unix()),
			":t":      &types.AttributeValueMemberBOOL{Value: true},
			":cutoff": numAttr(cutoff.Unix()),
		}, "#tk")
	if err != nil {
		return 0, err
	}
	return r.batchDelete(ctx, r.tokensTable, keys)
}

// scanKeys collects the primary keys of every item matching filter,
// paginating until the scan is exhausted.
func (r *SweepRepo) scanKeys(ctx context.Context, table, filter string, names map[string]string, values map[string]types.AttributeValue, projection string) ([]map[string]types.AttributeValue, error) {
	var keys []map[string]types.AttributeValue
	input := &dynamodb.ScanInput{
		TableName:                 aws.String(table),
		FilterExpression:          aws.String(filter),
		ExpressionAttributeValues: values,
		ProjectionExpression:      aws.String(projection),
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		keys = append(keys, out.Items...)
		if out.LastEvaluatedKey == nil {
			return keys, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// batchDelete removes the given keys in sequentially committed batches of at
// most maxBatchDeletes. Unprocessed requests within a batch are resubmitted
// before the next batch starts.
func (r *SweepRepo) batchDelete(ctx context.Context, table string, keys []map[string]types.AttributeValue) (int, error) {
	deleted := 0
	for _, chunk := range chunkKeys(keys, maxBatchDeletes) {
		reqs := make([]types.WriteRequest, len(chunk))
		for i, key := range chunk {
			reqs[i] = types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}}
		}
		pending := reqs
		for round := 0; len(pending) > 0; round++ {
			if round >= maxBatchRounds {
				return deleted, fmt.Errorf("batch delete on %s: %d requests still unprocessed", table, len(pending))
			}
			out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{table: pending},
			})
			if err != nil {
				return deleted, fmt.Errorf("batch delete on %s: %w", table, err)
			}
			done := len(pending) - len(out.UnprocessedItems[table])
			deleted += done
			pending = out.UnprocessedItems[table]
		}
	}
	return deleted, nil
}

func numAttr(n int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", n)}
}
