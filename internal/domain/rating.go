package domain

import "time"

// Rating is a single rater's score for a rated user, keyed
// (rated_user_id, rater_user_id). Its lifecycle is driven by the rating
// endpoints; every create/update/delete transition feeds the aggregate fold.
type Rating struct {
	RatedUserID string    `json:"rated_user_id" dynamodbav:"rated_user_id"`
	RaterUserID string    `json:"rater_user_id" dynamodbav:"rater_user_id"`
	Value       float64   `json:"value" dynamodbav:"value"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

// RatingDelta is the signed (count, sum) contribution of one rating transition.
type RatingDelta struct {
	Count int64
	Sum   float64
}

// DeltaFor computes the aggregate delta for a before/after rating transition.
// A nil pointer means the record was absent on that side of the write.
func DeltaFor(before, after *Rating) RatingDelta {
	switch {
	case before == nil && after != nil:
		return RatingDelta{Count: 1, Sum: after.Value}
	case before != nil && after == nil:
		return RatingDelta{Count: -1, Sum: -before.Value}
	case before != nil && after != nil:
		return RatingDelta{Count: 0, Sum: after.Value - before.Value}
	default:
		return RatingDelta{}
	}
}

// IsZero reports whether applying the delta would leave any aggregate unchanged.
func (d RatingDelta) IsZero() bool { return d.Count == 0 && d.Sum == 0 }

// FoldAggregate applies a delta to an aggregate (count, sum) pair and returns
// the new count, sum and average. Both results are clamped at zero: the clamp
// is a safety floor against out-of-order delete/create transitions, not a
// correctness proof for every reordering.
func FoldAggregate(count int64, sum float64, d RatingDelta) (newCount int64, newSum, newAvg float64) {
	newCount = count + d.Count
	if newCount < 0 {
		newCount = 0
	}
	newSum = sum + d.Sum
	if newSum < 0 {
		newSum = 0
	}
	if newCount > 0 {
		newAvg = newSum / float64(newCount)
	}
	return newCount, newSum, newAvg
}
