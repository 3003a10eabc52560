package dynamodb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// NotFoundError reports a mutation against a key that does not exist. Point
// reads never produce it; absence on read is a nil result.
type NotFoundError struct {
	PK string
	SK string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item (%s, %s) not found", e.PK, e.SK)
}

// IsNotFound checks if an error is a store not found error.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ConditionFailedError reports a conditional write whose precondition did not
// hold. For uniqueness-guarded creates this is an expected outcome meaning
// "already exists", not an infrastructure failure.
type ConditionFailedError struct {
	Op string
	PK string
	SK string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("%s (%s, %s): condition failed", e.Op, e.PK, e.SK)
}

// IsConditionFailed checks if an error is a store condition failure.
func IsConditionFailed(err error) bool {
	var cf *ConditionFailedError
	return errors.As(err, &cf)
}

// TransactionCancelledError reports an atomic multi-item write that did not
// apply. Reasons carries the per-operation cancellation codes in input order.
type TransactionCancelledError struct {
	Reasons []string
}

func (e *TransactionCancelledError) Error() string {
	return fmt.Sprintf("transaction cancelled: [%s]", strings.Join(e.Reasons, ", "))
}

// IsTransactionCancelled checks if an error is a cancelled transaction.
func IsTransactionCancelled(err error) bool {
	var tc *TransactionCancelledError
	return errors.As(err, &tc)
}

// StoreError wraps an infrastructure failure with the operation and key that
// produced it. It is never produced for expected outcomes (absence,
// condition failures, cancellations).
type StoreError struct {
	Op  string
	PK  string
	SK  string
	Err error
}

func (e *StoreError) Error() string {
	if e.SK != "" {
		return fmt.Sprintf("%s (%s, %s): %v", e.Op, e.PK, e.SK, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.PK, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError checks if an error is an infrastructure store failure.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// classify maps an AWS SDK error to the adapter's failure taxonomy.
func classify(op, pk, sk string, err error) error {
	var condFailed *types.ConditionalCheckFailedException
	if errors.As(err, &condFailed) {
		return &ConditionFailedError{Op: op, PK: pk, SK: sk}
	}

	var cancelled *types.TransactionCanceledException
	if errors.As(err, &cancelled) {
		reasons := make([]string, 0, len(cancelled.CancellationReasons))
		for _, r := range cancelled.CancellationReasons {
			if r.Code != nil {
				reasons = append(reasons, *r.Code)
			}
		}
		return &TransactionCancelledError{Reasons: reasons}
	}

	return &StoreError{Op: op, PK: pk, SK: sk, Err: err}
}
