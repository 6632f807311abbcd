// Package ruleerrors defines the flat tag taxonomy of consensus rule
// violations. These are not a type hierarchy: every violation a validator can
// detect has its own constructor here, and callers compare by tag via Is,
// not by type-asserting to a subtype.
package ruleerrors

import "github.com/pkg/errors"

// ErrorCode identifies a specific consensus rule violation
type ErrorCode int

// The full set of rule violations named in the error taxonomy
const (
	ErrWrongBlockVersion ErrorCode = iota
	ErrTimeTooOld
	ErrTimeTooFarIntoTheFuture
	ErrNoParents
	ErrTooManyParents
	ErrMissingParents
	ErrInvalidParentsRelation
	ErrMergeSetTooBig
	ErrViolatingBoundedMergeDepth
	ErrBadMerkleRoot
	ErrBadProofOfWork
	ErrUnexpectedDifficulty
	ErrBadUTXOCommitment
	ErrInvalidCoinbase
	ErrTxInContextFailed
	ErrDuplicateBlock
	ErrPruningPointMismatch
	ErrBadAcceptedIDMerkleRoot
	ErrInvalidPayload
	ErrTransactionMassTooHigh
	ErrBlockMassTooHigh
	ErrNoTransactions
	ErrFirstTxNotCoinbase
	ErrMultipleCoinbases
	ErrDuplicateTx
	ErrDoubleSpendInSameBlock
	ErrChainedTransactions
	ErrNoTxInputs
	ErrDuplicateTxInputs
	ErrBadTxOutValue
	ErrImmatureCoinbaseSpend
	ErrUnbalancedTransaction
	ErrNotFinalized
)

var errorCodeNames = map[ErrorCode]string{
	ErrWrongBlockVersion:          "ErrWrongBlockVersion",
	ErrTimeTooOld:                 "ErrTimeTooOld",
	ErrTimeTooFarIntoTheFuture:    "ErrTimeTooFarIntoTheFuture",
	ErrNoParents:                  "ErrNoParents",
	ErrTooManyParents:             "ErrTooManyParents",
	ErrMissingParents:             "ErrMissingParents",
	ErrInvalidParentsRelation:     "ErrInvalidParentsRelation",
	ErrMergeSetTooBig:             "ErrMergeSetTooBig",
	ErrViolatingBoundedMergeDepth: "ErrViolatingBoundedMergeDepth",
	ErrBadMerkleRoot:              "ErrBadMerkleRoot",
	ErrBadProofOfWork:             "ErrBadProofOfWork",
	ErrUnexpectedDifficulty:       "ErrUnexpectedDifficulty",
	ErrBadUTXOCommitment:          "ErrBadUTXOCommitment",
	ErrInvalidCoinbase:            "ErrInvalidCoinbase",
	ErrTxInContextFailed:          "ErrTxInContextFailed",
	ErrDuplicateBlock:             "ErrDuplicateBlock",
	ErrPruningPointMismatch:       "ErrPruningPointMismatch",
	ErrBadAcceptedIDMerkleRoot:    "ErrBadAcceptedIDMerkleRoot",
	ErrInvalidPayload:             "ErrInvalidPayload",
	ErrTransactionMassTooHigh:     "ErrTransactionMassTooHigh",
	ErrBlockMassTooHigh:           "ErrBlockMassTooHigh",
	ErrNoTransactions:             "ErrNoTransactions",
	ErrFirstTxNotCoinbase:         "ErrFirstTxNotCoinbase",
	ErrMultipleCoinbases:          "ErrMultipleCoinbases",
	ErrDuplicateTx:                "ErrDuplicateTx",
	ErrDoubleSpendInSameBlock:     "ErrDoubleSpendInSameBlock",
	ErrChainedTransactions:        "ErrChainedTransactions",
	ErrNoTxInputs:                 "ErrNoTxInputs",
	ErrDuplicateTxInputs:          "ErrDuplicateTxInputs",
	ErrBadTxOutValue:              "ErrBadTxOutValue",
	ErrImmatureCoinbaseSpend:      "ErrImmatureCoinbaseSpend",
	ErrUnbalancedTransaction:      "ErrUnbalancedTransaction",
	ErrNotFinalized:               "ErrNotFinalized",
}

func (code ErrorCode) String() string {
	if name, ok := errorCodeNames[code]; ok {
		return name
	}
	return "ErrUnknown"
}

// RuleError indicates a block or transaction violated a consensus rule.
// TxID is populated only for ErrTxInContextFailed.
type RuleError struct {
	ErrorCode ErrorCode
	Message   string
	TxID      string
}

func (e *RuleError) Error() string {
	if e.TxID != "" {
		return e.ErrorCode.String() + ": [" + e.TxID + "] " + e.Message
	}
	return e.ErrorCode.String() + ": " + e.Message
}

// NewRuleError constructs a RuleError of the given tag
func NewRuleError(code ErrorCode, message string) error {
	return &RuleError{ErrorCode: code, Message: message}
}

// NewTxRuleError constructs a RuleError for a specific transaction
func NewTxRuleError(code ErrorCode, txID string, message string) error {
	return &RuleError{ErrorCode: code, Message: message, TxID: txID}
}

// Is reports whether err is a RuleError carrying the given code
func Is(err error, code ErrorCode) bool {
	var ruleErr *RuleError
	for err != nil {
		if re, ok := err.(*RuleError); ok {
			ruleErr = re
			break
		}
		err = errors.Unwrap(err)
	}
	return ruleErr != nil && ruleErr.ErrorCode == code
}

// KnownInvalidError marks re-submission of a block already decided invalid
// after its PoW and DAA score were computed; further submissions of the same
// block hash are rejected immediately without re-validation
type KnownInvalidError struct {
	BlockHash string
}

func (e *KnownInvalidError) Error() string {
	return "block " + e.BlockHash + " is known to be invalid"
}

// MissingDataError indicates a required ancestor or UTXO datum is absent.
// Retriable via IBD once the peer supplies the missing data.
type MissingDataError struct {
	Message string
}

func (e *MissingDataError) Error() string { return e.Message }

// NewMissingDataError constructs a MissingDataError
func NewMissingDataError(message string) error {
	return &MissingDataError{Message: message}
}

// IsMissingData reports whether err is a MissingDataError
func IsMissingData(err error) bool {
	_, ok := errors.Cause(err).(*MissingDataError)
	return ok
}

// CancelledError indicates a shutdown signal was observed mid-operation
type CancelledError struct{}

func (e *CancelledError) Error() string { return "operation was cancelled" }

// ErrCancelled is returned by long-running validators when shutdown fires
var ErrCancelled error = &CancelledError{}
