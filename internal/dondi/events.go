package dondi

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// EventType is the name of a contract event.
type EventType string

const (
	// EventRegistration is emitted when a user joins.
	EventRegistration EventType = "Registration"
	// EventNewUserPlace is emitted when a user takes a place in someone's matrix.
	EventNewUserPlace EventType = "NewUserPlace"
	// EventReinvest is emitted when a matrix level completes a cycle.
	EventReinvest EventType = "Reinvest"
	// EventUpgrade is emitted when a user buys a new level.
	EventUpgrade EventType = "Upgrade"
	// EventSentExtraEthDividends is emitted when a payment is forwarded to a receiver.
	EventSentExtraEthDividends EventType = "SentExtraEthDividends"
	// EventMissedEthReceive is emitted when a receiver misses a payment.
	EventMissedEthReceive EventType = "MissedEthReceive"
)

// EventTypes lists every event of the contract.
var EventTypes = []EventType{
	EventRegistration,
	EventNewUserPlace,
	EventReinvest,
	EventUpgrade,
	EventSentExtraEthDividends,
	EventMissedEthReceive,
}

// ContractEvent is a decoded contract log. Only the fields carried by its
// EventType are set.
type ContractEvent struct {
	Type EventType

	User            common.Address
	Referrer        common.Address
	Receiver        common.Address
	From            common.Address
	Caller          common.Address
	CurrentReferrer common.Address
	UserID          *big.Int
	ReferrerID      *big.Int

	Matrix Matrix
	Level  Level
	Place  uint8

	TxHash      common.Hash
	BlockNumber uint64
	Index       uint
}

// Matches reports whether the event belongs to the given matrix level.
func (e ContractEvent) Matches(m Matrix, l Level) bool {
	return e.Matrix == m && e.Level == l
}

// TransactionContext joins an event with its transaction and block.
type TransactionContext struct {
	TxHash         common.Hash
	BlockNumber    uint64
	BlockTimestamp uint64
	ReceiptLogs    []*types.Log
}

// HasTopic reports whether any receipt log carries topic as its event id.
func (tc TransactionContext) HasTopic(topic common.Hash) bool {
	for _, l := range tc.ReceiptLogs {
		if len(l.Topics) > 0 && l.Topics[0] == topic {
			return true
		}
	}
	return false
}

// BlockInfo is the subset of a block header the views need.
type BlockInfo struct {
	Number    uint64
	Timestamp uint64
}

// UserRecord is the current on-chain state of a user.
type UserRecord struct {
	ID            *big.Int
	Referrer      common.Address
	PartnersCount *big.Int
}

// IDString returns the user id in base 10, or an empty string when unknown.
func (u UserRecord) IDString() string {
	if u.ID == nil {
		return ""
	}
	return u.ID.String()
}

// Exists reports whether the record belongs to a registered user.
func (u UserRecord) Exists() bool {
	return u.ID != nil && u.ID.Sign() > 0
}

// SlotState is a point-in-time snapshot of a matrix level. X3 slots only use
// FirstLevel. X6 slots use both sub-levels and ClosedPart.
type SlotState struct {
	Matrix          Matrix
	CurrentReferrer common.Address
	FirstLevel      []common.Address
	SecondLevel     []common.Address
	Blocked         bool
	ClosedPart      common.Address
}

// Lower returns the lowercase hex representation of an address.
func Lower(a common.Address) string {
	return strings.ToLower(a.Hex())
}

// MissedEthReceiveTopic is the log topic of MissedEthReceive(address,address,uint8,uint8).
var MissedEthReceiveTopic = crypto.Keccak256Hash([]byte("MissedEthReceive(address,address,uint8,uint8)"))
