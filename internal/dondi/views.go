package dondi

import (
	"encoding/json"
	"strconv"
)

// Profile is the dashboard of a user across both matrices.
type Profile struct {
	ID              string             `json:"id"`
	Address         string             `json:"address"`
	ReferrerAddress string             `json:"referrerAddress"`
	PartnersCount   uint64             `json:"partnersCount"`
	X3Balance       string             `json:"x3Balance"`
	X6Balance       string             `json:"x6Balance"`
	AffiliateLink   string             `json:"affiliateLink"`
	X3Matrix        map[string]*X3Slot `json:"x3Matrix"`
	X6Matrix        map[string]*X6Slot `json:"x6Matrix"`
	ActiveX3Levels  map[string]bool    `json:"activeX3Levels"`
	ActiveX6Levels  map[string]bool    `json:"activeX6Levels"`
}

// SlotStatus tells the user whether the slot is blocked until the next level is bought.
type SlotStatus struct {
	Status bool   `json:"status"`
	Text   string `json:"text"`
}

// ChildItem is an occupant of a matrix place.
type ChildItem struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

// Slot holds the fields shared by X3 and X6 levels of a Profile.
type Slot struct {
	SlotNumber      Level      `json:"slotNumber"`
	CurrentReferrer string     `json:"currentReferrer"`
	Blocked         bool       `json:"blocked"`
	SlotStatus      SlotStatus `json:"slotStatus"`
	SlotBuyPrice    float64    `json:"slotBuyPrice"`
	ReferrerAddress string     `json:"referrerAddress"`
	IsActive        bool       `json:"isActive"`
	Partners        []string   `json:"partners"`
	PartnersCount   uint64     `json:"partnersCount"`
	ReinvestCount   int        `json:"reinvestCount"`
	MissedAmount    string     `json:"missedAmount"`
	ProfitAmount    string     `json:"profitAmount"`
	PrevSlot        string     `json:"prevSlot"`
	NextSlot        string     `json:"nextSlot"`
}

// X3Slot is a level of the X3 matrix.
type X3Slot struct {
	Slot
	ChildItems []ChildItem `json:"childItems"`
}

// X6Slot is a level of the X6 matrix.
type X6Slot struct {
	Slot
	ClosedPart string       `json:"closedPart"`
	ChildItems X6ChildItems `json:"childItems"`
}

// X6ChildItems splits the six places of an X6 level in its two branches.
type X6ChildItems struct {
	Left  []ChildItem `json:"left"`
	Right []ChildItem `json:"right"`
}

// SlotDetail is the history of a single matrix level.
type SlotDetail struct {
	RootInfo      RootInfo       `json:"rootInfo"`
	Partners      []string       `json:"partners"`
	PartnersCount int            `json:"partnersCount"`
	ReinvestCount int            `json:"reinvestCount"`
	Balance       string         `json:"balance"`
	History       []HistoryEntry `json:"history"`
	Transactions  Transactions   `json:"transactions"`
}

// RootInfo identifies the slot owner and its referrer.
type RootInfo struct {
	ID       string       `json:"id"`
	Referrer RootReferrer `json:"referrer"`
}

// RootReferrer is the referrer of the slot owner.
type RootReferrer struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

// Position is a place of a cycle. Empty positions render as {}.
type Position struct {
	Address string `json:"address,omitempty"`
}

// HistoryEntry is one cycle of a matrix level, rendered as
// {"reinvestCount": n, "pos1": {...}, ..., "posN": {...}}.
type HistoryEntry struct {
	ReinvestCount int
	Positions     []Position
}

// NewHistoryEntry creates an entry with places empty positions.
func NewHistoryEntry(reinvestCount int, places int) HistoryEntry {
	return HistoryEntry{
		ReinvestCount: reinvestCount,
		Positions:     make([]Position, places),
	}
}

// Full reports whether every position of the cycle is taken.
func (h HistoryEntry) Full() bool {
	for _, p := range h.Positions {
		if p.Address == "" {
			return false
		}
	}
	return true
}

// MarshalJSON implements json.Marshaler.
func (h HistoryEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(h.Positions)+1)
	out["reinvestCount"] = h.ReinvestCount
	for i, p := range h.Positions {
		out["pos"+strconv.Itoa(i+1)] = p
	}
	return json.Marshal(out)
}

// Transactions is the placement log of a slot.
type Transactions struct {
	TotalCount int           `json:"totalCount"`
	Data       []Transaction `json:"data"`
}

// Transaction is a placement in a slot.
type Transaction struct {
	Type            string  `json:"type"`
	Date            uint64  `json:"date"`
	ID              string  `json:"id"`
	Address         string  `json:"address"`
	TransactionHash string  `json:"transactionHash"`
	ETH             float64 `json:"eth"`
}

// StatisticsFilter narrows the statistics ledger. Zero values disable a filter.
type StatisticsFilter struct {
	Matrix    Matrix
	Level     Level
	Direction string
	Type      string
	Tx        string
	Page      int
}

// StatisticsEntry is a row of the statistics ledger.
type StatisticsEntry struct {
	Type            string  `json:"type"`
	Method          string  `json:"method"`
	ID              string  `json:"id"`
	Timestamp       uint64  `json:"timestamp"`
	Matrix          Matrix  `json:"matrix"`
	Level           Level   `json:"level"`
	ETH             float64 `json:"eth"`
	TransactionHash string  `json:"transactionHash"`
}

// StatisticsPage is a page of the statistics ledger.
type StatisticsPage struct {
	TotalPage int               `json:"totalPage"`
	Total     int               `json:"total"`
	Data      []StatisticsEntry `json:"data"`
}

// PartnersFilter narrows the partners roster. Zero values disable a filter.
type PartnersFilter struct {
	Matrix Matrix
	Level  Level
	Search string
	Page   int
}

// PartnerEntry is a user registered with the requester as referrer.
type PartnerEntry struct {
	ID        string `json:"id"`
	Timestamp uint64 `json:"timestamp"`
	Wallet    string `json:"wallet"`
	X3        Level  `json:"x3"`
	X6        Level  `json:"x6"`
	Profit    string `json:"profit"`
	Partners  uint64 `json:"partners"`
}

// PartnersPage is a page of the partners roster.
type PartnersPage struct {
	TotalPage int            `json:"totalPage"`
	Total     int            `json:"total"`
	Data      []PartnerEntry `json:"data"`
}

// Info aggregates the contract activity reported by the block explorer.
type Info struct {
	TotalParticipants   int    `json:"totalParticipants"`
	JoinedInDay         int    `json:"joinedInDay"`
	EarnedAmount        string `json:"earnedAmount"`
	EarnedAmountInToday string `json:"earnedAmountInToday"`
}

// ReinvestPartners summarizes reinvests and direct partners of a matrix level.
type ReinvestPartners struct {
	Partners      []string `json:"partners"`
	PartnersCount int      `json:"partnersCount"`
	ReinvestCount int      `json:"reinvestCount"`
}
