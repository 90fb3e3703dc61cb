package matrix

import (
	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/ethereum/go-ethereum/common"
)

// Direction tells whether an entry is money received or spent by the user.
type Direction string

const (
	// Income is money received.
	Income Direction = "income"
	// Outcome is money spent.
	Outcome Direction = "outcome"
	// Missed is money the user could have received but did not.
	Missed Direction = "missed"
)

// Category is the label of a statistics entry.
type Category string

const (
	// CategoryTransit is an X6 placement on the first sub-level, paid upwards.
	CategoryTransit Category = "Transit [Sold places]"
	// CategoryPart is a placement paid to the matrix owner.
	CategoryPart Category = "Part [Sold places]"
	// CategoryOutbound is a level purchase.
	CategoryOutbound Category = "Outbound [Upgrades]"
	// CategoryReopen is a reinvest of a completed cycle.
	CategoryReopen Category = "Reopen"
	// CategoryGifts is a payment forwarded to the user.
	CategoryGifts Category = "Gifts"
	// CategoryLostProfits is a payment missed by the user.
	CategoryLostProfits Category = "Lost profits"
	// CategoryOvertaking is a partner that overtook its upline.
	CategoryOvertaking Category = "Overtaking"
)

// TxKind classifies a placement in the slot transaction log.
type TxKind string

const (
	// TxLost is a placement whose payment was missed.
	TxLost TxKind = "lost"
	// TxReinvest is a placement that closed the cycle.
	TxReinvest TxKind = "reinvest"
	// TxPartner is a regular placement.
	TxPartner TxKind = "partner"
)

// Entry is the classification of a contract event.
type Entry struct {
	Category  Category
	Direction Direction
	// ETH is signed: outcomes are negative.
	ETH float64
	// Subject is the user whose id is shown next to the entry.
	Subject common.Address
}

// CountsTowardBalance reports whether a placement pays the matrix owner.
// X3 pays on places 1 and 2. X6 pays on places 3, 4 and 5.
func CountsTowardBalance(m dondi.Matrix, place uint8) bool {
	switch m {
	case dondi.X3:
		return place < 3
	case dondi.X6:
		return place > 2 && place < 6
	default:
		return false
	}
}

// PlacementCategory returns the statistics category of a placement. Placements on
// the terminal place are not reported.
func PlacementCategory(m dondi.Matrix, place uint8) (Category, bool) {
	if m == dondi.X6 && place <= 2 {
		return CategoryTransit, true
	}
	if CountsTowardBalance(m, place) {
		return CategoryPart, true
	}
	return "", false
}

// Classify maps an event into its statistics entry. The second value is false
// for events that do not produce an entry.
func Classify(e dondi.ContractEvent) (Entry, bool) {
	price := dondi.LevelPrice(e.Level)
	switch e.Type {
	case dondi.EventNewUserPlace:
		cat, ok := PlacementCategory(e.Matrix, e.Place)
		if !ok {
			return Entry{}, false
		}
		return Entry{Category: cat, Direction: Income, ETH: price, Subject: e.User}, true
	case dondi.EventUpgrade:
		return Entry{Category: CategoryOutbound, Direction: Outcome, ETH: -price, Subject: e.User}, true
	case dondi.EventReinvest:
		return Entry{Category: CategoryReopen, Direction: Outcome, ETH: -price, Subject: e.User}, true
	case dondi.EventSentExtraEthDividends:
		return Entry{Category: CategoryGifts, Direction: Income, ETH: price, Subject: e.Receiver}, true
	case dondi.EventMissedEthReceive:
		return Entry{Category: CategoryLostProfits, Direction: Missed, ETH: price, Subject: e.From}, true
	default:
		return Entry{}, false
	}
}

// ClassifyTransaction labels a placement of the slot transaction log. A receipt
// carrying missedTopic wins over the terminal place check.
func ClassifyTransaction(e dondi.ContractEvent, tx dondi.TransactionContext, missedTopic common.Hash) TxKind {
	if tx.HasTopic(missedTopic) {
		return TxLost
	}
	if int(e.Place) == e.Matrix.Places() {
		return TxReinvest
	}
	return TxPartner
}

// CategoriesForType maps the statistics "type" filter to the categories it keeps.
// Unknown types keep nothing.
func CategoriesForType(t string) []Category {
	switch t {
	case "newUserPlaceEvent":
		return []Category{CategoryTransit, CategoryPart}
	case "upgrageEvent":
		return []Category{CategoryOutbound}
	case "reinvestEvent":
		return []Category{CategoryReopen}
	case "missedEthReceive":
		return []Category{CategoryLostProfits}
	case "leadingPartnerToUpline":
		return []Category{CategoryOvertaking}
	case "sentExtraEthDividend":
		return []Category{CategoryGifts}
	default:
		return nil
	}
}

// DirectionForFilter maps the statistics "direction" filter, 0 for income and 1
// for outcome. Unknown values match nothing.
func DirectionForFilter(d string) (Direction, bool) {
	switch d {
	case "0":
		return Income, true
	case "1":
		return Outcome, true
	default:
		return "", false
	}
}
