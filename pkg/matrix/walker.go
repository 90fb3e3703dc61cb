package matrix

import (
	"fmt"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/ethereum/go-ethereum/common"
)

// Status describes how an occupant relates to the matrix owner.
type Status string

const (
	// StatusPartner is a partner invited by the owner.
	StatusPartner Status = "partner"
	// StatusAhead is a partner placed ahead of its own inviter.
	StatusAhead Status = "ahead"
	// StatusOverflowUp is a partner pushed from the owner's upline.
	StatusOverflowUp Status = "overflowup"
	// StatusBottom is a partner spilled over from the owner's downline.
	StatusBottom Status = "bottom"
)

// Users resolves the current record of the matrix occupants.
type Users map[common.Address]dondi.UserRecord

// X3ChildStatus classifies an X3 occupant.
func X3ChildStatus(owner, childReferrer common.Address) Status {
	if childReferrer == owner {
		return StatusPartner
	}
	return StatusAhead
}

// X6FirstLevelStatus classifies an occupant of the first X6 sub-level.
func X6FirstLevelStatus(owner, slotReferrer, childReferrer common.Address) Status {
	switch childReferrer {
	case owner:
		return StatusPartner
	case slotReferrer:
		return StatusOverflowUp
	default:
		return StatusAhead
	}
}

// X6SecondLevelStatus classifies an occupant of the second X6 sub-level.
func X6SecondLevelStatus(owner, childReferrer common.Address) Status {
	if childReferrer == owner {
		return StatusPartner
	}
	return StatusBottom
}

// Occupants returns every address that needs a user lookup to walk the slot.
func Occupants(s dondi.SlotState) []common.Address {
	out := make([]common.Address, 0, len(s.FirstLevel)+len(s.SecondLevel))
	out = append(out, s.FirstLevel...)
	return append(out, s.SecondLevel...)
}

// WalkX3 builds the three places of an X3 level. Missing occupants are empty items.
func WalkX3(owner common.Address, s dondi.SlotState, users Users) ([]dondi.ChildItem, error) {
	items := make([]dondi.ChildItem, dondi.X3.Places())
	for i := range items {
		if i >= len(s.FirstLevel) {
			continue
		}
		child := s.FirstLevel[i]
		rec, ok := users[child]
		if !ok {
			return nil, fmt.Errorf("missing user record for %s", child.Hex())
		}
		items[i] = dondi.ChildItem{
			ID:      rec.IDString(),
			Address: child.Hex(),
			Status:  string(X3ChildStatus(owner, rec.Referrer)),
		}
	}
	return items, nil
}

// WalkX6 builds both branches of an X6 level:
// left = [first[0], second[0], second[2]], right = [first[1], second[1], second[3]].
func WalkX6(owner, slotReferrer common.Address, s dondi.SlotState, users Users) (dondi.X6ChildItems, error) {
	first := func(i int) (dondi.ChildItem, error) {
		if i >= len(s.FirstLevel) {
			return dondi.ChildItem{}, nil
		}
		child := s.FirstLevel[i]
		rec, ok := users[child]
		if !ok {
			return dondi.ChildItem{}, fmt.Errorf("missing user record for %s", child.Hex())
		}
		return dondi.ChildItem{
			ID:      rec.IDString(),
			Address: child.Hex(),
			Status:  string(X6FirstLevelStatus(owner, slotReferrer, rec.Referrer)),
		}, nil
	}
	second := func(i int) (dondi.ChildItem, error) {
		if i >= len(s.SecondLevel) {
			return dondi.ChildItem{}, nil
		}
		child := s.SecondLevel[i]
		rec, ok := users[child]
		if !ok {
			return dondi.ChildItem{}, fmt.Errorf("missing user record for %s", child.Hex())
		}
		return dondi.ChildItem{
			ID:      rec.IDString(),
			Address: child.Hex(),
			Status:  string(X6SecondLevelStatus(owner, rec.Referrer)),
		}, nil
	}

	branch := func(firstIdx int, secondIdx ...int) ([]dondi.ChildItem, error) {
		items := make([]dondi.ChildItem, 0, 1+len(secondIdx))
		item, err := first(firstIdx)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		for _, i := range secondIdx {
			item, err := second(i)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	}

	left, err := branch(0, 0, 2)
	if err != nil {
		return dondi.X6ChildItems{}, fmt.Errorf("walking left branch: %s", err)
	}
	right, err := branch(1, 1, 3)
	if err != nil {
		return dondi.X6ChildItems{}, fmt.Errorf("walking right branch: %s", err)
	}
	return dondi.X6ChildItems{Left: left, Right: right}, nil
}

// SlotStatus returns the blocked banner of a level.
func SlotStatus(l dondi.Level, blocked bool) dondi.SlotStatus {
	if !blocked {
		return dondi.SlotStatus{}
	}
	return dondi.SlotStatus{
		Status: true,
		Text:   fmt.Sprintf("You need to buy the %d slot.", int(l)+1),
	}
}

// PartnerSet collects direct partners of a level without duplicates.
type PartnerSet struct {
	seen  map[string]struct{}
	items []string
}

// NewPartnerSet creates an empty PartnerSet.
func NewPartnerSet() *PartnerSet {
	return &PartnerSet{seen: map[string]struct{}{}, items: []string{}}
}

// Add inserts the lowercase address and reports whether it was new.
func (ps *PartnerSet) Add(a common.Address) bool {
	key := dondi.Lower(a)
	if _, ok := ps.seen[key]; ok {
		return false
	}
	ps.seen[key] = struct{}{}
	ps.items = append(ps.items, key)
	return true
}

// Items returns the partners in insertion order.
func (ps *PartnerSet) Items() []string {
	return ps.items
}

// Len returns the number of partners.
func (ps *PartnerSet) Len() int {
	return len(ps.items)
}
