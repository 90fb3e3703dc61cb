package controllers

import (
	"context"
	"math/big"
	"net/http"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/pkg/chainsource"
	"github.com/ethereum/go-ethereum/common"
)

// ContractReader is the subset of the chain adapter used by the pass-through calls.
type ContractReader interface {
	chainsource.ContractReader
	FetchCurrentUser(ctx context.Context, addr common.Address) (dondi.UserRecord, error)
	FetchSlotState(ctx context.Context, addr common.Address, m dondi.Matrix, l dondi.Level) (dondi.SlotState, error)
	IsLevelActive(ctx context.Context, addr common.Address, m dondi.Matrix, l dondi.Level) (bool, error)
}

// X3Matrix is the raw state of an X3 level.
type X3Matrix struct {
	CurrentReferrer string   `json:"currentReferrer"`
	Referrals       []string `json:"referrals"`
	Blocked         bool     `json:"blocked"`
}

// X6Matrix is the raw state of an X6 level.
type X6Matrix struct {
	CurrentReferrer      string   `json:"currentReferrer"`
	FirstLevelReferrals  []string `json:"firstLevelReferrals"`
	SecondLevelReferrals []string `json:"secondLevelReferrals"`
	Blocked              bool     `json:"blocked"`
	ClosedPart           string   `json:"closedPart"`
}

// User is the raw record of a user.
type User struct {
	ID            string `json:"id"`
	Referrer      string `json:"referrer"`
	PartnersCount string `json:"partnersCount"`
}

// ContractController defines the HTTP handlers that forward contract view calls.
type ContractController struct {
	reader ContractReader
	re     *Responder
}

// NewContractController creates a new ContractController.
func NewContractController(reader ContractReader, re *Responder) *ContractController {
	return &ContractController{
		reader: reader,
		re:     re,
	}
}

// GetLastLevel handles /getlastlevel.
func (c *ContractController) GetLastLevel(rw http.ResponseWriter, r *http.Request) {
	l, err := c.reader.LastLevel(r.Context())
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, "Get the Last Level successfully", l)
}

// GetBalances handles /getbalances.
func (c *ContractController) GetBalances(rw http.ResponseWriter, r *http.Request) {
	addr, err := addressParam(queryParams(r), "address")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	wei, err := c.reader.Balances(r.Context(), addr)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, "Get balances successfully", wei.String())
}

// FindFreeX3Referrer handles /findfreex3referrer.
func (c *ContractController) FindFreeX3Referrer(rw http.ResponseWriter, r *http.Request) {
	c.findFreeReferrer(rw, r, dondi.X3, "Find the free X3 referrer address successfully")
}

// FindFreeX6Referrer handles /findfreex6referrer.
func (c *ContractController) FindFreeX6Referrer(rw http.ResponseWriter, r *http.Request) {
	c.findFreeReferrer(rw, r, dondi.X6, "Find the free X6 referrer address successfully")
}

func (c *ContractController) findFreeReferrer(rw http.ResponseWriter, r *http.Request, m dondi.Matrix, text string) {
	p := queryParams(r)
	addr, err := addressParam(p, "address")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	l, err := levelParam(p, "level")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	referrer, err := c.reader.FindFreeReferrer(r.Context(), addr, m, l)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, text, referrer.Hex())
}

// IDToAddress handles /idtoaddress.
func (c *ContractController) IDToAddress(rw http.ResponseWriter, r *http.Request) {
	c.addressFromID(rw, r, c.reader.IDToAddress)
}

// UserIDs handles /userids.
func (c *ContractController) UserIDs(rw http.ResponseWriter, r *http.Request) {
	c.addressFromID(rw, r, c.reader.UserIDs)
}

func (c *ContractController) addressFromID(
	rw http.ResponseWriter,
	r *http.Request,
	lookup func(context.Context, *big.Int) (common.Address, error),
) {
	id, err := bigParam(queryParams(r), "id")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	addr, err := lookup(r.Context(), id)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, "Get the address from id successfully", addr.Hex())
}

// IsUserExists handles /isuserexists.
func (c *ContractController) IsUserExists(rw http.ResponseWriter, r *http.Request) {
	addr, err := addressParam(queryParams(r), "address")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	exists, err := c.reader.IsUserExists(r.Context(), addr)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, "Get the user existing status successfully", exists)
}

// LastUserID handles /lastuserid.
func (c *ContractController) LastUserID(rw http.ResponseWriter, r *http.Request) {
	id, err := c.reader.LastUserID(r.Context())
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, "Get the last user id successfully", id.String())
}

// LevelPrice handles /levelprice.
func (c *ContractController) LevelPrice(rw http.ResponseWriter, r *http.Request) {
	l, err := levelParam(queryParams(r), "level")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	wei, err := c.reader.LevelPrice(r.Context(), l)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, "Get the current level price successfully", wei.String())
}

// OwnerAddress handles /owneraddress.
func (c *ContractController) OwnerAddress(rw http.ResponseWriter, r *http.Request) {
	owner, err := c.reader.Owner(r.Context())
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, "Get owner address successfully", owner.Hex())
}

// Users handles /users.
func (c *ContractController) Users(rw http.ResponseWriter, r *http.Request) {
	addr, err := addressParam(queryParams(r), "address")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	u, err := c.reader.FetchCurrentUser(r.Context(), addr)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	user := User{ID: "0", Referrer: u.Referrer.Hex(), PartnersCount: "0"}
	if u.ID != nil {
		user.ID = u.ID.String()
	}
	if u.PartnersCount != nil {
		user.PartnersCount = u.PartnersCount.String()
	}
	c.re.OK(rw, "Get the user information successfully", user)
}

// UserActiveX3Levels handles /useractivex3levels.
func (c *ContractController) UserActiveX3Levels(rw http.ResponseWriter, r *http.Request) {
	c.activeLevel(rw, r, dondi.X3, "Get the user active X3 levels successfully")
}

// UserActiveX6Levels handles /useractivex6levels.
func (c *ContractController) UserActiveX6Levels(rw http.ResponseWriter, r *http.Request) {
	c.activeLevel(rw, r, dondi.X6, "Get the user active X6 levels successfully")
}

func (c *ContractController) activeLevel(rw http.ResponseWriter, r *http.Request, m dondi.Matrix, text string) {
	p := queryParams(r)
	addr, err := addressParam(p, "address")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	l, err := levelParam(p, "level")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	active, err := c.reader.IsLevelActive(r.Context(), addr, m, l)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, text, active)
}

// GetX3Matrix handles /getx3matrix.
func (c *ContractController) GetX3Matrix(rw http.ResponseWriter, r *http.Request) {
	st, ok := c.slotState(rw, r, dondi.X3)
	if !ok {
		return
	}
	c.re.OK(rw, "Get the X3 matrix successfully", X3Matrix{
		CurrentReferrer: st.CurrentReferrer.Hex(),
		Referrals:       hexes(st.FirstLevel),
		Blocked:         st.Blocked,
	})
}

// GetX6Matrix handles /getx6matrix.
func (c *ContractController) GetX6Matrix(rw http.ResponseWriter, r *http.Request) {
	st, ok := c.slotState(rw, r, dondi.X6)
	if !ok {
		return
	}
	c.re.OK(rw, "Get the X6 matrix successfully", X6Matrix{
		CurrentReferrer:      st.CurrentReferrer.Hex(),
		FirstLevelReferrals:  hexes(st.FirstLevel),
		SecondLevelReferrals: hexes(st.SecondLevel),
		Blocked:              st.Blocked,
		ClosedPart:           st.ClosedPart.Hex(),
	})
}

func (c *ContractController) slotState(rw http.ResponseWriter, r *http.Request, m dondi.Matrix) (dondi.SlotState, bool) {
	p := queryParams(r)
	addr, err := addressParam(p, "address")
	if err != nil {
		c.re.Fail(rw, r, err)
		return dondi.SlotState{}, false
	}
	l, err := levelParam(p, "level")
	if err != nil {
		c.re.Fail(rw, r, err)
		return dondi.SlotState{}, false
	}
	st, err := c.reader.FetchSlotState(r.Context(), addr, m, l)
	if err != nil {
		c.re.Fail(rw, r, err)
		return dondi.SlotState{}, false
	}
	return st, true
}

func hexes(addrs []common.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.Hex()
	}
	return out
}
