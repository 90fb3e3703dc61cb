package ethereum

import (
	_ "embed" // contract abi
	"errors"
	"math/big"
	"reflect"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

//go:embed Dondi.abi.json
var contractABI string

// ContractMetaData contains all meta data concerning the Dondi contract.
var ContractMetaData = &bind.MetaData{
	ABI: contractABI,
}

// ContractMissedEthReceive represents a MissedEthReceive event raised by the Contract.
type ContractMissedEthReceive struct {
	Receiver common.Address
	From     common.Address
	Matrix   uint8
	Level    uint8
	Raw      types.Log
}

// ContractNewUserPlace represents a NewUserPlace event raised by the Contract.
type ContractNewUserPlace struct {
	User     common.Address
	Referrer common.Address
	Matrix   uint8
	Level    uint8
	Place    uint8
	Raw      types.Log
}

// ContractRegistration represents a Registration event raised by the Contract.
type ContractRegistration struct {
	User       common.Address
	Referrer   common.Address
	UserId     *big.Int // nolint
	ReferrerId *big.Int // nolint
	Raw        types.Log
}

// ContractReinvest represents a Reinvest event raised by the Contract.
type ContractReinvest struct {
	User            common.Address
	CurrentReferrer common.Address
	Caller          common.Address
	Matrix          uint8
	Level           uint8
	Raw             types.Log
}

// ContractSentExtraEthDividends represents a SentExtraEthDividends event raised by the Contract.
type ContractSentExtraEthDividends struct {
	From     common.Address
	Receiver common.Address
	Matrix   uint8
	Level    uint8
	Raw      types.Log
}

// ContractUpgrade represents an Upgrade event raised by the Contract.
type ContractUpgrade struct {
	User     common.Address
	Referrer common.Address
	Matrix   uint8
	Level    uint8
	Raw      types.Log
}

// SupportedEvents maps each event of the contract to the struct it decodes into.
var SupportedEvents = map[dondi.EventType]reflect.Type{
	dondi.EventMissedEthReceive:      reflect.TypeOf(ContractMissedEthReceive{}),
	dondi.EventNewUserPlace:          reflect.TypeOf(ContractNewUserPlace{}),
	dondi.EventRegistration:          reflect.TypeOf(ContractRegistration{}),
	dondi.EventReinvest:              reflect.TypeOf(ContractReinvest{}),
	dondi.EventSentExtraEthDividends: reflect.TypeOf(ContractSentExtraEthDividends{}),
	dondi.EventUpgrade:               reflect.TypeOf(ContractUpgrade{}),
}

// ContractUser is the output of the users(address) view.
type ContractUser struct {
	Id            *big.Int // nolint
	Referrer      common.Address
	PartnersCount *big.Int
}

// ContractX3Matrix is the output of the usersX3Matrix(address,uint8) view.
type ContractX3Matrix struct {
	CurrentReferrer common.Address
	Referrals       []common.Address
	Blocked         bool
}

// ContractX6Matrix is the output of the usersX6Matrix(address,uint8) view.
type ContractX6Matrix struct {
	CurrentReferrer     common.Address
	FirstLevelReferrals []common.Address
	SecondLevelReferals []common.Address
	Blocked             bool
	ClosedPart          common.Address
}

// Contract is a Go binding around the Dondi contract.
type Contract struct {
	abi      *abi.ABI
	contract *bind.BoundContract
}

// NewContract creates a new instance of Contract, bound to a specific deployed contract.
func NewContract(address common.Address, backend bind.ContractBackend) (*Contract, error) {
	parsed, err := ContractMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	if parsed == nil {
		return nil, errors.New("GetABI returned nil")
	}
	return &Contract{
		abi:      parsed,
		contract: bind.NewBoundContract(address, *parsed, backend, backend, backend),
	}, nil
}

// ABI returns the parsed contract abi.
func (c *Contract) ABI() *abi.ABI {
	return c.abi
}

func (c *Contract) call(opts *bind.CallOpts, method string, params ...interface{}) ([]interface{}, error) {
	var out []interface{}
	if err := c.contract.Call(opts, &out, method, params...); err != nil {
		return nil, err
	}
	return out, nil
}

// LASTLEVEL is a free data retrieval call binding the contract method LAST_LEVEL().
func (c *Contract) LASTLEVEL(opts *bind.CallOpts) (uint8, error) {
	out, err := c.call(opts, "LAST_LEVEL")
	if err != nil {
		return 0, err
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

// Balances is a free data retrieval call binding the contract method balances(address).
func (c *Contract) Balances(opts *bind.CallOpts, arg0 common.Address) (*big.Int, error) {
	out, err := c.call(opts, "balances", arg0)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// FindFreeX3Referrer is a free data retrieval call binding the contract method findFreeX3Referrer(address,uint8).
func (c *Contract) FindFreeX3Referrer(opts *bind.CallOpts, userAddress common.Address, level uint8) (common.Address, error) {
	return c.addressCall(opts, "findFreeX3Referrer", userAddress, level)
}

// FindFreeX6Referrer is a free data retrieval call binding the contract method findFreeX6Referrer(address,uint8).
func (c *Contract) FindFreeX6Referrer(opts *bind.CallOpts, userAddress common.Address, level uint8) (common.Address, error) {
	return c.addressCall(opts, "findFreeX6Referrer", userAddress, level)
}

// IdToAddress is a free data retrieval call binding the contract method idToAddress(uint256).
func (c *Contract) IdToAddress(opts *bind.CallOpts, arg0 *big.Int) (common.Address, error) { // nolint
	return c.addressCall(opts, "idToAddress", arg0)
}

// UserIds is a free data retrieval call binding the contract method userIds(uint256).
func (c *Contract) UserIds(opts *bind.CallOpts, arg0 *big.Int) (common.Address, error) { // nolint
	return c.addressCall(opts, "userIds", arg0)
}

// Owner is a free data retrieval call binding the contract method owner().
func (c *Contract) Owner(opts *bind.CallOpts) (common.Address, error) {
	return c.addressCall(opts, "owner")
}

// IsUserExists is a free data retrieval call binding the contract method isUserExists(address).
func (c *Contract) IsUserExists(opts *bind.CallOpts, user common.Address) (bool, error) {
	return c.boolCall(opts, "isUserExists", user)
}

// UsersActiveX3Levels is a free data retrieval call binding the contract method usersActiveX3Levels(address,uint8).
func (c *Contract) UsersActiveX3Levels(opts *bind.CallOpts, userAddress common.Address, level uint8) (bool, error) {
	return c.boolCall(opts, "usersActiveX3Levels", userAddress, level)
}

// UsersActiveX6Levels is a free data retrieval call binding the contract method usersActiveX6Levels(address,uint8).
func (c *Contract) UsersActiveX6Levels(opts *bind.CallOpts, userAddress common.Address, level uint8) (bool, error) {
	return c.boolCall(opts, "usersActiveX6Levels", userAddress, level)
}

// LastUserId is a free data retrieval call binding the contract method lastUserId().
func (c *Contract) LastUserId(opts *bind.CallOpts) (*big.Int, error) { // nolint
	out, err := c.call(opts, "lastUserId")
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// LevelPrice is a free data retrieval call binding the contract method levelPrice(uint8).
func (c *Contract) LevelPrice(opts *bind.CallOpts, arg0 uint8) (*big.Int, error) {
	out, err := c.call(opts, "levelPrice", arg0)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Users is a free data retrieval call binding the contract method users(address).
func (c *Contract) Users(opts *bind.CallOpts, arg0 common.Address) (ContractUser, error) {
	out, err := c.call(opts, "users", arg0)
	if err != nil {
		return ContractUser{}, err
	}
	return ContractUser{
		Id:            *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		Referrer:      *abi.ConvertType(out[1], new(common.Address)).(*common.Address),
		PartnersCount: *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
	}, nil
}

// UsersX3Matrix is a free data retrieval call binding the contract method usersX3Matrix(address,uint8).
func (c *Contract) UsersX3Matrix(opts *bind.CallOpts, userAddress common.Address, level uint8) (ContractX3Matrix, error) {
	out, err := c.call(opts, "usersX3Matrix", userAddress, level)
	if err != nil {
		return ContractX3Matrix{}, err
	}
	return ContractX3Matrix{
		CurrentReferrer: *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		Referrals:       *abi.ConvertType(out[1], new([]common.Address)).(*[]common.Address),
		Blocked:         *abi.ConvertType(out[2], new(bool)).(*bool),
	}, nil
}

// UsersX6Matrix is a free data retrieval call binding the contract method usersX6Matrix(address,uint8).
func (c *Contract) UsersX6Matrix(opts *bind.CallOpts, userAddress common.Address, level uint8) (ContractX6Matrix, error) {
	out, err := c.call(opts, "usersX6Matrix", userAddress, level)
	if err != nil {
		return ContractX6Matrix{}, err
	}
	return ContractX6Matrix{
		CurrentReferrer:     *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		FirstLevelReferrals: *abi.ConvertType(out[1], new([]common.Address)).(*[]common.Address),
		SecondLevelReferals: *abi.ConvertType(out[2], new([]common.Address)).(*[]common.Address),
		Blocked:             *abi.ConvertType(out[3], new(bool)).(*bool),
		ClosedPart:          *abi.ConvertType(out[4], new(common.Address)).(*common.Address),
	}, nil
}

// RegistrationExt is a paid mutator transaction binding the contract method registrationExt(address).
func (c *Contract) RegistrationExt(opts *bind.TransactOpts, referrerAddress common.Address) (*types.Transaction, error) {
	return c.contract.Transact(opts, "registrationExt", referrerAddress)
}

// BuyNewLevel is a paid mutator transaction binding the contract method buyNewLevel(uint8,uint8).
func (c *Contract) BuyNewLevel(opts *bind.TransactOpts, matrix uint8, level uint8) (*types.Transaction, error) {
	return c.contract.Transact(opts, "buyNewLevel", matrix, level)
}

func (c *Contract) addressCall(opts *bind.CallOpts, method string, params ...interface{}) (common.Address, error) {
	out, err := c.call(opts, method, params...)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (c *Contract) boolCall(opts *bind.CallOpts, method string, params ...interface{}) (bool, error) {
	out, err := c.call(opts, method, params...)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}
