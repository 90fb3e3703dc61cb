package chains

import (
	"context"
	"fmt"
	"sort"

	"github.com/dondinetwork/go-dondi/pkg/chainsource"
	"github.com/ethereum/go-ethereum/common"
)

// Network is a deployment of the dondi contract.
type Network struct {
	Name            string
	ChainID         int64
	ContractAddress common.Address
	// StartBlock is the deployment block of the contract.
	StartBlock  uint64
	ExplorerURL string
}

// Networks are the known deployments, by name.
var Networks = map[string]Network{
	"mainnet": {
		Name:            "mainnet",
		ChainID:         1,
		ContractAddress: common.HexToAddress("0x017A7b7E44b5A99De7e56c0c0faB53F6421fAd93"),
		StartBlock:      10471702,
		ExplorerURL:     "http://api.etherscan.io",
	},
	"ropsten": {
		Name:            "ropsten",
		ChainID:         3,
		ContractAddress: common.HexToAddress("0x78058881774c393D3C8c41739db0748eECF144e0"),
		StartBlock:      8306015,
		ExplorerURL:     "http://api-ropsten.etherscan.io",
	},
}

// Lookup returns the network named name.
func Lookup(name string) (Network, error) {
	n, ok := Networks[name]
	if !ok {
		names := make([]string, 0, len(Networks))
		for k := range Networks {
			names = append(names, k)
		}
		sort.Strings(names)
		return Network{}, fmt.Errorf("unknown network %q, expected one of %v", name, names)
	}
	return n, nil
}

// ChainStack contains the components connected to the network.
type ChainStack struct {
	Network Network
	Chain   chainsource.Chain
	// Close gracefully closes all the chain stack components.
	Close func(ctx context.Context) error
}
