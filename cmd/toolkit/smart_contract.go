package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/dondinetwork/go-dondi/internal/chains"
	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/internal/formatter"
	"github.com/dondinetwork/go-dondi/pkg/chainsource"
	"github.com/dondinetwork/go-dondi/pkg/chainsource/impl/ethereum"
	"github.com/dondinetwork/go-dondi/pkg/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var scCmd = &cobra.Command{
	Use:   "sc",
	Short: "Offers smart contract calls",
	Long:  `Offers smart contract calls to the dondi contract`,
	Args:  cobra.ExactArgs(1),
}

var registerCmd = &cobra.Command{
	Use:   "register <referrer>",
	Short: "Registers the wallet under a referrer",
	Long:  `Sends a registrationExt transaction signed by the private key`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("referrer %q is not a valid address", args[0])
		}
		value, err := etherFlag(cmd, "value")
		if err != nil {
			return err
		}

		ctx := context.Background()
		client, w, err := newClient(cmd, true)
		if err != nil {
			return err
		}

		receipt, err := client.RegistrationExt(ctx, w, common.HexToAddress(args[0]), value)
		if err != nil {
			return fmt.Errorf("registration: %s", err)
		}
		printReceipt(receipt)
		return nil
	},
}

var buyLevelCmd = &cobra.Command{
	Use:   "buylevel <matrix> <level>",
	Short: "Buys a matrix level for the wallet",
	Long:  `Sends a buyNewLevel transaction signed by the private key`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := dondi.ParseMatrix(args[0])
		if err != nil {
			return err
		}
		l, err := dondi.ParseLevel(args[1])
		if err != nil {
			return err
		}

		ctx := context.Background()
		client, w, err := newClient(cmd, true)
		if err != nil {
			return err
		}

		value, err := etherFlag(cmd, "value")
		if err != nil {
			return err
		}
		if value == nil {
			if value, err = client.LevelPrice(ctx, l); err != nil {
				return fmt.Errorf("level price: %s", err)
			}
		}

		receipt, err := client.BuyNewLevel(ctx, w, m, l, value)
		if err != nil {
			return fmt.Errorf("buy new level: %s", err)
		}
		printReceipt(receipt)
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user <address>",
	Short: "Prints the contract record of a user",
	Long:  `Prints the contract record of a user and its active levels`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("%q is not a valid address", args[0])
		}
		addr := common.HexToAddress(args[0])

		ctx := context.Background()
		client, _, err := newClient(cmd, false)
		if err != nil {
			return err
		}

		u, err := client.FetchCurrentUser(ctx, addr)
		if err != nil {
			return fmt.Errorf("fetching user: %s", err)
		}
		fmt.Printf("id:        %s\n", u.ID)
		fmt.Printf("referrer:  %s\n", u.Referrer.Hex())
		fmt.Printf("partners:  %s\n", u.PartnersCount)

		balance, err := client.Balances(ctx, addr)
		if err != nil {
			return fmt.Errorf("fetching balance: %s", err)
		}
		fmt.Printf("balance:   %s ETH\n", formatter.Fixed3Decimal(decimal.NewFromBigInt(balance, -18)))

		for _, m := range []dondi.Matrix{dondi.X3, dondi.X6} {
			var active []dondi.Level
			for _, l := range dondi.Levels() {
				ok, err := client.IsLevelActive(ctx, addr, m, l)
				if err != nil {
					return fmt.Errorf("fetching active level: %s", err)
				}
				if ok {
					active = append(active, l)
				}
			}
			fmt.Printf("%s levels: %v\n", m, active)
		}
		return nil
	},
}

// newClient connects to the gateway of the selected network. The wallet is
// only built when withWallet is set.
func newClient(cmd *cobra.Command, withWallet bool) (*ethereum.Client, *wallet.Wallet, error) {
	networkName, err := cmd.Flags().GetString("network")
	if err != nil {
		return nil, nil, errors.New("failed to parse network")
	}
	contractAddress, err := cmd.Flags().GetString("contract-address")
	if err != nil {
		return nil, nil, errors.New("failed to parse contract-address")
	}
	chainID, err := cmd.Flags().GetInt64("chain-id")
	if err != nil {
		return nil, nil, errors.New("failed to parse chain-id")
	}
	gatewayEndpoint, err := cmd.Flags().GetString("gateway")
	if err != nil {
		return nil, nil, errors.New("failed to parse gateway")
	}
	gasLimit, err := cmd.Flags().GetUint64("gas-limit")
	if err != nil {
		return nil, nil, errors.New("failed to parse gas-limit")
	}

	network, err := chains.Lookup(networkName)
	if err != nil {
		return nil, nil, err
	}
	if contractAddress != "" {
		network.ContractAddress = common.HexToAddress(contractAddress)
	}
	if chainID != 0 {
		network.ChainID = chainID
	}

	var w *wallet.Wallet
	if withWallet {
		privateKey, err := cmd.Flags().GetString("privatekey")
		if err != nil {
			return nil, nil, errors.New("failed to parse privatekey")
		}
		if w, err = loadWallet(privateKey); err != nil {
			return nil, nil, err
		}
	}

	conn, err := ethclient.Dial(gatewayEndpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("dial: %s", err)
	}
	client, err := ethereum.NewClient(conn, network.ChainID, network.ContractAddress, chainsource.WithGasLimit(gasLimit))
	if err != nil {
		return nil, nil, fmt.Errorf("creating ethereum client: %s", err)
	}
	return client, w, nil
}

// etherFlag parses an ether amount flag into wei. An empty flag is nil.
func etherFlag(cmd *cobra.Command, name string) (*big.Int, error) {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s", name)
	}
	if v == "" {
		return nil, nil
	}
	ether, err := decimal.NewFromString(v)
	if err != nil || ether.IsNegative() {
		return nil, fmt.Errorf("%s must be a non negative ether amount", name)
	}
	return ether.Shift(18).BigInt(), nil
}

func printReceipt(r *types.Receipt) {
	fmt.Printf("tx:     %s\n", r.TxHash.Hex())
	fmt.Printf("block:  %s\n", r.BlockNumber)
	fmt.Printf("status: %d\n", r.Status)
	fmt.Printf("gas:    %d\n", r.GasUsed)
}
