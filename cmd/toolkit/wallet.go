package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dondinetwork/go-dondi/internal/formatter"
	"github.com/dondinetwork/go-dondi/pkg/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Offers wallet utilities",
	Long:  `Offers utilities for the wallets that register and buy levels`,
	Args:  cobra.ExactArgs(1),
}

var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a wallet and stores its private key",
	Long:  `Creates a wallet and stores the hex encoded private key in a file readable only by the owner`,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename, err := cmd.Flags().GetString("filename")
		if err != nil {
			return errors.New("failed to parse filename")
		}
		sk, err := crypto.GenerateKey()
		if err != nil {
			return fmt.Errorf("generate key: %s", err)
		}
		encoded := strings.TrimPrefix(hexutil.Encode(crypto.FromECDSA(sk)), "0x")
		w, err := wallet.NewWallet(encoded)
		if err != nil {
			return fmt.Errorf("new wallet: %s", err)
		}

		if err := os.WriteFile(filename, []byte(encoded), 0o600); err != nil {
			return fmt.Errorf("writing to file %s: %s", filename, err)
		}
		fmt.Printf("Wallet address %s created\n", w.Address().Hex())
		fmt.Printf("Private key saved in %s\n", filename)
		return nil
	},
}

var walletAddressCmd = &cobra.Command{
	Use:   "address <privatekey|file>",
	Short: "Prints the address of a private key",
	Long:  `Prints the address of a hex encoded private key, given inline or as the file written by wallet create`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := loadWallet(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Wallet address %s\n", w.Address().Hex())
		return nil
	},
}

var walletBalanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Prints the ether balance of an address",
	Long:  `Prints the ether balance of an address at the latest block of the gateway`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("%q is not a valid address", args[0])
		}
		gateway, err := cmd.Flags().GetString("gateway")
		if err != nil {
			return errors.New("failed to parse gateway")
		}

		conn, err := ethclient.Dial(gateway)
		if err != nil {
			return fmt.Errorf("dial: %s", err)
		}
		defer conn.Close()

		wei, err := conn.BalanceAt(context.Background(), common.HexToAddress(args[0]), nil)
		if err != nil {
			return fmt.Errorf("balance at: %s", err)
		}
		fmt.Printf("%s ETH\n", formatter.Fixed3Decimal(decimal.NewFromBigInt(wei, -18)))
		return nil
	},
}

// loadWallet accepts a hex key or the path of a file holding one.
func loadWallet(v string) (*wallet.Wallet, error) {
	if content, err := os.ReadFile(v); err == nil {
		v = string(content)
	}
	w, err := wallet.NewWallet(v)
	if err != nil {
		return nil, fmt.Errorf("decode key: %s", err)
	}
	return w, nil
}
