package main

import (
	"github.com/spf13/cobra"
)

var cliName = "toolkit"

var rootCmd = &cobra.Command{
	Use:   cliName,
	Short: "toolkit is CLI for dondi operators",
	Long:  `toolkit is CLI for dondi operators executing mundane tasks against the contract`,
	Args:  cobra.ExactArgs(0),
}

func main() {
	rootCmd.Execute() //nolint
}

func init() {
	rootCmd.AddCommand(scCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(backupCmd)

	scCmd.PersistentFlags().String("network", "mainnet", "network preset (mainnet or ropsten)")
	scCmd.PersistentFlags().String("contract-address", "", "the smart contract address, overrides the preset")
	scCmd.PersistentFlags().Int64("chain-id", 0, "chain id, overrides the preset")
	scCmd.PersistentFlags().String("privatekey", "", "the private key used to send transactions, inline or a key file")
	scCmd.PersistentFlags().String("gateway", "", "URL of an Ethereum node API (i.e: Alchemy/Infura)")
	scCmd.PersistentFlags().Uint64("gas-limit", 3000000, "gas limit of sent transactions")
	registerCmd.Flags().String("value", "0.05", "ether paid for the registration")
	buyLevelCmd.Flags().String("value", "", "ether paid for the level, defaults to the level price")
	scCmd.AddCommand(registerCmd)
	scCmd.AddCommand(buyLevelCmd)
	scCmd.AddCommand(userCmd)

	walletCreateCmd.Flags().String("filename", "privatekey.hex", "Filename to store hex representation of private key")
	walletCmd.AddCommand(walletCreateCmd)
	walletCmd.AddCommand(walletAddressCmd)
	walletBalanceCmd.Flags().String("gateway", "", "URL of an Ethereum node API (i.e: Alchemy/Infura)")
	walletCmd.AddCommand(walletBalanceCmd)

	backupCreateCmd.Flags().String("dir", "backups", "directory of the backup files")
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupRestoreCmd)
}
