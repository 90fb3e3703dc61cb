package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dondinetwork/go-dondi/internal/chains"
	"github.com/ethereum/go-ethereum/common"
	"github.com/omeid/uconfig"
)

// configFilename is the filename of the config file automatically loaded.
var configFilename = "config.json"

type config struct {
	Network string `default:"mainnet"` // network preset (mainnet or ropsten)
	Chain   struct {
		EthEndpoint        string `default:""`
		ContractAddress    string `default:""`  // overrides the preset
		StartBlock         uint64 `default:"0"` // overrides the preset
		ChainID            int64  `default:"0"` // overrides the preset
		GasLimit           uint64 `default:"3000000"`
		MaxBlocksFetchSize int64  `default:"100000"`
		MaxConcurrentCalls int    `default:"16"`
		CallTimeout        string `default:"30s"`
	}
	Explorer struct {
		URL     string `default:""` // overrides the preset
		APIKey  string `default:""`
		Timeout string `default:"30s"`
	}
	Links struct {
		DBURI   string `default:"file:dondi.db?_foreign_keys=on"`
		BaseURL string `default:"https://dondi.io"`
		Backup  struct {
			Enabled     bool   `default:"false"`
			Dir         string `default:"backups"`
			Frequency   string `default:"24h"`
			KeepFiles   int    `default:"5"`
			Compression bool   `default:"true"`
			Vacuum      bool   `default:"true"`
		}
	}
	HTTP struct {
		Port                  string `default:"8080"`
		APIPrefix             string `default:"/api"`
		RateLimInterval       string `default:"1s"`
		MaxRequestPerInterval uint64 `default:"10"`
		LegacyStatusCodes     bool   `default:"false"`
		// Comma separated origins allowed to call the API.
		AllowedOrigins          string `default:"*"`
		TxMaxRequestPerInterval uint64 `default:"2"`
	}
	Metrics struct {
		Port string `default:"9090"`
	}
	Log struct {
		Human bool `default:"false"`
		Debug bool `default:"false"`
	}
}

func setupConfig() *config {
	conf := &config{}
	confFiles := uconfig.Files{
		{configFilename, json.Unmarshal},
	}

	c, err := uconfig.Classic(&conf, confFiles)
	if err != nil {
		c.Usage()
		os.Exit(1)
	}

	return conf
}

// network returns the configured preset with the explicit chain and explorer
// settings applied on top.
func (c *config) network() (chains.Network, error) {
	n, err := chains.Lookup(c.Network)
	if err != nil {
		return chains.Network{}, err
	}
	if c.Chain.ContractAddress != "" {
		if !common.IsHexAddress(c.Chain.ContractAddress) {
			return chains.Network{}, fmt.Errorf("contract address %q is not valid", c.Chain.ContractAddress)
		}
		n.ContractAddress = common.HexToAddress(c.Chain.ContractAddress)
	}
	if c.Chain.StartBlock != 0 {
		n.StartBlock = c.Chain.StartBlock
	}
	if c.Chain.ChainID != 0 {
		n.ChainID = c.Chain.ChainID
	}
	if c.Explorer.URL != "" {
		n.ExplorerURL = c.Explorer.URL
	}
	return n, nil
}

func parseDuration(name, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid format %q: %s", name, v, err)
	}
	return d, nil
}

// splitList splits a comma separated config value, dropping empty items.
func splitList(v string) []string {
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
