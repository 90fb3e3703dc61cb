package etherscan

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dondinetwork/go-dondi/pkg/errors"
	"github.com/dondinetwork/go-dondi/pkg/explorer"
	"github.com/dondinetwork/go-dondi/pkg/logging"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is an Etherscan compatible explorer.Explorer.
type Client struct {
	log    zerolog.Logger
	http   *resty.Client
	apiKey string
}

var _ explorer.Explorer = (*Client)(nil)

// NewClient returns a client for the explorer API served at baseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	c.JSONMarshal = json.Marshal
	c.JSONUnmarshal = json.Unmarshal

	return &Client{
		log:    logging.Component("explorer"),
		http:   c,
		apiKey: apiKey,
	}
}

type txListResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Result  jsoniter.RawMessage `json:"result"`
}

type txListItem struct {
	Hash      string `json:"hash"`
	IsError   string `json:"isError"`
	Value     string `json:"value"`
	Input     string `json:"input"`
	TimeStamp string `json:"timeStamp"`
}

// TxList implements explorer.Explorer.
func (c *Client) TxList(
	ctx context.Context,
	address common.Address,
	startBlock, endBlock uint64,
) ([]explorer.Transaction, error) {
	var body txListResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"module":     "account",
			"action":     "txlist",
			"address":    address.Hex(),
			"startblock": strconv.FormatUint(startBlock, 10),
			"endblock":   strconv.FormatUint(endBlock, 10),
			"sort":       "desc",
			"apikey":     c.apiKey,
		}).
		SetResult(&body).
		ForceContentType("application/json").
		Get("/api")
	if err != nil {
		return nil, errors.NewUpstreamAPIError(0, fmt.Errorf("requesting txlist: %s", err))
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, errors.NewUpstreamAPIError(resp.StatusCode(), fmt.Errorf("unexpected status: %s", resp.Status()))
	}

	// Etherscan answers status "0" both for an empty list and for real
	// errors. Only the former carries an array as result.
	var items []txListItem
	if err := json.Unmarshal(body.Result, &items); err != nil {
		if body.Status == "0" {
			return nil, errors.NewUpstreamAPIError(resp.StatusCode(), fmt.Errorf("%s: %s", body.Message, string(body.Result)))
		}
		return nil, errors.NewUpstreamAPIError(resp.StatusCode(), fmt.Errorf("decoding result: %s", err))
	}

	txs := make([]explorer.Transaction, 0, len(items))
	for _, item := range items {
		tx, err := item.toTransaction()
		if err != nil {
			return nil, errors.NewUpstreamAPIError(resp.StatusCode(), fmt.Errorf("parsing tx %s: %s", item.Hash, err))
		}
		txs = append(txs, tx)
	}

	c.log.Debug().
		Str("address", address.Hex()).
		Int("count", len(txs)).
		Msg("fetched transaction list")

	return txs, nil
}

func (item txListItem) toTransaction() (explorer.Transaction, error) {
	wei, err := decimal.NewFromString(item.Value)
	if err != nil {
		return explorer.Transaction{}, fmt.Errorf("parsing value: %s", err)
	}
	ts, err := strconv.ParseUint(item.TimeStamp, 10, 64)
	if err != nil {
		return explorer.Transaction{}, fmt.Errorf("parsing timestamp: %s", err)
	}
	return explorer.Transaction{
		Hash:      item.Hash,
		IsError:   item.IsError != "0",
		Value:     wei.Shift(-18),
		Input:     item.Input,
		Timestamp: ts,
	}, nil
}
