package router

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dondinetwork/go-dondi/internal/dashboard"
	dashboardimpl "github.com/dondinetwork/go-dondi/internal/dashboard/impl"
	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/mocks"
	"github.com/dondinetwork/go-dondi/pkg/chainsource/impl/fixture"
	"github.com/dondinetwork/go-dondi/pkg/explorer/impl/etherscan"
	"github.com/dondinetwork/go-dondi/pkg/links"
	linksimpl "github.com/dondinetwork/go-dondi/pkg/links/impl"
	"github.com/dondinetwork/go-dondi/tests"
	"github.com/ethereum/go-ethereum/common"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary
	contract = common.HexToAddress("0x017A7b7E44b5A99De7e56c0c0faB53F6421fAd93")
	root     = common.HexToAddress("0x00000000000000000000000000000000000000ee")
	alice    = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob      = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

type envelope struct {
	Code  string              `json:"code"`
	Text  string              `json:"text"`
	Value jsoniter.RawMessage `json:"value"`
}

func TestRouter(t *testing.T) {
	t.Parallel()

	srv := newServer(t)

	t.Run("slot detail", func(t *testing.T) {
		t.Parallel()

		status, env := call(t, srv, http.MethodGet,
			fmt.Sprintf("/api/slotdetail?address=%s&matrix=1&level=1", alice.Hex()), "")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "200", env.Code)
		require.Equal(t, "Get the slot details successfully", env.Text)

		var detail struct {
			Balance string              `json:"balance"`
			History jsoniter.RawMessage `json:"history"`
		}
		require.NoError(t, json.Unmarshal(env.Value, &detail))
		require.Equal(t, "0.025", detail.Balance)
		require.JSONEq(t,
			`[{"reinvestCount":0,"pos1":{"address":"`+bob.Hex()+`"},"pos2":{},"pos3":{}}]`,
			string(detail.History))
	})

	t.Run("profile", func(t *testing.T) {
		t.Parallel()

		status, env := call(t, srv, http.MethodGet, "/api/profile?address="+alice.Hex(), "")
		require.Equal(t, http.StatusOK, status)

		var p dondi.Profile
		require.NoError(t, json.Unmarshal(env.Value, &p))
		require.Equal(t, "1", p.ID)
		require.Equal(t, root.Hex(), p.ReferrerAddress)
	})

	t.Run("dondi info", func(t *testing.T) {
		t.Parallel()

		status, env := call(t, srv, http.MethodGet, "/api/dondiinfo", "")
		require.Equal(t, http.StatusOK, status)

		var info dondi.Info
		require.NoError(t, json.Unmarshal(env.Value, &info))
		require.Equal(t, 1, info.TotalParticipants)
		require.Equal(t, "0.050", info.EarnedAmount)
	})

	t.Run("contract call", func(t *testing.T) {
		t.Parallel()

		_, env := call(t, srv, http.MethodGet, "/api/levelprice?level=1", "")
		var wei string
		require.NoError(t, json.Unmarshal(env.Value, &wei))
		require.Equal(t, "25000000000000000", wei)
	})

	t.Run("links", func(t *testing.T) {
		t.Parallel()

		status, env := call(t, srv, http.MethodPost, "/api/generatelink", `{"uid":"1"}`)
		require.Equal(t, http.StatusOK, status)
		var link links.Link
		require.NoError(t, json.Unmarshal(env.Value, &link))

		status, env = call(t, srv, http.MethodPost, "/api/generatelink", `{"uid":"1"}`)
		require.Equal(t, http.StatusConflict, status)
		require.Equal(t, "1001", env.Code)

		_, env = call(t, srv, http.MethodPost, "/api/getidfromlink", fmt.Sprintf(`{"link":%q}`, link.PersonalLink))
		var uid string
		require.NoError(t, json.Unmarshal(env.Value, &uid))
		require.Equal(t, "1", uid)
	})

	t.Run("validation", func(t *testing.T) {
		t.Parallel()

		status, env := call(t, srv, http.MethodGet, "/api/partners", "")
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "address required", env.Text)
	})

	t.Run("health", func(t *testing.T) {
		t.Parallel()

		for _, path := range []string{"/health", "/healthz"} {
			res, err := http.Get(srv.URL + path)
			require.NoError(t, err)
			require.NoError(t, res.Body.Close())
			require.Equal(t, http.StatusOK, res.StatusCode)
		}
	})

	t.Run("version", func(t *testing.T) {
		t.Parallel()

		res, err := http.Get(srv.URL + "/api/version")
		require.NoError(t, err)
		defer func() { _ = res.Body.Close() }()
		require.Equal(t, http.StatusOK, res.StatusCode)
		require.NotEmpty(t, res.Header.Get("Trace-ID"))
	})
}

func TestWithPrefix(t *testing.T) {
	t.Parallel()

	r := NewRouter()
	require.Equal(t, "/api", r.WithPrefix("api/").prefix)
	require.Equal(t, "/api/v1", r.WithPrefix("/api").WithPrefix("/v1").prefix)
	require.Equal(t, "", r.WithPrefix("").prefix)
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	src := fixture.New().
		SetOwner(root).
		AddUser(root, 100, common.Address{}, 1).
		AddUser(alice, 1, root, 1).
		AddUser(bob, 2, alice, 0).
		SetBlock(10, 1_000).
		SetSlot(alice, 1, dondi.SlotState{Matrix: dondi.X3, CurrentReferrer: root, FirstLevel: []common.Address{bob}}).
		SetSlot(bob, 1, dondi.SlotState{Matrix: dondi.X3, CurrentReferrer: alice}).
		AddEvent(dondi.ContractEvent{
			Type:        dondi.EventRegistration,
			User:        bob,
			Referrer:    alice,
			UserID:      big.NewInt(2),
			TxHash:      common.BigToHash(big.NewInt(1)),
			BlockNumber: 10,
		}).
		AddEvent(dondi.ContractEvent{
			Type:        dondi.EventNewUserPlace,
			User:        bob,
			Referrer:    alice,
			Matrix:      dondi.X3,
			Level:       1,
			Place:       1,
			TxHash:      common.BigToHash(big.NewInt(1)),
			BlockNumber: 10,
		})

	explorerSrv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-type", "application/json")
		_, _ = rw.Write([]byte(`{"status":"1","message":"OK","result":[
			{"hash":"0x01","isError":"0","value":"50000000000000000","input":"0x797eee24","timeStamp":"1000"}
		]}`))
	}))
	t.Cleanup(explorerSrv.Close)

	store, err := linksimpl.New(tests.Sqlite3URI(), links.NewGenerator("https://dondi.io"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	dash, err := dashboardimpl.NewDashboard(
		src,
		etherscan.NewClient(explorerSrv.URL, "KEY", time.Second),
		store,
		dashboard.WithContractAddress(contract),
		dashboard.WithStartBlock(1),
	)
	require.NoError(t, err)

	router, err := ConfiguredRouter(Config{
		APIPrefix:       "/api",
		MaxRPI:          1000,
		RateLimInterval: time.Second,
	}, dash, src, mocks.NewSubmitter(t), store)
	require.NoError(t, err)

	srv := httptest.NewServer(router.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body string) (int, envelope) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	var env envelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&env))
	return res.StatusCode, env
}
