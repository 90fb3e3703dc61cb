package controllers

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/mocks"
	"github.com/dondinetwork/go-dondi/pkg/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")

func TestDashboardController(t *testing.T) {
	t.Parallel()

	t.Run("profile", func(t *testing.T) {
		t.Parallel()

		d := mocks.NewDashboard(t)
		d.On("Profile", mock.Anything, alice).Return(dondi.Profile{ID: "1", Address: alice.Hex()}, nil).Once()
		c := NewDashboardController(d, NewResponder(false))

		status, env := get(t, c.Profile, "/api/profile?address="+alice.Hex())
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "200", env.Code)
		require.Equal(t, "Get the User profile information successfully", env.Text)

		var p dondi.Profile
		value(t, env, &p)
		require.Equal(t, "1", p.ID)
		require.Equal(t, alice.Hex(), p.Address)
	})

	t.Run("missing address", func(t *testing.T) {
		t.Parallel()

		d := mocks.NewDashboard(t)
		c := NewDashboardController(d, NewResponder(false))

		status, env := get(t, c.Profile, "/api/profile")
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "400", env.Code)
		require.Equal(t, "address required", env.Text)
		d.AssertNotCalled(t, "Profile", mock.Anything, mock.Anything)
	})

	t.Run("malformed address", func(t *testing.T) {
		t.Parallel()

		c := NewDashboardController(mocks.NewDashboard(t), NewResponder(false))

		status, env := get(t, c.SlotDetail, "/api/slotdetail?address=0xnope&matrix=1&level=1")
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "address is not a valid address", env.Text)
	})

	t.Run("bad matrix and level", func(t *testing.T) {
		t.Parallel()

		c := NewDashboardController(mocks.NewDashboard(t), NewResponder(false))

		_, env := get(t, c.SlotDetail, "/api/slotdetail?address="+alice.Hex()+"&matrix=3&level=1")
		require.Equal(t, "400", env.Code)
		require.Equal(t, "matrix must be 1 or 2", env.Text)

		_, env = get(t, c.ReinvestPartners, "/api/getreinvestpartnerscnt?address="+alice.Hex()+"&matrix=1&level=13")
		require.Equal(t, "400", env.Code)
		require.Equal(t, "level must be between 1 and 12", env.Text)
	})

	t.Run("chain failure", func(t *testing.T) {
		t.Parallel()

		d := mocks.NewDashboard(t)
		d.On("SlotDetail", mock.Anything, alice, dondi.X3, dondi.Level(1)).
			Return(dondi.SlotDetail{}, errors.NewChainQueryError("FetchEvents", stderrors.New("node down"))).
			Once()
		c := NewDashboardController(d, NewResponder(false))

		status, env := get(t, c.SlotDetail, "/api/slotdetail?address="+alice.Hex()+"&matrix=1&level=1")
		require.Equal(t, http.StatusServiceUnavailable, status)
		require.Equal(t, "503", env.Code)
		require.Equal(t, "Service Unavailable", env.Text)

		var msg string
		value(t, env, &msg)
		require.Contains(t, msg, "node down")
	})

	t.Run("legacy status codes", func(t *testing.T) {
		t.Parallel()

		d := mocks.NewDashboard(t)
		d.On("Info", mock.Anything).Return(dondi.Info{}, errors.NewUpstreamAPIError(500, stderrors.New("explorer down"))).Once()
		c := NewDashboardController(d, NewResponder(true))

		status, env := get(t, c.Info, "/api/dondiinfo")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "503", env.Code)

		status, env = get(t, c.Profile, "/api/profile")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "400", env.Code)
	})

	t.Run("statistics filter", func(t *testing.T) {
		t.Parallel()

		want := dondi.StatisticsFilter{
			Matrix:    dondi.X6,
			Level:     3,
			Direction: "income",
			Type:      "newPartner",
			Tx:        "0xab",
			Page:      2,
		}
		d := mocks.NewDashboard(t)
		d.On("Statistics", mock.Anything, alice, want).Return(dondi.StatisticsPage{TotalPage: 2, Total: 30}, nil).Once()
		c := NewDashboardController(d, NewResponder(false))

		status, env := get(t, c.Statistics,
			"/api/statistics?address="+alice.Hex()+"&matrix=2&level=3&direction=income&type=newPartner&tx=0xab&page=2")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "Get the statistics infos successfully", env.Text)

		var page dondi.StatisticsPage
		value(t, env, &page)
		require.Equal(t, 2, page.TotalPage)
		require.Equal(t, 30, page.Total)
	})

	t.Run("statistics defaults", func(t *testing.T) {
		t.Parallel()

		d := mocks.NewDashboard(t)
		d.On("Statistics", mock.Anything, alice, dondi.StatisticsFilter{Page: 1}).Return(dondi.StatisticsPage{}, nil).Once()
		c := NewDashboardController(d, NewResponder(false))

		status, _ := get(t, c.Statistics, "/api/statistics?address="+alice.Hex())
		require.Equal(t, http.StatusOK, status)
	})

	t.Run("invalid page", func(t *testing.T) {
		t.Parallel()

		c := NewDashboardController(mocks.NewDashboard(t), NewResponder(false))

		_, env := get(t, c.Partners, "/api/partners?address="+alice.Hex()+"&page=0")
		require.Equal(t, "400", env.Code)
		require.Equal(t, "page must be a positive number", env.Text)
	})

	t.Run("partners filter", func(t *testing.T) {
		t.Parallel()

		want := dondi.PartnersFilter{Matrix: dondi.X3, Level: 5, Search: "42", Page: 1}
		d := mocks.NewDashboard(t)
		d.On("Partners", mock.Anything, alice, want).Return(dondi.PartnersPage{}, nil).Once()
		c := NewDashboardController(d, NewResponder(false))

		status, env := get(t, c.Partners, "/api/partners?address="+alice.Hex()+"&matrix=1&level=5&search=42")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "Get the partners infos successfully", env.Text)
	})

	t.Run("reinvest partners", func(t *testing.T) {
		t.Parallel()

		d := mocks.NewDashboard(t)
		d.On("ReinvestPartners", mock.Anything, alice, dondi.X6, dondi.Level(2)).
			Return(dondi.ReinvestPartners{ReinvestCount: 3}, nil).
			Once()
		c := NewDashboardController(d, NewResponder(false))

		status, env := get(t, c.ReinvestPartners, "/api/getreinvestpartnerscnt?address="+alice.Hex()+"&matrix=2&level=2")
		require.Equal(t, http.StatusOK, status)

		var rp dondi.ReinvestPartners
		value(t, env, &rp)
		require.Equal(t, 3, rp.ReinvestCount)
	})
}
