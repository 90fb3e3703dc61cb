package controllers

import (
	"net/http"

	"github.com/dondinetwork/go-dondi/internal/dashboard"
	"github.com/dondinetwork/go-dondi/internal/dondi"
)

// DashboardController defines the HTTP handlers of the dashboard views.
type DashboardController struct {
	dashboard dashboard.Dashboard
	re        *Responder
}

// NewDashboardController creates a new DashboardController.
func NewDashboardController(d dashboard.Dashboard, re *Responder) *DashboardController {
	return &DashboardController{
		dashboard: d,
		re:        re,
	}
}

// Profile handles /profile.
func (c *DashboardController) Profile(rw http.ResponseWriter, r *http.Request) {
	addr, err := addressParam(queryParams(r), "address")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	profile, err := c.dashboard.Profile(r.Context(), addr)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, "Get the User profile information successfully", profile)
}

// SlotDetail handles /slotdetail.
func (c *DashboardController) SlotDetail(rw http.ResponseWriter, r *http.Request) {
	p := queryParams(r)
	addr, err := addressParam(p, "address")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	m, err := matrixParam(p, "matrix")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	l, err := levelParam(p, "level")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}

	detail, err := c.dashboard.SlotDetail(r.Context(), addr, m, l)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, "Get the slot details successfully", detail)
}

// Statistics handles /statistics.
func (c *DashboardController) Statistics(rw http.ResponseWriter, r *http.Request) {
	p := queryParams(r)
	addr, err := addressParam(p, "address")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	f := dondi.StatisticsFilter{
		Direction: p.Get("direction"),
		Type:      p.Get("type"),
		Tx:        p.Get("tx"),
	}
	if f.Matrix, err = optionalMatrixParam(p, "matrix"); err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	if f.Level, err = optionalLevelParam(p, "level"); err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	if f.Page, err = pageParam(p); err != nil {
		c.re.Fail(rw, r, err)
		return
	}

	page, err := c.dashboard.Statistics(r.Context(), addr, f)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, "Get the statistics infos successfully", page)
}

// Partners handles /partners.
func (c *DashboardController) Partners(rw http.ResponseWriter, r *http.Request) {
	p := queryParams(r)
	addr, err := addressParam(p, "address")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	f := dondi.PartnersFilter{Search: p.Get("search")}
	if f.Matrix, err = optionalMatrixParam(p, "matrix"); err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	if f.Level, err = optionalLevelParam(p, "level"); err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	if f.Page, err = pageParam(p); err != nil {
		c.re.Fail(rw, r, err)
		return
	}

	page, err := c.dashboard.Partners(r.Context(), addr, f)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, "Get the partners infos successfully", page)
}

// Info handles /dondiinfo.
func (c *DashboardController) Info(rw http.ResponseWriter, r *http.Request) {
	info, err := c.dashboard.Info(r.Context())
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, "Get the dondi information successfully", info)
}

// ReinvestPartners handles /getreinvestpartnerscnt.
func (c *DashboardController) ReinvestPartners(rw http.ResponseWriter, r *http.Request) {
	p := queryParams(r)
	addr, err := addressParam(p, "address")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	m, err := matrixParam(p, "matrix")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	l, err := levelParam(p, "level")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}

	rp, err := c.dashboard.ReinvestPartners(r.Context(), addr, m, l)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, "Get the X6 matrix successfully", rp)
}
