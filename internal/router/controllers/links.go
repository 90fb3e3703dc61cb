package controllers

import (
	stderrors "errors"
	"net/http"

	"github.com/dondinetwork/go-dondi/pkg/errors"
	"github.com/dondinetwork/go-dondi/pkg/links"
)

// LinksController defines the HTTP handlers of the referral links.
type LinksController struct {
	store links.Store
	re    *Responder
}

// NewLinksController creates a new LinksController.
func NewLinksController(store links.Store, re *Responder) *LinksController {
	return &LinksController{
		store: store,
		re:    re,
	}
}

// GenerateLink handles /generatelink.
func (c *LinksController) GenerateLink(rw http.ResponseWriter, r *http.Request) {
	p, err := bodyParams(r)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	uid, err := required(p, "uid")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}

	link, err := c.store.Create(r.Context(), uid)
	if stderrors.Is(err, links.ErrExists) {
		c.re.Conflict(rw, "Already exist", uid)
		return
	}
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, textSuccess, link)
}

// GetIDFromLink handles /getidfromlink. Unknown links answer 0.
func (c *LinksController) GetIDFromLink(rw http.ResponseWriter, r *http.Request) {
	p, err := bodyParams(r)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}

	uid, err := c.store.UIDFromLink(r.Context(), p.Get("link"))
	if stderrors.Is(err, errors.ErrNotFound) {
		c.re.OK(rw, "Not exists", 0)
		return
	}
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, textSuccess, uid)
}
