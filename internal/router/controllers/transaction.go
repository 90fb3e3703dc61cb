package controllers

import (
	"math/big"
	"net/http"

	"github.com/dondinetwork/go-dondi/pkg/chainsource"
	"github.com/dondinetwork/go-dondi/pkg/errors"
	"github.com/dondinetwork/go-dondi/pkg/wallet"
	"github.com/shopspring/decimal"
)

// TransactionController defines the HTTP handlers that submit payable
// transactions signed with a caller provided key.
type TransactionController struct {
	submitter chainsource.Submitter
	re        *Responder
}

// NewTransactionController creates a new TransactionController.
func NewTransactionController(submitter chainsource.Submitter, re *Responder) *TransactionController {
	return &TransactionController{
		submitter: submitter,
		re:        re,
	}
}

// RegistrationExt handles /registrationext.
func (c *TransactionController) RegistrationExt(rw http.ResponseWriter, r *http.Request) {
	p, err := bodyParams(r)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	referrer, err := addressParam(p, "referrerAddress")
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	w, value, err := signer(p)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}

	receipt, err := c.submitter.RegistrationExt(r.Context(), w, referrer, value)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, textSuccess, receipt)
}

// BuyNewLevel handles /buynewlevel.
func (c *TransactionController) BuyNewLevel(rw http.ResponseWriter, r *http.Request) {
	p, err := bodyParams(r)
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
	w, value, err := signer(p)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}

	receipt, err := c.submitter.BuyNewLevel(r.Context(), w, m, l, value)
	if err != nil {
		c.re.Fail(rw, r, err)
		return
	}
	c.re.OK(rw, textSuccess, receipt)
}

// signer builds the wallet of the request and the value in wei it pays. The
// key must belong to fromAddress.
func signer(p params) (*wallet.Wallet, *big.Int, error) {
	from, err := addressParam(p, "fromAddress")
	if err != nil {
		return nil, nil, err
	}
	sk, err := required(p, "privateKey")
	if err != nil {
		return nil, nil, err
	}
	w, err := wallet.NewWallet(sk)
	if err != nil {
		return nil, nil, errors.NewValidationError("privateKey", "is not a valid key")
	}
	if w.Address() != from {
		return nil, nil, errors.NewValidationError("privateKey", "doesn't belong to fromAddress")
	}

	amount, err := required(p, "payableAmount")
	if err != nil {
		return nil, nil, err
	}
	ether, err := decimal.NewFromString(amount)
	if err != nil || ether.IsNegative() {
		return nil, nil, errors.NewValidationError("payableAmount", "must be a non negative ether amount")
	}
	wei := ether.Shift(18)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, nil, errors.NewValidationError("payableAmount", "has more than 18 decimals")
	}
	return w, wei.BigInt(), nil
}
