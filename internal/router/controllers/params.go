package controllers

import (
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/dondinetwork/go-dondi/internal/dondi"
	"github.com/dondinetwork/go-dondi/pkg/errors"
	"github.com/ethereum/go-ethereum/common"
)

// params reads request parameters from the query string or a POST body.
type params interface {
	Get(name string) string
}

func queryParams(r *http.Request) params {
	return r.URL.Query()
}

// bodyParams decodes a JSON object or a form encoded POST body. Values of the
// JSON object are kept in their literal form.
func bodyParams(r *http.Request) (params, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return nil, errors.NewValidationError("body", "is not a valid form")
		}
		return r.PostForm, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading request body: %s", err)
	}
	fields := map[string]interface{}{}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, errors.NewValidationError("body", "is not a valid JSON object")
		}
	}
	out := jsonParams{}
	for k, v := range fields {
		switch v := v.(type) {
		case nil:
		case string:
			out[k] = v
		case float64:
			out[k] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out, nil
}

type jsonParams map[string]string

func (p jsonParams) Get(name string) string {
	return p[name]
}

func required(p params, name string) (string, error) {
	v := strings.TrimSpace(p.Get(name))
	if v == "" {
		return "", errors.NewValidationError(name, "required")
	}
	return v, nil
}

func addressParam(p params, name string) (common.Address, error) {
	v, err := required(p, name)
	if err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(v) {
		return common.Address{}, errors.NewValidationError(name, "is not a valid address")
	}
	return common.HexToAddress(v), nil
}

func matrixParam(p params, name string) (dondi.Matrix, error) {
	v, err := required(p, name)
	if err != nil {
		return 0, err
	}
	m, err := dondi.ParseMatrix(v)
	if err != nil {
		return 0, errors.NewValidationError(name, "must be 1 or 2")
	}
	return m, nil
}

func levelParam(p params, name string) (dondi.Level, error) {
	v, err := required(p, name)
	if err != nil {
		return 0, err
	}
	l, err := dondi.ParseLevel(v)
	if err != nil {
		return 0, errors.NewValidationError(name, "must be between 1 and 12")
	}
	return l, nil
}

// optionalMatrixParam returns 0 when the parameter is absent.
func optionalMatrixParam(p params, name string) (dondi.Matrix, error) {
	if strings.TrimSpace(p.Get(name)) == "" {
		return 0, nil
	}
	return matrixParam(p, name)
}

// optionalLevelParam returns 0 when the parameter is absent.
func optionalLevelParam(p params, name string) (dondi.Level, error) {
	if strings.TrimSpace(p.Get(name)) == "" {
		return 0, nil
	}
	return levelParam(p, name)
}

// pageParam defaults to the first page.
func pageParam(p params) (int, error) {
	v := strings.TrimSpace(p.Get("page"))
	if v == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(v)
	if err != nil || page < 1 {
		return 0, errors.NewValidationError("page", "must be a positive number")
	}
	return page, nil
}

func bigParam(p params, name string) (*big.Int, error) {
	v, err := required(p, name)
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(v, 10)
	if !ok || n.Sign() < 0 {
		return nil, errors.NewValidationError(name, "must be a non negative integer")
	}
	return n, nil
}
