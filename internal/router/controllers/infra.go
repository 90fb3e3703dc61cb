package controllers

import (
	"net/http"

	"github.com/dondinetwork/go-dondi/buildinfo"
)

// InfraController defines the HTTP handlers for infrastructure APIs.
type InfraController struct{}

// NewInfraController creates a new InfraController.
func NewInfraController() *InfraController {
	return &InfraController{}
}

// Version returns git information of the running binary.
func (c *InfraController) Version(rw http.ResponseWriter, _ *http.Request) {
	rw.Header().Set("Content-type", "application/json")
	rw.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(rw).Encode(buildinfo.GetSummary())
}

// Health answers 200 while the process is serving.
func (c *InfraController) Health(rw http.ResponseWriter, _ *http.Request) {
	rw.WriteHeader(http.StatusOK)
}
