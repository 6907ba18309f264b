// Package taxpayer queries the public ANAF VAT payer registry.
package taxpayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cosminsandu/anaf-go/pkg/transporter"
)

const (
	resourceInfo = "PlatitorTvaRest/api/v8/ws/tva"
	dateLayout   = "2006-01-02"

	// MaxCIFsPerRequest is the service limit for a single lookup.
	MaxCIFsPerRequest = 100
)

// Taxpayer calls the public VAT payer endpoints through a transporter.
type Taxpayer struct {
	transporter transporter.Transporter
}

// New builds a Taxpayer resource.
func New(t transporter.Transporter) *Taxpayer {
	return &Taxpayer{transporter: t}
}

type infoRequest struct {
	CUI  int64  `json:"cui"`
	Date string `json:"data"`
}

// Info looks up the registry data of cifs as of date. When any CIF is unknown
// to the service the call fails with transporter.ErrTaxIdentificationNumberNotFound.
func (t *Taxpayer) Info(ctx context.Context, date time.Time, cifs ...string) (InfoResponse, error) {
	if len(cifs) == 0 {
		return InfoResponse{}, errors.New("at least one cif is required")
	}
	if len(cifs) > MaxCIFsPerRequest {
		return InfoResponse{}, fmt.Errorf("at most %d cifs per request, got %d", MaxCIFsPerRequest, len(cifs))
	}

	day := date.Format(dateLayout)
	reqs := make([]infoRequest, 0, len(cifs))
	for _, cif := range cifs {
		cui, err := ParseCUI(cif)
		if err != nil {
			return InfoResponse{}, err
		}
		reqs = append(reqs, infoRequest{CUI: cui, Date: day})
	}

	body, err := json.Marshal(reqs)
	if err != nil {
		return InfoResponse{}, fmt.Errorf("marshal taxpayer request: %w", err)
	}

	raw, err := t.transporter.RequestObject(ctx, transporter.Upload(resourceInfo, body, "application/json"))
	if err != nil {
		return InfoResponse{}, err
	}
	return NewInfoResponse(raw)
}

// ParseCUI converts a CIF, optionally prefixed with "RO", into its numeric form.
func ParseCUI(cif string) (int64, error) {
	trimmed := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(cif)), "RO")
	cui, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || cui <= 0 {
		return 0, fmt.Errorf("invalid cif %q", cif)
	}
	return cui, nil
}
