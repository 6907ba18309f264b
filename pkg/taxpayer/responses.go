package taxpayer

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Company is the flattened registry record of one taxpayer.
type Company struct {
	CUI                int64  `json:"cui" yaml:"cui"`
	Date               string `json:"date" yaml:"date"`
	Name               string `json:"name" yaml:"name"`
	Address            string `json:"address" yaml:"address"`
	RegistrationNumber string `json:"registration_number" yaml:"registration_number"`
	Phone              string `json:"phone" yaml:"phone"`
	PostalCode         string `json:"postal_code" yaml:"postal_code"`
	RegistrationStatus string `json:"registration_status" yaml:"registration_status"`
	RegistrationDate   string `json:"registration_date" yaml:"registration_date"`
	CAEN               string `json:"caen" yaml:"caen"`
	EFactura           bool   `json:"e_factura" yaml:"e_factura"`
	VATPayer           bool   `json:"vat_payer" yaml:"vat_payer"`
}

// InfoResponse is the shaped reply of the VAT payer lookup.
type InfoResponse struct {
	Code      int       `json:"code" yaml:"code"`
	Message   string    `json:"message" yaml:"message"`
	Taxpayers []Company `json:"taxpayers" yaml:"taxpayers"`
}

type rawInfo struct {
	Code    int        `mapstructure:"cod"`
	Message string     `mapstructure:"message"`
	Found   []rawFound `mapstructure:"found"`
}

type rawFound struct {
	General struct {
		CUI                int64  `mapstructure:"cui"`
		Date               string `mapstructure:"data"`
		Name               string `mapstructure:"denumire"`
		Address            string `mapstructure:"adresa"`
		RegistrationNumber string `mapstructure:"nrRegCom"`
		Phone              string `mapstructure:"telefon"`
		PostalCode         string `mapstructure:"codPostal"`
		RegistrationStatus string `mapstructure:"stare_inregistrare"`
		RegistrationDate   string `mapstructure:"data_inregistrare"`
		CAEN               string `mapstructure:"cod_CAEN"`
		EFactura           bool   `mapstructure:"statusRO_e_Factura"`
	} `mapstructure:"date_generale"`
	VAT struct {
		Registered bool `mapstructure:"scpTVA"`
	} `mapstructure:"inregistrare_scop_Tva"`
}

// NewInfoResponse shapes a decoded VAT payer reply.
func NewInfoResponse(raw map[string]any) (InfoResponse, error) {
	var in rawInfo
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &in,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return InfoResponse{}, fmt.Errorf("shape taxpayer response: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return InfoResponse{}, fmt.Errorf("shape taxpayer response: %w", err)
	}

	out := InfoResponse{
		Code:      in.Code,
		Message:   in.Message,
		Taxpayers: make([]Company, 0, len(in.Found)),
	}
	for _, f := range in.Found {
		g := f.General
		out.Taxpayers = append(out.Taxpayers, Company{
			CUI:                g.CUI,
			Date:               g.Date,
			Name:               g.Name,
			Address:            g.Address,
			RegistrationNumber: g.RegistrationNumber,
			Phone:              g.Phone,
			PostalCode:         g.PostalCode,
			RegistrationStatus: g.RegistrationStatus,
			RegistrationDate:   g.RegistrationDate,
			CAEN:               g.CAEN,
			EFactura:           g.EFactura,
			VATPayer:           f.VAT.Registered,
		})
	}
	return out, nil
}
