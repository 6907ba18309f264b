// Package efactura wraps the authenticated e-Factura endpoints.
package efactura

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cosminsandu/anaf-go/pkg/transporter"
)

const (
	StandardFACT1 = "FACT1"
	StandardFCN   = "FCN"

	// Message list filters.
	FilterErrors   = "E"
	FilterSent     = "T"
	FilterReceived = "P"
	FilterBuyer    = "R"

	DefaultEnvironment = "prod"
	MaxDays            = 60

	xmlContentType = "text/plain"
)

var cifPattern = regexp.MustCompile(`^[0-9]{2,10}$`)

// Efactura calls the e-Factura REST endpoints through a transporter.
type Efactura struct {
	transporter transporter.Transporter
	env         string
}

// New builds an Efactura resource. An empty env defaults to "prod".
func New(t transporter.Transporter, env string) *Efactura {
	env = strings.TrimSpace(env)
	if env == "" {
		env = DefaultEnvironment
	}
	return &Efactura{transporter: t, env: env}
}

// MessagesParams selects the messages to list.
type MessagesParams struct {
	CIF    string
	Days   int
	Filter string
}

func (p MessagesParams) query() (transporter.QueryParams, error) {
	cif := NormalizeCIF(p.CIF)
	if !cifPattern.MatchString(cif) {
		return transporter.QueryParams{}, fmt.Errorf("invalid cif %q", p.CIF)
	}
	if p.Days < 1 || p.Days > MaxDays {
		return transporter.QueryParams{}, fmt.Errorf("days must be between 1 and %d, got %d", MaxDays, p.Days)
	}

	q := transporter.NewQueryParams("zile", strconv.Itoa(p.Days), "cif", cif)
	switch p.Filter {
	case "":
	case FilterErrors, FilterSent, FilterReceived, FilterBuyer:
		q = q.With("filtru", p.Filter)
	default:
		return transporter.QueryParams{}, fmt.Errorf("invalid filter %q", p.Filter)
	}
	return q, nil
}

// Messages lists the messages of a taxpayer.
//
// See https://mfinante.gov.ro/static/10/eFactura/listamesaje.html
func (e *Efactura) Messages(ctx context.Context, params MessagesParams) (MessagesResponse, error) {
	query, err := params.query()
	if err != nil {
		return MessagesResponse{}, err
	}

	raw, err := e.transporter.RequestObject(ctx, transporter.Get(e.resource("listaMesajeFactura"), query))
	if err != nil {
		return MessagesResponse{}, err
	}
	return NewMessagesResponse(raw)
}

// Download fetches the zip archive of a message.
//
// See https://mfinante.gov.ro/static/10/eFactura/descarcare.html
func (e *Efactura) Download(ctx context.Context, id string) (*transporter.File, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("message id is empty")
	}
	return e.transporter.RequestFile(ctx, transporter.Get(e.resource("descarcare"), transporter.NewQueryParams("id", id)))
}

// XMLToPDF converts the invoice stored at xmlPath into a PDF.
//
// See https://mfinante.gov.ro/static/10/eFactura/xmltopdf.html
func (e *Efactura) XMLToPDF(ctx context.Context, xmlPath, standard string, validate bool) (*transporter.File, error) {
	if err := validateStandard(standard); err != nil {
		return nil, err
	}
	doc, err := LoadXML(xmlPath)
	if err != nil {
		return nil, err
	}
	return e.ConvertXML(ctx, doc, standard, validate)
}

// ConvertXML converts an already loaded document into a PDF.
func (e *Efactura) ConvertXML(ctx context.Context, doc XML, standard string, validate bool) (*transporter.File, error) {
	if err := validateStandard(standard); err != nil {
		return nil, err
	}

	resource := e.resource("transformare/" + standard)
	if validate {
		resource += "/DA"
	}
	return e.transporter.RequestFile(ctx, transporter.Upload(resource, doc.Bytes(), xmlContentType))
}

func (e *Efactura) resource(path string) string {
	return e.env + "/FCTEL/rest/" + path
}

func validateStandard(standard string) error {
	if standard != StandardFACT1 && standard != StandardFCN {
		return fmt.Errorf("invalid standard %s", standard)
	}
	return nil
}

// NormalizeCIF strips whitespace and an optional "RO" VAT prefix.
func NormalizeCIF(cif string) string {
	cif = strings.ToUpper(strings.TrimSpace(cif))
	return strings.TrimPrefix(cif, "RO")
}
