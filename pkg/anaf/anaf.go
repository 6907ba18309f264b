// Package anaf builds ready to use clients for the ANAF web services.
//
//	client, err := anaf.AuthorizedClient(token)
//	list, err := client.Efactura().Messages(ctx, efactura.MessagesParams{CIF: "8000000000", Days: 60})
package anaf

import (
	"errors"
	"time"

	"github.com/cosminsandu/anaf-go/pkg/efactura"
	"github.com/cosminsandu/anaf-go/pkg/httpclient"
	"github.com/cosminsandu/anaf-go/pkg/taxpayer"
	"github.com/cosminsandu/anaf-go/pkg/transporter"
)

const (
	// AuthorizedBaseURI serves the OAuth protected e-Factura API.
	AuthorizedBaseURI = "https://api.anaf.ro/"
	// PublicBaseURI serves the unauthenticated registry API.
	PublicBaseURI = "https://webservicesp.anaf.ro/"

	defaultTimeout = 30 * time.Second
)

type options struct {
	client      httpclient.Client
	baseURI     string
	headers     map[string]string
	queryParams transporter.QueryParams
	env         string
	timeout     time.Duration
	log         transporter.Logger
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient injects the HTTP client used to send requests.
func WithHTTPClient(client httpclient.Client) Option {
	return func(o *options) { o.client = client }
}

// WithBaseURI overrides the base URI.
func WithBaseURI(uri string) Option {
	return func(o *options) { o.baseURI = uri }
}

// WithHeader adds a default header sent with every request.
func WithHeader(key, value string) Option {
	return func(o *options) { o.headers[key] = value }
}

// WithQueryParam adds a default query parameter. Call specific values win on collision.
func WithQueryParam(key, value string) Option {
	return func(o *options) { o.queryParams = o.queryParams.With(key, value) }
}

// WithEnvironment selects the e-Factura environment ("prod" or "test").
func WithEnvironment(env string) Option {
	return func(o *options) { o.env = env }
}

// WithTimeout sets the timeout of the default HTTP client. Ignored with WithHTTPClient.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// WithLogger sets the logger used by the transporter.
func WithLogger(log transporter.Logger) Option {
	return func(o *options) { o.log = log }
}

// Client exposes the ANAF resources over a single transporter.
type Client struct {
	transporter transporter.Transporter
	env         string
}

// NewClient builds a client for the public endpoints.
func NewClient(opts ...Option) (*Client, error) {
	return build(PublicBaseURI, nil, opts)
}

// AuthorizedClient builds a client for the OAuth protected endpoints.
func AuthorizedClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, errors.New("access token is required")
	}
	headers := transporter.NewHeaders(nil).WithAuthorization(token)
	return build(AuthorizedBaseURI, headers.Map(), opts)
}

func build(baseURI string, headers map[string]string, opts []Option) (*Client, error) {
	o := &options{
		baseURI: baseURI,
		headers: map[string]string{},
		timeout: defaultTimeout,
	}
	for k, v := range headers {
		o.headers[k] = v
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = httpclient.NewRestyClient(o.timeout)
	}

	t, err := transporter.NewHTTPTransporter(
		o.client,
		transporter.NewBaseURI(o.baseURI),
		transporter.NewHeaders(o.headers),
		o.queryParams,
		o.log,
	)
	if err != nil {
		return nil, err
	}
	return &Client{transporter: t, env: o.env}, nil
}

// Efactura returns the e-Factura resource.
func (c *Client) Efactura() *efactura.Efactura {
	return efactura.New(c.transporter, c.env)
}

// Taxpayer returns the VAT payer registry resource.
func (c *Client) Taxpayer() *taxpayer.Taxpayer {
	return taxpayer.New(c.transporter)
}

// Transporter exposes the underlying transporter for endpoints without a resource wrapper.
func (c *Client) Transporter() transporter.Transporter {
	return c.transporter
}
