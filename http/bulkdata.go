package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/patentenrich"
)

// Bulk-data service defaults.
const (
	DefaultBulkDataBaseURL = "https://api.uspto.gov/api/v1/datasets/products"
	DefaultGrantProduct    = "PTGRXML"

	DefaultLookupTimeout   = 60 * time.Second
	DefaultDownloadTimeout = 300 * time.Second
)

// Ensure BulkDataClient implements patentenrich.ArchiveDownloader at compile time.
var _ patentenrich.ArchiveDownloader = (*BulkDataClient)(nil)

// BulkDataClient downloads weekly archives from the USPTO Open Data Portal.
type BulkDataClient struct {
	apiKey          string
	baseURL         string
	product         string
	lookupClient    *http.Client
	downloadTimeout time.Duration
	downloadClient  *http.Client
}

// BulkDataOption configures a BulkDataClient.
type BulkDataOption func(*BulkDataClient)

// WithBaseURL sets the products endpoint.
// Defaults to DefaultBulkDataBaseURL if not specified.
func WithBaseURL(u string) BulkDataOption {
	return func(c *BulkDataClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithProduct sets the bulk-data product holding the archives.
// Defaults to DefaultGrantProduct if not specified.
func WithProduct(p string) BulkDataOption {
	return func(c *BulkDataClient) {
		c.product = p
	}
}

// WithDownloadTimeout sets the timeout for a single archive download.
// Defaults to DefaultDownloadTimeout (300s) if not specified.
func WithDownloadTimeout(d time.Duration) BulkDataOption {
	return func(c *BulkDataClient) {
		c.downloadTimeout = d
	}
}

// NewBulkDataClient creates a BulkDataClient authenticating with apiKey.
func NewBulkDataClient(apiKey string, opts ...BulkDataOption) *BulkDataClient {
	c := &BulkDataClient{
		apiKey:          apiKey,
		baseURL:         DefaultBulkDataBaseURL,
		product:         DefaultGrantProduct,
		downloadTimeout: DefaultDownloadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.lookupClient = &http.Client{Timeout: DefaultLookupTimeout}
	c.downloadClient = &http.Client{Timeout: c.downloadTimeout}

	return c
}

type productResponse struct {
	Count              int       `json:"count"`
	BulkDataProductBag []Product `json:"bulkDataProductBag"`
}

// Product is a bulk-data product such as the weekly grant full text.
type Product struct {
	Identifier    string `json:"productIdentifier"`
	Title         string `json:"productTitleText"`
	Description   string `json:"productDescriptionText"`
	Frequency     string `json:"productFrequencyText"`
	FromDate      string `json:"productFromDate"`
	ToDate        string `json:"productToDate"`
	TotalFileSize int64  `json:"productTotalFileSize"`
	FileCount     int    `json:"productFileTotalQuantity"`
	LastModified  string `json:"lastModifiedDateTime"`
	FileBag       struct {
		Count int           `json:"count"`
		Files []ProductFile `json:"fileDataBag"`
	} `json:"productFileBag"`
}

// ProductFile is one downloadable file of a bulk-data product.
type ProductFile struct {
	FileName         string `json:"fileName"`
	FileSize         int64  `json:"fileSize"`
	FileDataFromDate string `json:"fileDataFromDate"`
	FileDownloadURI  string `json:"fileDownloadURI"`
}

// SearchProducts lists the products whose title matches title. An empty
// title lists every product.
func (c *BulkDataClient) SearchProducts(ctx context.Context, title string) ([]Product, error) {
	endpoint := c.baseURL + "/search"
	if title != "" {
		endpoint += "?" + url.Values{"productTitle": {title}}.Encode()
	}

	var body productResponse
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}
	return body.BulkDataProductBag, nil
}

// Product returns the named product with its file listing.
// Returns ENOTFOUND if the service does not know the product.
func (c *BulkDataClient) Product(ctx context.Context, id string) (*Product, error) {
	var body productResponse
	if err := c.getJSON(ctx, c.baseURL+"/"+url.PathEscape(id), &body); err != nil {
		return nil, err
	}
	if len(body.BulkDataProductBag) == 0 {
		return nil, patentenrich.Errorf(patentenrich.ENOTFOUND, "product %s not found", id)
	}
	return &body.BulkDataProductBag[0], nil
}

// ProductFiles lists the files of the configured product.
func (c *BulkDataClient) ProductFiles(ctx context.Context) ([]ProductFile, error) {
	p, err := c.Product(ctx, c.product)
	if err != nil {
		return nil, err
	}
	return p.FileBag.Files, nil
}

func (c *BulkDataClient) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.lookupClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return patentenrich.Errorf(patentenrich.EINVALID, "HTTP 403 for %s: access denied, check the API key", endpoint)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// DownloadArchive looks up filename in the product listing and streams the
// file to w. Redirects to the storage host are followed.
func (c *BulkDataClient) DownloadArchive(ctx context.Context, filename string, w io.Writer) error {
	files, err := c.ProductFiles(ctx)
	if err != nil {
		return err
	}

	var uri string
	for _, f := range files {
		if f.FileName == filename {
			uri = f.FileDownloadURI
			break
		}
	}
	if uri == "" {
		return patentenrich.Errorf(patentenrich.ENOTFOUND, "file %s not listed in product %s", filename, c.product)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid download URI %q: %w", uri, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, uri)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("download %s: %w", filename, err)
	}
	return nil
}
