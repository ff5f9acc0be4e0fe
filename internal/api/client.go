// Package api is the HTTP client for the statistics backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vtarchitect/vtconsole/internal/errors"
	"github.com/vtarchitect/vtconsole/internal/fields"
	"github.com/vtarchitect/vtconsole/internal/logger"
	"github.com/vtarchitect/vtconsole/internal/timerange"
)

// Endpoint paths relative to the base URL.
const (
	StatsPath       = "/api/stats"
	FloatRangePath  = "/api/float-range"
	PercentagesPath = "/api/percentages"
	UploadPath      = "/api/upload-csv"
)

// CSVContentType is the only MIME type accepted for uploads.
const CSVContentType = "text/csv"

// MaxUploadSize mirrors the server's multipart limit.
const MaxUploadSize = 1 << 20

// DefaultTimeout bounds a request when the caller does not set one.
const DefaultTimeout = 10 * time.Second

// Client talks to the statistics backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client's logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for baseURL. A non-positive timeout uses
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Stats fetches the aggregate snapshot for r.
func (c *Client) Stats(ctx context.Context, r timerange.Range) (*StatsResponse, error) {
	var out StatsResponse
	if err := c.getJSON(ctx, StatsPath, rangeQuery(r), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FloatRange fetches the samples of one float field over r, in server order.
func (c *Client) FloatRange(ctx context.Context, field string, r timerange.Range) ([]FloatDataPoint, error) {
	q := rangeQuery(r)
	q.Set("field", field)

	var out []FloatDataPoint
	if err := c.getJSON(ctx, FloatRangePath, q, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []FloatDataPoint{}
	}
	return out, nil
}

// Percentages fetches only the boolean percentages for r.
func (c *Client) Percentages(ctx context.Context, r timerange.Range) (fields.Map[float64], error) {
	var out fields.Map[float64]
	if err := c.getJSON(ctx, PercentagesPath, rangeQuery(r), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func rangeQuery(r timerange.Range) url.Values {
	q := url.Values{}
	q.Set("start", timerange.ToAPIValue(r.Start))
	q.Set("stop", timerange.ToAPIValue(r.Stop))
	return q
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrHTTP, "Invalid request URL", "Check api.base_url in your config.")
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("GET %s", u)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrHTTP,
			"Request to "+path+" failed",
			"Check the server at "+c.baseURL+" is running.")
	}
	defer resp.Body.Close()

	c.log.Debug("GET %s -> %d in %v", path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return statusError(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapWithCode(err, errors.ErrDecode,
			"Unexpected response from "+path,
			"The server returned something other than the expected JSON.")
	}
	return nil
}

func statusError(code int) *errors.Error {
	return errors.New(errors.ErrHTTP, fmt.Sprintf("HTTP error! status: %d", code), "")
}

// UploadCSV uploads the CSV file at path and returns the server's message.
// Files that are not CSV are rejected before any request is made.
func (c *Client) UploadCSV(ctx context.Context, path string) (string, error) {
	if err := CheckCSV(path); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrUpload, "Can't open "+path, "Check the file exists and is readable.")
	}
	defer f.Close()

	return c.UploadCSVReader(ctx, filepath.Base(path), f)
}

// CheckCSV validates that path names a CSV file small enough to upload.
func CheckCSV(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return errors.New(errors.ErrUpload,
			"Invalid file type. Please upload a CSV file.",
			"Only .csv files are accepted.")
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrUpload, "Can't read "+path, "Check the file exists and is readable.")
	}
	if info.IsDir() {
		return errors.New(errors.ErrUpload, path+" is a directory", "Pass the path of a .csv file.")
	}
	if info.Size() > MaxUploadSize {
		return errors.New(errors.ErrUpload,
			fmt.Sprintf("File is too large (%d bytes, max %d)", info.Size(), MaxUploadSize),
			"Split the CSV or remove unused rows.")
	}
	return nil
}

// UploadCSVReader uploads CSV content read from r under the given file name.
func (c *Client) UploadCSVReader(ctx context.Context, name string, r io.Reader) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	h.Set("Content-Type", CSVContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrUpload, "Upload failed", "")
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrUpload, "Upload failed", "Check the file is readable.")
	}
	if err := w.Close(); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrUpload, "Upload failed", "")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+UploadPath, &body)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrUpload, "Invalid request URL", "Check api.base_url in your config.")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	c.log.Debug("POST %s (%s, %d bytes)", UploadPath, name, body.Len())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrUpload,
			"Upload failed",
			"Check the server at "+c.baseURL+" is running.")
	}
	defer resp.Body.Close()

	var result UploadResult
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "upload failed"
		if decodeErr == nil && result.Message != "" {
			msg = result.Message
		}
		return "", errors.New(errors.ErrUpload, msg, fmt.Sprintf("Server responded with status %d.", resp.StatusCode))
	}
	if decodeErr != nil {
		return "", errors.WrapWithCode(decodeErr, errors.ErrDecode,
			"Unexpected response from "+UploadPath,
			"The server returned something other than the expected JSON.")
	}
	return result.Message, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
