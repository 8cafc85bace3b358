// Package metadata uploads token metadata to the content-addressed store
// and returns the canonical metadata URI.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"solana-token-launcher/internal/domain"
)

// DefaultEndpoint is the pump.fun IPFS upload endpoint.
const DefaultEndpoint = "https://pump.fun/api/ipfs"

// The image attachment always uses a fixed filename and content type; the
// hosting service keys on the field name, not the original file name.
const (
	imageFieldName   = "file"
	imageFilename    = "image.png"
	imageContentType = "image/png"
)

const defaultTimeout = 30 * time.Second

// Publisher uploads token metadata as a single multipart request.
type Publisher struct {
	endpoint string
	client   *http.Client
}

// Option configures Publisher.
type Option func(*Publisher)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Publisher) {
		p.client = client
	}
}

// NewPublisher creates a Publisher for the given endpoint.
// An empty endpoint selects DefaultEndpoint.
func NewPublisher(endpoint string, opts ...Option) *Publisher {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	p := &Publisher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish uploads the token's descriptive metadata, plus the referenced
// image when one is given, and returns the resolved metadata record.
func (p *Publisher) Publish(ctx context.Context, name, ticker string, opts domain.LaunchOptions) (*domain.MetadataRecord, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	fields := map[string]string{
		"name":        name,
		"symbol":      ticker,
		"description": opts.Description,
		"showName":    "true",
	}
	if opts.Twitter != "" {
		fields["twitter"] = opts.Twitter
	}
	if opts.Telegram != "" {
		fields["telegram"] = opts.Telegram
	}
	if opts.Website != "" {
		fields["website"] = opts.Website
	}
	for field, value := range fields {
		if err := form.WriteField(field, value); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", field, err)
		}
	}

	if opts.ImageURL != "" {
		if err := p.attachImage(ctx, form, opts.ImageURL); err != nil {
			return nil, err
		}
	}

	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: "upload metadata", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UploadError{Status: resp.Status}
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return parsed.toRecord()
}

// attachImage fetches the image bytes and adds them as the form's single
// binary attachment.
func (p *Publisher) attachImage(ctx context.Context, form *multipart.Writer, imageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("create image request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: "fetch image", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.NetworkError{Op: "fetch image", Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, imageFieldName, imageFilename))
	header.Set("Content-Type", imageContentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create image part: %w", err)
	}
	if _, err := io.Copy(part, resp.Body); err != nil {
		return &domain.NetworkError{Op: "fetch image", Err: err}
	}
	return nil
}

// uploadResponse is the typed shape of the hosting service's JSON reply.
// Required fields are validated on receipt.
type uploadResponse struct {
	Metadata struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
		Image  string `json:"image"`
	} `json:"metadata"`
	MetadataURI string `json:"metadataUri"`
}

func (r *uploadResponse) toRecord() (*domain.MetadataRecord, error) {
	switch {
	case r.Metadata.Name == "":
		return nil, &domain.SchemaError{Endpoint: "metadata upload", Field: "metadata.name"}
	case r.Metadata.Symbol == "":
		return nil, &domain.SchemaError{Endpoint: "metadata upload", Field: "metadata.symbol"}
	case r.MetadataURI == "":
		return nil, &domain.SchemaError{Endpoint: "metadata upload", Field: "metadataUri"}
	}

	return &domain.MetadataRecord{
		Name:     r.Metadata.Name,
		Symbol:   r.Metadata.Symbol,
		ImageURI: r.Metadata.Image,
		URI:      r.MetadataURI,
	}, nil
}
