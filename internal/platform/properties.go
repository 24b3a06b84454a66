package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"sync"

	"tvicladmin/internal/listing"
)

// FileOpener resolves a stored media file reference to its contents.
type FileOpener func(ref string) (io.ReadCloser, error)

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// CreateProperty submits a finished draft as multipart form data. Scalar
// fields go as plain parts, structured fields as JSON strings, and each media
// file as a mediaFiles part paired with a mediaData descriptor.
func (c *Client) CreateProperty(ctx context.Context, d *listing.Draft, open FileOpener) (json.RawMessage, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeDraft(mw, d, open))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/properties/create", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	var out dataEnvelope
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func writeDraft(mw *multipart.Writer, d *listing.Draft, open FileOpener) error {
	scalars := map[string]string{
		"title":             d.Title,
		"description":       d.Description,
		"propertyType":      d.PropertyType,
		"listingType":       d.ListingType,
		"furnishingStatus":  d.FurnishingStatus,
		"propertyCondition": d.PropertyCondition,
		"possessionStatus":  d.PossessionStatus,
		"availableFrom":     d.AvailableFrom,
		"transactionType":   d.TransactionType,
	}
	for name, v := range scalars {
		if v == "" {
			continue
		}
		if err := mw.WriteField(name, v); err != nil {
			return err
		}
	}

	structured := map[string]any{
		"contactPerson": d.ContactPerson,
		"address":       d.Address,
		"price":         d.Price,
		"rentalDetails": d.RentalDetails,
		"paymentPlans":  d.PaymentPlans,
		"amenities":     d.Amenities,
	}
	for name, v := range structured {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if err := mw.WriteField(name, string(b)); err != nil {
			return err
		}
	}

	for _, m := range d.Media {
		if m.FileRef == "" {
			continue
		}
		if err := writeMediaPart(mw, m, open); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writeMediaPart(mw *multipart.Writer, m listing.MediaItem, open FileOpener) error {
	f, err := open(m.FileRef)
	if err != nil {
		return fmt.Errorf("open media %s: %w", m.FileRef, err)
	}
	defer f.Close()

	part, err := mw.CreateFormFile("mediaFiles", filepath.Base(m.FileRef))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return err
	}

	meta, err := json.Marshal(map[string]any{
		"category":    m.Category,
		"subCategory": m.SubCategory,
		"type":        m.Type,
		"isPrimary":   m.IsPrimary,
		"caption":     m.Caption,
	})
	if err != nil {
		return err
	}
	return mw.WriteField("mediaData", string(meta))
}

func (c *Client) GetProperty(ctx context.Context, id string) (json.RawMessage, error) {
	var out dataEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/properties/"+url.PathEscape(id), nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// SearchResult carries one page of listings plus the aggregate stats the
// platform computes for the filtered set.
type SearchResult struct {
	Properties json.RawMessage `json:"properties"`
	Stats      json.RawMessage `json:"stats"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	Pages      int             `json:"pages"`
}

func (c *Client) SearchProperties(ctx context.Context, query url.Values) (*SearchResult, error) {
	path := "/properties"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var out SearchResult
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/properties/"+url.PathEscape(id), nil, nil, true)
}

func (c *Client) RestoreProperty(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPatch, "/properties/"+url.PathEscape(id)+"/restore", nil, nil, true)
}

func (c *Client) VerifyProperty(ctx context.Context, id string, verified bool) error {
	body := map[string]bool{"verified": verified}
	return c.doJSON(ctx, http.MethodPatch, "/properties/"+url.PathEscape(id)+"/verify", body, nil, true)
}

// Analytics fetches one analytics slice, e.g. "overview" or "by-state".
func (c *Client) Analytics(ctx context.Context, slice string, query url.Values) (json.RawMessage, error) {
	path := "/properties/analytics/" + url.PathEscape(slice)
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var out dataEnvelope
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) TopPerforming(ctx context.Context, limit int) (json.RawMessage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return c.Analytics(ctx, "top-performing", q)
}

// Canceller cancels the previous in-flight request for a key when a new one
// starts, so stale responses never win over fresh ones.
type Canceller struct {
	mu      sync.Mutex
	pending map[string]*pendingCall
}

type pendingCall struct {
	cancel context.CancelFunc
}

func NewCanceller() *Canceller {
	return &Canceller{pending: make(map[string]*pendingCall)}
}

// Start returns a context for the request identified by key, cancelling any
// earlier request still running under the same key.
func (g *Canceller) Start(ctx context.Context, key string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	call := &pendingCall{cancel: cancel}

	g.mu.Lock()
	if prev, ok := g.pending[key]; ok {
		prev.cancel()
	}
	g.pending[key] = call
	g.mu.Unlock()

	return ctx, func() {
		g.mu.Lock()
		if g.pending[key] == call {
			delete(g.pending, key)
		}
		g.mu.Unlock()
		cancel()
	}
}
