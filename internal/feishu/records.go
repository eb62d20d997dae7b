package feishu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"antifraud/internal/logger"
)

const (
	// DefaultPageSize is the number of records requested per page.
	DefaultPageSize = 100

	// DefaultMaxPages caps GetAllRecords against an upstream that never stops paging.
	DefaultMaxPages = 1000
)

// Token api codes that mean the bearer token is no longer accepted.
var invalidTokenCodes = map[int]bool{
	99991661: true,
	99991663: true,
	99991668: true,
}

// TokenSource supplies bearer tokens for record requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type tokenInvalidator interface {
	Invalidate()
}

// RawRecord is one table row as returned by the records endpoint.
type RawRecord struct {
	Fields map[string]json.RawMessage `json:"fields"`
	ID     string                     `json:"record_id"`
}

// Page is one response of the records listing endpoint.
type Page struct {
	PageToken string      `json:"page_token"`
	Items     []RawRecord `json:"items"`
	HasMore   bool        `json:"has_more"`
	Total     int         `json:"total"`
}

// FetcherOptions tunes a RecordFetcher. Zero values select the defaults.
type FetcherOptions struct {
	HTTPClient        *http.Client
	Logger            *logger.Logger
	PageSize          int
	MaxPages          int
	RequestsPerSecond float64
}

// RecordFetcher lists the records of one bitable table.
type RecordFetcher struct {
	tokens     TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
	baseURL    string
	baseID     string
	tableID    string
	pageSize   int
	maxPages   int
}

// NewRecordFetcher creates a fetcher for the table identified by baseID and tableID.
func NewRecordFetcher(baseURL, baseID, tableID string, tokens TokenSource, opts FetcherOptions) *RecordFetcher {
	if opts.HTTPClient == nil {
		opts.HTTPClient = NewHTTPClient(DefaultTimeout)
	}

	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}

	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &RecordFetcher{
		tokens:     tokens,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     opts.Logger.With("component", "feishu.records", "table_id", tableID),
		baseURL:    baseURL,
		baseID:     baseID,
		tableID:    tableID,
		pageSize:   opts.PageSize,
		maxPages:   opts.MaxPages,
	}
}

func (f *RecordFetcher) recordsURL() string {
	return joinURL(f.baseURL,
		"/open-apis/bitable/v1/apps/", url.PathEscape(f.baseID),
		"/tables/", url.PathEscape(f.tableID),
		"/records")
}

// GetPage requests one page of records. An empty pageToken requests the first page.
func (f *RecordFetcher) GetPage(ctx context.Context, pageSize int, pageToken string) (*Page, error) {
	if pageSize <= 0 {
		pageSize = f.pageSize
	}

	query := url.Values{}
	query.Set("page_size", strconv.Itoa(pageSize))

	if pageToken != "" {
		query.Set("page_token", pageToken)
	}

	var page Page
	if err := f.get(ctx, "list", f.recordsURL()+"?"+query.Encode(), &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// GetAllRecords follows page tokens until the upstream reports no more pages and returns
// every record in upstream order. It fails once MaxPages pages have been read and the
// upstream still advertises more.
func (f *RecordFetcher) GetAllRecords(ctx context.Context) ([]RawRecord, error) {
	var (
		records   []RawRecord
		pageToken string
	)

	for pages := 0; ; pages++ {
		if pages >= f.maxPages {
			return nil, &FetchError{
				Op:  "list",
				Err: fmt.Errorf("%w: %d pages", ErrPageLimitExceeded, f.maxPages),
			}
		}

		page, err := f.GetPage(ctx, f.pageSize, pageToken)
		if err != nil {
			return nil, err
		}

		records = append(records, page.Items...)

		f.logger.Debug("Fetched page", "page", pages+1, "items", len(page.Items), "has_more", page.HasMore)

		if !page.HasMore || page.PageToken == "" {
			break
		}

		pageToken = page.PageToken
	}

	f.logger.Info("Fetched all records", "records", len(records))

	return records, nil
}

// GetRecord reads a single record. A record the api refuses to return yields nil
// without an error.
func (f *RecordFetcher) GetRecord(ctx context.Context, recordID string) (*RawRecord, error) {
	var body struct {
		Record RawRecord `json:"record"`
	}

	err := f.get(ctx, "get", f.recordsURL()+"/"+url.PathEscape(recordID), &body)
	if err != nil {
		if isAPIError(err) {
			f.logger.Warn("Record not available", "record_id", recordID, "error", err)

			return nil, nil
		}

		return nil, err
	}

	return &body.Record, nil
}

func (f *RecordFetcher) get(ctx context.Context, op, endpoint string, out any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return &FetchError{Op: op, Err: err}
	}

	token, err := f.tokens.Token(ctx)
	if err != nil {
		return err
	}

	data, _, err := doJSON(ctx, f.httpClient, http.MethodGet, endpoint, token, nil)
	if err != nil {
		fetchErr := &FetchError{Op: op, Err: err}
		if env, decodeErr := decodeEnvelope(data); decodeErr == nil {
			fetchErr.Code, fetchErr.Msg = env.Code, env.Msg
		}

		f.dropRejectedToken(fetchErr.Code)

		return fetchErr
	}

	env, err := decodeEnvelope(data)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}

	if env.Code != 0 {
		f.dropRejectedToken(env.Code)

		return &FetchError{Op: op, Code: env.Code, Msg: env.Msg, Err: ErrAPICode}
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("failed to parse data: %w", err)}
	}

	return nil
}

func (f *RecordFetcher) dropRejectedToken(code int) {
	if !invalidTokenCodes[code] {
		return
	}

	if inv, ok := f.tokens.(tokenInvalidator); ok {
		f.logger.Warn("Upstream rejected token, dropping it", "code", code)
		inv.Invalidate()
	}
}

func isAPIError(err error) bool {
	var fetchErr *FetchError

	return errors.As(err, &fetchErr) && fetchErr.Code != 0
}
