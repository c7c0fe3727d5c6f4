package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	pkglogger "github.com/ideafund/ideafund-backend/pkg/logger"
)

// Client is a thin layer over go-elasticsearch for the campaign index
type Client struct {
	es *elasticsearch.Client
}

// NewClient connects and pings the cluster; an unreachable cluster is an error
func NewClient(addresses []string, username, password string) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := es.Info(es.Info.WithContext(ctx))
	if err := check("ping", res, err); err != nil {
		return nil, err
	}

	pkglogger.GetLogger().Info().Strs("addresses", addresses).Msg("elasticsearch connected")
	return &Client{es: es}, nil
}

// check closes res and turns transport failures and error statuses into one error.
// Status codes listed in allow are treated as success.
func check(op string, res *esapi.Response, err error, allow ...int) error {
	if err != nil {
		return fmt.Errorf("elasticsearch %s: %w", op, err)
	}
	defer res.Body.Close()
	if !res.IsError() {
		return nil
	}
	for _, code := range allow {
		if res.StatusCode == code {
			return nil
		}
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	return fmt.Errorf("elasticsearch %s [%s]: %s", op, res.Status(), strings.TrimSpace(string(body)))
}

// IndexDocument upserts one document
func (c *Client) IndexDocument(ctx context.Context, index, docID string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	res, err := esapi.IndexRequest{
		Index:      index,
		DocumentID: docID,
		Body:       bytes.NewReader(data),
	}.Do(ctx, c.es)
	return check("index "+docID, res, err)
}

// DeleteDocument removes a document; a missing document is not an error
func (c *Client) DeleteDocument(ctx context.Context, index, docID string) error {
	res, err := esapi.DeleteRequest{Index: index, DocumentID: docID}.Do(ctx, c.es)
	return check("delete "+docID, res, err, http.StatusNotFound)
}

// BulkIndex writes docs keyed by id in a single _bulk call.
// Ids are written in sorted order so the payload is deterministic.
func (c *Client) BulkIndex(ctx context.Context, index string, docs map[string]interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	body, err := bulkBody(index, docs)
	if err != nil {
		return err
	}
	res, err := c.es.Bulk(bytes.NewReader(body), c.es.Bulk.WithContext(ctx))
	return check("bulk", res, err)
}

type bulkAction struct {
	Index struct {
		Index string `json:"_index"`
		ID    string `json:"_id"`
	} `json:"index"`
}

func bulkBody(index string, docs map[string]interface{}) ([]byte, error) {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, id := range ids {
		var action bulkAction
		action.Index.Index = index
		action.Index.ID = id
		// Encode 가 줄바꿈을 붙여 NDJSON 형식이 된다
		if err := enc.Encode(action); err != nil {
			return nil, err
		}
		if err := enc.Encode(docs[id]); err != nil {
			return nil, fmt.Errorf("bulk doc %s: %w", id, err)
		}
	}
	return buf.Bytes(), nil
}

// SearchResult is one hit
type SearchResult struct {
	ID        string                 `json:"id"`
	Score     float64                `json:"score"`
	Source    map[string]interface{} `json:"source"`
	Highlight map[string][]string    `json:"highlight,omitempty"`
}

// SearchResponse is a page of hits plus the total match count
type SearchResponse struct {
	Total   int64          `json:"total"`
	Results []SearchResult `json:"results"`
}

// Search runs query against index with from/size paging
func (c *Client) Search(ctx context.Context, index string, query map[string]interface{}, from, size int) (*SearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
		c.es.Search.WithFrom(from),
		c.es.Search.WithSize(size),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	if res.IsError() {
		return nil, check("search", res, nil)
	}
	defer res.Body.Close()
	return decodeSearchResponse(res.Body)
}

// CreateIndex creates index with mapping unless it already exists
func (c *Client) CreateIndex(ctx context.Context, index string, mapping map[string]interface{}) error {
	res, err := c.es.Indices.Exists([]string{index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch exists %s: %w", index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	res, err = c.es.Indices.Create(index,
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
		c.es.Indices.Create.WithContext(ctx),
	)
	// 동시 기동 시 다른 인스턴스가 먼저 만든 경우
	if err := check("create "+index, res, err); err != nil && !strings.Contains(err.Error(), "resource_already_exists_exception") {
		return err
	}
	return nil
}

type rawSearch struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID        string                 `json:"_id"`
			Score     *float64               `json:"_score"`
			Source    map[string]interface{} `json:"_source"`
			Highlight map[string][]string    `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}

func decodeSearchResponse(r io.Reader) (*SearchResponse, error) {
	var raw rawSearch
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("elasticsearch search: decode: %w", err)
	}

	resp := &SearchResponse{
		Total:   raw.Hits.Total.Value,
		Results: make([]SearchResult, 0, len(raw.Hits.Hits)),
	}
	for _, h := range raw.Hits.Hits {
		hit := SearchResult{ID: h.ID, Source: h.Source}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		if len(h.Highlight) > 0 {
			hit.Highlight = h.Highlight
		}
		resp.Results = append(resp.Results, hit)
	}
	return resp, nil
}
