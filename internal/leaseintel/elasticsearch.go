package leaseintel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"apartmentiq-workers/internal/dealscore"
)

// ElasticsearchSource reads lease intel documents keyed by propertyId.
type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchSource(client *elasticsearch.Client, index string) *ElasticsearchSource {
	return &ElasticsearchSource{client: client, index: index}
}

func (s *ElasticsearchSource) Name() string { return "elasticsearch" }

func buildTermsQuery(propertyIDs []string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{
						"terms": map[string]interface{}{"propertyId": propertyIDs},
					},
				},
			},
		},
	}
}

func (s *ElasticsearchSource) Fetch(ctx context.Context, propertyIDs []string) ([]dealscore.LeaseIntel, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(buildTermsQuery(propertyIDs))
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", ErrFetchFailed, err)
	}

	size := len(propertyIDs)
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: index %s", ErrSearchTimeout, s.index)
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: search failed: %s", ErrFetchFailed, res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", ErrFetchFailed, err)
	}

	docs := make([]json.RawMessage, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	raw, err := json.Marshal(map[string]interface{}{"data": docs})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return DecodePayload(raw)
}
