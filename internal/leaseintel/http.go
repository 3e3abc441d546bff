package leaseintel

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	httpclient "apartmentiq-workers/internal/common/http"
	"apartmentiq-workers/internal/dealscore"
)

const leaseIntelPath = "/api/renter/lease-intel"

// HTTPSource calls GET <base>/api/renter/lease-intel?propertyIds=a,b.
type HTTPSource struct {
	baseURL string
	client  *httpclient.Client
	headers map[string]string
}

func NewHTTPSource(baseURL string, timeout time.Duration, headers map[string]string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpclient.NewClient(timeout),
		headers: headers,
	}
}

func (s *HTTPSource) Name() string { return "http" }

func (s *HTTPSource) Fetch(ctx context.Context, propertyIDs []string) ([]dealscore.LeaseIntel, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}

	q := url.Values{}
	q.Set("propertyIds", strings.Join(propertyIDs, ","))
	endpoint := s.baseURL + leaseIntelPath + "?" + q.Encode()

	body, err := s.client.GetJSON(ctx, endpoint, s.headers)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %v", ErrSearchTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	return DecodePayload(body)
}
