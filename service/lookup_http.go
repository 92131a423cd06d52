package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dizegn/Prevtech-sub001/config"
	"github.com/dizegn/Prevtech-sub001/model"
)

// lookupEnvelope is the common response wrapper of the registry APIs.
// Code 0 is success; code 404 in the body marks a clean not-found.
type lookupEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// HTTPPublicationLookup queries the court-publication registry API.
type HTTPPublicationLookup struct {
	config     *config.EndpointConfig
	httpClient *http.Client
}

func NewHTTPPublicationLookup(cfg *config.EndpointConfig, timeout time.Duration) *HTTPPublicationLookup {
	return &HTTPPublicationLookup{
		config: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *HTTPPublicationLookup) FindByReference(ctx context.Context, ref string) (*model.PublicationRecord, error) {
	endpoint := fmt.Sprintf("%s/publications/%s", s.config.APIURL, url.PathEscape(NormalizePublicationKey(ref)))

	data, err := s.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var rec model.PublicationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse publication record: %w", err)
	}
	return &rec, nil
}

func (s *HTTPPublicationLookup) fetch(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return fetchEnvelope(ctx, s.httpClient, endpoint, s.config.APIToken)
}

// HTTPBenefitLookup queries the government-benefit registry API.
type HTTPBenefitLookup struct {
	config     *config.EndpointConfig
	httpClient *http.Client
}

func NewHTTPBenefitLookup(cfg *config.EndpointConfig, timeout time.Duration) *HTTPBenefitLookup {
	return &HTTPBenefitLookup{
		config: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *HTTPBenefitLookup) FindByNationalID(ctx context.Context, nationalID string) (*model.BenefitRecord, error) {
	key := NormalizeBenefitKey(nationalID)
	endpoint := fmt.Sprintf("%s/benefits/%s", s.config.APIURL, url.PathEscape(key))

	data, err := fetchEnvelope(ctx, s.httpClient, endpoint, s.config.APIToken)
	if err != nil {
		return nil, err
	}

	var rec model.BenefitRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse benefit record: %w", err)
	}
	return &rec, nil
}

func fetchEnvelope(ctx context.Context, client *http.Client, endpoint, token string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrLookupNotFound
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope lookupEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	switch envelope.Code {
	case 0:
		return envelope.Data, nil
	case http.StatusNotFound:
		return nil, ErrLookupNotFound
	default:
		return nil, fmt.Errorf("registry API error: %s", envelope.Message)
	}
}
