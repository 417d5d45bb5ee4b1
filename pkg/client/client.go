// Package client provides the API client for interacting with the QuickJob API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/shiftworks/quickjob/internal/db/models"
	"github.com/shiftworks/quickjob/internal/types"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// DefaultBaseURL is the default address of a local API server
const DefaultBaseURL = "http://localhost:8080"

// Client is the interface for the API client
type Client interface {
	HealthCheck(ctx context.Context) (map[string]string, error)

	// Job endpoints
	ListOpenJobs(ctx context.Context, district, state string) ([]models.Job, error)
	GetJob(ctx context.Context, id uint) (*models.Job, error)

	// Application endpoints
	Apply(ctx context.Context, jobID uint) (*models.Application, error)
	ListApplications(ctx context.Context, jobID uint) ([]models.Application, error)

	// Work session endpoints
	Accept(ctx context.Context, applicationID uint) (*types.AcceptResult, error)
	StartWork(ctx context.Context, applicationID uint, otp string) (*types.StartResult, error)
	InitiateCompletion(ctx context.Context, applicationID uint) (*types.CompletionOTPResult, error)
	VerifyCompletion(ctx context.Context, applicationID uint, otp string) (*types.CompletionSummary, error)
	RequestNewOtp(ctx context.Context, applicationID uint) (*types.AcceptResult, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// UserID is the acting user, stamped into the identity header
	UserID uint

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	userID  uint
	timeout time.Duration
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &APIClient{
		baseURL: opts.BaseURL,
		userID:  opts.UserID,
		timeout: timeout,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodPut:
		agent = fiber.Put(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")
	if c.userID != 0 {
		agent.Set("X-User-ID", strconv.FormatUint(uint64(c.userID), 10))
	}

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the request and decodes the slug envelope's data field
// into v.
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	if statusCode < 200 || statusCode >= 300 {
		var slug types.SlugResponse
		if err := json.Unmarshal(body, &slug); err == nil && slug.Error != "" {
			return fmt.Errorf("%s (%s)", slug.Error, slug.Slug)
		}
		return &fiber.Error{Code: statusCode, Message: string(body)}
	}

	if v == nil || len(body) == 0 {
		return nil
	}

	var slug types.SlugResponse
	if err := json.Unmarshal(body, &slug); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	if slug.Data == nil {
		return nil
	}
	dataJSON, err := json.Marshal(slug.Data)
	if err != nil {
		return fmt.Errorf("error marshaling data: %w", err)
	}
	return json.Unmarshal(dataJSON, v)
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	return c.doRequest(agent, response)
}

// HealthCheck checks the health of the API server
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("error sending request: %w", errs[0])
	}
	if statusCode != http.StatusOK {
		return nil, &fiber.Error{Code: statusCode, Message: string(body)}
	}
	var health map[string]string
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return health, nil
}

// ListOpenJobs lists jobs discoverable by employees
func (c *APIClient) ListOpenJobs(ctx context.Context, district, state string) ([]models.Job, error) {
	endpoint := "/api/v1/jobs"
	q := url.Values{}
	if district != "" {
		q.Set("district", district)
	}
	if state != "" {
		q.Set("state", state)
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var payload struct {
		Jobs []models.Job `json:"jobs"`
	}
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Jobs, nil
}

// GetJob retrieves a single job
func (c *APIClient) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	endpoint := fmt.Sprintf("/api/v1/jobs/%d", id)
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Apply files an application for a job
func (c *APIClient) Apply(ctx context.Context, jobID uint) (*models.Application, error) {
	var app models.Application
	body := map[string]uint{"job_id": jobID}
	if err := c.executeRequest(ctx, http.MethodPost, "/api/v1/applications", body, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// ListApplications lists applications; with a non-zero jobID it lists a
// job's applications, otherwise the acting user's own.
func (c *APIClient) ListApplications(ctx context.Context, jobID uint) ([]models.Application, error) {
	endpoint := "/api/v1/applications"
	if jobID != 0 {
		endpoint += "?job_id=" + strconv.FormatUint(uint64(jobID), 10)
	}

	var payload struct {
		Applications []models.Application `json:"applications"`
	}
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Applications, nil
}

// Accept accepts an application and returns the issued start code
func (c *APIClient) Accept(ctx context.Context, applicationID uint) (*types.AcceptResult, error) {
	var result types.AcceptResult
	endpoint := fmt.Sprintf("/api/v1/applications/%d/accept", applicationID)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// StartWork redeems a start code
func (c *APIClient) StartWork(ctx context.Context, applicationID uint, otp string) (*types.StartResult, error) {
	var result types.StartResult
	endpoint := fmt.Sprintf("/api/v1/applications/%d/start", applicationID)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, map[string]string{"otp": otp}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InitiateCompletion ends the working period and returns the completion code
func (c *APIClient) InitiateCompletion(ctx context.Context, applicationID uint) (*types.CompletionOTPResult, error) {
	var result types.CompletionOTPResult
	endpoint := fmt.Sprintf("/api/v1/applications/%d/complete/initiate", applicationID)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyCompletion redeems a completion code and returns the settlement summary
func (c *APIClient) VerifyCompletion(ctx context.Context, applicationID uint, otp string) (*types.CompletionSummary, error) {
	var summary types.CompletionSummary
	endpoint := fmt.Sprintf("/api/v1/applications/%d/complete/verify", applicationID)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, map[string]string{"otp": otp}, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// RequestNewOtp re-issues a lapsed start code
func (c *APIClient) RequestNewOtp(ctx context.Context, applicationID uint) (*types.AcceptResult, error) {
	var result types.AcceptResult
	endpoint := fmt.Sprintf("/api/v1/applications/%d/otp", applicationID)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
