package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"Backend-SurveyHub/src/models"

	"github.com/gofiber/fiber/v2"
)

// DefaultTimeout applies when the caller's context has no deadline.
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Missing []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// API is the subset of the REST surface the client store drives.
type API interface {
	SetToken(token string)
	VisibleSurveys(ctx context.Context) ([]models.VisibleSurvey, error)
	Statuses(ctx context.Context) (map[string]models.StatusEntry, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Profile(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	CreateSurvey(ctx context.Context, req models.CreateSurveyRequest) (*models.Survey, error)
	Submit(ctx context.Context, req models.RespondRequest) (*models.SubmissionResult, error)
	RecordAnswer(ctx context.Context, surveyID string, req models.RecordAnswerRequest) (*models.StatusEntry, error)
	Outcomes(ctx context.Context, surveyID string) (*models.SurveyOutcomes, error)
}

// HTTPClient talks to the survey API with fiber's client Agent.
type HTTPClient struct {
	baseURL string

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends one request and decodes a 2xx body into out. Errors come back as *APIError
// when the server answered, plain errors otherwise.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)

	if token := c.bearer(); token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		a.JSON(body)
	}

	timeout := DefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			fiber.ReleaseAgent(a)
			return context.DeadlineExceeded
		}
	}
	a.Timeout(timeout)

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return err
	}

	// Bytes releases the agent
	code, raw, errs := a.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if code < 200 || code >= 300 {
		var er models.ErrorResponse
		if err := json.Unmarshal(raw, &er); err != nil || er.Message == "" {
			er.Message = http.StatusText(code)
		}
		return &APIError{Status: code, Message: er.Message, Missing: er.Missing}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) VisibleSurveys(ctx context.Context) ([]models.VisibleSurvey, error) {
	var res struct {
		Surveys []models.VisibleSurvey `json:"surveys"`
	}
	if err := c.do(ctx, fiber.MethodGet, "/response/surveys", nil, &res); err != nil {
		return nil, err
	}
	return res.Surveys, nil
}

func (c *HTTPClient) Statuses(ctx context.Context) (map[string]models.StatusEntry, error) {
	var res struct {
		Statuses map[string]models.StatusEntry `json:"statuses"`
	}
	if err := c.do(ctx, fiber.MethodGet, "/response/status", nil, &res); err != nil {
		return nil, err
	}
	return res.Statuses, nil
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var res models.AuthResponse
	if err := c.do(ctx, fiber.MethodPost, "/auth/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var res models.AuthResponse
	if err := c.do(ctx, fiber.MethodPost, "/auth/register", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var res struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, fiber.MethodGet, "/auth/profile", nil, &res); err != nil {
		return nil, err
	}
	if res.User == nil {
		return nil, errors.New("profile response has no user")
	}
	return res.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, fiber.MethodPost, "/auth/logout", nil, nil)
}

func (c *HTTPClient) CreateSurvey(ctx context.Context, req models.CreateSurveyRequest) (*models.Survey, error) {
	var res struct {
		Survey *models.Survey `json:"survey"`
	}
	if err := c.do(ctx, fiber.MethodPost, "/admin/create-survey", req, &res); err != nil {
		return nil, err
	}
	if res.Survey == nil {
		return nil, errors.New("create response has no survey")
	}
	return res.Survey, nil
}

func (c *HTTPClient) Submit(ctx context.Context, req models.RespondRequest) (*models.SubmissionResult, error) {
	var res models.SubmissionResult
	if err := c.do(ctx, fiber.MethodPost, "/response/respond", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) RecordAnswer(ctx context.Context, surveyID string, req models.RecordAnswerRequest) (*models.StatusEntry, error) {
	var res models.StatusEntry
	if err := c.do(ctx, fiber.MethodPut, "/response/status/"+surveyID, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Outcomes(ctx context.Context, surveyID string) (*models.SurveyOutcomes, error) {
	var res models.SurveyOutcomes
	if err := c.do(ctx, fiber.MethodGet, "/admin/get-survey-outcomes/"+surveyID, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
