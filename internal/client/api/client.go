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
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/electrodrive/catalog-api/internal/models"
	apperrors "github.com/electrodrive/catalog-api/pkg/errors"
)

const fallbackErrMessage = "request failed, please try again later"

// Client is the sync layer between the CLI state store and the REST
// API. Every call attaches the persisted token when present, translates
// the wire error shape into AppError kinds, and emits a session-expired
// event on any 401 so the view layer can route back to login.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	logger     *logrus.Logger

	onSessionExpired func()
}

func NewClient(baseURL string, tokens TokenStore, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
		logger: logger,
	}
}

// OnSessionExpired registers the handler invoked whenever the server
// answers 401. The handler runs after the persisted token is discarded.
func (c *Client) OnSessionExpired(fn func()) {
	c.onSessionExpired = fn
}

// Token returns the currently persisted session token, if any.
func (c *Client) Token() string {
	return c.tokens.Load()
}

// wireError is the error shape shared by all non-2xx responses.
type wireError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func codeForStatus(status int) apperrors.ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return apperrors.CodeBadRequest
	case http.StatusUnauthorized:
		return apperrors.CodeUnauthenticated
	case http.StatusForbidden:
		return apperrors.CodeForbidden
	case http.StatusNotFound:
		return apperrors.CodeNotFound
	case http.StatusTooManyRequests:
		return apperrors.CodeRateLimited
	case http.StatusServiceUnavailable:
		return apperrors.CodeUnavailable
	default:
		return apperrors.CodeInternalError
	}
}

// do performs one request/response cycle. body is JSON-encoded when
// non-nil; out is JSON-decoded from a 2xx response when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInternalError, fallbackErrMessage, err)
		}
		reqBody = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	return c.doRaw(ctx, method, path, reqBody, contentType, out)
}

func (c *Client) doRaw(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternalError, fallbackErrMessage, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Load(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUnavailable, "server is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.translateError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.Wrap(apperrors.CodeInternalError, fallbackErrMessage, err)
		}
	}
	return nil
}

// translateError maps a non-2xx response onto the error taxonomy. A
// 401 additionally discards the persisted token and fires the
// session-expired handler, once per occurrence.
func (c *Client) translateError(resp *http.Response) error {
	message := fallbackErrMessage
	var we wireError
	if err := json.NewDecoder(resp.Body).Decode(&we); err == nil && we.Error != "" {
		message = we.Error
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.tokens.Clear(); err != nil {
			c.logger.WithError(err).Warn("Failed to discard session token")
		}
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
	}

	return apperrors.New(codeForStatus(resp.StatusCode), message)
}

// --- auth operations ---

// AuthResult is the outcome of register/login.
type AuthResult struct {
	Token string          `json:"token"`
	Data  models.UserData `json:"data"`
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*models.UserData, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/register", models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &result)
	if err != nil {
		return nil, err
	}
	if err := c.tokens.Save(result.Token); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternalError, "failed to persist session token", err)
	}
	return &result.Data, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.UserData, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/login", models.LoginRequest{
		Email:    email,
		Password: password,
	}, &result)
	if err != nil {
		return nil, err
	}
	if err := c.tokens.Save(result.Token); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternalError, "failed to persist session token", err)
	}
	return &result.Data, nil
}

func (c *Client) Me(ctx context.Context) (*models.UserData, error) {
	var result struct {
		Data models.UserData `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// Logout acknowledges the logout with the server and discards the
// local token either way.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if clearErr := c.tokens.Clear(); clearErr != nil && err == nil {
		err = apperrors.Wrap(apperrors.CodeInternalError, "failed to discard session token", clearErr)
	}
	return err
}

func (c *Client) CreateAdmin(ctx context.Context, username, email, password string) (*models.UserData, error) {
	var result struct {
		Data models.UserData `json:"data"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/create-admin", models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result.Data, nil
}

// --- catalog operations ---

// MotorListResult mirrors the list response body.
type MotorListResult struct {
	Count      int               `json:"count"`
	Total      int               `json:"total"`
	Pagination models.Pagination `json:"pagination"`
	Data       []models.Motor    `json:"data"`
}

func (c *Client) ListMotors(ctx context.Context, filter *models.MotorFilter, page, limit int) (*MotorListResult, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	if filter != nil {
		if filter.Search != "" {
			query.Set("search", filter.Search)
		}
		if filter.MinPower != nil {
			query.Set("minPower", strconv.FormatFloat(*filter.MinPower, 'f', -1, 64))
		}
		if filter.MaxPower != nil {
			query.Set("maxPower", strconv.FormatFloat(*filter.MaxPower, 'f', -1, 64))
		}
		if filter.Available != nil {
			query.Set("available", strconv.FormatBool(*filter.Available))
		}
	}

	var result MotorListResult
	if err := c.do(ctx, http.MethodGet, "/motors?"+query.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetMotor(ctx context.Context, id string) (*models.Motor, error) {
	var result struct {
		Data models.Motor `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/motors/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

func (c *Client) CreateMotor(ctx context.Context, input *models.MotorInput) (*models.Motor, error) {
	var result struct {
		Data models.Motor `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/motors", input, &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

func (c *Client) UpdateMotor(ctx context.Context, id string, input *models.MotorInput) (*models.Motor, error) {
	var result struct {
		Data models.Motor `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/motors/"+url.PathEscape(id), input, &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

func (c *Client) DeleteMotor(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/motors/"+url.PathEscape(id), nil, nil)
}

func (c *Client) SearchMotors(ctx context.Context, keyword string) ([]models.Motor, error) {
	query := url.Values{}
	query.Set("keyword", keyword)

	var result struct {
		Count int            `json:"count"`
		Data  []models.Motor `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/motors/search?"+query.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// --- upload operations ---

func (c *Client) UploadImage(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternalError, fallbackErrMessage, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternalError, fallbackErrMessage, err)
	}
	if err := writer.Close(); err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternalError, fallbackErrMessage, err)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := c.doRaw(ctx, http.MethodPost, "/upload", &buf, writer.FormDataContentType(), &result); err != nil {
		return "", err
	}
	return result.URL, nil
}

func (c *Client) DeleteImage(ctx context.Context, fileName string) error {
	return c.doRaw(ctx, http.MethodDelete, "/upload/"+url.PathEscape(fileName), nil, "", nil)
}
