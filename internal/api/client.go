package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// Client talks to the poster backend. All endpoints are JSON-over-POST; every
// method returns either a decoded response or one of the errors in errors.go.
type Client struct {
	baseURL string
	client  *http.Client
}

// Config wires runtime options into the client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     Logger
}

// New builds a Client. A nil HTTPClient gets the default timeout; a non-nil
// Logger installs the transport interceptor so call sites stay free of
// logging concerns.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if cfg.Logger != nil {
		httpClient = withLogging(httpClient, cfg.Logger)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  httpClient,
	}
}

// User is the authenticated identity returned by /login and echoed by
// /signup.
type User struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// FullName joins the user's first and last names for display.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type SignUpRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type SignUpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GetUserTopicsResponse struct {
	Success bool     `json:"success"`
	UserID  string   `json:"user_id"`
	Topics  []string `json:"topics"`
}

// TopicRecord is a topic row as the backend stores it.
type TopicRecord struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	TopicName string `json:"topic_name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type AddUserTopicsResponse struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	Topics     []TopicRecord `json:"topics"`
	TotalAdded int           `json:"total_added"`
	Skipped    int           `json:"skipped"`
}

// DocumentRecord links a user to a document, the folder it lives in, and its
// favorite flag.
type DocumentRecord struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	DocumentID string `json:"document_id"`
	Folder     string `json:"folder"`
	IsFavorite bool   `json:"is_favorite"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type AddUserDocumentsResponse struct {
	Success    bool             `json:"success"`
	Message    string           `json:"message"`
	Documents  []DocumentRecord `json:"documents"`
	TotalAdded int              `json:"total_added"`
	Skipped    int              `json:"skipped"`
}

// PaperRecord is the metadata the backend holds for one research paper.
type PaperRecord struct {
	ID            string   `json:"id"`
	DocumentID    string   `json:"document_id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PublishedDate string   `json:"published_date"`
	Source        string   `json:"source"`
	PDFURL        string   `json:"pdf_url"`
	Abstract      string   `json:"abstract"`
	Summary       string   `json:"summary"`
	Labels        []string `json:"labels"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

type GetResearchPapersMetadataResponse struct {
	Success        bool          `json:"success"`
	Message        string        `json:"message"`
	Papers         []PaperRecord `json:"papers"`
	TotalRequested int           `json:"total_requested"`
	TotalFound     int           `json:"total_found"`
	NotFound       []string      `json:"not_found"`
}

type GeneratePosterResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	PosterID string `json:"poster_id"`
	PDFURL   string `json:"pdf_url"`
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResponse, error) {
	var resp SignUpResponse
	if err := c.post(ctx, "/signup", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for the authenticated user record.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var user User
	if err := c.post(ctx, "/login", LoginRequest{Email: email, Password: password}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserTopics lists the topic names registered for a user.
func (c *Client) GetUserTopics(ctx context.Context, userID string) (*GetUserTopicsResponse, error) {
	payload := map[string]string{"user_id": userID}
	var resp GetUserTopicsResponse
	if err := c.post(ctx, "/get-user-topics", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddUserTopics registers topics for a user. Names the user already has are
// counted in Skipped rather than duplicated.
func (c *Client) AddUserTopics(ctx context.Context, userID string, topics []string) (*AddUserTopicsResponse, error) {
	payload := map[string]any{"user_id": userID, "topics": topics}
	var resp AddUserTopicsResponse
	if err := c.post(ctx, "/add-user-topics", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddUserDocuments associates documents with a user. When every id already
// existed the backend returns an empty Documents slice; callers must supply
// their own fallback folder assignment in that case.
func (c *Client) AddUserDocuments(ctx context.Context, userID string, documentIDs []string) (*AddUserDocumentsResponse, error) {
	payload := map[string]any{"user_id": userID, "document_ids": documentIDs}
	var resp AddUserDocumentsResponse
	if err := c.post(ctx, "/add-user-documents", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetResearchPapersMetadata fetches paper metadata for a set of document ids.
func (c *Client) GetResearchPapersMetadata(ctx context.Context, documentIDs []string) (*GetResearchPapersMetadataResponse, error) {
	payload := map[string]any{"document_ids": documentIDs}
	var resp GetResearchPapersMetadataResponse
	if err := c.post(ctx, "/get-research-papers-metadata", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GeneratePoster asks the backend to render a poster from the selected papers
// using the named template.
func (c *Client) GeneratePoster(ctx context.Context, userID, templateID string, documentIDs []string) (*GeneratePosterResponse, error) {
	payload := map[string]any{
		"user_id":      userID,
		"template_id":  templateID,
		"document_ids": documentIDs,
	}
	var resp GeneratePosterResponse
	if err := c.post(ctx, "/generate-poster", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// decodeError turns a non-2xx response into an APIError, preferring the
// FastAPI "detail" field, then "message", then the status line.
func decodeError(resp *http.Response) error {
	message := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(bytes.TrimSpace(data)) > 0 {
		var body struct {
			Detail  string `json:"detail"`
			Message string `json:"message"`
		}
		if jsonErr := json.Unmarshal(data, &body); jsonErr == nil {
			if body.Detail != "" {
				message = body.Detail
			} else if body.Message != "" {
				message = body.Message
			}
		} else {
			message = strings.TrimSpace(string(data))
		}
	}

	return &APIError{StatusCode: resp.StatusCode, Message: message}
}
