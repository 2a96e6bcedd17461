package registry

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// HTTPFetcher abstracts HTTP calls for testability
type HTTPFetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// RealHTTPFetcher wraps http.Client for production use
type RealHTTPFetcher struct {
	client *http.Client
}

// NewRealHTTPFetcher creates a production HTTP fetcher
func NewRealHTTPFetcher(client *http.Client) HTTPFetcher {
	return &RealHTTPFetcher{client: client}
}

func (f *RealHTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	return f.client.Do(req)
}

// MockHTTPFetcher simulates HTTP responses for testing. It also records the
// order of requested URLs so tests can assert fallback sequencing. Safe for
// concurrent use; scheduler tests hit it from multiple goroutines.
type MockHTTPFetcher struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	errors    map[string]error
	Requested []string
}

type mockResponse struct {
	statusCode int
	body       string
	headers    map[string]string
}

// NewMockHTTPFetcher creates a mock HTTP fetcher
func NewMockHTTPFetcher() *MockHTTPFetcher {
	return &MockHTTPFetcher{
		responses: make(map[string]mockResponse),
		errors:    make(map[string]error),
	}
}

// AddResponse registers a mock response for a URL
func (m *MockHTTPFetcher) AddResponse(urlStr string, statusCode int, body string) {
	m.AddResponseWithHeaders(urlStr, statusCode, body, nil)
}

// AddResponseWithHeaders registers a mock response carrying response headers
func (m *MockHTTPFetcher) AddResponseWithHeaders(urlStr string, statusCode int, body string, headers map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[urlStr] = mockResponse{statusCode: statusCode, body: body, headers: headers}
}

// AddError registers a mock error for a URL
func (m *MockHTTPFetcher) AddError(urlStr string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[urlStr] = err
}

func (m *MockHTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	urlStr := req.URL.String()

	m.mu.Lock()
	m.Requested = append(m.Requested, urlStr)
	err, errOK := m.errors[urlStr]
	mock, respOK := m.responses[urlStr]
	m.mu.Unlock()

	if errOK {
		return nil, err
	}
	if !respOK {
		// Unknown URLs behave like missing resources
		mock = mockResponse{statusCode: 404, body: "Not Found"}
	}

	parsedURL, _ := url.Parse(urlStr)
	resp := &http.Response{
		StatusCode: mock.statusCode,
		Body:       io.NopCloser(strings.NewReader(mock.body)),
		Header:     make(http.Header),
		Request: &http.Request{
			URL: parsedURL,
		},
	}
	for k, v := range mock.headers {
		resp.Header.Set(k, v)
	}
	return resp, nil
}
