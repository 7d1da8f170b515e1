// Package client é o cliente Go da API: sessão por cookie, negócio ativo via X-Business-ID
// e cache das consultas GET.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/business-manager-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultTimeout = 30 * time.Second

	// UserPath é a verificação de identidade; um 401 nela não limpa o estado do cliente
	UserPath = "/api/user"

	businessHeader = "X-Business-ID"
)

// APIError é a resposta de erro normalizada do servidor
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsUnauthorized indica um erro 401 vindo do servidor
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	session    *Session
	cache      *QueryCache
}

type Option func(*Client)

// WithHTTPClient usa uma cópia de httpClient; o original não recebe cookie jar nem timeout
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		copied := *httpClient
		c.httpClient = &copied
	}
}

// WithTimeout vale para qualquer http.Client, independente da ordem das opções
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithSession(session *Session) Option {
	return func(c *Client) {
		c.session = session
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "URL base inválida")
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.Errorf("URL base inválida: %q", baseURL)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		session:    NewSession(),
		cache:      NewQueryCache(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.timeout > 0 {
		c.httpClient.Timeout = c.timeout
	}

	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao criar cookie jar")
		}
		c.httpClient.Jar = jar
	}

	return c, nil
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) Cache() *QueryCache {
	return c.cache
}

// Do envia body como JSON e decodifica a resposta em out (quando não for nil).
// GETs são servidos do cache do negócio ativo; qualquer outro método invalida o cache.
// A verificação de identidade nunca é cacheada.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, body, out, method == http.MethodGet && pathOnly(path) != UserPath)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, cacheable bool) error {
	key := c.cacheKey(path)
	if cacheable {
		if data, ok := c.cache.Get(key); ok {
			return decode(data, out)
		}
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("path", path).Error("Erro ao fazer a requisição")
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "erro ao ler a resposta")
	}

	if resp.StatusCode == http.StatusUnauthorized && pathOnly(path) != UserPath {
		c.session.ClearUser()
		c.cache.Purge()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if method != http.MethodGet {
		c.cache.Purge()
	} else if cacheable {
		c.cache.Set(key, data)
	}

	return decode(data, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao codificar a requisição")
		}
		reader = bytes.NewReader(payload)
	}

	target, err := c.baseURL.Parse(c.baseURL.Path + path)
	if err != nil {
		return nil, errors.Wrapf(err, "caminho inválido: %s", path)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if businessID, ok := c.session.BusinessID(); ok {
		req.Header.Set(businessHeader, strconv.Itoa(businessID))
	}

	return req, nil
}

func newAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func decode(data []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "erro ao decodificar a resposta")
	}
	return nil
}

// cacheKey separa as respostas por negócio, já que o X-Business-ID muda o resultado
func (c *Client) cacheKey(path string) string {
	if businessID, ok := c.session.BusinessID(); ok {
		return strconv.Itoa(businessID) + "|" + path
	}
	return "-|" + path
}

func pathOnly(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
