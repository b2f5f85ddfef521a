// Package whitehouseclient is a typed HTTP client for the WhiteHouse API.
// It unwraps the response envelope and turns business notifications into
// errors.
package whitehouseclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// ErrNotFound é retornado quando a API responde 404
var ErrNotFound = errors.New("president not found")

// Address é o endereço de um presidente
type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
	ZipCode    string `json:"zipCode"`
}

// President é o recurso exposto em /whitehouse
type President struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

// Notification é uma mensagem de negócio devolvida pela API
type Notification struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error descreve uma resposta sem sucesso
type Error struct {
	StatusCode    int
	Message       string
	Notifications []Notification
}

func (e *Error) Error() string {
	if len(e.Notifications) == 0 {
		return fmt.Sprintf("whitehouse: status %d: %s", e.StatusCode, e.Message)
	}
	codes := make([]string, 0, len(e.Notifications))
	for _, n := range e.Notifications {
		codes = append(codes, n.Code)
	}
	return fmt.Sprintf("whitehouse: status %d: %s", e.StatusCode, strings.Join(codes, ", "))
}

// Is permite errors.Is(err, ErrNotFound)
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Has informa se a notificação com o código foi devolvida
func (e *Error) Has(code string) bool {
	for _, n := range e.Notifications {
		if n.Code == code {
			return true
		}
	}
	return false
}

// Option ajusta o cliente resty subjacente
type Option func(*resty.Client)

// WithTimeout define o timeout de cada requisição
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithRetries repete requisições que falharam na conexão
func WithRetries(count int, wait time.Duration) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(count).SetRetryWaitTime(wait)
	}
}

// WithHTTPClient usa um http.Client próprio (ex.: testes)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *resty.Client) {
		c.SetTransport(hc.Transport)
		if hc.Timeout > 0 {
			c.SetTimeout(hc.Timeout)
		}
	}
}

// Client acessa a API da WhiteHouse
type Client struct {
	http *resty.Client
}

// New cria uma nova instância de Client. baseURL inclui o base path da API
// (ex.: http://localhost:8080/api).
func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)

	// Propaga o contexto de trace para o serviço
	rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(req.Header))
		return nil
	})

	for _, opt := range opts {
		opt(rc)
	}
	return &Client{http: rc}
}

type envelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
}

type body[T any] struct {
	Success       bool           `json:"success"`
	Data          T              `json:"data"`
	HasNext       bool           `json:"hasNext"`
	Notifications []Notification `json:"notifications"`
}

// List busca uma página de presidentes. pageSize precisa ser maior que zero.
func (c *Client) List(ctx context.Context, page, pageSize int) ([]President, bool, error) {
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("pageSize", strconv.Itoa(pageSize))

	b, err := do[[]President](req, http.MethodGet, "/whitehouse")
	if err != nil {
		return nil, false, err
	}
	return b.Data, b.HasNext, nil
}

// Get busca um presidente pelo id
func (c *Client) Get(ctx context.Context, id string) (President, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Get("/whitehouse/{id}")
	if err != nil {
		return President{}, fmt.Errorf("failed to get president: %w", err)
	}

	env, err := decode(resp)
	if err != nil {
		return President{}, err
	}
	if resp.StatusCode() != http.StatusOK {
		return President{}, failure(resp.StatusCode(), env.Result)
	}

	var p President
	if err := json.Unmarshal(env.Result, &p); err != nil {
		return President{}, fmt.Errorf("failed to decode president: %w", err)
	}
	return p, nil
}

// Create cadastra os presidentes; nenhum é gravado se algum for inválido
func (c *Client) Create(ctx context.Context, presidents []President) ([]President, error) {
	req := c.http.R().SetContext(ctx).SetBody(presidents)

	b, err := do[[]President](req, http.MethodPost, "/whitehouse")
	if err != nil {
		return nil, err
	}
	return b.Data, nil
}

// Update altera o presidente com o id informado
func (c *Client) Update(ctx context.Context, id string, p President) (President, error) {
	req := c.http.R().SetContext(ctx).SetPathParam("id", id).SetBody(p)

	b, err := do[President](req, http.MethodPut, "/whitehouse/{id}")
	if err != nil {
		return President{}, err
	}
	return b.Data, nil
}

// Delete remove o presidente com o id informado
func (c *Client) Delete(ctx context.Context, id string) error {
	req := c.http.R().SetContext(ctx).SetPathParam("id", id)

	_, err := do[json.RawMessage](req, http.MethodDelete, "/whitehouse/{id}")
	return err
}

func do[T any](req *resty.Request, method, path string) (body[T], error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return body[T]{}, fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}

	env, err := decode(resp)
	if err != nil {
		return body[T]{}, err
	}
	if resp.StatusCode() != http.StatusOK {
		return body[T]{}, failure(resp.StatusCode(), env.Result)
	}

	var b body[T]
	if err := json.Unmarshal(env.Result, &b); err != nil {
		return body[T]{}, fmt.Errorf("failed to decode result: %w", err)
	}
	if !b.Success {
		return body[T]{}, &Error{StatusCode: resp.StatusCode(), Notifications: b.Notifications}
	}
	return b, nil
}

func decode(resp *resty.Response) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return envelope{}, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode(), err)
	}
	return env, nil
}

// failure monta o erro de respostas 4xx/5xx: o result é uma string fixa ou
// um corpo com notificações
func failure(status int, result json.RawMessage) error {
	var msg string
	if err := json.Unmarshal(result, &msg); err == nil {
		return &Error{StatusCode: status, Message: msg}
	}

	var b body[json.RawMessage]
	if err := json.Unmarshal(result, &b); err == nil && len(b.Notifications) > 0 {
		return &Error{StatusCode: status, Notifications: b.Notifications}
	}
	return &Error{StatusCode: status, Message: string(result)}
}
