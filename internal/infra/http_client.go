package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strconv"
	"time"

	"github.com/morikuni/failure/v2"
	"github.com/takatori/icoads/internal/errors"
)

type HttpClient struct {
	Client *http.Client
}

type Request struct {
	Url     string
	Headers map[string]string
	Cookies []http.Cookie
}

type PostRequest struct {
	Request
	Entity any
}

func NewHttpClient(timeout time.Duration) *HttpClient {

	dt := http.DefaultTransport
	transport := dt.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 10
	transport.IdleConnTimeout = time.Duration(30) * time.Second
	transport.MaxIdleConns = transport.MaxIdleConnsPerHost * 2
	return &HttpClient{
		Client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// Get sends a GET request and decodes the JSON response into expected.
// Pass a *json.RawMessage to keep the body as is.
func (c *HttpClient) Get(ctx context.Context, req Request, expected any) error {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, req.Url, nil)
	if err != nil {
		return failure.Translate(
			err,
			errors.ErrInternal,
			failure.Field(failure.Message("failed to create request")),
			failure.Context{
				"url": req.Url,
			},
		)
	}
	return c.do(r, req, failure.Context{"url": req.Url}, expected)
}

// Post encodes req.Entity as JSON, sends it and decodes the JSON response
// into expected.
func (c *HttpClient) Post(ctx context.Context, req PostRequest, expected any) error {
	encoded, err := json.Marshal(req.Entity)
	if err != nil {
		return failure.Translate(
			err,
			errors.ErrInternal,
			failure.Field(failure.Message("failed to encode request entity")),
			failure.Context{
				"url":    req.Url,
				"entity": fmt.Sprintf("%+v", req.Entity),
			},
		)
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, req.Url, bytes.NewBuffer(encoded))
	if err != nil {
		return failure.Translate(
			err,
			errors.ErrInternal,
			failure.Field(failure.Message("failed to create request")),
			failure.Context{
				"url": req.Url,
				"req": string(encoded),
			},
		)
	}
	r.Header.Set("Content-Type", "application/json")

	return c.do(r, req.Request, failure.Context{"url": req.Url, "req": string(encoded)}, expected)
}

func (c *HttpClient) do(r *http.Request, req Request, errCtx failure.Context, expected any) error {
	for k, v := range req.Headers {
		if v != "" {
			r.Header.Set(k, v)
		}
	}
	for _, cookie := range req.Cookies {
		if len(cookie.Value) > 0 {
			r.AddCookie(&cookie)
		}
	}

	res, err := c.Client.Do(r)
	if err != nil {
		return failure.Translate(
			err,
			errors.ErrInternal,
			failure.Field(failure.Message("failed to send request")),
			errCtx,
		)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		statusCtx := maps.Clone(errCtx)
		statusCtx["code"] = strconv.Itoa(res.StatusCode)
		return failure.New(
			errors.ErrInternal,
			failure.Field(failure.Message("unexpected status code")),
			statusCtx,
		)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return failure.Translate(
			err,
			errors.ErrInternal,
			failure.Field(failure.Message("failed to read response body")),
			errCtx,
		)
	}

	if err := json.Unmarshal(body, expected); err != nil {
		return failure.Translate(
			err,
			errors.ErrInternal,
			failure.Field(failure.Message("failed to decode response body")),
			errCtx,
		)
	}

	return nil
}
