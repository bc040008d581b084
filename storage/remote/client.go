// Package remote is the HTTP accessor of the backend holding the admin cards.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/clubsite/clubsite/core"
	"github.com/clubsite/clubsite/core/card"
)

const (
	cardsPath       = "/api/admin-cards"
	adminCardsPath  = "/api/adminpage/admin-cards"
	membersListPath = "/api/adminpage/members_list"

	maxErrorBody = 1 << 10
)

type (
	Client struct {
		baseURL string
		token   string
		http    *http.Client
		logger  core.Logger
	}

	cardsResponse struct {
		Cards []card.Card `json:"cards"`
	}

	cardResponse struct {
		Card *card.Card `json:"card"`
	}

	membersResponse struct {
		Members []card.Member `json:"members"`
	}
)

var (
	_ card.Repository       = (*Client)(nil)
	_ card.MemberRepository = (*Client)(nil)
)

// NewClient returns a client of the backend at conf.API.BaseURL. It never retries.
func NewClient(conf *core.Config, logger core.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.API.BaseURL, "/"),
		token:   conf.API.Token,
		http:    &http.Client{Timeout: conf.API.Timeout},
		logger:  logger,
	}
}

func (cl *Client) ListCards(ctx context.Context) ([]card.Card, error) {
	var resp cardsResponse
	if err := cl.do(ctx, http.MethodGet, cardsPath, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Cards == nil {
		return []card.Card{}, nil
	}
	return resp.Cards, nil
}

func (cl *Client) CreateCard(ctx context.Context, c card.Card) (card.Card, error) {
	var resp cardResponse
	if err := cl.do(ctx, http.MethodPost, adminCardsPath, c, &resp); err != nil {
		return card.Card{}, err
	}
	if resp.Card == nil {
		return card.Card{}, errors.New("create response holds no card")
	}
	return *resp.Card, nil
}

// UpdateCard sends the whole card. An empty response body means the write went through as sent.
func (cl *Client) UpdateCard(ctx context.Context, c card.Card) (card.Card, error) {
	var resp cardResponse
	if err := cl.do(ctx, http.MethodPut, cardPath(c.ID), c, &resp); err != nil {
		return card.Card{}, err
	}
	if resp.Card == nil {
		return c, nil
	}
	return *resp.Card, nil
}

func (cl *Client) DeleteCard(ctx context.Context, id int) error {
	return cl.do(ctx, http.MethodDelete, cardPath(id), nil, nil)
}

func (cl *Client) ListMembers(ctx context.Context) ([]card.Member, error) {
	var resp membersResponse
	if err := cl.do(ctx, http.MethodGet, membersListPath, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Members, nil
}

func cardPath(id int) string {
	return fmt.Sprintf("%s/%d", adminCardsPath, id)
}

func (cl *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, cl.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	reqID := uuid.New().String()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	start := time.Now()
	resp, err := cl.http.Do(req)
	if err != nil {
		cl.logger.Error(fmt.Sprintf("%s %s [%s]", method, path, reqID), err)
		return &core.NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	cl.logger.Debug(fmt.Sprintf("%s %s [%s] %d in %v", method, path, reqID, resp.StatusCode, time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := ioutil.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		sErr := &core.ServerError{Method: method, Path: path, Status: resp.StatusCode, Body: errorMessage(raw)}
		cl.logger.Error(fmt.Sprintf("%s %s [%s]", method, path, reqID), sErr)
		return sErr
	}

	raw, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return &core.NetworkError{Method: method, Path: path, Err: err}
	}
	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(err, "decoding %s %s response", method, path)
	}
	return nil
}

// errorMessage extracts the "error" (or "message") of a JSON error body, the raw body otherwise.
func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
