package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"royale-rivals/internal/battle"
	"royale-rivals/internal/config"
	"royale-rivals/internal/constants"
	"royale-rivals/internal/domain"
	"royale-rivals/internal/metrics"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
)

var (
	ErrRateLimited      = errors.New("upstream rate limited")
	ErrNotFound         = errors.New("upstream player not found")
	ErrUpstream         = errors.New("upstream request failed")
	ErrMalformedPayload = errors.New("malformed upstream payload")
)

type RoyaleClient struct {
	apiKey  string
	baseURL string
	client  *fasthttp.Client
}

func NewRoyaleClient(cfg *config.Config) *RoyaleClient {
	return NewRoyaleClientWith(cfg.CRBaseURL, cfg.CRAPIKey, &fasthttp.Client{
		MaxConnsPerHost:     100,
		ReadTimeout:         constants.ExternalAPITimeout,
		WriteTimeout:        constants.ExternalAPITimeout,
		MaxIdleConnDuration: 1 * time.Minute,

		// keep %23 intact in the path
		DisablePathNormalizing: true,
	})
}

func NewRoyaleClientWith(baseURL, apiKey string, client *fasthttp.Client) *RoyaleClient {
	return &RoyaleClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// playerPath renders the tag with its marker percent-encoded, as the upstream requires.
func playerPath(tag string) string {
	return "/players/%23" + url.PathEscape(battle.NormalizeTag(tag))
}

// GetBattleLog returns the recent battles of tag, one undecoded record per battle.
func (c *RoyaleClient) GetBattleLog(ctx context.Context, tag string) ([]json.RawMessage, error) {
	res, err := doRequest[[]json.RawMessage](ctx, c, "battlelog", c.baseURL+playerPath(tag)+"/battlelog")
	if err != nil {
		return nil, err
	}
	return *res, nil
}

func (c *RoyaleClient) GetPlayer(ctx context.Context, tag string) (*PlayerResponse, error) {
	return doRequest[PlayerResponse](ctx, c, "player", c.baseURL+playerPath(tag))
}

func doRequest[T any](ctx context.Context, client *RoyaleClient, endpoint, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bearer "+client.apiKey)
	req.Header.Set("Accept", "application/json")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "transport").Inc()
			return nil, errors.Mark(errors.Wrapf(err, "%s request", endpoint), ErrUpstream)
		}
	} else {
		if err := client.client.DoTimeout(req, resp, constants.ExternalAPITimeout); err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "transport").Inc()
			return nil, errors.Mark(errors.Wrapf(err, "%s request", endpoint), ErrUpstream)
		}
	}

	status := resp.StatusCode()
	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()

	switch status {
	case fasthttp.StatusOK:
	case fasthttp.StatusTooManyRequests:
		return nil, errors.Wrapf(ErrRateLimited, "%s", endpoint)
	case fasthttp.StatusNotFound:
		return nil, errors.Wrapf(ErrNotFound, "%s", endpoint)
	default:
		return nil, errors.Wrapf(ErrUpstream, "%s: API error: %d", endpoint, status)
	}

	var result T
	if err := sonic.Unmarshal(resp.Body(), &result); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decode %s", endpoint), ErrMalformedPayload)
	}
	return &result, nil
}

type PlayerResponse struct {
	Tag      string `json:"tag"`
	Name     string `json:"name"`
	ExpLevel int    `json:"expLevel"`
	Trophies int    `json:"trophies"`
	Clan     *Clan  `json:"clan,omitempty"`
}

type Clan struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

func (p *PlayerResponse) Profile() domain.Profile {
	profile := domain.Profile{Name: p.Name, Trophies: p.Trophies}
	if p.Clan != nil {
		profile.ClanName = p.Clan.Name
	}
	return profile
}

// RawBattle is one battle log record as the upstream sends it.
type RawBattle struct {
	Type       string        `json:"type"`
	BattleTime string        `json:"battleTime"`
	GameMode   *GameMode     `json:"gameMode,omitempty"`
	Team       []Participant `json:"team"`
	Opponent   []Participant `json:"opponent"`
}

type GameMode struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Participant struct {
	Tag    string `json:"tag"`
	Name   string `json:"name"`
	Crowns *int   `json:"crowns"`
}
