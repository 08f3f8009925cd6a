// Package kis implements the broker.Adapter against the Korea Investment &
// Securities OpenAPI (domestic stock). All numeric fields arrive as strings
// and are normalized to decimals at this boundary; missing or malformed
// fields default to zero rather than propagating nulls into callers.
package kis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

const (
	realBaseURL    = "https://openapi.koreainvestment.com:9443"
	virtualBaseURL = "https://openapivts.koreainvestment.com:29443"

	tokenPath = "/oauth2/tokenP"

	// Token lifetime reported by the backend is 24h; refresh a minute early.
	tokenExpiryMargin = time.Minute
)

type Config struct {
	AppKey    string
	AppSecret string
	// AccountNo is the full account number, e.g. "12345678-01".
	AccountNo string
	Virtual   bool
	// MaxConcurrent bounds in-flight backend calls. Zero means 8.
	MaxConcurrent int64
	// BaseURL overrides the KIS endpoint; used by tests.
	BaseURL string
	Logger  zerolog.Logger
}

type Client struct {
	http      *http.Client
	baseURL   string
	appKey    string
	appSecret string
	cano      string
	prdtCd    string
	virtual   bool
	sem       *semaphore.Weighted
	log       zerolog.Logger

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		if cfg.Virtual {
			base = virtualBaseURL
		} else {
			base = realBaseURL
		}
	}
	maxConc := cfg.MaxConcurrent
	if maxConc <= 0 {
		maxConc = 8
	}
	cano, prdtCd := splitAccountNo(cfg.AccountNo)
	return &Client{
		http:      &http.Client{Timeout: 15 * time.Second},
		baseURL:   strings.TrimRight(base, "/"),
		appKey:    cfg.AppKey,
		appSecret: cfg.AppSecret,
		cano:      cano,
		prdtCd:    prdtCd,
		virtual:   cfg.Virtual,
		sem:       semaphore.NewWeighted(maxConc),
		log:       cfg.Logger,
	}
}

func splitAccountNo(no string) (string, string) {
	no = strings.TrimSpace(no)
	if i := strings.IndexByte(no, '-'); i >= 0 {
		return no[:i], no[i+1:]
	}
	if len(no) > 8 {
		return no[:8], no[8:]
	}
	return no, "01"
}

// tradingTR maps a real-account trading TR ID to its virtual-account twin.
// Market data TR IDs (FH...) are mode independent.
func (c *Client) tradingTR(real string) string {
	if c.virtual && strings.HasPrefix(real, "T") {
		return "V" + real[1:]
	}
	return real
}

type apiEnvelope struct {
	RtCd  string `json:"rt_cd"`
	MsgCd string `json:"msg_cd"`
	Msg1  string `json:"msg1"`
}

func (e apiEnvelope) err() error {
	if e.RtCd == "0" {
		return nil
	}
	return fmt.Errorf("kis api error %s: %s", e.MsgCd, strings.TrimSpace(e.Msg1))
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}
	body, err := json.Marshal(map[string]string{
		"grant_type": "client_credentials",
		"appkey":     c.appKey,
		"appsecret":  c.appSecret,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("kis token request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("kis token request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("kis token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", errors.New("kis token response: empty access_token")
	}
	c.accessToken = tr.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - tokenExpiryMargin)
	c.log.Debug().Time("expiry", c.tokenExpiry).Msg("kis access token refreshed")
	return c.accessToken, nil
}

// call performs one KIS API round-trip. A semaphore slot bounds backend
// concurrency so request bursts cannot pile onto the brokerage quota.
func (c *Client) call(ctx context.Context, method, path, trID string, query url.Values, body any, out any) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.sem.Release(1)

	tok, err := c.token(ctx)
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("appkey", c.appKey)
	req.Header.Set("appsecret", c.appSecret)
	req.Header.Set("tr_id", trID)
	req.Header.Set("custtype", "P")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("kis %s: %w", path, err)
	}
	defer resp.Body.Close()
	c.log.Debug().Str("path", path).Str("tr_id", trID).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("kis call")
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("kis %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("kis %s: decode: %w", path, err)
	}
	return nil
}

func (c *Client) accountQuery() url.Values {
	q := url.Values{}
	q.Set("CANO", c.cano)
	q.Set("ACNT_PRDT_CD", c.prdtCd)
	return q
}
