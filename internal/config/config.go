package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr         string
	JWTIssuer        string
	JWTSecret        string
	JWTTTL           time.Duration
	PasswordHash     string
	KISAppKey        string
	KISAppSecret     string
	KISAccountNo     string
	VirtualTrading   bool
	KISMaxConcurrent int
	WebSocketOrigin  string
	JournalPath      string
	LogLevel         string
}

// BrokerConfigured reports whether the brokerage credentials are complete.
// With any of them missing the gateway starts with the broker disabled.
func (c Config) BrokerConfigured() bool {
	return c.KISAppKey != "" && c.KISAppSecret != "" && c.KISAccountNo != ""
}

func Load() (Config, error) {
	var c Config
	var missing []string
	c.HTTPAddr = os.Getenv("HTTP_ADDR")
	if c.HTTPAddr == "" {
		missing = append(missing, "HTTP_ADDR")
	}
	c.JWTIssuer = os.Getenv("JWT_ISSUER")
	if c.JWTIssuer == "" {
		missing = append(missing, "JWT_ISSUER")
	}
	c.JWTSecret = os.Getenv("JWT_SECRET")
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	jwtTTL := os.Getenv("JWT_TTL")
	if jwtTTL == "" {
		missing = append(missing, "JWT_TTL")
	} else {
		d, err := time.ParseDuration(jwtTTL)
		if err != nil {
			return c, err
		}
		c.JWTTTL = d
	}
	c.PasswordHash = os.Getenv("GATEWAY_PASSWORD_HASH")
	if c.PasswordHash == "" {
		missing = append(missing, "GATEWAY_PASSWORD_HASH")
	}

	c.KISAppKey = strings.TrimSpace(os.Getenv("KIS_APP_KEY"))
	c.KISAppSecret = strings.TrimSpace(os.Getenv("KIS_APP_SECRET"))
	c.KISAccountNo = strings.TrimSpace(os.Getenv("KIS_ACCOUNT_NO"))

	virtual := os.Getenv("VIRTUAL_TRADING")
	if virtual == "" {
		c.VirtualTrading = true
	} else {
		b, err := strconv.ParseBool(virtual)
		if err != nil {
			return c, errors.New("invalid VIRTUAL_TRADING: use true or false")
		}
		c.VirtualTrading = b
	}

	maxConc := os.Getenv("KIS_MAX_CONCURRENT")
	if maxConc == "" {
		c.KISMaxConcurrent = 8
	} else {
		n, err := strconv.Atoi(maxConc)
		if err != nil || n < 1 {
			return c, errors.New("invalid KIS_MAX_CONCURRENT: must be a positive integer")
		}
		c.KISMaxConcurrent = n
	}

	c.WebSocketOrigin = os.Getenv("WS_ORIGIN")
	if c.WebSocketOrigin == "" {
		c.WebSocketOrigin = "*"
	}
	c.JournalPath = os.Getenv("JOURNAL_PATH")
	c.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if len(missing) > 0 {
		return c, errors.New("missing required env: " + strings.Join(missing, ","))
	}
	return c, nil
}
