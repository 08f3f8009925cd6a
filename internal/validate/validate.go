// Package validate holds the input checks shared by the HTTP handlers.
// Malformed input is rejected here, before any brokerage call is made.
package validate

import (
	"errors"
	"regexp"
	"time"
)

var stockCodeRe = regexp.MustCompile(`^\d{6}$`)

var ErrStockCode = errors.New("stock code must be exactly 6 digits")

func StockCode(code string) error {
	if !stockCodeRe.MatchString(code) {
		return ErrStockCode
	}
	return nil
}

// ISODate parses a strict YYYY-MM-DD date.
func ISODate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("date must be in YYYY-MM-DD format")
	}
	return t, nil
}
