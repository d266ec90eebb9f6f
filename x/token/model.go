package token

import (
	"regexp"

	"github.com/iov-one/gatekeeper/errors"
)

const (
	maxDecimals = 18
)

var (
	isTokenName   = regexp.MustCompile(`^[A-Za-z0-9 \-_:]{3,32}$`).MatchString
	isTokenSymbol = regexp.MustCompile(`^[A-Z]{3,6}$`).MatchString
)

// Validate ensures the token description is well formed.
func (t *TokenInfo) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", t.Metadata.Validate())
	if !isTokenName(t.Name) {
		errs = errors.AppendField(errs, "Name", errors.Wrapf(errors.ErrInput, "invalid name %q", t.Name))
	}
	if !isTokenSymbol(t.Symbol) {
		errs = errors.AppendField(errs, "Symbol", errors.Wrapf(errors.ErrInput, "invalid symbol %q", t.Symbol))
	}
	if t.Decimals > maxDecimals {
		errs = errors.AppendField(errs, "Decimals", errors.Wrapf(errors.ErrInput, "at most %d", maxDecimals))
	}
	return errs
}

// Validate ensures the wallet carries a header.
func (w *Wallet) Validate() error {
	return errors.Field("Metadata", w.Metadata.Validate())
}
