package errors

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	gobreaker "github.com/sony/gobreaker/v2"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	TransportOp  string `json:"transport_op,omitempty"`
	TransportURL string `json:"transport_url,omitempty"`
	Timeout      bool   `json:"timeout,omitempty"`
	BreakerOpen  bool   `json:"breaker_open,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		d.TransportOp = urlErr.Op
		d.TransportURL = redactQuery(urlErr.URL)
		d.Timeout = urlErr.Timeout()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		d.Timeout = true
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		d.BreakerOpen = true
	}

	return d
}

func redactQuery(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	parsed.RawQuery = ""
	return parsed.String()
}
