package crawler

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
)

const (
	CauseTimeout    = "timeout"
	CauseConnection = "connection"
	CauseHTTPStatus = "http_status"
	CauseTLS        = "tls"
	CauseDecode     = "decode"
	CauseRequest    = "request"
)

// FetchError is returned for every retrieval failure.
type FetchError struct {
	Cause      string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Cause, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func classify(err error) *FetchError {
	var (
		netErr       net.Error
		opErr        *net.OpError
		dnsErr       *net.DNSError
		unknownCA    x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidCert  x509.CertificateInvalidError
		verifyErr    *tls.CertificateVerificationError
		recordHeader tls.RecordHeaderError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return &FetchError{Cause: CauseTimeout, Err: err}
	case errors.As(err, &unknownCA),
		errors.As(err, &hostnameErr),
		errors.As(err, &invalidCert),
		errors.As(err, &verifyErr),
		errors.As(err, &recordHeader):
		return &FetchError{Cause: CauseTLS, Err: err}
	case errors.As(err, &dnsErr), errors.As(err, &opErr):
		return &FetchError{Cause: CauseConnection, Err: err}
	default:
		return &FetchError{Cause: CauseRequest, Err: err}
	}
}

// Describe renders a retrieval failure for the command line, with a hint
// when one helps.
func Describe(err error) string {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return fmt.Sprintf("發生錯誤: %v", err)
	}
	switch fe.Cause {
	case CauseTimeout:
		return "連線逾時: 伺服器回應時間過長"
	case CauseConnection:
		return fmt.Sprintf("連線錯誤: %v\n提示: 請檢查網路連線", fe.Err)
	case CauseTLS:
		return fmt.Sprintf("SSL 錯誤: %v\n提示: 可能是 SSL 證書問題，請更新系統憑證", fe.Err)
	case CauseHTTPStatus:
		return fmt.Sprintf("HTTP 錯誤: %v\n狀態碼: %d", fe.Err, fe.StatusCode)
	case CauseDecode:
		return fmt.Sprintf("解碼錯誤: %v", fe.Err)
	default:
		return fmt.Sprintf("網路錯誤: %v", fe.Err)
	}
}
