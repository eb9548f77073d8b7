package apiclient

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
)

const (
	// DefaultBasePath is the fixed prefix every endpoint is appended to.
	DefaultBasePath = "/api"

	headerContentType = "Content-Type"
	jsonContentType   = "application/json"
)

var supportedMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

var jsonNull = []byte("null")

// Request describes one logical API call. The zero Method means GET.
type Request struct {
	Endpoint string
	Method   string
	Payload  any
	Headers  map[string]string
}

// NormalizedMethod returns the upper-cased method, defaulting to GET.
func (r Request) NormalizedMethod() (string, error) {
	m := strings.ToUpper(strings.TrimSpace(r.Method))
	if m == "" {
		return http.MethodGet, nil
	}
	if _, ok := supportedMethods[m]; !ok {
		return "", fmt.Errorf("unsupported method %q", r.Method)
	}
	return m, nil
}

// Key returns the identity of the request: endpoint, method and the
// serialized payload. Headers do not participate. Payloads that serialize
// to the same JSON share a key regardless of their Go identity.
func (r Request) Key() (string, error) {
	method, err := r.NormalizedMethod()
	if err != nil {
		return "", err
	}
	payload, err := marshalPayload(r.Payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	key, err := sonic.ConfigStd.Marshal([3]string{method, r.Endpoint, string(payload)})
	if err != nil {
		return "", fmt.Errorf("encode request key: %w", err)
	}
	return string(key), nil
}

// marshalPayload serializes the payload with sorted map keys. A nil payload
// serializes to JSON null.
func marshalPayload(payload any) ([]byte, error) {
	if payload == nil {
		return jsonNull, nil
	}
	return sonic.ConfigStd.Marshal(payload)
}

// encodeBody returns the request body, or nil when the payload is null or
// the method is GET.
func encodeBody(method string, payload any) ([]byte, error) {
	if method == http.MethodGet || payload == nil {
		return nil, nil
	}
	raw, err := marshalPayload(payload)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return nil, nil
	}
	return raw, nil
}

// mergeHeaders layers caller headers over the JSON content type default.
func mergeHeaders(extra map[string]string) map[string]string {
	out := map[string]string{headerContentType: jsonContentType}
	for k, v := range extra {
		key := http.CanonicalHeaderKey(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		out[key] = v
	}
	return out
}
