package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/skillrat/authd/internal/observability/logger"
)

// HTTPValidator implementa Validator contra el endpoint REST del directorio.
type HTTPValidator struct {
	baseURL      string
	tenantHeader string
	client       *http.Client
}

// HTTPValidatorConfig configura el validator HTTP.
type HTTPValidatorConfig struct {
	BaseURL      string
	TenantHeader string
	Timeout      time.Duration
}

// NewHTTPValidator crea un validator contra el directorio externo.
func NewHTTPValidator(cfg HTTPValidatorConfig) *HTTPValidator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	header := cfg.TenantHeader
	if header == "" {
		header = "X-Skillrat-Tenant"
	}
	return &HTTPValidator{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		tenantHeader: header,
		client:       &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate hace POST /v1/credentials/verify con el tenant en el header.
// 2xx con body {email, roles} es éxito; 401/403 es ErrInvalidCredentials;
// cualquier otro status o fallo de transporte es un error (el grant lo mapea
// a access_denied, sin reintentos).
func (v *HTTPValidator) Validate(ctx context.Context, tenant, username, password string) (*Principal, error) {
	log := logger.From(ctx).With(logger.Layer("client"), logger.Component("directory"))

	body, err := json.Marshal(verifyRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("directory: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/v1/credentials/verify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("directory: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(v.tenantHeader, tenant)

	resp, err := v.client.Do(req)
	if err != nil {
		log.Warn("directory unreachable", logger.Err(err))
		return nil, fmt.Errorf("directory: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidCredentials
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		log.Warn("directory returned non-2xx", logger.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("directory: unexpected status %d", resp.StatusCode)
	}

	var p Principal
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("directory: decode response: %w", err)
	}
	return &p, nil
}
