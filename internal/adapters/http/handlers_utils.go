package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/kartik99Lm10/SuckDSA/internal/domain"
)

const maxBodyBytes = 10 << 20

// decodeBody reads a single JSON object. Malformed bodies unwrap to domain.ErrInvalidInput.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return &domain.ValidationError{Fields: []domain.FieldError{{Field: "body", Message: "Request body must be valid JSON"}}}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return &domain.ValidationError{Fields: []domain.FieldError{{Field: "body", Message: "Request body must contain a single JSON value"}}}
	}
	return nil
}

// ParseTrustedProxies accepts bare IPs and CIDR prefixes.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(entries))
	for _, raw := range entries {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			prefix, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// clientIP is the rate-limit identity. X-Forwarded-For is only read when the
// socket peer is a trusted proxy, and then the rightmost untrusted hop wins.
func (h *Handler) clientIP(r *http.Request) string {
	peer := remoteIP(r)
	if len(h.trustedProxies) == 0 || !h.trusted(peer) {
		return peer
	}
	xff := r.Header.Values("X-Forwarded-For")
	hops := make([]string, 0, len(xff))
	for _, header := range xff {
		for _, part := range strings.Split(header, ",") {
			if part = strings.TrimSpace(part); part != "" {
				hops = append(hops, part)
			}
		}
	}
	for i := len(hops) - 1; i >= 0; i-- {
		if !h.trusted(hops[i]) {
			return hops[i]
		}
	}
	if len(hops) > 0 {
		return hops[0]
	}
	return peer
}

func (h *Handler) trusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range h.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteIP(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.Trim(host, "[]")
}

func bearerTokenFromHeader(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("missing bearer token")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

// writeMappedError logs and writes an operation failure. Validation errors carry field details.
func writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, msg := mapDomainError(operation, err)
	logHTTPOperationError(ctx, operation, status, msg, err)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, status, apiError{Error: msg, Details: verr.Fields})
		return
	}
	writeError(w, status, msg)
}
