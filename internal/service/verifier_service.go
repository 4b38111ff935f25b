package service

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"sync"
	"time"

	"mpesa-payment-gateway/config"
	"mpesa-payment-gateway/internal/core/domain"
	"mpesa-payment-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

// VerifierServiceImpl implements ports.WebhookVerifier: source-IP
// allowlisting plus a per-IP fixed-window rate limiter. The limiter is
// in-process so callback admission never rides on an external dependency.
type VerifierServiceImpl struct {
	auditRepo ports.CallbackAuditRepository
	broadcast ports.Broadcaster
	cfg       config.WebhookConfig
	prefixes  []netip.Prefix
	log       zerolog.Logger

	mu      sync.Mutex
	windows map[string]*rateWindow

	now func() time.Time
}

type rateWindow struct {
	count   int
	started time.Time
}

// NewVerifierService creates a verifier from webhook configuration. Invalid
// allowlist entries are logged and skipped rather than failing startup.
func NewVerifierService(
	auditRepo ports.CallbackAuditRepository,
	broadcast ports.Broadcaster,
	cfg config.WebhookConfig,
	log zerolog.Logger,
) *VerifierServiceImpl {
	v := &VerifierServiceImpl{
		auditRepo: auditRepo,
		broadcast: broadcast,
		cfg:       cfg,
		log:       log,
		windows:   make(map[string]*rateWindow),
		now:       time.Now,
	}
	for _, entry := range cfg.AllowedIPs {
		prefix, err := parseAllowlistEntry(entry)
		if err != nil {
			log.Warn().Str("entry", entry).Err(err).Msg("skipping invalid allowlist entry")
			continue
		}
		v.prefixes = append(v.prefixes, prefix)
	}
	return v
}

// parseAllowlistEntry accepts either a CIDR block or a bare address, which
// becomes a single-address prefix.
func parseAllowlistEntry(entry string) (netip.Prefix, error) {
	if strings.Contains(entry, "/") {
		return netip.ParsePrefix(entry)
	}
	addr, err := netip.ParseAddr(entry)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// Verify decides whether an inbound callback may be processed, and always
// records an audit row with the decision. Audit write failures are logged
// and do not change the verdict.
func (v *VerifierServiceImpl) Verify(ctx context.Context, req ports.VerifyRequest) (*ports.VerifyResult, error) {
	sourceIP := v.sourceIP(req)
	result := &ports.VerifyResult{Allowed: true, SourceIP: sourceIP}

	if !v.cfg.SkipVerification {
		if !v.whitelisted(sourceIP) {
			result.Allowed = false
			result.FailureReason = fmt.Sprintf("IP %s not whitelisted", sourceIP)
		} else if !v.withinRateLimit(sourceIP) {
			result.Allowed = false
			result.FailureReason = fmt.Sprintf("rate limit exceeded for %s", sourceIP)
		}
	}

	audit := &domain.CallbackAudit{
		CallbackType: req.CallbackType,
		RawPayload:   string(req.RawPayload),
		IPAddress:    sourceIP,
		UserAgent:    req.UserAgent,
		Verified:     result.Allowed,
	}
	if !result.Allowed {
		reason := result.FailureReason
		audit.FailureReason = &reason
	}

	id, err := v.auditRepo.Create(ctx, audit)
	if err != nil {
		v.log.Error().Err(err).
			Str("callback_type", string(req.CallbackType)).
			Str("ip", sourceIP).
			Msg("callback audit write failed")
	} else {
		result.AuditID = id
		audit.ID = id
		v.broadcast.Publish(domain.NewEvent(domain.EventLogCreated, audit))
	}

	if !result.Allowed {
		v.log.Warn().
			Str("callback_type", string(req.CallbackType)).
			Str("ip", sourceIP).
			Str("reason", result.FailureReason).
			Msg("callback rejected")
	}
	return result, nil
}

// sourceIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection's remote address. "unknown" when nothing identifies the caller.
func (v *VerifierServiceImpl) sourceIP(req ports.VerifyRequest) string {
	if req.ForwardedFor != "" {
		first := strings.TrimSpace(strings.Split(req.ForwardedFor, ",")[0])
		if first != "" {
			return first
		}
	}
	if req.RealIP != "" {
		return req.RealIP
	}
	if req.RemoteAddr == "" {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}

// whitelisted checks the source against the configured prefixes.
// IPv4-mapped IPv6 addresses are unmapped first so ::ffff:196.201.214.200
// matches an IPv4 block.
func (v *VerifierServiceImpl) whitelisted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range v.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// withinRateLimit counts the request against the caller's current window.
func (v *VerifierServiceImpl) withinRateLimit(ip string) bool {
	now := v.now()

	v.mu.Lock()
	defer v.mu.Unlock()

	w, ok := v.windows[ip]
	if !ok || now.Sub(w.started) >= v.cfg.RateLimitWindow {
		v.windows[ip] = &rateWindow{count: 1, started: now}
		return true
	}
	w.count++
	return w.count <= v.cfg.RateLimit
}

// Start runs the expired-window sweeper until ctx is cancelled. Without the
// sweep, one-off callers would leave windows behind forever.
func (v *VerifierServiceImpl) Start(ctx context.Context) {
	interval := v.cfg.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.sweep()
		}
	}
}

func (v *VerifierServiceImpl) sweep() {
	now := v.now()
	v.mu.Lock()
	for ip, w := range v.windows {
		if now.Sub(w.started) >= v.cfg.RateLimitWindow {
			delete(v.windows, ip)
		}
	}
	remaining := len(v.windows)
	v.mu.Unlock()

	v.log.Debug().Int("tracked_ips", remaining).Msg("rate limit windows swept")
}
