package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Auwalkay/uni-portal/utils/cache"
	"github.com/Auwalkay/uni-portal/utils/response"
)

const (
	attemptWindow = 15 * time.Minute

	// Progressive lockout thresholds.
	softLockAttempts = 5
	hardLockAttempts = 10
	banAttempts      = 25

	softLockDuration = 2 * time.Minute
	hardLockDuration = 1 * time.Hour
	banDuration      = 24 * time.Hour
)

// BruteForceProtection applies Redis-backed progressive lockouts to the
// login endpoint. A nil receiver disables protection entirely, which is
// how the portal degrades when Redis is unreachable at startup.
type BruteForceProtection struct {
	redisCache *cache.RedisCache
}

// NewBruteForceProtection creates a new brute force protection instance
func NewBruteForceProtection(redisCache *cache.RedisCache) *BruteForceProtection {
	return &BruteForceProtection{
		redisCache: redisCache,
	}
}

func loginAttemptKey(ip string) string { return fmt.Sprintf("login:attempts:%s", ip) }
func loginLockKey(ip string) string    { return fmt.Sprintf("login:lock:%s", ip) }

// accountLockKey tracks attempts against a specific account so a
// distributed attack on one email still locks out.
func accountLockKey(email string) string {
	return fmt.Sprintf("login:account:%s", strings.ToLower(email))
}

// CheckAndRecordAttempt rejects requests from locked-out IPs with a 429
// and a Retry-After header.
func (b *BruteForceProtection) CheckAndRecordAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if b == nil || b.redisCache == nil {
			return c.Next()
		}

		lockKey := loginLockKey(c.IP())

		locked, err := b.redisCache.Exists(c.Context(), lockKey)
		if err != nil {
			// Redis trouble must not lock out legitimate users.
			return c.Next()
		}

		if locked {
			ttl, _ := b.redisCache.TTL(c.Context(), lockKey)
			retryAfter := int(ttl.Seconds())
			if retryAfter < 0 {
				retryAfter = 60
			}

			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Too many failed attempts. Try again in %d seconds", retryAfter))
		}

		return c.Next()
	}
}

// RecordFailedAttempt counts a failed login and applies progressive
// lockouts per IP and per target account.
func (b *BruteForceProtection) RecordFailedAttempt(c *fiber.Ctx, ip, email string) error {
	if b == nil || b.redisCache == nil {
		return nil
	}
	ctx := c.Context()

	attempts, err := b.redisCache.Increment(ctx, loginAttemptKey(ip))
	if err != nil {
		return nil
	}
	if attempts == 1 {
		b.redisCache.Expire(ctx, loginAttemptKey(ip), attemptWindow)
	}

	if email != "" {
		accountAttempts, err := b.redisCache.Increment(ctx, accountLockKey(email))
		if err == nil {
			if accountAttempts == 1 {
				b.redisCache.Expire(ctx, accountLockKey(email), attemptWindow)
			}
			if accountAttempts > attempts {
				attempts = accountAttempts
			}
		}
	}

	var lockDuration time.Duration
	switch {
	case attempts >= banAttempts:
		lockDuration = banDuration
	case attempts >= hardLockAttempts:
		lockDuration = hardLockDuration
	case attempts >= softLockAttempts:
		lockDuration = softLockDuration
	default:
		return nil
	}

	return b.redisCache.Set(ctx, loginLockKey(ip), "locked", lockDuration)
}

// RecordSuccessfulAttempt clears counters and locks after a successful login.
func (b *BruteForceProtection) RecordSuccessfulAttempt(c *fiber.Ctx, ip string) error {
	if b == nil || b.redisCache == nil {
		return nil
	}
	return b.redisCache.Delete(c.Context(), loginAttemptKey(ip), loginLockKey(ip))
}
