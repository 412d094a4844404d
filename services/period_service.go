package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/utils/cache"
)

const (
	currentSessionCacheKey  = "period:current_session"
	currentSemesterCacheKey = "period:current_semester"
	periodCacheTTL          = time.Hour
)

// CurrentPeriodProvider answers "which session/semester is current"
// and owns the invalidation of that answer. Every write path that can
// move the current flags goes through Invalidate after a successful
// commit — never before, so a rolled-back write cannot poison the
// cache with state that was never committed.
type CurrentPeriodProvider interface {
	CurrentSession(ctx context.Context) (*model.AcademicSession, error)
	CurrentSemester(ctx context.Context) (*model.Semester, error)
	Invalidate(ctx context.Context)
}

// PeriodService is the Redis-backed CurrentPeriodProvider. A nil cache
// degrades to straight database reads.
type PeriodService struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

// NewPeriodService creates a new period service
func NewPeriodService(db *gorm.DB, redisCache *cache.RedisCache) *PeriodService {
	return &PeriodService{db: db, cache: redisCache}
}

// CurrentSession returns the single session flagged current.
func (s *PeriodService) CurrentSession(ctx context.Context) (*model.AcademicSession, error) {
	if s.cache != nil {
		var cached model.AcademicSession
		if err := s.cache.GetJSON(ctx, currentSessionCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var session model.AcademicSession
	if err := s.db.WithContext(ctx).Where("is_current = ?", true).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load current session: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, currentSessionCacheKey, &session, periodCacheTTL); err != nil {
			log.Printf("Warning: failed to cache current session: %v", err)
		}
	}
	return &session, nil
}

// CurrentSemester returns the single semester flagged current,
// system-wide (the flag is global across sessions, not per session).
func (s *PeriodService) CurrentSemester(ctx context.Context) (*model.Semester, error) {
	if s.cache != nil {
		var cached model.Semester
		if err := s.cache.GetJSON(ctx, currentSemesterCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var semester model.Semester
	if err := s.db.WithContext(ctx).Where("is_current = ?", true).First(&semester).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSemesterNotFound
		}
		return nil, fmt.Errorf("failed to load current semester: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, currentSemesterCacheKey, &semester, periodCacheTTL); err != nil {
			log.Printf("Warning: failed to cache current semester: %v", err)
		}
	}
	return &semester, nil
}

// Invalidate drops both cached entries. Callers invoke it after any
// committed write to a session or semester row.
func (s *PeriodService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, currentSessionCacheKey, currentSemesterCacheKey); err != nil {
		log.Printf("Warning: failed to invalidate period cache: %v", err)
	}
}
