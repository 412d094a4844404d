package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
)

// StudentPlacement carries the resolved organizational position a fee
// lookup is made for. IDs are already resolved FKs, never names.
type StudentPlacement struct {
	FacultyID    uint
	DepartmentID uint
	ProgrammeID  uint
	Level        int
}

// ResolvedFees is the outcome of a fee resolution: one line per matched
// configuration plus the total owed.
type ResolvedFees struct {
	Items []ResolvedFeeItem
	Total float64
}

// ResolvedFeeItem is one matched fee rule, ready to become an invoice item.
type ResolvedFeeItem struct {
	FeeConfigurationID uint
	Description        string
	Amount             float64
}

// FeeService resolves layered fee rules into invoice line items.
type FeeService struct {
	db *gorm.DB
}

// NewFeeService creates a new fee service
func NewFeeService(db *gorm.DB) *FeeService {
	return &FeeService{db: db}
}

// ConfigurationMatches reports whether one fee rule applies to the
// placement. A rule applies when it sits on exactly one layer of the
// hierarchy and that layer matches:
//
//	global:     faculty, department and programme all nil
//	programme:  programme set (others nil) and equal
//	department: department set (programme nil) and equal
//	faculty:    faculty set (department and programme nil) and equal
//
// plus a level that is either nil or equal. Matching is additive across
// layers by design: a student owes every rule that matches, not just
// the most specific one.
func ConfigurationMatches(p StudentPlacement, c *model.FeeConfiguration) bool {
	if c.Level != nil && *c.Level != p.Level {
		return false
	}

	switch {
	case c.FacultyID == nil && c.DepartmentID == nil && c.ProgrammeID == nil:
		return true // global
	case c.ProgrammeID != nil && c.DepartmentID == nil && c.FacultyID == nil:
		return *c.ProgrammeID == p.ProgrammeID
	case c.DepartmentID != nil && c.ProgrammeID == nil:
		return *c.DepartmentID == p.DepartmentID
	case c.FacultyID != nil && c.DepartmentID == nil && c.ProgrammeID == nil:
		return *c.FacultyID == p.FacultyID
	}
	return false
}

// MatchConfigurations filters rules down to the appliable set and sums
// their amounts. Pure; persistence stays with the caller.
func MatchConfigurations(p StudentPlacement, configs []model.FeeConfiguration) ResolvedFees {
	resolved := ResolvedFees{}
	for i := range configs {
		c := &configs[i]
		if !ConfigurationMatches(p, c) {
			continue
		}
		resolved.Items = append(resolved.Items, ResolvedFeeItem{
			FeeConfigurationID: c.ID,
			Description:        c.Type.DisplayName(),
			Amount:             c.Amount,
		})
		resolved.Total += c.Amount
	}
	return resolved
}

// Resolve loads the session's rules of the given fee type and matches
// them against the placement. Returns ErrNoApplicableFees when nothing
// matches: the caller must never fall back to a silent zero invoice.
func (s *FeeService) Resolve(ctx context.Context, p StudentPlacement, sessionID uint, feeType model.FeeType) (*ResolvedFees, error) {
	var configs []model.FeeConfiguration
	if err := s.db.WithContext(ctx).
		Where("session_id = ? AND type = ?", sessionID, feeType).
		Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("failed to load fee configurations: %w", err)
	}

	resolved := MatchConfigurations(p, configs)
	if len(resolved.Items) == 0 {
		return nil, ErrNoApplicableFees
	}
	return &resolved, nil
}
