package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/barangaylink/sglgb-backend/internal/domain"
)

func SeedGovernanceArea(tb testing.TB, ctx context.Context, tx *gorm.DB, code, areaType string) *types.GovernanceArea {
	tb.Helper()
	a := &types.GovernanceArea{
		ID:       uuid.New(),
		Code:     code,
		Name:     code,
		AreaType: areaType,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed governance area: %v", err)
	}
	return a
}

func SeedInstitution(tb testing.TB, ctx context.Context, tx *gorm.DB, code string) *types.Institution {
	tb.Helper()
	inst := &types.Institution{
		ID:   uuid.New(),
		Code: code,
		Name: code,
	}
	if err := tx.WithContext(ctx).Create(inst).Error; err != nil {
		tb.Fatalf("seed institution: %v", err)
	}
	return inst
}

func SeedIndicator(tb testing.TB, ctx context.Context, tx *gorm.DB, areaID uuid.UUID, parentID *uuid.UUID, rule string) *types.Indicator {
	tb.Helper()
	ind := &types.Indicator{
		ID:               uuid.New(),
		ParentID:         parentID,
		GovernanceAreaID: areaID,
		Code:             "ind-" + uuid.NewString()[:8],
		Name:             "indicator",
		ValidationRule:   rule,
		Required:         true,
		Version:          1,
		Active:           true,
	}
	if err := tx.WithContext(ctx).Create(ind).Error; err != nil {
		tb.Fatalf("seed indicator: %v", err)
	}
	return ind
}

func SeedChecklistItem(tb testing.TB, ctx context.Context, tx *gorm.DB, indicatorID uuid.UUID, kind string, required bool) *types.ChecklistItem {
	tb.Helper()
	item := &types.ChecklistItem{
		ID:          uuid.New(),
		IndicatorID: indicatorID,
		Kind:        kind,
		Label:       "item",
		Required:    required,
		ExpectedYes: true,
		MinCount:    1,
	}
	if err := tx.WithContext(ctx).Create(item).Error; err != nil {
		tb.Fatalf("seed checklist item: %v", err)
	}
	return item
}

func SeedAssessment(tb testing.TB, ctx context.Context, tx *gorm.DB, status string) *types.Assessment {
	tb.Helper()
	a := &types.Assessment{
		ID:         uuid.New(),
		BarangayID: uuid.New(),
		Year:       2026,
		Status:     status,
		Version:    0,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assessment: %v", err)
	}
	return a
}

func SeedValidationRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, assessmentID, indicatorID uuid.UUID, recommended string) *types.ValidationRecord {
	tb.Helper()
	rec := &types.ValidationRecord{
		ID:                uuid.New(),
		AssessmentID:      assessmentID,
		IndicatorID:       indicatorID,
		RecommendedStatus: recommended,
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed validation record: %v", err)
	}
	return rec
}
