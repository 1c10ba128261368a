package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	domainagg "github.com/barangaylink/sglgb-backend/internal/domain/aggregates"
	"github.com/barangaylink/sglgb-backend/internal/domain/workflow"
)

func TestAssessmentServiceCreateOpensDraft(t *testing.T) {
	repo := newFakeAssessmentRepo()
	svc := NewAssessmentService(nil, testLogger(t), repo)

	barangayID := uuid.New()
	row, err := svc.Create(context.Background(), barangayID, 2026)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if row.Status != string(workflow.StatusDraft) {
		t.Fatalf("status: want=%s got=%s", workflow.StatusDraft, row.Status)
	}
	if row.Version != 0 {
		t.Fatalf("version: want=0 got=%d", row.Version)
	}

	got, err := svc.GetByBarangayYear(context.Background(), barangayID, 2026)
	if err != nil {
		t.Fatalf("GetByBarangayYear: %v", err)
	}
	if got.ID != row.ID {
		t.Fatalf("lookup mismatch: want=%s got=%s", row.ID, got.ID)
	}
}

func TestAssessmentServiceCreateRejectsBadInput(t *testing.T) {
	svc := NewAssessmentService(nil, testLogger(t), newFakeAssessmentRepo())

	if _, err := svc.Create(context.Background(), uuid.Nil, 2026); err == nil {
		t.Fatalf("Create: expected validation error for nil barangay")
	}
	if _, err := svc.Create(context.Background(), uuid.New(), 99); err == nil {
		t.Fatalf("Create: expected validation error for implausible year")
	}
}

func TestAssessmentServiceGetMissingIsNotFound(t *testing.T) {
	svc := NewAssessmentService(nil, testLogger(t), newFakeAssessmentRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	if err == nil {
		t.Fatalf("Get: expected not found")
	}
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("error code: want=%s got=%s", domainagg.CodeNotFound, domainagg.CodeOf(err))
	}
}
