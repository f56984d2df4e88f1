package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"maplehr/internal/domain/shared"
)

func TestStampDecisionSetsApprovedAt(t *testing.T) {
	for _, status := range []string{StatusApproved, StatusRejected} {
		patch := StampDecision(shared.Patch{Set: map[string]any{"status": status}})
		assert.Equal(t, shared.Now, patch.Set["approved_at"], status)
	}
}

func TestStampDecisionKeepsExplicitTimestamp(t *testing.T) {
	patch := StampDecision(shared.Patch{Set: map[string]any{"status": StatusApproved, "approved_at": "2024-01-01"}})
	assert.Equal(t, "2024-01-01", patch.Set["approved_at"])
}

func TestStampDecisionIgnoresOtherStatuses(t *testing.T) {
	for _, set := range []map[string]any{{"status": StatusPaid}, {"notes": "x"}} {
		patch := StampDecision(shared.Patch{Set: set})
		assert.False(t, patch.Has("approved_at"))
	}
}
