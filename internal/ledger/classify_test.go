package ledger

import (
	"errors"
	"testing"

	"github.com/dafibh/sitebooks/sitebooks-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		purpose  domain.AdvancePurpose
		expected AdvanceClass
	}{
		{"advance", domain.AdvancePurposeAdvance, ClassMoneyAdvance},
		{"safety shoes", domain.AdvancePurposeSafetyShoes, ClassWorkerDebit},
		{"tools", domain.AdvancePurposeTools, ClassWorkerDebit},
		{"other", domain.AdvancePurposeOther, ClassWorkerDebit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, err := Classify(tt.purpose)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, class)
		})
	}
}

func TestClassify_CoversEveryPurpose(t *testing.T) {
	for _, purpose := range domain.AdvancePurposes {
		class, err := Classify(purpose)
		require.NoError(t, err, "purpose %q has no classification", purpose)
		assert.Contains(t, []AdvanceClass{ClassMoneyAdvance, ClassWorkerDebit}, class)
	}
}

func TestClassify_UnknownPurpose(t *testing.T) {
	for _, purpose := range []domain.AdvancePurpose{"", "ADVANCE", "fuel"} {
		class, err := Classify(purpose)
		assert.Empty(t, class)
		assert.True(t, errors.Is(err, domain.ErrInvalidAdvancePurpose), "purpose %q", purpose)
	}
}

func TestIsWorkerDebit(t *testing.T) {
	assert.True(t, IsWorkerDebit(domain.AdvancePurposeTools))
	assert.False(t, IsWorkerDebit(domain.AdvancePurposeAdvance))
	assert.False(t, IsWorkerDebit("unknown"))
}
