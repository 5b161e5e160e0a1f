package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/storebridge"
)

func TestPolicy_Classify(t *testing.T) {
	tests := []struct {
		name     string
		mutation Mutation
		category Category
		allowed  bool
	}{
		{
			name:     "command with rationale",
			mutation: Mutation{Type: "Run", Traits: Traits{StartsOperation: true}, Rationale: "caller input"},
			category: CategoryCommand,
			allowed:  true,
		},
		{
			name:     "local write with rationale",
			mutation: Mutation{Type: "Set", Traits: Traits{LocalWrite: true}, Rationale: "flag"},
			category: CategoryPureStateWrite,
			allowed:  true,
		},
		{
			name:     "operation and local write is a command",
			mutation: Mutation{Type: "Both", Traits: Traits{StartsOperation: true, LocalWrite: true}, Rationale: "x"},
			category: CategoryCommand,
			allowed:  true,
		},
		{
			name:     "includable without rationale is excluded",
			mutation: Mutation{Type: "Set", Traits: Traits{LocalWrite: true}, Rationale: "  "},
			category: CategoryPureStateWrite,
		},
		{
			name:     "effect result",
			mutation: Mutation{Type: "Loaded", Traits: Traits{EffectResult: true}},
			category: CategoryEffectResult,
		},
		{
			name:     "effect result wins over local write",
			mutation: Mutation{Type: "Loaded", Traits: Traits{EffectResult: true, LocalWrite: true}, Rationale: "x"},
			category: CategoryEffectResult,
		},
		{
			name:     "identity wins over command despite rationale",
			mutation: Mutation{Type: "Refresh token", Traits: Traits{IdentityFlow: true, StartsOperation: true}, Rationale: "x"},
			category: CategoryIdentityFlowTrigger,
		},
		{
			name:     "identity wins over effect result",
			mutation: Mutation{Type: "Token decoded", Traits: Traits{IdentityFlow: true, EffectResult: true}},
			category: CategoryIdentityFlowTrigger,
		},
	}

	p := DefaultPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := p.Classify(tt.mutation)
			require.NoError(t, err)
			assert.Equal(t, tt.category, d.Category)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.NotEmpty(t, d.Reason)
		})
	}
}

func TestPolicy_ClassifyErrors(t *testing.T) {
	p := DefaultPolicy()

	_, err := p.Classify(Mutation{Type: "Nothing"})
	assert.ErrorIs(t, err, ErrUnclassifiable)

	_, err = p.Classify(Mutation{Traits: Traits{LocalWrite: true}})
	assert.ErrorIs(t, err, ErrTypeRequired)
}

func TestClassify_Duplicates(t *testing.T) {
	m := Mutation{Type: "Set", Traits: Traits{LocalWrite: true}, Rationale: "x"}
	_, err := Classify(DefaultPolicy(), []Mutation{m, m})
	assert.ErrorContains(t, err, "declared twice")
}

func TestMustClassify_PanicsOnInvalidDeclaration(t *testing.T) {
	assert.Panics(t, func() {
		mustClassify(DefaultPolicy(), []Mutation{{Type: "Broken"}})
	})
}

func TestCategory_Includable(t *testing.T) {
	assert.True(t, CategoryCommand.Includable())
	assert.True(t, CategoryPureStateWrite.Includable())
	assert.False(t, CategoryEffectResult.Includable())
	assert.False(t, CategoryIdentityFlowTrigger.Includable())
}

func TestMutation_PayloadShape(t *testing.T) {
	assert.Equal(t, "none", Mutation{}.PayloadShape())
	assert.Equal(t, "string", Mutation{Payload: ""}.PayloadShape())
	assert.Equal(t, "storebridge.LoadingStatus", Mutation{Payload: storebridge.StatusPending}.PayloadShape())
}
