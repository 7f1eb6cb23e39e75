package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{"configured true", New(map[string]bool{FlagPropertyGridFollow: true}), FlagPropertyGridFollow, true},
		{"configured false overrides default", New(map[string]bool{FlagWatchDB: false}), FlagWatchDB, false},
		{"default used when absent", New(nil), FlagNestedInspect, true},
		{"default off", New(nil), FlagPropertyGridFollow, false},
		{"unknown flag", New(map[string]bool{"mystery": true}), "other", false},
		{"unknown configured flag is kept", New(map[string]bool{"mystery": true}), "mystery", true},
		{"nil registry", nil, FlagWatchDB, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_AllIsCopy(t *testing.T) {
	r := New(nil)
	all := r.All()
	all[FlagWatchDB] = false
	require.True(t, r.Enabled(FlagWatchDB))

	var nilReg *Registry
	require.Empty(t, nilReg.All())
}

func TestKnown(t *testing.T) {
	require.Equal(t, []string{FlagNestedInspect, FlagPropertyGridFollow, FlagWatchDB}, Known())
}
