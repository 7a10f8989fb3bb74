package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerSharePrice(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expected    float64
		wantErr     bool
	}{
		{name: "ordinary dividend", description: "ORD DIV: 0.24 PER SHARE", expected: 0.24},
		{name: "no leading zero", description: "DIV .5 PER SHARE", expected: 0.5},
		{name: "integer price", description: "SPECIAL DIV 2 PER SHARE", expected: 2},
		{name: "price with tax suffix", description: "ORD DIV: 0.24 PER SHARE NRA TAX", expected: 0.24},
		{name: "missing fragment", description: "CASH IN LIEU", wantErr: true},
		{name: "lowercase not matched", description: "div 0.24 per share", wantErr: true},
		{name: "empty", description: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PerSharePrice(tt.description)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoPerSharePrice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
