package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{term: "Parcel", want: "%parcel%"},
		{term: "50%", want: `%50\%%`},
		{term: "order_id", want: `%order\_id%`},
		{term: `C:\temp`, want: `%c:\\temp%`},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Equal(t, tt.want, containsPattern(tt.term))
		})
	}
}
