package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatus_Presentation(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   Presentation
	}{
		{StatusPending, PresentationNeutral},
		{StatusProcessing, PresentationAttention},
		{StatusCompleted, PresentationSuccess},
		{StatusFailed, PresentationError},
		// Statuses the store may grow later still render.
		{JobStatus("archived"), PresentationNeutral},
		{JobStatus(""), PresentationNeutral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.Presentation(), "status %q", tt.status)
	}
}
