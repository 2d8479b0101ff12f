package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	owner := uuid.New()

	task, err := NewTask(owner, "  buy milk ")
	require.NoError(t, err)
	assert.Equal(t, "buy milk", task.Name)
	assert.Equal(t, owner, task.OwnerID)
	assert.False(t, task.Done)
	assert.NotEqual(t, uuid.Nil, task.ID)
}

func TestNewTaskValidation(t *testing.T) {
	tests := []struct {
		name   string
		owner  uuid.UUID
		title  string
		fields []string
	}{
		{"blank name", uuid.New(), "   ", []string{"name"}},
		{"name too long", uuid.New(), strings.Repeat("a", MaxTaskNameLength+1), []string{"name"}},
		{"no owner and no name", uuid.Nil, "", []string{"owner_id", "name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTask(tt.owner, tt.title)
			require.Error(t, err)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			fields := make([]string, 0, len(verrs))
			for _, v := range verrs {
				fields = append(fields, v.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}
