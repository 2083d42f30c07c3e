package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_AssignsIDAndToken(t *testing.T) {
	p := New("captain")
	assert.Equal(t, "captain", p.Name)
	assert.NotEmpty(t, p.ID)
	assert.NotEmpty(t, p.Token)
	assert.NotEqual(t, p.ID, p.Token)
}

func TestTouch_UpdatesLastSeen(t *testing.T) {
	p := New("captain")
	p.LastSeen = 0
	p.Touch()
	assert.Greater(t, p.LastSeen, int64(0))
}
