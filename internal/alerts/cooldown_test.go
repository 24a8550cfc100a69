package alerts_test

import (
	"testing"
	"time"

	"github.com/benmeehan/home-sentinel/internal/alerts"
	"github.com/stretchr/testify/assert"
)

func TestCooldown_FirstAlertAdmitted(t *testing.T) {
	c := alerts.NewCooldown(60 * time.Second)
	assert.True(t, c.Admit(time.Unix(0, 0)))
}

func TestCooldown_Window(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	c := alerts.NewCooldown(60 * time.Second)

	assert.True(t, c.Admit(base))
	assert.False(t, c.Admit(base.Add(59*time.Second)))
	assert.Equal(t, time.Second, c.Remaining(base.Add(59*time.Second)))
	assert.True(t, c.Admit(base.Add(61*time.Second)))
}

func TestCooldown_RejectionDoesNotExtendWindow(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	c := alerts.NewCooldown(60 * time.Second)

	assert.True(t, c.Admit(base))
	assert.False(t, c.Admit(base.Add(30*time.Second)))
	assert.True(t, c.Admit(base.Add(60*time.Second)))
	assert.Equal(t, time.Duration(0), c.Remaining(base.Add(200*time.Second)))
}
