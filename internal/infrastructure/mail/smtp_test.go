package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventrack/internal/domain/notify"
)

func TestRenderWelcome(t *testing.T) {
	body, err := RenderWelcome(notify.Recipient{Name: "Ann <Admin>", Email: "ann@example.com", Role: "Clerk"})
	require.NoError(t, err)

	assert.Contains(t, body, "Hello Ann &lt;Admin&gt;,")
	assert.Contains(t, body, "<strong>Clerk</strong>")
	assert.Contains(t, body, "ann@example.com")
}

func TestNewSMTPNotifier_DefaultTimeout(t *testing.T) {
	n := NewSMTPNotifier(Config{Host: "localhost", Port: 25})
	assert.NotZero(t, n.cfg.Timeout)
	assert.Len(t, n.clientOptions(), 3)

	n = NewSMTPNotifier(Config{Host: "localhost", Port: 587, Username: "u", Password: "p", RequireTLS: true})
	assert.Len(t, n.clientOptions(), 6)
}
