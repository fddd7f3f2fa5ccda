package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)

	assert.Equal(t, "Deploy is due in 2 day(s)",
		tr.T("en", "notifications.reminder", map[string]string{"title": "Deploy", "days": "2"}))
	assert.Equal(t, "لطفا وارد شوید", tr.T("fa", "errors.unauthorized", nil))
}

func TestT_Fallbacks(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)

	// missing in fa, present in en
	assert.Equal(t, "3 tasks, 1 completed, 0 overdue",
		tr.T("fa", "reports.summary", map[string]string{"total": "3", "completed": "1", "overdue": "0"}))
	assert.Equal(t, "Acme: Weekly", tr.T("fa", "reports.subject", map[string]string{"board": "Acme", "name": "Weekly"}))
	assert.Equal(t, "Something went wrong", tr.T("de", "errors.internal", nil))
	assert.Equal(t, "no.such.key", tr.T("en", "no.such.key", nil))
}

func TestMatch(t *testing.T) {
	tr, err := New("en")
	require.NoError(t, err)

	assert.Equal(t, "fa", tr.Match("fa-IR,fa;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", tr.Match("en-US"))
	assert.Equal(t, "en", tr.Match(""))
}

func TestNew_UnknownDefault(t *testing.T) {
	_, err := New("xx")
	assert.Error(t, err)
}
