package personality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgrammerSystemPrompt(t *testing.T) {
	prompt, err := SystemPrompt(KeyProgrammer)
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "ايـزن")
	assert.Contains(t, prompt, "برمجة")
}

func TestProgrammerConfig(t *testing.T) {
	cfg, err := Get(KeyProgrammer)
	require.NoError(t, err)

	assert.Equal(t, "مساعد البرمجة الذكي", cfg.Name)
	assert.Contains(t, cfg.Description, "برمجة")
	assert.Equal(t, "💻", cfg.Icon)
	assert.Contains(t, cfg.Color, "blue")
	assert.Equal(t, "محادثة البرمجة", cfg.DefaultTitle)
}

func TestUnknownPersonality(t *testing.T) {
	_, err := Get("poet")
	assert.ErrorIs(t, err, ErrUnknownPersonality)

	_, err = SystemPrompt("")
	assert.ErrorIs(t, err, ErrUnknownPersonality)

	assert.False(t, IsRegistered("poet"))
	assert.True(t, IsRegistered(KeyProgrammer))
}

func TestDefaultTitleFallback(t *testing.T) {
	assert.Equal(t, "محادثة البرمجة", DefaultTitle(KeyProgrammer))
	assert.Equal(t, FallbackTitle, DefaultTitle("poet"))
}

func TestAllOrdered(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Key, all[i].Key)
	}
}
