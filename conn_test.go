package framesql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSync(t *testing.T) {
	t.Run("explicit values win", func(t *testing.T) {
		t.Setenv(EnvSyncURL, "libsql://env.turso.io")
		t.Setenv(EnvAuthToken, "env-token")

		url, token := resolveSync("libsql://explicit.turso.io", "explicit-token")
		assert.Equal(t, "libsql://explicit.turso.io", url)
		assert.Equal(t, "explicit-token", token)
	})

	t.Run("environment fills empty values", func(t *testing.T) {
		t.Setenv(EnvSyncURL, "libsql://env.turso.io")
		t.Setenv(EnvAuthToken, "env-token")

		url, token := resolveSync("", "")
		assert.Equal(t, "libsql://env.turso.io", url)
		assert.Equal(t, "env-token", token)
	})

	t.Run("nothing configured stays empty", func(t *testing.T) {
		t.Setenv(EnvSyncURL, "")
		t.Setenv(EnvAuthToken, "")

		url, token := resolveSync("", "")
		assert.Empty(t, url)
		assert.Empty(t, token)
	})
}
