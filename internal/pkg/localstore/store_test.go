package localstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, s.Get(KeyToken))

	require.NoError(t, s.Set(KeyToken, "tok-1"))
	assert.Equal(t, "tok-1", s.Get(KeyToken))

	require.NoError(t, s.Delete(KeyToken))
	assert.Empty(t, s.Get(KeyToken))

	// 刪除不存在的鍵不視為錯誤
	assert.NoError(t, s.Delete(KeyToken))
}

func TestKeysAreIndependent(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyToken, "tok"))
	require.NoError(t, s.Set(KeyLocale, "zh-TW"))
	require.NoError(t, s.Set(KeyFingerprint, "fp"))

	require.NoError(t, s.Delete(KeyToken))

	assert.Empty(t, s.Get(KeyToken))
	assert.Equal(t, "zh-TW", s.Get(KeyLocale))
	assert.Equal(t, "fp", s.Get(KeyFingerprint))
}

func TestValuesPersistAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(KeyLocale, "ja"))

	second, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, "ja", second.Get(KeyLocale))
}

func TestGetIgnoresCorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(KeyToken, "tok"))
	// 直接破壞檔案內容
	require.NoError(t, os.WriteFile(s.path(KeyToken), []byte("{not json"), 0600))

	assert.Empty(t, s.Get(KeyToken))
}
