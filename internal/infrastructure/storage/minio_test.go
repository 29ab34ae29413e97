package storage

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	name := ObjectName("C:\\Users\\me\\weekly sync.mp3", now)
	assert.True(t, strings.HasPrefix(name, "uploads/2024/03/09/"), name)
	assert.True(t, strings.HasSuffix(name, "-weekly_sync.mp3"), name)

	assert.True(t, strings.HasSuffix(ObjectName("", now), "-recording"))
}

func TestRewriteHost(t *testing.T) {
	u, err := url.Parse("http://minio:9000/bucket/uploads/a.mp3?X-Amz-Signature=abc")
	require.NoError(t, err)

	assert.Equal(t, u.String(), RewriteHost(u, ""))
	assert.Equal(t,
		"https://files.example.com/bucket/uploads/a.mp3?X-Amz-Signature=abc",
		RewriteHost(u, "https://files.example.com"))
}
