package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "postgres://aahdc:xxxxx@db:5432/lottery?sslmode=disable",
		RedactURL("postgres://aahdc:s3cret@db:5432/lottery?sslmode=disable"))
	assert.Equal(t, "redis://localhost:6379/0", RedactURL("redis://localhost:6379/0"))
	assert.Equal(t, "postgres://reader@db/lottery", RedactURL("postgres://reader@db/lottery"))
	assert.Equal(t, "<invalid url>", RedactURL("postgres://%zz"))
	assert.Empty(t, RedactURL(""))
}
