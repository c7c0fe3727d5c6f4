package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Client_URLs(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		key  string
		want string
	}{
		{
			name: "aws virtual host",
			cfg:  S3Config{Bucket: "media", Region: "ap-northeast-2"},
			key:  "campaigns/1/a b.png",
			want: "https://media.s3.amazonaws.com/campaigns/1/a%20b.png",
		},
		{
			name: "minio path style",
			cfg:  S3Config{Bucket: "media", Endpoint: "http://minio:9000/", ForcePathStyle: true},
			key:  "users/7/x.png",
			want: "http://minio:9000/media/users/7/x.png",
		},
		{
			name: "cdn wins",
			cfg:  S3Config{Bucket: "media", Endpoint: "https://r2.example.com", CDNURL: "https://cdn.ideafund.test/"},
			key:  "campaigns/2/y.webp",
			want: "https://cdn.ideafund.test/campaigns/2/y.webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewS3Client(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.PublicURL(tt.key))
		})
	}
}

func TestNewS3Client_Invalid(t *testing.T) {
	_, err := NewS3Client(S3Config{})
	assert.Error(t, err)

	_, err = NewS3Client(S3Config{Bucket: "media", Endpoint: "::nope"})
	assert.Error(t, err)
}
