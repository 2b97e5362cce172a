package publish

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3PublisherPublish(t *testing.T) {
	fake := &fakePutter{}
	p := NewS3Publisher(fake, "manifests", "/staging/")
	p.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	url, err := p.Publish(context.Background(), "manifest.json", []byte(`{"routes":[]}`))
	require.NoError(t, err)

	assert.Equal(t, "s3://manifests/staging/manifest.json", url)
	assert.Equal(t, "manifests", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "staging/manifest.json", aws.ToString(fake.input.Key))
	assert.Equal(t, "application/json", aws.ToString(fake.input.ContentType))
	assert.Equal(t, `{"routes":[]}`, string(fake.body))
	assert.Equal(t, "2026-01-02T03:04:05Z", fake.input.Metadata["generated-at"])
	assert.Len(t, fake.input.Metadata["sha256"], 64)
}

func TestS3PublisherKey(t *testing.T) {
	assert.Equal(t, "manifest.json", NewS3Publisher(nil, "b", "").Key("manifest.json"))
	assert.Equal(t, "a/b/manifest.json", NewS3Publisher(nil, "b", "a/b").Key("manifest.json"))
}

func TestS3PublisherError(t *testing.T) {
	denied := errors.New("access denied")
	p := NewS3Publisher(&fakePutter{err: denied}, "b", "")

	_, err := p.Publish(context.Background(), "manifest.json", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, denied)
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	_, err := EnvCredentials{}.Retrieve(context.Background())
	assert.Error(t, err)

	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := EnvCredentials{}.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "id", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
}

func TestNewS3Client(t *testing.T) {
	client := NewS3Client("eu-west-1", "http://localhost:9000")
	opts := client.Options()
	assert.Equal(t, "eu-west-1", opts.Region)
	assert.Equal(t, "http://localhost:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
}
