package s3infra

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPutter struct{ mock.Mock }

func (m *mockPutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func TestUpload_ReturnsVirtualHostedURL(t *testing.T) {
	p := new(mockPutter)
	p.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "imgs" &&
			aws.ToString(in.Key) == "ro-maintenance/01J.png" &&
			aws.ToString(in.ContentType) == "image/png"
	})).Return(&s3.PutObjectOutput{}, nil)

	store := newStore(p, "imgs", "ap-south-1", "")
	url, err := store.Upload(context.Background(), "ro-maintenance/01J.png", strings.NewReader("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://imgs.s3.ap-south-1.amazonaws.com/ro-maintenance/01J.png", url)
	p.AssertExpectations(t)
}

func TestUpload_LocalEndpointIsPathStyle(t *testing.T) {
	p := new(mockPutter)
	p.On("PutObject", mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil)

	store := newStore(p, "imgs", "us-east-1", "http://localhost:4566/")
	url, err := store.Upload(context.Background(), "ro-maintenance/a b.jpg", strings.NewReader("x"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4566/imgs/ro-maintenance/a%20b.jpg", url)
}

func TestUpload_WrapsError(t *testing.T) {
	p := new(mockPutter)
	p.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := newStore(p, "imgs", "us-east-1", "").Upload(context.Background(), "k", strings.NewReader("x"), "image/png")
	assert.ErrorContains(t, err, "s3 put object")
}
