package s3_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"samarth/internal/infrastructure/persistence/memory"
	s3source "samarth/internal/infrastructure/persistence/s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
	stored []byte
}

func (m *mockS3) GetObject(ctx context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*awss3.GetObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3) PutObject(ctx context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.stored = body
	return &awss3.PutObjectOutput{}, args.Error(0)
}

const document = `
regions:
  - name: Punjab
    rainfall: [810, 760, 790]
`

func TestSource_Load(t *testing.T) {
	client := new(mockS3)
	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *awss3.GetObjectInput) bool {
		return aws.ToString(in.Bucket) == "data" && aws.ToString(in.Key) == "dataset.yaml"
	})).Return(&awss3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(document)),
		ETag: aws.String(`"abc123"`),
	}, nil)

	src := s3source.NewSource(client, "data", "dataset.yaml")
	snap, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Punjab"}, snap.RegionNames())
	assert.Equal(t, "abc123", snap.Version())
	assert.Equal(t, "s3://data/dataset.yaml", snap.Source())
	client.AssertExpectations(t)
}

func TestSource_Load_Errors(t *testing.T) {
	t.Run("get fails", func(t *testing.T) {
		client := new(mockS3)
		client.On("GetObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		_, err := s3source.NewSource(client, "data", "k").Load(context.Background())
		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("bad document", func(t *testing.T) {
		client := new(mockS3)
		client.On("GetObject", mock.Anything, mock.Anything).Return(&awss3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader("regions: [")),
		}, nil)

		_, err := s3source.NewSource(client, "data", "k").Load(context.Background())
		assert.Error(t, err)
	})
}

func TestSource_PutThenLoad(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil)
	src := s3source.NewSource(client, "data", "k")

	require.NoError(t, src.Put(context.Background(), memory.MustSample()))

	client.On("GetObject", mock.Anything, mock.Anything).Return(&awss3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(client.stored)),
	}, nil)
	snap, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, memory.MustSample().Regions(), snap.Regions())
}
