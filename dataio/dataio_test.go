package dataio

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/anongo/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVSource(t *testing.T) {
	src := NewCSVSource(strings.NewReader("age,disease\n25,flu\n31,cancer\n"))

	header, rows, err := src.ReadTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "disease"}, header)
	assert.Equal(t, [][]string{{"25", "flu"}, {"31", "cancer"}}, rows)

	t.Run("custom separator", func(t *testing.T) {
		src := NewCSVSource(strings.NewReader("age;disease\n25;flu\n"), WithComma(';'))
		header, rows, err := src.ReadTable(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"age", "disease"}, header)
		assert.Len(t, rows, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		src := NewCSVSource(strings.NewReader(""))
		_, _, err := src.ReadTable(context.Background())
		assert.ErrorIs(t, err, ErrEmptyTable)
	})

	t.Run("ragged record", func(t *testing.T) {
		src := NewCSVSource(strings.NewReader("a,b\n1\n"))
		_, _, err := src.ReadTable(context.Background())
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		src := NewCSVSource(strings.NewReader("a\n1\n"))
		_, _, err := src.ReadTable(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rate limited", func(t *testing.T) {
		rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
		src := NewCSVSource(strings.NewReader("a\n1\n2\n"), WithResourceController(rc))
		_, rows, err := src.ReadTable(context.Background())
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func TestCSVSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCSVSink(&buf)

	err := sink.WriteTable(context.Background(),
		[]string{"age", "disease"},
		[][]string{{"<30", "flu"}, {"*", "cancer"}},
	)
	require.NoError(t, err)
	assert.Equal(t, "age,disease\n<30,flu\n*,cancer\n", buf.String())
}

func TestReadHierarchy(t *testing.T) {
	matrix, err := ReadHierarchy(strings.NewReader("25,<30,*\n31,>=30,*\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"25", "<30", "*"}, {"31", ">=30", "*"}}, matrix)

	t.Run("empty", func(t *testing.T) {
		_, err := ReadHierarchy(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyTable)
	})

	t.Run("rate limited", func(t *testing.T) {
		rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
		matrix, err := ReadHierarchy(strings.NewReader("25,*\n31,*\n"), WithResourceController(rc))
		require.NoError(t, err)
		assert.Len(t, matrix, 2)
	})
}

func TestLoad(t *testing.T) {
	src := NewCSVSource(strings.NewReader("age\n25\n31\n"))
	h, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []string{"age"}, h.Header())
	assert.Equal(t, 2, h.NumRows())
}

type fakeS3Client struct {
	body string
	err  error
}

func (c *fakeS3Client) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(c.body)),
	}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3Client{body: "age,disease\n25,flu\n"}
	src := NewS3Source(client, "bucket", "table.csv")

	header, rows, err := src.ReadTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "disease"}, header)
	assert.Equal(t, [][]string{{"25", "flu"}}, rows)
}

func TestReadHierarchyS3(t *testing.T) {
	client := &fakeS3Client{body: "25,*\n31,*\n"}
	matrix, err := ReadHierarchyS3(context.Background(), client, "bucket", "age.csv")
	require.NoError(t, err)
	assert.Len(t, matrix, 2)
}

type fakeDynamoDBClient struct {
	pages []dynamodb.ScanOutput
	calls int
}

func (c *fakeDynamoDBClient) Scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	page := c.pages[c.calls]
	c.calls++
	return &page, nil
}

func TestDynamoDBSource(t *testing.T) {
	client := &fakeDynamoDBClient{
		pages: []dynamodb.ScanOutput{
			{
				Items: []map[string]ddbtypes.AttributeValue{
					{
						"age":     &ddbtypes.AttributeValueMemberN{Value: "25"},
						"disease": &ddbtypes.AttributeValueMemberS{Value: "flu"},
						"insured": &ddbtypes.AttributeValueMemberBOOL{Value: true},
					},
				},
				LastEvaluatedKey: map[string]ddbtypes.AttributeValue{
					"pk": &ddbtypes.AttributeValueMemberS{Value: "next"},
				},
			},
			{
				Items: []map[string]ddbtypes.AttributeValue{
					{
						"age":     &ddbtypes.AttributeValueMemberN{Value: "31"},
						"disease": &ddbtypes.AttributeValueMemberS{Value: "cancer"},
						// insured missing on purpose
					},
				},
			},
		},
	}

	src := NewDynamoDBSource(client, "patients", []string{"age", "disease", "insured"})
	header, rows, err := src.ReadTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "disease", "insured"}, header)
	assert.Equal(t, [][]string{
		{"25", "flu", "true"},
		{"31", "cancer", ""},
	}, rows)
	assert.Equal(t, 2, client.calls)
}
