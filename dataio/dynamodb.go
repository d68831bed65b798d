package dataio

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBClient is the interface for the DynamoDB operations used by
// DynamoDBSource.
type DynamoDBClient interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoDBSource reads a table by scanning a DynamoDB table. attributes
// selects and orders the output columns; items missing an attribute yield
// an empty string.
type DynamoDBSource struct {
	client     DynamoDBClient
	tableName  string
	attributes []string
}

// NewDynamoDBSource creates a source scanning the given table.
func NewDynamoDBSource(client DynamoDBClient, tableName string, attributes []string) *DynamoDBSource {
	return &DynamoDBSource{
		client:     client,
		tableName:  tableName,
		attributes: attributes,
	}
}

// ReadTable implements Source.
func (s *DynamoDBSource) ReadTable(ctx context.Context) ([]string, [][]string, error) {
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})

	var rows [][]string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, nil, err
		}
		for _, item := range page.Items {
			row := make([]string, len(s.attributes))
			for i, attr := range s.attributes {
				row[i] = attributeString(item[attr])
			}
			rows = append(rows, row)
		}
	}

	header := make([]string, len(s.attributes))
	copy(header, s.attributes)
	return header, rows, nil
}

func attributeString(av types.AttributeValue) string {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	case *types.AttributeValueMemberBOOL:
		return strconv.FormatBool(v.Value)
	case nil:
		return ""
	default:
		return ""
	}
}
