// Package dynamodb loads datasets from a single DynamoDB table.
//
// Item layout:
//
//	PK=REGION#<name>  SK=META            Position
//	PK=REGION#<name>  SK=RAINFALL#<seq>  MM
//	PK=REGION#<name>  SK=CROP#<seq>      Crop, Tonnes
package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"samarth/internal/domain/dataset"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	regionPrefix   = "REGION#"
	metaSK         = "META"
	rainfallPrefix = "RAINFALL#"
	cropPrefix     = "CROP#"

	// DynamoDB caps BatchWriteItem at 25 requests.
	maxBatchWrite = 25
)

// API is the subset of the DynamoDB client used here.
type API interface {
	dynamodb.ScanAPIClient
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// ddbItem is every item kind in one shape; unused attributes are omitted.
type ddbItem struct {
	PK       string  `dynamodbav:"PK"`
	SK       string  `dynamodbav:"SK"`
	Region   string  `dynamodbav:"Region"`
	Seq      int     `dynamodbav:"Seq"`
	Position int     `dynamodbav:"Position,omitempty"`
	MM       float64 `dynamodbav:"MM,omitempty"`
	Crop     string  `dynamodbav:"Crop,omitempty"`
	Tonnes   float64 `dynamodbav:"Tonnes,omitempty"`
}

// Source reads the dataset table.
type Source struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// NewSource creates a source over tableName.
func NewSource(client API, tableName string, logger *zap.Logger) *Source {
	return &Source{client: client, tableName: tableName, logger: logger}
}

// Describe implements ports.DatasetSource.
func (s *Source) Describe() string { return "dynamodb:" + s.tableName }

// Load implements ports.DatasetSource. The table is scanned page by page.
func (s *Source) Load(ctx context.Context) (*dataset.Snapshot, error) {
	var (
		metas    []ddbItem
		rainfall []ddbItem
		crops    []ddbItem
	)

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.tableName),
	})
	pages := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.tableName, err)
		}
		pages++

		var items []ddbItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal dataset items: %w", err)
		}
		for _, it := range items {
			if !strings.HasPrefix(it.PK, regionPrefix) {
				continue
			}
			it.Region = strings.TrimPrefix(it.PK, regionPrefix)
			switch {
			case it.SK == metaSK:
				metas = append(metas, it)
			case strings.HasPrefix(it.SK, rainfallPrefix):
				rainfall = append(rainfall, it)
			case strings.HasPrefix(it.SK, cropPrefix):
				crops = append(crops, it)
			}
		}
	}

	sort.SliceStable(metas, func(i, j int) bool { return metas[i].Position < metas[j].Position })
	bySeq := func(items []ddbItem) {
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Region != items[j].Region {
				return items[i].Region < items[j].Region
			}
			return items[i].Seq < items[j].Seq
		})
	}
	bySeq(rainfall)
	bySeq(crops)

	b := dataset.NewBuilder()
	known := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		b.AddRegion(m.Region)
		known[m.Region] = struct{}{}
	}
	for _, r := range rainfall {
		if _, ok := known[r.Region]; !ok {
			return nil, &dataset.InvalidDataError{Region: r.Region, Reason: "rainfall item has no region META item"}
		}
		b.AddRainfall(r.Region, r.MM)
	}
	for _, c := range crops {
		if _, ok := known[c.Region]; !ok {
			return nil, &dataset.InvalidDataError{Region: c.Region, Reason: "crop item has no region META item"}
		}
		b.AddCrop(c.Region, c.Crop, c.Tonnes)
	}

	s.logger.Debug("Scanned dataset table",
		zap.String("table", s.tableName),
		zap.Int("pages", pages),
		zap.Int("regions", len(metas)),
	)

	return b.Build(dataset.WithSource(s.Describe()), dataset.WithLoadedAt(time.Now()))
}

// Put replaces the table contents with snap: every item of snap is written
// and items whose keys snap no longer produces are deleted.
func (s *Source) Put(ctx context.Context, snap *dataset.Snapshot) error {
	items, err := Items(snap)
	if err != nil {
		return err
	}
	existing, err := s.existingKeys(ctx)
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(items)+len(existing))
	for _, item := range items {
		delete(existing, keyOf(item))
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}
	for k := range existing {
		requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: k.PK},
				"SK": &types.AttributeValueMemberS{Value: k.SK},
			},
		}})
	}

	for start := 0; start < len(requests); start += maxBatchWrite {
		end := start + maxBatchWrite
		if end > len(requests) {
			end = len(requests)
		}
		if err := s.writeBatch(ctx, requests[start:end]); err != nil {
			return err
		}
	}
	if len(existing) > 0 {
		s.logger.Info("Removed stale dataset items",
			zap.String("table", s.tableName),
			zap.Int("items", len(existing)),
		)
	}
	return nil
}

type itemKey struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
}

func keyOf(item map[string]types.AttributeValue) itemKey {
	var k itemKey
	if pk, ok := item["PK"].(*types.AttributeValueMemberS); ok {
		k.PK = pk.Value
	}
	if sk, ok := item["SK"].(*types.AttributeValueMemberS); ok {
		k.SK = sk.Value
	}
	return k
}

// existingKeys scans the dataset item keys currently in the table.
func (s *Source) existingKeys(ctx context.Context) (map[itemKey]struct{}, error) {
	keys := make(map[itemKey]struct{})
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:            aws.String(s.tableName),
		ProjectionExpression: aws.String("PK, SK"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s keys: %w", s.tableName, err)
		}
		var batch []itemKey
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal item keys: %w", err)
		}
		for _, k := range batch {
			if strings.HasPrefix(k.PK, regionPrefix) {
				keys[k] = struct{}{}
			}
		}
	}
	return keys, nil
}

func (s *Source) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{s.tableName: requests}
	for attempt := 0; len(pending[s.tableName]) > 0; attempt++ {
		if attempt > 0 {
			if attempt > 5 {
				return fmt.Errorf("batch write to %s: %d items unprocessed", s.tableName, len(pending[s.tableName]))
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt*50) * time.Millisecond):
			}
		}
		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("batch write to %s: %w", s.tableName, err)
		}
		pending = out.UnprocessedItems
		if pending == nil {
			return nil
		}
	}
	return nil
}

// Items marshals snap into table items.
func Items(snap *dataset.Snapshot) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	add := func(it ddbItem) error {
		av, err := attributevalue.MarshalMap(it)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", it.PK, it.SK, err)
		}
		items = append(items, av)
		return nil
	}

	for pos, r := range snap.Regions() {
		pk := regionPrefix + r.Name
		if err := add(ddbItem{PK: pk, SK: metaSK, Region: r.Name, Position: pos}); err != nil {
			return nil, err
		}
		for seq, mm := range r.Rainfall {
			if err := add(ddbItem{PK: pk, SK: fmt.Sprintf("%s%04d", rainfallPrefix, seq), Region: r.Name, Seq: seq, MM: mm}); err != nil {
				return nil, err
			}
		}
		for seq, c := range r.Crops {
			if err := add(ddbItem{PK: pk, SK: fmt.Sprintf("%s%04d", cropPrefix, seq), Region: r.Name, Seq: seq, Crop: c.Crop, Tonnes: c.Tonnes}); err != nil {
				return nil, err
			}
		}
	}
	return items, nil
}
