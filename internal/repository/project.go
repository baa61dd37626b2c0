package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"skylens/mediascope/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var ErrProjectNotFound = errors.New("project not found")

const (
	userKeyPrefix    = "USER#"
	projectKeyPrefix = "PROJECT#"
	profileSortKey   = "PROFILE"
)

func UserPK(userID string) string {
	return userKeyPrefix + userID
}

func ProjectSK(folderName string) string {
	return projectKeyPrefix + folderName
}

type ProjectRepository interface {
	Save(ctx context.Context, record *model.ProjectRecord) error
	FindByKey(ctx context.Context, userID, projectID string) (*model.ProjectRecord, error)
	ListByUser(ctx context.Context, userID string, limit int32) ([]*model.ProjectSummary, bool, error)
	ListUserIDs(ctx context.Context) ([]string, error)
}

type projectRepository struct {
	db    *dynamodb.Client
	table string
}

func NewProjectRepository(db *dynamodb.Client, table string) ProjectRepository {
	return &projectRepository{db: db, table: table}
}

func (r *projectRepository) Save(ctx context.Context, record *model.ProjectRecord) error {
	record.PK = UserPK(record.UserID)
	record.SK = ProjectSK(record.FolderName)

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal project record: %w", err)
	}

	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put project record: %w", err)
	}

	return nil
}

func (r *projectRepository) FindByKey(ctx context.Context, userID, projectID string) (*model.ProjectRecord, error) {
	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: UserPK(userID)},
			"sk": &types.AttributeValueMemberS{Value: ProjectSK(projectID)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get project record: %w", err)
	}

	if len(out.Item) == 0 {
		return nil, ErrProjectNotFound
	}

	var record model.ProjectRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal project record: %w", err)
	}
	record.UserID = userID

	return &record, nil
}

func (r *projectRepository) ListByUser(ctx context.Context, userID string, limit int32) ([]*model.ProjectSummary, bool, error) {
	out, err := r.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("pk = :pk AND begins_with(sk, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: UserPK(userID)},
			":prefix": &types.AttributeValueMemberS{Value: projectKeyPrefix},
		},
		ScanIndexForward: aws.Bool(false), // newest folder first
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to query projects: %w", err)
	}

	summaries := make([]*model.ProjectSummary, 0, len(out.Items))
	for _, item := range out.Items {
		var record model.ProjectRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			return nil, false, fmt.Errorf("failed to unmarshal project record: %w", err)
		}

		summaries = append(summaries, &model.ProjectSummary{
			ProjectID:     strings.TrimPrefix(record.SK, projectKeyPrefix),
			FolderName:    record.FolderName,
			Title:         record.Title,
			CreatedAt:     record.CreatedAt,
			Context:       record.Context,
			HasImages:     len(record.Images) > 0,
			HasExcel:      record.Excel != nil,
			ImageCount:    len(record.Images),
			ExcelAnalyzed: record.Excel != nil && record.Excel.Analyzed,
		})
	}

	hasMore := len(out.Items) == int(limit) && out.LastEvaluatedKey != nil

	return summaries, hasMore, nil
}

func (r *projectRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})

	var startKey map[string]types.AttributeValue
	for {
		out, err := r.db.Scan(ctx, &dynamodb.ScanInput{
			TableName:            aws.String(r.table),
			ProjectionExpression: aws.String("pk"),
			ExclusiveStartKey:    startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan user keys: %w", err)
		}

		for _, item := range out.Items {
			pk, ok := item["pk"].(*types.AttributeValueMemberS)
			if !ok || !strings.HasPrefix(pk.Value, userKeyPrefix) {
				continue
			}
			seen[strings.TrimPrefix(pk.Value, userKeyPrefix)] = struct{}{}
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids, nil
}
