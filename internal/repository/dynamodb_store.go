// Package repository persists meetings, transcripts, and action items in a
// single DynamoDB table keyed by meeting code.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/yohamza/meet2jira/internal/domain"
)

const (
	skMeta         = "META#"
	skTranscript   = "TRANSCRIPT#"
	skPrefixAction = "ACTION#"
)

// dynamodbAPI is the minimal DynamoDB interface required by Store.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store wraps a DynamoDB table holding captured meetings.
type Store struct {
	api       dynamodbAPI
	tableName string
}

// New creates a new meeting Store.
func New(api dynamodbAPI, tableName string) (*Store, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Store{api: api, tableName: tableName}, nil
}

// meetingPK returns the partition key for a meeting code.
func meetingPK(code string) string {
	return "MEETING#" + code
}

// SaveMeeting writes the meeting record and its transcript in one
// transaction. The conditional put on the meta record makes capture
// idempotent: a second save for the same code fails the whole transaction
// and surfaces as domain.ErrMeetingExists.
func (s *Store) SaveMeeting(ctx context.Context, meeting domain.Meeting, transcript string) error {
	if strings.TrimSpace(meeting.Code) == "" {
		return errors.New("repository: SaveMeeting: meeting code is required")
	}
	pk := meetingPK(meeting.Code)

	_, err := s.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName: aws.String(s.tableName),
					Item: map[string]types.AttributeValue{
						"PK":           &types.AttributeValueMemberS{Value: pk},
						"SK":           &types.AttributeValueMemberS{Value: skMeta},
						"meeting_code": &types.AttributeValueMemberS{Value: meeting.Code},
						"processed_at": &types.AttributeValueMemberS{Value: meeting.ProcessedAt.UTC().Format(time.RFC3339)},
					},
					ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(s.tableName),
					Item: map[string]types.AttributeValue{
						"PK":      &types.AttributeValueMemberS{Value: pk},
						"SK":      &types.AttributeValueMemberS{Value: skTranscript},
						"content": &types.AttributeValueMemberS{Value: transcript},
					},
				},
			},
		},
	})
	if err != nil {
		if isConditionalCancel(err) {
			return fmt.Errorf("repository: SaveMeeting %q: %w", meeting.Code, domain.ErrMeetingExists)
		}
		return fmt.Errorf("repository: SaveMeeting: %w", err)
	}
	return nil
}

// isConditionalCancel reports whether a transaction failed on its
// attribute_not_exists condition rather than on a transport or capacity
// problem.
func isConditionalCancel(err error) bool {
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return false
	}
	for _, reason := range canceled.CancellationReasons {
		if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

// GetMeeting returns the meeting meta record for a code.
func (s *Store) GetMeeting(ctx context.Context, code string) (domain.Meeting, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: meetingPK(code)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
	})
	if err != nil {
		return domain.Meeting{}, fmt.Errorf("repository: GetMeeting get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.Meeting{}, fmt.Errorf("repository: GetMeeting %q: %w", code, domain.ErrMeetingNotFound)
	}

	meetingCode, err := strAttr(out.Item, "meeting_code")
	if err != nil {
		return domain.Meeting{}, fmt.Errorf("repository: GetMeeting decode: %w", err)
	}
	processedAt, err := timeAttr(out.Item, "processed_at")
	if err != nil {
		return domain.Meeting{}, fmt.Errorf("repository: GetMeeting decode: %w", err)
	}
	return domain.Meeting{Code: meetingCode, ProcessedAt: processedAt}, nil
}

// GetTranscript returns the stored transcript content for a meeting code.
func (s *Store) GetTranscript(ctx context.Context, code string) (string, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: meetingPK(code)},
			"SK": &types.AttributeValueMemberS{Value: skTranscript},
		},
	})
	if err != nil {
		return "", fmt.Errorf("repository: GetTranscript get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return "", fmt.Errorf("repository: GetTranscript %q: %w", code, domain.ErrMeetingNotFound)
	}
	return strAttr(out.Item, "content")
}

// SaveActionItems persists extracted action items for a meeting. Each item
// gets its own ACTION# record.
func (s *Store) SaveActionItems(ctx context.Context, code string, items []domain.ActionItem) error {
	if strings.TrimSpace(code) == "" {
		return errors.New("repository: SaveActionItems: meeting code is required")
	}
	pk := meetingPK(code)
	for _, item := range items {
		if item.ID == "" || item.Description == "" {
			return errors.New("repository: SaveActionItems: item ID and description are required")
		}
		_, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(s.tableName),
			Item: map[string]types.AttributeValue{
				"PK":          &types.AttributeValueMemberS{Value: pk},
				"SK":          &types.AttributeValueMemberS{Value: skPrefixAction + item.ID},
				"description": &types.AttributeValueMemberS{Value: item.Description},
				"assignee":    &types.AttributeValueMemberS{Value: item.Assignee},
				"status":      &types.AttributeValueMemberS{Value: item.Status},
				"created_at":  &types.AttributeValueMemberS{Value: item.CreatedAt.UTC().Format(time.RFC3339)},
			},
		})
		if err != nil {
			return fmt.Errorf("repository: SaveActionItems %q: %w", item.ID, err)
		}
	}
	return nil
}

// ListActionItems queries all ACTION# records for a meeting.
func (s *Store) ListActionItems(ctx context.Context, code string) ([]domain.ActionItem, error) {
	out, err := s.api.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: meetingPK(code)},
			":prefix": &types.AttributeValueMemberS{Value: skPrefixAction},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("repository: ListActionItems query: %w", err)
	}

	items := make([]domain.ActionItem, 0, len(out.Items))
	for _, record := range out.Items {
		item, err := itemToActionItem(record)
		if err != nil {
			return nil, fmt.Errorf("repository: ListActionItems decode: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func itemToActionItem(item map[string]types.AttributeValue) (domain.ActionItem, error) {
	sk, err := strAttr(item, "SK")
	if err != nil {
		return domain.ActionItem{}, err
	}
	description, err := strAttr(item, "description")
	if err != nil {
		return domain.ActionItem{}, err
	}
	assignee, _ := strAttr(item, "assignee") // allow empty
	status, _ := strAttr(item, "status")     // allow empty
	createdAt, _ := timeAttr(item, "created_at")

	return domain.ActionItem{
		ID:          strings.TrimPrefix(sk, skPrefixAction),
		Description: description,
		Assignee:    assignee,
		Status:      status,
		CreatedAt:   createdAt,
	}, nil
}

func strAttr(item map[string]types.AttributeValue, name string) (string, error) {
	attr, ok := item[name]
	if !ok {
		return "", fmt.Errorf("missing attribute %q", name)
	}
	s, ok := attr.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("attribute %q is not a string", name)
	}
	return s.Value, nil
}

func timeAttr(item map[string]types.AttributeValue, name string) (time.Time, error) {
	raw, err := strAttr(item, name)
	if err != nil {
		return time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("attribute %q is not a timestamp: %w", name, err)
	}
	return ts, nil
}
