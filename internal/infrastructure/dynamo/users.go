package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/mealhub/api/internal/domain"
)

// emailGuardPrefix namespaces the uniqueness-guard items that share the
// users table. A guard item's partition key is "email#<address>"; its
// presence means the address is taken.
const emailGuardPrefix = "email#"

// UserRepo provides typed DynamoDB operations for the users table.
// Every call runs under a bounded timeout so the store can never hang a request.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
	timeout   time.Duration
}

func NewUserRepo(client *dynamodb.Client, tableName string, timeout time.Duration) *UserRepo {
	return &UserRepo{client: client, tableName: tableName, timeout: timeout}
}

// Create inserts the user and an email guard item in one transaction.
// Both writes carry attribute_not_exists conditions, so two concurrent
// creates with the same email cannot both succeed.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(user_id)"),
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                strKey("user_id", emailGuardPrefix+u.Email),
				ConditionExpression: aws.String("attribute_not_exists(user_id)"),
			}},
		},
	})
	if err != nil {
		if conditionFailed(err) {
			return fmt.Errorf("email %s: %w", u.Email, domain.ErrDuplicateEmail)
		}
		return classify(err)
	}
	return nil
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, classify(err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks a user up via the email GSI. The address must already
// be normalized by the caller.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String("email-index"),
		KeyConditionExpression:    aws.String("#e = :v"),
		ExpressionAttributeNames:  map[string]string{"#e": "email"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: email}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, classify(err)
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("no user for email: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Items[0], &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update applies a partial attribute update. Fails with ErrNotFound when
// the record no longer exists.
func (r *UserRepo) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	updates["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	expr, names, values, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("user_id", userID),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("attribute_exists(user_id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		if conditionFailed(err) {
			return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return classify(err)
	}
	return nil
}

// UpdateEmail atomically moves a user to a new address: the old guard item
// is released, the new one is claimed, and the record's email attribute is
// rewritten. Claiming fails with ErrDuplicateEmail when another account
// already holds the address.
func (r *UserRepo) UpdateEmail(ctx context.Context, userID, oldEmail, newEmail string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key:       strKey("user_id", emailGuardPrefix+oldEmail),
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                strKey("user_id", emailGuardPrefix+newEmail),
				ConditionExpression: aws.String("attribute_not_exists(user_id)"),
			}},
			{Update: &types.Update{
				TableName:           aws.String(r.tableName),
				Key:                 strKey("user_id", userID),
				UpdateExpression:    aws.String("SET email = :e, updated_at = :t"),
				ConditionExpression: aws.String("attribute_exists(user_id)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":e": &types.AttributeValueMemberS{Value: newEmail},
					":t": &types.AttributeValueMemberS{Value: now},
				},
			}},
		},
	})
	if err != nil {
		if conditionFailed(err) {
			return fmt.Errorf("email %s: %w", newEmail, domain.ErrDuplicateEmail)
		}
		return classify(err)
	}
	return nil
}
