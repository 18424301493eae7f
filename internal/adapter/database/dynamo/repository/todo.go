package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"todoapi/internal/adapter/database/dynamo"
	"todoapi/internal/core/domain"
	"todoapi/internal/core/port"
	tel "todoapi/internal/core/telemetry"
)

type TodoRepository struct {
	db        *dynamo.DB
	telemetry port.Telemetry
}

func NewTodoRepository(db *dynamo.DB, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func todoKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		dynamo.AttrID: &types.AttributeValueMemberS{Value: id},
	}
}

// unmarshalTodo keeps metadata numbers exact instead of going through float64.
func unmarshalTodo(item map[string]types.AttributeValue, todo *domain.Todo) error {
	err := attributevalue.UnmarshalMapWithOptions(item, todo, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})
	if err != nil {
		return err
	}

	todo.Metadata = domain.NormalizeMetadata(todo.Metadata)

	return nil
}

func isConditionalCheckFailed(err error) bool {
	var ccfe *types.ConditionalCheckFailedException
	return errors.As(err, &ccfe)
}

func (tr *TodoRepository) observe(ctx context.Context, operation string, id string, fn func(ctx context.Context) error) error {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, operation, "todo", map[string]interface{}{
		"db.system": tr.db.Driver,
		"db.table":  tr.db.TableName,
		"todo.id":   id,
	})
	defer span.End()

	startTime := time.Now()
	err := fn(ctx)

	switch {
	case err == nil:
		span.SetStatus("ok", "")
		tr.telemetry.RecordRepositoryOperation(ctx, operation, "todo", time.Since(startTime), nil)
	case errors.Is(err, domain.ErrTodoNotFound), errors.Is(err, domain.ErrTodoNotCompleted):
		span.SetAttributes(map[string]interface{}{"todo.outcome": err.Error()})
		tr.telemetry.RecordRepositoryOperation(ctx, operation, "todo", time.Since(startTime), nil)
	default:
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, operation, "todo", time.Since(startTime), err)
	}

	return err
}

func (tr *TodoRepository) GetByID(ctx context.Context, id string) (domain.Todo, error) {
	var todo domain.Todo

	err := tr.observe(ctx, "GetByID", id, func(ctx context.Context) error {
		out, err := tr.db.GetItem(ctx, &dynamodb.GetItemInput{
			TableName:      aws.String(tr.db.TableName),
			Key:            todoKey(id),
			ConsistentRead: aws.Bool(true),
		})
		if err != nil {
			return fmt.Errorf("failed to get item: %w", err)
		}

		if len(out.Item) == 0 {
			return domain.ErrTodoNotFound
		}

		if err := unmarshalTodo(out.Item, &todo); err != nil {
			return fmt.Errorf("failed to unmarshal item: %w", err)
		}

		return nil
	})

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) Put(ctx context.Context, todo domain.Todo) error {
	return tr.observe(ctx, "Put", todo.ID, func(ctx context.Context) error {
		item, err := attributevalue.MarshalMap(todo)
		if err != nil {
			return fmt.Errorf("failed to marshal item: %w", err)
		}

		_, err = tr.db.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(tr.db.TableName),
			Item:      item,
		})
		if err != nil {
			return fmt.Errorf("failed to put item: %w", err)
		}

		return nil
	})
}

// updateExpression sets only the attributes present in the patch.
func updateExpression(patch domain.TodoPatch) (expression.Expression, error) {
	var update expression.UpdateBuilder

	if patch.Title != nil {
		update = update.Set(expression.Name(dynamo.AttrTitle), expression.Value(*patch.Title))
	}

	if patch.Completed != nil {
		update = update.Set(expression.Name(dynamo.AttrCompleted), expression.Value(*patch.Completed))
	}

	if patch.HasMetadata {
		metadata := patch.Metadata

		if metadata == nil {
			metadata = map[string]any{}
		}

		update = update.Set(expression.Name(dynamo.AttrMetadata), expression.Value(metadata))
	}

	cond := expression.AttributeExists(expression.Name(dynamo.AttrID))

	return expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
}

// Update never creates an item: the write is conditioned on the key existing.
// An empty patch does not reach the table and resolves to a plain read.
func (tr *TodoRepository) Update(ctx context.Context, patch domain.TodoPatch) (domain.Todo, error) {
	if patch.IsEmpty() {
		return tr.GetByID(ctx, patch.ID)
	}

	var updated domain.Todo

	err := tr.observe(ctx, "Update", patch.ID, func(ctx context.Context) error {
		expr, err := updateExpression(patch)
		if err != nil {
			return fmt.Errorf("failed to build update expression: %w", err)
		}

		out, err := tr.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(tr.db.TableName),
			Key:                       todoKey(patch.ID),
			UpdateExpression:          expr.Update(),
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ReturnValues:              types.ReturnValueAllNew,
		})
		if isConditionalCheckFailed(err) {
			return domain.ErrTodoNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}

		if err := unmarshalTodo(out.Attributes, &updated); err != nil {
			return fmt.Errorf("failed to unmarshal item: %w", err)
		}

		return nil
	})

	if err != nil {
		return domain.Todo{}, err
	}

	return updated, nil
}

func (tr *TodoRepository) DeleteCompleted(ctx context.Context, id string) error {
	return tr.observe(ctx, "DeleteCompleted", id, func(ctx context.Context) error {
		cond := expression.Equal(expression.Name(dynamo.AttrCompleted), expression.Value(true))

		expr, err := expression.NewBuilder().WithCondition(cond).Build()
		if err != nil {
			return fmt.Errorf("failed to build condition expression: %w", err)
		}

		_, err = tr.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName:                 aws.String(tr.db.TableName),
			Key:                       todoKey(id),
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
		})
		if isConditionalCheckFailed(err) {
			return domain.ErrTodoNotCompleted
		}
		if err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}

		return nil
	})
}
