// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/dialect/sql/sqljson"
	"entgo.io/ent/schema/field"
	"github.com/caplearn/caplearn/ent/conversation"
	"github.com/caplearn/caplearn/ent/predicate"
	"github.com/caplearn/caplearn/ent/schema"
)

// ConversationUpdate is the builder for updating Conversation entities.
type ConversationUpdate struct {
	config
	hooks    []Hook
	mutation *ConversationMutation
}

// Where appends a list predicates to the ConversationUpdate builder.
func (_u *ConversationUpdate) Where(ps ...predicate.Conversation) *ConversationUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetCurrentQuestion sets the "current_question" field.
func (_u *ConversationUpdate) SetCurrentQuestion(v int) *ConversationUpdate {
	_u.mutation.ResetCurrentQuestion()
	_u.mutation.SetCurrentQuestion(v)
	return _u
}

// SetNillableCurrentQuestion sets the "current_question" field if the given value is not nil.
func (_u *ConversationUpdate) SetNillableCurrentQuestion(v *int) *ConversationUpdate {
	if v != nil {
		_u.SetCurrentQuestion(*v)
	}
	return _u
}

// AddCurrentQuestion adds value to the "current_question" field.
func (_u *ConversationUpdate) AddCurrentQuestion(v int) *ConversationUpdate {
	_u.mutation.AddCurrentQuestion(v)
	return _u
}

// SetTotalQuestions sets the "total_questions" field.
func (_u *ConversationUpdate) SetTotalQuestions(v int) *ConversationUpdate {
	_u.mutation.ResetTotalQuestions()
	_u.mutation.SetTotalQuestions(v)
	return _u
}

// SetNillableTotalQuestions sets the "total_questions" field if the given value is not nil.
func (_u *ConversationUpdate) SetNillableTotalQuestions(v *int) *ConversationUpdate {
	if v != nil {
		_u.SetTotalQuestions(*v)
	}
	return _u
}

// AddTotalQuestions adds value to the "total_questions" field.
func (_u *ConversationUpdate) AddTotalQuestions(v int) *ConversationUpdate {
	_u.mutation.AddTotalQuestions(v)
	return _u
}

// SetTotalScore sets the "total_score" field.
func (_u *ConversationUpdate) SetTotalScore(v int) *ConversationUpdate {
	_u.mutation.ResetTotalScore()
	_u.mutation.SetTotalScore(v)
	return _u
}

// SetNillableTotalScore sets the "total_score" field if the given value is not nil.
func (_u *ConversationUpdate) SetNillableTotalScore(v *int) *ConversationUpdate {
	if v != nil {
		_u.SetTotalScore(*v)
	}
	return _u
}

// AddTotalScore adds value to the "total_score" field.
func (_u *ConversationUpdate) AddTotalScore(v int) *ConversationUpdate {
	_u.mutation.AddTotalScore(v)
	return _u
}

// SetMaxPossibleScore sets the "max_possible_score" field.
func (_u *ConversationUpdate) SetMaxPossibleScore(v int) *ConversationUpdate {
	_u.mutation.ResetMaxPossibleScore()
	_u.mutation.SetMaxPossibleScore(v)
	return _u
}

// SetNillableMaxPossibleScore sets the "max_possible_score" field if the given value is not nil.
func (_u *ConversationUpdate) SetNillableMaxPossibleScore(v *int) *ConversationUpdate {
	if v != nil {
		_u.SetMaxPossibleScore(*v)
	}
	return _u
}

// AddMaxPossibleScore adds value to the "max_possible_score" field.
func (_u *ConversationUpdate) AddMaxPossibleScore(v int) *ConversationUpdate {
	_u.mutation.AddMaxPossibleScore(v)
	return _u
}

// SetStatus sets the "status" field.
func (_u *ConversationUpdate) SetStatus(v string) *ConversationUpdate {
	_u.mutation.SetStatus(v)
	return _u
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_u *ConversationUpdate) SetNillableStatus(v *string) *ConversationUpdate {
	if v != nil {
		_u.SetStatus(*v)
	}
	return _u
}

// SetMessages sets the "messages" field.
func (_u *ConversationUpdate) SetMessages(v []schema.Message) *ConversationUpdate {
	_u.mutation.SetMessages(v)
	return _u
}

// AppendMessages appends value to the "messages" field.
func (_u *ConversationUpdate) AppendMessages(v []schema.Message) *ConversationUpdate {
	_u.mutation.AppendMessages(v)
	return _u
}

// ClearMessages clears the value of the "messages" field.
func (_u *ConversationUpdate) ClearMessages() *ConversationUpdate {
	_u.mutation.ClearMessages()
	return _u
}

// SetUpdatedAt sets the "updated_at" field.
func (_u *ConversationUpdate) SetUpdatedAt(v time.Time) *ConversationUpdate {
	_u.mutation.SetUpdatedAt(v)
	return _u
}

// Mutation returns the ConversationMutation object of the builder.
func (_u *ConversationUpdate) Mutation() *ConversationMutation {
	return _u.mutation
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *ConversationUpdate) Save(ctx context.Context) (int, error) {
	_u.defaults()
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *ConversationUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *ConversationUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *ConversationUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_u *ConversationUpdate) defaults() {
	if _, ok := _u.mutation.UpdatedAt(); !ok {
		v := conversation.UpdateDefaultUpdatedAt()
		_u.mutation.SetUpdatedAt(v)
	}
}

func (_u *ConversationUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	_spec := sqlgraph.NewUpdateSpec(conversation.Table, conversation.Columns, sqlgraph.NewFieldSpec(conversation.FieldID, field.TypeInt))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.CurrentQuestion(); ok {
		_spec.SetField(conversation.FieldCurrentQuestion, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedCurrentQuestion(); ok {
		_spec.AddField(conversation.FieldCurrentQuestion, field.TypeInt, value)
	}
	if value, ok := _u.mutation.TotalQuestions(); ok {
		_spec.SetField(conversation.FieldTotalQuestions, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedTotalQuestions(); ok {
		_spec.AddField(conversation.FieldTotalQuestions, field.TypeInt, value)
	}
	if value, ok := _u.mutation.TotalScore(); ok {
		_spec.SetField(conversation.FieldTotalScore, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedTotalScore(); ok {
		_spec.AddField(conversation.FieldTotalScore, field.TypeInt, value)
	}
	if value, ok := _u.mutation.MaxPossibleScore(); ok {
		_spec.SetField(conversation.FieldMaxPossibleScore, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedMaxPossibleScore(); ok {
		_spec.AddField(conversation.FieldMaxPossibleScore, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Status(); ok {
		_spec.SetField(conversation.FieldStatus, field.TypeString, value)
	}
	if value, ok := _u.mutation.Messages(); ok {
		_spec.SetField(conversation.FieldMessages, field.TypeJSON, value)
	}
	if value, ok := _u.mutation.AppendedMessages(); ok {
		_spec.AddModifier(func(u *sql.UpdateBuilder) {
			sqljson.Append(u, conversation.FieldMessages, value)
		})
	}
	if _u.mutation.MessagesCleared() {
		_spec.ClearField(conversation.FieldMessages, field.TypeJSON)
	}
	if value, ok := _u.mutation.UpdatedAt(); ok {
		_spec.SetField(conversation.FieldUpdatedAt, field.TypeTime, value)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{conversation.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// ConversationUpdateOne is the builder for updating a single Conversation entity.
type ConversationUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *ConversationMutation
}

// SetCurrentQuestion sets the "current_question" field.
func (_u *ConversationUpdateOne) SetCurrentQuestion(v int) *ConversationUpdateOne {
	_u.mutation.ResetCurrentQuestion()
	_u.mutation.SetCurrentQuestion(v)
	return _u
}

// SetNillableCurrentQuestion sets the "current_question" field if the given value is not nil.
func (_u *ConversationUpdateOne) SetNillableCurrentQuestion(v *int) *ConversationUpdateOne {
	if v != nil {
		_u.SetCurrentQuestion(*v)
	}
	return _u
}

// AddCurrentQuestion adds value to the "current_question" field.
func (_u *ConversationUpdateOne) AddCurrentQuestion(v int) *ConversationUpdateOne {
	_u.mutation.AddCurrentQuestion(v)
	return _u
}

// SetTotalQuestions sets the "total_questions" field.
func (_u *ConversationUpdateOne) SetTotalQuestions(v int) *ConversationUpdateOne {
	_u.mutation.ResetTotalQuestions()
	_u.mutation.SetTotalQuestions(v)
	return _u
}

// SetNillableTotalQuestions sets the "total_questions" field if the given value is not nil.
func (_u *ConversationUpdateOne) SetNillableTotalQuestions(v *int) *ConversationUpdateOne {
	if v != nil {
		_u.SetTotalQuestions(*v)
	}
	return _u
}

// AddTotalQuestions adds value to the "total_questions" field.
func (_u *ConversationUpdateOne) AddTotalQuestions(v int) *ConversationUpdateOne {
	_u.mutation.AddTotalQuestions(v)
	return _u
}

// SetTotalScore sets the "total_score" field.
func (_u *ConversationUpdateOne) SetTotalScore(v int) *ConversationUpdateOne {
	_u.mutation.ResetTotalScore()
	_u.mutation.SetTotalScore(v)
	return _u
}

// SetNillableTotalScore sets the "total_score" field if the given value is not nil.
func (_u *ConversationUpdateOne) SetNillableTotalScore(v *int) *ConversationUpdateOne {
	if v != nil {
		_u.SetTotalScore(*v)
	}
	return _u
}

// AddTotalScore adds value to the "total_score" field.
func (_u *ConversationUpdateOne) AddTotalScore(v int) *ConversationUpdateOne {
	_u.mutation.AddTotalScore(v)
	return _u
}

// SetMaxPossibleScore sets the "max_possible_score" field.
func (_u *ConversationUpdateOne) SetMaxPossibleScore(v int) *ConversationUpdateOne {
	_u.mutation.ResetMaxPossibleScore()
	_u.mutation.SetMaxPossibleScore(v)
	return _u
}

// SetNillableMaxPossibleScore sets the "max_possible_score" field if the given value is not nil.
func (_u *ConversationUpdateOne) SetNillableMaxPossibleScore(v *int) *ConversationUpdateOne {
	if v != nil {
		_u.SetMaxPossibleScore(*v)
	}
	return _u
}

// AddMaxPossibleScore adds value to the "max_possible_score" field.
func (_u *ConversationUpdateOne) AddMaxPossibleScore(v int) *ConversationUpdateOne {
	_u.mutation.AddMaxPossibleScore(v)
	return _u
}

// SetStatus sets the "status" field.
func (_u *ConversationUpdateOne) SetStatus(v string) *ConversationUpdateOne {
	_u.mutation.SetStatus(v)
	return _u
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_u *ConversationUpdateOne) SetNillableStatus(v *string) *ConversationUpdateOne {
	if v != nil {
		_u.SetStatus(*v)
	}
	return _u
}

// SetMessages sets the "messages" field.
func (_u *ConversationUpdateOne) SetMessages(v []schema.Message) *ConversationUpdateOne {
	_u.mutation.SetMessages(v)
	return _u
}

// AppendMessages appends value to the "messages" field.
func (_u *ConversationUpdateOne) AppendMessages(v []schema.Message) *ConversationUpdateOne {
	_u.mutation.AppendMessages(v)
	return _u
}

// ClearMessages clears the value of the "messages" field.
func (_u *ConversationUpdateOne) ClearMessages() *ConversationUpdateOne {
	_u.mutation.ClearMessages()
	return _u
}

// SetUpdatedAt sets the "updated_at" field.
func (_u *ConversationUpdateOne) SetUpdatedAt(v time.Time) *ConversationUpdateOne {
	_u.mutation.SetUpdatedAt(v)
	return _u
}

// Mutation returns the ConversationMutation object of the builder.
func (_u *ConversationUpdateOne) Mutation() *ConversationMutation {
	return _u.mutation
}

// Where appends a list predicates to the ConversationUpdate builder.
func (_u *ConversationUpdateOne) Where(ps ...predicate.Conversation) *ConversationUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *ConversationUpdateOne) Select(field string, fields ...string) *ConversationUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated Conversation entity.
func (_u *ConversationUpdateOne) Save(ctx context.Context) (*Conversation, error) {
	_u.defaults()
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *ConversationUpdateOne) SaveX(ctx context.Context) *Conversation {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *ConversationUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *ConversationUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_u *ConversationUpdateOne) defaults() {
	if _, ok := _u.mutation.UpdatedAt(); !ok {
		v := conversation.UpdateDefaultUpdatedAt()
		_u.mutation.SetUpdatedAt(v)
	}
}

func (_u *ConversationUpdateOne) sqlSave(ctx context.Context) (_node *Conversation, err error) {
	_spec := sqlgraph.NewUpdateSpec(conversation.Table, conversation.Columns, sqlgraph.NewFieldSpec(conversation.FieldID, field.TypeInt))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "Conversation.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, conversation.FieldID)
		for _, f := range fields {
			if !conversation.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != conversation.FieldID {
				_spec.Node.Columns = append(_spec.Node.Columns, f)
			}
		}
	}
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.CurrentQuestion(); ok {
		_spec.SetField(conversation.FieldCurrentQuestion, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedCurrentQuestion(); ok {
		_spec.AddField(conversation.FieldCurrentQuestion, field.TypeInt, value)
	}
	if value, ok := _u.mutation.TotalQuestions(); ok {
		_spec.SetField(conversation.FieldTotalQuestions, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedTotalQuestions(); ok {
		_spec.AddField(conversation.FieldTotalQuestions, field.TypeInt, value)
	}
	if value, ok := _u.mutation.TotalScore(); ok {
		_spec.SetField(conversation.FieldTotalScore, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedTotalScore(); ok {
		_spec.AddField(conversation.FieldTotalScore, field.TypeInt, value)
	}
	if value, ok := _u.mutation.MaxPossibleScore(); ok {
		_spec.SetField(conversation.FieldMaxPossibleScore, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedMaxPossibleScore(); ok {
		_spec.AddField(conversation.FieldMaxPossibleScore, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Status(); ok {
		_spec.SetField(conversation.FieldStatus, field.TypeString, value)
	}
	if value, ok := _u.mutation.Messages(); ok {
		_spec.SetField(conversation.FieldMessages, field.TypeJSON, value)
	}
	if value, ok := _u.mutation.AppendedMessages(); ok {
		_spec.AddModifier(func(u *sql.UpdateBuilder) {
			sqljson.Append(u, conversation.FieldMessages, value)
		})
	}
	if _u.mutation.MessagesCleared() {
		_spec.ClearField(conversation.FieldMessages, field.TypeJSON)
	}
	if value, ok := _u.mutation.UpdatedAt(); ok {
		_spec.SetField(conversation.FieldUpdatedAt, field.TypeTime, value)
	}
	_node = &Conversation{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{conversation.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
