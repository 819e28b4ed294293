package params

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  &Error{Code: ErrCodeSyntax, Message: "unexpected } at line 1, column 9"},
			want: "SYNTAX_ERROR: unexpected } at line 1, column 9",
		},
		{
			name: "variable",
			err:  &Error{Code: ErrCodeIllegalBindingType, Message: "blank nodes are not allowed in VALUES", Variable: "s"},
			want: "ILLEGAL_BINDING_TYPE: blank nodes are not allowed in VALUES (variable=?s)",
		},
		{
			name: "variable and clause",
			err:  newIllegalBindingTypeError("s", "VALUES (?s) { (UNDEF) }"),
			want: "ILLEGAL_BINDING_TYPE: blank nodes are not allowed in VALUES (variable=?s, clause=VALUES (?s) { (UNDEF) })",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	cause := errors.New("boom")
	syntax := newSyntaxError(cause)
	wrapped := fmt.Errorf("loading query: %w", syntax)

	assert.True(t, IsSyntaxError(wrapped))
	assert.False(t, IsIllegalBindingType(wrapped))
	assert.ErrorIs(t, wrapped, cause)

	illegal := fmt.Errorf("binding: %w", newIllegalBindingTypeError("x", ""))
	assert.True(t, IsIllegalBindingType(illegal))
	assert.False(t, IsSyntaxError(illegal))

	assert.False(t, IsSyntaxError(cause))
	assert.False(t, IsIllegalBindingType(nil))
}
