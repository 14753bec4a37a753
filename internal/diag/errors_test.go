package diag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	assert.Equal(t, "[S001] Order.blob: unsupported",
		Fieldf(CodeUnsupportedType, "Order", "blob", "unsupported").Error())
	assert.Equal(t, "[S005] Order: empty",
		Entityf(CodeEmptyEntity, "Order", "empty").Error())
	assert.Equal(t, "[S300] bad model",
		New(CodeModelParse, "bad %s", "model").Error())
}

func TestCodeOf(t *testing.T) {
	err := Fieldf(CodeUIDCollision, "Order", "id", "dup")
	assert.Equal(t, CodeUIDCollision, CodeOf(err))

	wrapped := fmt.Errorf("merge failed: %w", err)
	assert.Equal(t, CodeUIDCollision, CodeOf(wrapped))

	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}
