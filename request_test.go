package lingua_test

import (
	"testing"

	"github.com/fwojciec/lingua"
	"github.com/stretchr/testify/assert"
)

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid conversation", func(t *testing.T) {
		t.Parallel()
		r := lingua.Request{Messages: []lingua.Message{
			lingua.AssistantText(lingua.TutorGreeting),
			lingua.UserText("hello"),
		}}
		assert.NoError(t, r.Validate())
	})

	t.Run("empty messages", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, lingua.Request{}.Validate(), lingua.ErrValidation)
	})

	t.Run("unknown role", func(t *testing.T) {
		t.Parallel()
		r := lingua.Request{Messages: []lingua.Message{{Role: "system", Content: "x"}}}
		assert.ErrorIs(t, r.Validate(), lingua.ErrValidation)
	})

	t.Run("last message from assistant", func(t *testing.T) {
		t.Parallel()
		r := lingua.Request{Messages: []lingua.Message{lingua.UserText("a"), lingua.AssistantText("b")}}
		err := r.Validate()
		assert.ErrorIs(t, err, lingua.ErrValidation)
		assert.Contains(t, err.Error(), "last message")
	})
}
