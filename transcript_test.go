package lingua_test

import (
	"sync"
	"testing"

	"github.com/fwojciec/lingua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_Apply(t *testing.T) {
	t.Parallel()

	t.Run("first delta appends assistant message", func(t *testing.T) {
		t.Parallel()
		tr := lingua.NewTranscript("t1")
		require.NoError(t, tr.Begin())
		tr.AppendUser("hi")

		got := tr.Apply("A")

		assert.Equal(t, "A", got)
		assert.Equal(t, []lingua.Message{
			lingua.UserText("hi"),
			lingua.AssistantText("A"),
		}, tr.Messages())
	})

	t.Run("consecutive deltas replace tail with concatenation", func(t *testing.T) {
		t.Parallel()
		tr := lingua.NewTranscript("t1")
		require.NoError(t, tr.Begin())
		tr.AppendUser("hi")

		var seen []string
		for _, d := range []string{"A", "B"} {
			tr.Apply(d)
			msgs := tr.Messages()
			seen = append(seen, msgs[len(msgs)-1].Content)
		}

		assert.Equal(t, []string{"A", "AB"}, seen)
		assert.Equal(t, 2, tr.Len())
	})

	t.Run("tail equals concatenation of all deltas", func(t *testing.T) {
		t.Parallel()
		tr := lingua.NewTranscript("t1")
		require.NoError(t, tr.Begin())
		deltas := []string{"The ", "quick ", "brown ", "fox", " ", "jumps", "."}
		for _, d := range deltas {
			tr.Apply(d)
		}
		msgs := tr.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, "The quick brown fox jumps.", msgs[0].Content)
		assert.Equal(t, "The quick brown fox jumps.", tr.Text())
	})

	t.Run("empty delta is ignored", func(t *testing.T) {
		t.Parallel()
		tr := lingua.NewTranscript("t1")
		require.NoError(t, tr.Begin())
		tr.Apply("")
		assert.Equal(t, 0, tr.Len())
	})

	t.Run("delta outside a turn is ignored", func(t *testing.T) {
		t.Parallel()
		tr := lingua.NewTranscript("t1", lingua.AssistantText(lingua.TutorGreeting))
		tr.Apply("stray")
		assert.Equal(t, []lingua.Message{lingua.AssistantText(lingua.TutorGreeting)}, tr.Messages())
	})

	t.Run("seeded assistant message is never extended", func(t *testing.T) {
		t.Parallel()
		tr := lingua.NewTranscript("t1", lingua.AssistantText(lingua.TutorGreeting))
		require.NoError(t, tr.Begin())
		tr.Apply("reply")
		msgs := tr.Messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, lingua.TutorGreeting, msgs[0].Content)
		assert.Equal(t, "reply", msgs[1].Content)
	})
}

func TestTranscript_Seal(t *testing.T) {
	t.Parallel()

	t.Run("returns final text and closes turn", func(t *testing.T) {
		t.Parallel()
		tr := lingua.NewTranscript("t1")
		require.NoError(t, tr.Begin())
		tr.Apply("Hel")
		tr.Apply("lo")

		assert.Equal(t, "Hello", tr.Seal())
		assert.False(t, tr.InFlight())
		assert.Empty(t, tr.Text())
	})

	t.Run("next turn creates a new message", func(t *testing.T) {
		t.Parallel()
		tr := lingua.NewTranscript("t1")
		require.NoError(t, tr.Begin())
		tr.Apply("first")
		tr.Seal()

		require.NoError(t, tr.Begin())
		tr.Apply("second")
		tr.Seal()

		assert.Equal(t, []lingua.Message{
			lingua.AssistantText("first"),
			lingua.AssistantText("second"),
		}, tr.Messages())
	})

	t.Run("seal without turn is a no-op", func(t *testing.T) {
		t.Parallel()
		tr := lingua.NewTranscript("t1")
		assert.Equal(t, "", tr.Seal())
	})

	t.Run("sealed partial text survives", func(t *testing.T) {
		t.Parallel()
		tr := lingua.NewTranscript("t1")
		require.NoError(t, tr.Begin())
		tr.AppendUser("hi")
		tr.Apply("partial")
		tr.Seal()

		assert.Equal(t, lingua.AssistantText("partial"), tr.Messages()[1])
	})
}

func TestTranscript_Begin(t *testing.T) {
	t.Parallel()

	t.Run("rejects second open turn", func(t *testing.T) {
		t.Parallel()
		tr := lingua.NewTranscript("t1")
		require.NoError(t, tr.Begin())
		assert.ErrorIs(t, tr.Begin(), lingua.ErrTurnInFlight)
	})

	t.Run("only one concurrent begin wins", func(t *testing.T) {
		t.Parallel()
		tr := lingua.NewTranscript("t1")
		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if tr.Begin() == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, wins)
	})
}

func TestTranscript_MessagesIsACopy(t *testing.T) {
	t.Parallel()
	tr := lingua.NewTranscript("t1", lingua.UserText("hi"))
	msgs := tr.Messages()
	msgs[0].Content = "changed"
	assert.Equal(t, "hi", tr.Messages()[0].Content)
}
