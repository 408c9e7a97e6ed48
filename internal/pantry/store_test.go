package pantry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/tbracken/pantree/internal/pubsub"
)

func addAll(t *testing.T, s *Store, entries ...[2]string) {
	t.Helper()
	for _, e := range entries {
		_, err := s.Add(e[0], e[1])
		require.NoError(t, err)
	}
}

func TestStore_AddAndTraverseByName(t *testing.T) {
	s := NewStore(OrderByName)
	defer s.Close()

	addAll(t, s, [2]string{"Milk", "2"}, [2]string{"Bread", "1"}, [2]string{"Eggs", "2"})

	require.Equal(t, 3, s.Len())
	require.Equal(t, []string{"Bread", "Eggs", "Milk"}, names(s.Traverse(TraverseInOrder)))
}

func TestStore_SwitchOrderingRebuilds(t *testing.T) {
	s := NewStore(OrderByName)
	defer s.Close()

	addAll(t, s,
		[2]string{"Milk", "2"},
		[2]string{"Bread", "1"},
		[2]string{"Eggs", "2"},
		[2]string{"Apples", "3"})

	require.Equal(t, []string{"Apples", "Bread", "Eggs", "Milk"}, names(s.Traverse(TraverseInOrder)))

	require.NoError(t, s.SetOrdering(OrderByPriority))

	// Rank first, then alphabetical within rank: Eggs before Milk.
	require.Equal(t, []string{"Bread", "Eggs", "Milk", "Apples"}, names(s.Traverse(TraverseInOrder)))
	require.Equal(t, OrderByPriority, s.Ordering())
}

func TestStore_SetOrderingUnknown(t *testing.T) {
	s := NewStore(OrderByName)
	defer s.Close()

	require.ErrorIs(t, s.SetOrdering(Ordering("created")), ErrUnknownOrdering)
	require.Equal(t, OrderByName, s.Ordering())
}

func TestStore_AddEmptyName(t *testing.T) {
	s := NewStore(OrderByName)
	defer s.Close()

	_, err := s.Add("", "1")
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = s.Add("   ", "1")
	require.ErrorIs(t, err, ErrEmptyName)

	require.Zero(t, s.Len())
}

func TestStore_AddDuplicateCaseInsensitive(t *testing.T) {
	s := NewStore(OrderByName)
	defer s.Close()

	_, err := s.Add("Milk", "2")
	require.NoError(t, err)

	_, err = s.Add("milk", "1")
	require.ErrorIs(t, err, ErrDuplicateName)
	require.Equal(t, 1, s.Len())
}

func TestStore_AddDefaultsInvalidPriority(t *testing.T) {
	s := NewStore(OrderByName)
	defer s.Close()

	item, err := s.Add("Milk", "urgent!!")
	require.NoError(t, err)
	require.Equal(t, DefaultPriority, item.Priority())
}

func TestStore_Search(t *testing.T) {
	s := NewStore(OrderByName)
	defer s.Close()

	addAll(t, s, [2]string{"Milk", "2"})

	item, found := s.Search("  MILK ")
	require.True(t, found)
	require.Equal(t, "Milk", item.Name())

	_, found = s.Search("Bread")
	require.False(t, found)
}

func TestStore_DeleteThenSearchThenReAdd(t *testing.T) {
	s := NewStore(OrderByName)
	defer s.Close()

	addAll(t, s, [2]string{"Bread", "1"}, [2]string{"Milk", "2"})

	require.True(t, s.Delete("Bread"))
	_, found := s.Search("Bread")
	require.False(t, found)
	require.Equal(t, 1, s.Len())

	// Deleted names are re-addable.
	_, err := s.Add("Bread", "3")
	require.NoError(t, err)
	require.Equal(t, []string{"Bread", "Milk"}, names(s.Traverse(TraverseInOrder)))
}

func TestStore_DeleteAbsent(t *testing.T) {
	s := NewStore(OrderByName)
	defer s.Close()

	require.False(t, s.Delete("Bread"))
}

func TestStore_TraversalSizesMatchCatalog(t *testing.T) {
	s := NewStore(OrderByPriority)
	defer s.Close()

	addAll(t, s,
		[2]string{"Milk", "2"},
		[2]string{"Bread", "1"},
		[2]string{"Eggs", "2"},
		[2]string{"Apples", "3"},
		[2]string{"Dates", "1"})

	for _, kind := range []TraversalKind{TraverseInOrder, TraversePreOrder, TraversePostOrder} {
		require.Len(t, s.Traverse(kind), s.Len(), "traversal %s", kind)
	}
}

func TestStore_Dump(t *testing.T) {
	s := NewStore(OrderByName)
	defer s.Close()

	require.Equal(t, "(empty)", s.Dump())

	addAll(t, s, [2]string{"Milk", "2"}, [2]string{"Bread", "1"})
	require.Contains(t, s.Dump(), "Milk [P2]")
	require.Contains(t, s.Dump(), "└─ Bread [P1]")
}

func TestStore_PublishesChanges(t *testing.T) {
	s := NewStore(OrderByName)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.Events().Subscribe(ctx)

	_, err := s.Add("Milk", "2")
	require.NoError(t, err)
	require.True(t, s.Delete("Milk"))
	require.NoError(t, s.SetOrdering(OrderByPriority))

	wantTypes := []pubsub.EventType{pubsub.CreatedEvent, pubsub.DeletedEvent, pubsub.UpdatedEvent}
	for _, want := range wantTypes {
		select {
		case event := <-ch:
			require.Equal(t, want, event.Type)
		case <-time.After(100 * time.Millisecond):
			require.Fail(t, "timeout waiting for event", "type %s", want)
		}
	}
}

func TestStore_TraversalKindCycle(t *testing.T) {
	require.Equal(t, TraversePreOrder, TraverseInOrder.Next())
	require.Equal(t, TraversePostOrder, TraversePreOrder.Next())
	require.Equal(t, TraverseInOrder, TraversePostOrder.Next())
}

// TestStore_RandomOperations drives the store with a random op
// sequence against a plain map model and checks the two structures
// never disagree.
func TestStore_RandomOperations(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewStore(OrderByName)
		defer s.Close()
		model := make(map[string]bool)

		nameGen := rapid.SampledFrom([]string{
			"Milk", "Bread", "Eggs", "Apples", "Dates", "Figs", "Grapes", "Honey",
		})

		numOps := rapid.IntRange(1, 60).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			label := fmt.Sprintf("op-%d", i)
			name := nameGen.Draw(t, label+"-name")
			key := NormalizeKey(name)

			switch rapid.IntRange(0, 3).Draw(t, label+"-kind") {
			case 0: // add
				_, err := s.Add(name, rapid.SampledFrom([]string{"1", "2", "3", "?"}).Draw(t, label+"-prio"))
				if model[key] {
					require.ErrorIs(t, err, ErrDuplicateName)
				} else {
					require.NoError(t, err)
					model[key] = true
				}
			case 1: // delete
				require.Equal(t, model[key], s.Delete(name))
				delete(model, key)
			case 2: // search
				_, found := s.Search(name)
				require.Equal(t, model[key], found)
			default: // reorder
				ord := rapid.SampledFrom([]Ordering{OrderByName, OrderByPriority}).Draw(t, label+"-ord")
				require.NoError(t, s.SetOrdering(ord))
			}

			require.Equal(t, len(model), s.Len())
			require.Len(t, s.Traverse(TraverseInOrder), len(model))
		}
	})
}
