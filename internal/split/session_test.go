package split

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/smartsplit/internal/models"
)

func receiptItems() []models.ReceiptItem {
	return []models.ReceiptItem{
		{ID: 1, Name: "Burger", Price: 18.50},
		{ID: 2, Name: "Salad", Price: 12.00},
		{ID: 3, Name: "Soda", Price: 6.50},
	}
}

func TestSession_AddMember(t *testing.T) {
	s := NewSession(receiptItems())

	require.NoError(t, s.AddMember("Alex"))
	require.NoError(t, s.AddMember("  Blake "))
	assert.Equal(t, []string{"Alex", "Blake"}, s.Members())

	assert.ErrorIs(t, s.AddMember("Alex"), ErrMemberExists)
	assert.ErrorIs(t, s.AddMember("   "), ErrEmptyName)
}

func TestSession_MemberLimit(t *testing.T) {
	s := NewSession(receiptItems())
	for i := 0; i < MaxMembers; i++ {
		require.NoError(t, s.AddMember(fmt.Sprintf("Member %d", i)))
	}
	assert.ErrorIs(t, s.AddMember("One too many"), ErrTooManyMembers)
}

func TestSession_RemoveMemberDropsAssignments(t *testing.T) {
	s := NewSession(receiptItems())
	require.NoError(t, s.AddMember("Alex"))
	require.NoError(t, s.AddMember("Blake"))
	require.NoError(t, s.Assign("Blake", 1, 3))

	require.NoError(t, s.RemoveMember("Blake"))
	assert.Equal(t, []string{"Alex"}, s.Members())
	assert.Empty(t, s.Splitters(1))
	assert.ErrorIs(t, s.RemoveMember("Blake"), ErrMemberNotFound)
}

func TestSession_RenameMemberKeepsAssignments(t *testing.T) {
	s := NewSession(receiptItems())
	require.NoError(t, s.AddMember("Alex"))
	require.NoError(t, s.AddMember("Blake"))
	require.NoError(t, s.Assign("Alex", 1, 2))

	require.NoError(t, s.RenameMember("Alex", "Alexis"))
	assert.Equal(t, []string{"Alexis", "Blake"}, s.Members())
	assert.Equal(t, []string{"Alexis"}, s.Splitters(2))

	assert.ErrorIs(t, s.RenameMember("Alexis", "Blake"), ErrMemberExists)
	assert.ErrorIs(t, s.RenameMember("Nobody", "Someone"), ErrMemberNotFound)
}

func TestSession_Toggle(t *testing.T) {
	s := NewSession(receiptItems())
	require.NoError(t, s.AddMember("Alex"))

	on, err := s.Toggle(1, "Alex")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = s.Toggle(1, "Alex")
	require.NoError(t, err)
	assert.False(t, on)

	_, err = s.Toggle(99, "Alex")
	assert.ErrorIs(t, err, ErrItemNotFound)
	_, err = s.Toggle(1, "Nobody")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestSession_FinalizeRequiresEveryItemAssigned(t *testing.T) {
	s := NewSession(receiptItems())
	require.NoError(t, s.AddMember("Alex"))
	require.NoError(t, s.Assign("Alex", 1, 2))

	assert.False(t, s.CanFinalize())
	require.Len(t, s.Unassigned(), 1)
	assert.Equal(t, "Soda", s.Unassigned()[0].Name)

	_, err := s.Finalize(3, 0)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.False(t, s.Finalized())
}

func TestSession_FinalizeAndEditClearsFlag(t *testing.T) {
	s := NewSession(receiptItems())
	require.NoError(t, s.AddMember("Alex"))
	require.NoError(t, s.AddMember("Blake"))
	require.NoError(t, s.Assign("Alex", 1, 2))
	require.NoError(t, s.Assign("Blake", 1, 3))
	require.True(t, s.CanFinalize())

	result, err := s.Finalize(3, 0)
	require.NoError(t, err)
	assert.True(t, s.Finalized())
	assert.Same(t, result, s.Result())
	assert.Equal(t, "Alex: $22.97\nBlake: $17.03", result.Summary())

	items := s.Items()
	assert.Equal(t, []string{"Alex", "Blake"}, items[0].Splitters)
	assert.Equal(t, []string{"Blake"}, items[2].Splitters)

	_, err = s.Toggle(3, "Alex")
	require.NoError(t, err)
	assert.False(t, s.Finalized())
	assert.Nil(t, s.Result())

	// Finalizing again recomputes with the new assignment.
	result, err = s.Finalize(3, 0)
	require.NoError(t, err)
	assert.Equal(t, "Alex: $26.49\nBlake: $13.51", result.Summary())
}
