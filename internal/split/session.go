// Package split holds the in-memory state of one receipt's split session:
// the group members, which items each member is splitting, and whether the
// current assignment has been finalized.
package split

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mmynk/smartsplit/internal/calculator"
	"github.com/mmynk/smartsplit/internal/models"
)

// MaxMembers is the largest group a session accepts.
const MaxMembers = 10

var (
	ErrEmptyName      = errors.New("member name is required")
	ErrMemberExists   = errors.New("member already exists")
	ErrMemberNotFound = errors.New("member not found")
	ErrTooManyMembers = fmt.Errorf("a split can have at most %d members", MaxMembers)
	ErrItemNotFound   = errors.New("item not found")
	ErrNotReady       = errors.New("every item needs at least one member before finalizing")
)

// Session tracks members and item assignments for one receipt.
// It is not safe for concurrent use.
type Session struct {
	items      []models.ReceiptItem
	members    []string
	assignment map[string]map[int]bool
	finalized  bool
	result     *calculator.Result
}

// NewSession starts a session over the given items.
func NewSession(items []models.ReceiptItem) *Session {
	return &Session{
		items:      items,
		assignment: make(map[string]map[int]bool),
	}
}

// Members returns the member names in the order they were added.
func (s *Session) Members() []string {
	return slices.Clone(s.members)
}

// Finalized reports whether the current assignment has been finalized.
func (s *Session) Finalized() bool {
	return s.finalized
}

// Result returns the last finalized result, or nil if the session is not finalized.
func (s *Session) Result() *calculator.Result {
	if !s.finalized {
		return nil
	}
	return s.result
}

// AddMember adds a member to the group.
func (s *Session) AddMember(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if len(s.members) >= MaxMembers {
		return ErrTooManyMembers
	}
	if s.hasMember(name) {
		return fmt.Errorf("%w: %q", ErrMemberExists, name)
	}
	s.members = append(s.members, name)
	s.changed()
	return nil
}

// RemoveMember removes a member and everything assigned to them.
func (s *Session) RemoveMember(name string) error {
	idx := slices.Index(s.members, name)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrMemberNotFound, name)
	}
	s.members = slices.Delete(s.members, idx, idx+1)
	delete(s.assignment, name)
	s.changed()
	return nil
}

// RenameMember renames a member, keeping their position and assigned items.
func (s *Session) RenameMember(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}
	idx := slices.Index(s.members, oldName)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrMemberNotFound, oldName)
	}
	if newName == oldName {
		return nil
	}
	if s.hasMember(newName) {
		return fmt.Errorf("%w: %q", ErrMemberExists, newName)
	}
	s.members[idx] = newName
	if set, ok := s.assignment[oldName]; ok {
		s.assignment[newName] = set
		delete(s.assignment, oldName)
	}
	s.changed()
	return nil
}

// Toggle flips whether member is splitting the item.
// It returns true when the member is splitting the item afterwards.
func (s *Session) Toggle(itemID int, member string) (bool, error) {
	if err := s.check(itemID, member); err != nil {
		return false, err
	}
	set := s.setFor(member)
	if set[itemID] {
		delete(set, itemID)
	} else {
		set[itemID] = true
	}
	s.changed()
	return set[itemID], nil
}

// Assign marks member as splitting each of the given items.
func (s *Session) Assign(member string, itemIDs ...int) error {
	for _, id := range itemIDs {
		if err := s.check(id, member); err != nil {
			return err
		}
	}
	set := s.setFor(member)
	for _, id := range itemIDs {
		set[id] = true
	}
	s.changed()
	return nil
}

// Splitters returns the members splitting the item, in member order.
func (s *Session) Splitters(itemID int) []string {
	var names []string
	for _, m := range s.members {
		if s.assignment[m][itemID] {
			names = append(names, m)
		}
	}
	return names
}

// Unassigned returns the items nobody is splitting, in receipt order.
func (s *Session) Unassigned() []models.ReceiptItem {
	var out []models.ReceiptItem
	for _, item := range s.items {
		if len(s.Splitters(item.ID)) == 0 {
			out = append(out, item)
		}
	}
	return out
}

// CanFinalize reports whether the session has members and no orphaned items.
func (s *Session) CanFinalize() bool {
	return len(s.members) > 0 && len(s.Unassigned()) == 0
}

// Finalize computes the split for the current assignment. Calling it again
// recomputes from scratch and replaces the previous result.
func (s *Session) Finalize(tax, tip float64) (*calculator.Result, error) {
	if len(s.members) == 0 {
		return nil, calculator.ErrNoMembers
	}
	if missing := s.Unassigned(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, item := range missing {
			names[i] = item.Name
		}
		return nil, fmt.Errorf("%w: %s", ErrNotReady, strings.Join(names, ", "))
	}

	items := make([]calculator.Item, len(s.items))
	for i, item := range s.items {
		items[i] = calculator.Item{ID: item.ID, Description: item.Name, Price: item.Price}
	}

	result, err := calculator.CalculateSplit(calculator.Input{
		Items:      items,
		Members:    s.Members(),
		Assignment: s.Assignment(),
		Tax:        tax,
		Tip:        tip,
	})
	if err != nil {
		return nil, err
	}

	s.result = result
	s.finalized = true
	return result, nil
}

// Assignment returns the current assignment as member -> item IDs in receipt order.
func (s *Session) Assignment() calculator.Assignment {
	out := make(calculator.Assignment, len(s.members))
	for _, m := range s.members {
		var ids []int
		for _, item := range s.items {
			if s.assignment[m][item.ID] {
				ids = append(ids, item.ID)
			}
		}
		out[m] = ids
	}
	return out
}

// Items returns the receipt items with their current splitters filled in.
func (s *Session) Items() []models.ReceiptItem {
	out := make([]models.ReceiptItem, len(s.items))
	for i, item := range s.items {
		item.Splitters = s.Splitters(item.ID)
		out[i] = item
	}
	return out
}

func (s *Session) hasMember(name string) bool {
	return slices.Contains(s.members, name)
}

func (s *Session) check(itemID int, member string) error {
	if !s.hasMember(member) {
		return fmt.Errorf("%w: %q", ErrMemberNotFound, member)
	}
	for _, item := range s.items {
		if item.ID == itemID {
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrItemNotFound, itemID)
}

func (s *Session) setFor(member string) map[int]bool {
	set, ok := s.assignment[member]
	if !ok {
		set = make(map[int]bool)
		s.assignment[member] = set
	}
	return set
}

// changed clears the finalized state after any edit.
func (s *Session) changed() {
	s.finalized = false
	s.result = nil
}
