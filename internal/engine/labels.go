package engine

import "github.com/ryoseto/quadra/internal/domain"

// Tag and person management. Deleting a label cascades a removal of its id
// from every task's reference set; dangling references are never an error.

// AddTag creates a new tag.
func (s *Store) AddTag(name, color string) (*domain.Tag, error) {
	if name == "" {
		return nil, domain.ErrEmptyTitle
	}
	s.mu.Lock()
	tag := &domain.Tag{ID: s.newIDLocked("g"), Name: name, Color: color}
	s.tags[tag.ID] = tag
	s.tagOrder = append(s.tagOrder, tag.ID)
	out := *tag
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return &out, nil
}

// UpdateTag renames or recolors a tag. Empty fields are left unchanged.
func (s *Store) UpdateTag(id, name, color string) error {
	s.mu.Lock()
	tag, ok := s.tags[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrTagNotFound
	}
	if name != "" {
		tag.Name = name
	}
	if color != "" {
		tag.Color = color
	}
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return nil
}

// DeleteTag removes a tag and strips its id from every task.
func (s *Store) DeleteTag(id string) error {
	s.mu.Lock()
	if _, ok := s.tags[id]; !ok {
		s.mu.Unlock()
		return domain.ErrTagNotFound
	}
	delete(s.tags, id)
	s.tagOrder = removeFromGroup(s.tagOrder, id)
	for _, t := range s.tasks {
		t.TagIDs = removeFromGroup(t.TagIDs, id)
	}
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return nil
}

// AddPerson creates a new person.
func (s *Store) AddPerson(name, color string) (*domain.Person, error) {
	if name == "" {
		return nil, domain.ErrEmptyTitle
	}
	s.mu.Lock()
	p := &domain.Person{ID: s.newIDLocked("p"), Name: name, Color: color}
	s.people[p.ID] = p
	s.personIDs = append(s.personIDs, p.ID)
	out := *p
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return &out, nil
}

// UpdatePerson renames or recolors a person. Empty fields are left unchanged.
func (s *Store) UpdatePerson(id, name, color string) error {
	s.mu.Lock()
	p, ok := s.people[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrPersonNotFound
	}
	if name != "" {
		p.Name = name
	}
	if color != "" {
		p.Color = color
	}
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return nil
}

// DeletePerson removes a person and strips its id from every task.
func (s *Store) DeletePerson(id string) error {
	s.mu.Lock()
	if _, ok := s.people[id]; !ok {
		s.mu.Unlock()
		return domain.ErrPersonNotFound
	}
	delete(s.people, id)
	s.personIDs = removeFromGroup(s.personIDs, id)
	for _, t := range s.tasks {
		t.PersonIDs = removeFromGroup(t.PersonIDs, id)
	}
	s.mu.Unlock()

	s.notify(Change{Origin: OriginUser})
	return nil
}
