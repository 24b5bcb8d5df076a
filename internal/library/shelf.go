package library

// Shelf maps folders to the papers they contain. Membership invariants: paper
// ids are unique within a folder, and no id lives in two folders at once.
type Shelf struct {
	buckets map[Folder][]Paper
}

// NewShelf returns an empty shelf with a bucket per folder.
func NewShelf() *Shelf {
	buckets := make(map[Folder][]Paper, len(Folders))
	for _, folder := range Folders {
		buckets[folder] = nil
	}
	return &Shelf{buckets: buckets}
}

// Papers returns the bucket for a folder.
func (s *Shelf) Papers(folder Folder) []Paper {
	return s.buckets[folder]
}

// Len reports the total number of papers across all folders.
func (s *Shelf) Len() int {
	total := 0
	for _, papers := range s.buckets {
		total += len(papers)
	}
	return total
}

// Add appends a paper to its folder's bucket, relocating it first if it
// already lives elsewhere.
func (s *Shelf) Add(paper Paper) {
	s.remove(paper.ID)
	s.buckets[paper.Folder] = append(s.buckets[paper.Folder], paper)
}

// Find returns the paper with the given id wherever it lives.
func (s *Shelf) Find(id string) (Paper, bool) {
	for _, papers := range s.buckets {
		for _, paper := range papers {
			if paper.ID == id {
				return paper, true
			}
		}
	}
	return Paper{}, false
}

// ToggleStar flips the starred flag on exactly one paper, leaving every other
// paper untouched. It reports whether the paper was found.
func (s *Shelf) ToggleStar(id string) bool {
	for folder, papers := range s.buckets {
		for i := range papers {
			if papers[i].ID == id {
				s.buckets[folder][i].Starred = !s.buckets[folder][i].Starred
				return true
			}
		}
	}
	return false
}

// Move relocates a paper to dest: removed from its current bucket, appended
// to the destination with every other field unchanged. Moving to the current
// folder is a no-op.
func (s *Shelf) Move(id string, dest Folder) bool {
	paper, ok := s.Find(id)
	if !ok {
		return false
	}
	if paper.Folder == dest {
		return true
	}
	s.remove(id)
	paper.Folder = dest
	s.buckets[dest] = append(s.buckets[dest], paper)
	return true
}

func (s *Shelf) remove(id string) {
	for folder, papers := range s.buckets {
		for i := range papers {
			if papers[i].ID == id {
				s.buckets[folder] = append(papers[:i:i], papers[i+1:]...)
				return
			}
		}
	}
}
