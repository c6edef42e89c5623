package domain

// Item is a named, ordered, non-empty sequence of questions taken as one assessment.
type Item struct {
	Name      string
	Questions []Question
}

// Len returns the number of questions in the item.
func (it *Item) Len() int {
	return len(it.Questions)
}

// Question returns the question at index i, or false when i is out of range.
func (it *Item) Question(i int) (Question, bool) {
	if i < 0 || i >= len(it.Questions) {
		return Question{}, false
	}
	return it.Questions[i], true
}

// ItemCatalog gives read access to the loaded question bank.
type ItemCatalog interface {
	Items() []*Item
	Item(name string) (*Item, error)
}
