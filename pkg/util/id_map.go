package util

// IDMap assigns dense 0-based int32 ids to strings in first-seen order.
type IDMap struct {
	strToID map[string]int32
	idToStr []string
}

func NewIdMap() *IDMap {
	return &IDMap{
		strToID: make(map[string]int32),
		idToStr: make([]string, 0),
	}
}

// GetID returns the id of str, assigning the next free id if str was never seen.
func (m *IDMap) GetID(str string) int32 {
	if id, ok := m.strToID[str]; ok {
		return id
	}
	id := int32(len(m.idToStr))
	m.strToID[str] = id
	m.idToStr = append(m.idToStr, str)
	return id
}

// Lookup returns the id of str without assigning one.
func (m *IDMap) Lookup(str string) (int32, bool) {
	id, ok := m.strToID[str]
	return id, ok
}

func (m *IDMap) GetStr(id int32) string {
	if id < 0 || int(id) >= len(m.idToStr) {
		return ""
	}
	return m.idToStr[id]
}

func (m *IDMap) Len() int {
	return len(m.idToStr)
}
