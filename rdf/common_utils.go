package rdf

import "strconv"

// nodeMinter hands out node IRIs under DefaultNamespace. Each name has its own
// counter starting at 1, so the same input always yields the same identifiers.
// A minter belongs to one conversion call and is not safe for concurrent use.
type nodeMinter struct {
	counters map[string]int
}

func newNodeMinter() *nodeMinter {
	return &nodeMinter{counters: make(map[string]int)}
}

// next returns the serialized token of the next node named after name.
func (m *nodeMinter) next(name string) string {
	local := localName(name)
	m.counters[local]++
	return IRIToken(DefaultNamespace + "#/" + local + strconv.Itoa(m.counters[local]))
}

// localName maps an arbitrary name onto [A-Za-z0-9_.-], replacing every other
// byte with '_'. An empty name becomes "_".
func localName(name string) string {
	if name == "" {
		return "_"
	}
	clean := true
	for i := 0; i < len(name); i++ {
		if !isNameChar(name[i]) {
			clean = false
			break
		}
	}
	if clean {
		return name
	}
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); {
		if isNameChar(name[i]) {
			out = append(out, name[i])
			i++
			continue
		}
		out = append(out, '_')
		// Collapse a multi-byte rune into one underscore.
		if name[i] >= 0x80 {
			i++
			for i < len(name) && name[i]&0xC0 == 0x80 {
				i++
			}
			continue
		}
		i++
	}
	return string(out)
}

// vocabTerm returns the serialized token for name in the given vocabulary.
func vocabTerm(vocabulary, name string) string {
	return IRIToken(vocabulary + localName(name))
}

func isNameChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') ||
		ch == '_' || ch == '-' || ch == '.'
}
