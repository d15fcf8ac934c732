package grammar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is one loaded rule table: the trie index plus the rules in file
// order. Built once per grammar, shared read-only across sentences.
type Table struct {
	Trie  *Trie
	Rules []*Rule
}

// Load reads a text rule table, one rule per line. Blank lines and lines
// starting with "#" are skipped. Weights apply to every rule's feature
// vector; nil means uniform 1.0.
func Load(path string, weights []float64) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file, weights)
}

// Read parses a rule table from any source. See Load.
func Read(src io.Reader, weights []float64) (*Table, error) {
	table := &Table{Trie: NewTrie()}
	scanner := bufio.NewScanner(src)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rule, err := ParseRule(line, weights)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		table.Trie.Insert(rule)
		table.Rules = append(table.Rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}
