// Package repoyank assembles the clipboard payload for a set of picked
// files: a tree summary of the selection followed by one delimited section
// per file.
package repoyank

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/repoyank/repoyank/pick"
)

// IsBinary checks if content is likely binary by sampling the first 100
// runes and checking if they are printable Unicode characters.
func IsBinary(content []byte) bool {
	const sampleSize = 100
	var nonPrintable int
	var totalRunes int

	for i := 0; i < len(content) && totalRunes < sampleSize; {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError {
			nonPrintable++
		} else if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			nonPrintable++
		}
		i += size
		totalRunes++
	}

	if totalRunes == 0 {
		return false
	}
	return float64(nonPrintable)/float64(totalRunes) > 0.1
}

// Payload renders the clipboard text for the selection in nodes. It returns
// the text and the relative paths of the files included, in tree order.
// Binary files are dropped from both. Unreadable files stay in the payload
// with a placeholder body and a warning on stderr.
func Payload(nodes []pick.Node, root string) (string, []string) {
	files := pick.SelectedFiles(nodes)

	var kept []string
	contents := make(map[string]string, len(files))
	for _, rel := range files {
		data, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not read %s: %v\n", rel, err)
			kept = append(kept, rel)
			contents[rel] = "[Content not available]"
			continue
		}
		if IsBinary(data) {
			continue
		}
		kept = append(kept, rel)
		contents[rel] = strings.TrimRight(string(data), "\n")
	}

	var b strings.Builder
	b.WriteString(summaryTree(nodes, kept, root))
	b.WriteString("\n")
	for _, rel := range kept {
		fmt.Fprintf(&b, "---\nFile: %s\n---\n\n%s\n\n", rel, contents[rel])
	}
	return b.String(), kept
}

// summaryTree renders the header tree: the kept files plus every ancestor
// directory, labeled the same way the picker labels them.
func summaryTree(nodes []pick.Node, kept []string, root string) string {
	keep := make(map[string]bool, len(kept))
	for _, rel := range kept {
		keep[rel] = true
		for dir := filepath.Dir(rel); ; dir = filepath.Dir(dir) {
			keep[dir] = true
			if dir == "." || dir == string(filepath.Separator) {
				break
			}
		}
	}

	var entries []pick.Entry
	for _, n := range nodes {
		if keep[n.Path] {
			entries = append(entries, pick.Entry{Path: n.Path, IsDir: n.IsDir})
		}
	}

	var b strings.Builder
	for _, label := range pick.BuildTreeLabels(entries, ".") {
		b.WriteString(label)
		b.WriteString("\n")
	}
	return b.String()
}

// TokenEstimator estimates the token count of a payload.
type TokenEstimator func(payload string) (int, error)

// EstimateTokensSimple estimates one token per four characters.
func EstimateTokensSimple(payload string) (int, error) {
	return utf8.RuneCountInString(payload) / 4, nil
}

// EstimateTokensTiktoken counts tokens with the cl100k_base encoding.
func EstimateTokensTiktoken(payload string) (int, error) {
	tke, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return 0, fmt.Errorf("failed to get tiktoken encoding: %v", err)
	}
	return len(tke.Encode(payload, nil, nil)), nil
}
