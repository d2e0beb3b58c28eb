// Package loader parses LooseMAC's plain-text network description into
// the node specs the core engine needs to build a Simulation. It never
// touches the engine's types directly beyond loosemac.NodeSpec — the
// seam the core package leaves open for exactly this purpose.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/357r4bd/loosemac"
)

// ParseError names the offending line, so a malformed-input diagnostic
// always points at the line that caused it.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("loader: line %d: %s", e.Line, e.Reason)
}

var commentRE = regexp.MustCompile(`#.*$`)

// Load reads the plain-text network grammar from r and returns the
// lambda and node specs it describes, or a *ParseError naming the bad
// line.
func Load(r io.Reader) (lambda int, specs []loosemac.NodeSpec, err error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0

	var header []string
	for header == nil {
		if !scanner.Scan() {
			return 0, nil, &ParseError{Line: lineNo + 1, Reason: "missing header line"}
		}
		lineNo++
		fields := strings.Fields(commentRE.ReplaceAllString(scanner.Text(), ""))
		if len(fields) == 0 {
			continue // blank or comment-only line before the header
		}
		header = fields
	}

	numNodes, err := strconv.Atoi(header[0])
	if err != nil {
		return 0, nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("num_nodes is not an integer: %q", header[0])}
	}
	if numNodes < 1 {
		return 0, nil, &ParseError{Line: lineNo, Reason: "num_nodes must be >= 1"}
	}

	switch len(header) {
	case 1:
		lambda = numNodes
	case 2:
		lambda, err = strconv.Atoi(strings.Trim(header[1], "[]"))
		if err != nil {
			return 0, nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("lambda is not an integer: %q", header[1])}
		}
		if lambda < 1 {
			return 0, nil, &ParseError{Line: lineNo, Reason: "lambda must be >= 1"}
		}
	default:
		return 0, nil, &ParseError{Line: lineNo, Reason: "header must be \"num_nodes [lambda]\""}
	}

	specs = make([]loosemac.NodeSpec, 0, numNodes)
	specLines := make([]int, 0, numNodes)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(commentRE.ReplaceAllString(scanner.Text(), ""))
		if line == "" {
			continue
		}

		spec, perr := parseNodeLine(line, lineNo)
		if perr != nil {
			return 0, nil, perr
		}
		specs = append(specs, spec)
		specLines = append(specLines, lineNo)
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, fmt.Errorf("loader: reading input: %w", err)
	}

	if len(specs) != numNodes {
		return 0, nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("declared %d node(s), found %d", numNodes, len(specs))}
	}

	seen := make(map[int]bool, len(specs))
	for i, s := range specs {
		if seen[s.ID] {
			return 0, nil, &ParseError{Line: specLines[i], Reason: fmt.Sprintf("duplicate node id %d", s.ID)}
		}
		seen[s.ID] = true
	}
	for i, s := range specs {
		for _, nb := range s.Neighbors {
			if !seen[nb] {
				return 0, nil, &ParseError{Line: specLines[i], Reason: fmt.Sprintf("node %d references undeclared neighbor %d", s.ID, nb)}
			}
		}
	}

	return lambda, specs, nil
}

// parseNodeLine parses "<id> ( <deg> ) <n1> ... <n_deg> [ <s1> ... ]".
func parseNodeLine(line string, lineNo int) (loosemac.NodeSpec, error) {
	openParen := strings.Index(line, "(")
	closeParen := strings.Index(line, ")")
	if openParen == -1 || closeParen == -1 || closeParen < openParen {
		return loosemac.NodeSpec{}, &ParseError{Line: lineNo, Reason: "missing \"( deg )\" neighbor count"}
	}

	idField := strings.TrimSpace(line[:openParen])
	id, err := strconv.Atoi(idField)
	if err != nil {
		return loosemac.NodeSpec{}, &ParseError{Line: lineNo, Reason: fmt.Sprintf("node id is not an integer: %q", idField)}
	}

	degField := strings.TrimSpace(line[openParen+1 : closeParen])
	deg, err := strconv.Atoi(degField)
	if err != nil || deg < 0 {
		return loosemac.NodeSpec{}, &ParseError{Line: lineNo, Reason: fmt.Sprintf("neighbor count is not a non-negative integer: %q", degField)}
	}

	rest := strings.Fields(line[closeParen+1:])

	var slotsField []string
	openBracket, closeBracket := -1, -1
	for i, tok := range rest {
		if strings.Contains(tok, "[") {
			openBracket = i
		}
		if strings.Contains(tok, "]") {
			closeBracket = i
		}
	}
	if openBracket != -1 {
		if closeBracket == -1 || closeBracket < openBracket {
			return loosemac.NodeSpec{}, &ParseError{Line: lineNo, Reason: "unterminated default-slot list"}
		}
		joined := strings.Join(rest[openBracket:closeBracket+1], " ")
		joined = strings.TrimSpace(strings.NewReplacer("[", "", "]", "").Replace(joined))
		if joined != "" {
			slotsField = strings.Fields(joined)
		}
		rest = rest[:openBracket]
	}

	if len(rest) != deg {
		return loosemac.NodeSpec{}, &ParseError{Line: lineNo, Reason: fmt.Sprintf("declared %d neighbor(s), found %d", deg, len(rest))}
	}

	neighbors := make([]int, deg)
	for i, tok := range rest {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return loosemac.NodeSpec{}, &ParseError{Line: lineNo, Reason: fmt.Sprintf("neighbor id is not an integer: %q", tok)}
		}
		neighbors[i] = n
	}

	defaultSlots := make([]int, len(slotsField))
	for i, tok := range slotsField {
		s, err := strconv.Atoi(tok)
		if err != nil {
			return loosemac.NodeSpec{}, &ParseError{Line: lineNo, Reason: fmt.Sprintf("default slot is not an integer: %q", tok)}
		}
		if s < 1 {
			return loosemac.NodeSpec{}, &ParseError{Line: lineNo, Reason: fmt.Sprintf("default slot must be >= 1, got %d", s)}
		}
		defaultSlots[i] = s
	}

	return loosemac.NodeSpec{ID: id, Neighbors: neighbors, DefaultSlots: defaultSlots}, nil
}
