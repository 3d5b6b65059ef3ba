package lang

import (
	"strconv"
	"strings"
)

// Find locates an element by path. A path is either "#<handle>" or a
// slash-separated list of kinds starting at the root, where each step may
// carry a zero-based index among same-kind siblings:
//
//	Scene/Group/Rectangle[1]/Text
//
// An omitted index means [0].
func (t *Tree) Find(path string) (Handle, error) {
	path = strings.TrimSpace(path)

	if id, ok := strings.CutPrefix(path, "#"); ok {
		n, err := strconv.Atoi(id)
		if err != nil || !t.Valid(Handle(n)) || !t.reachable(Handle(n)) {
			return NoElement, ErrElementNotFound.About(path)
		}

		return Handle(n), nil
	}

	steps := strings.Split(strings.Trim(path, "/"), "/")

	kind, index, ok := parseStep(steps[0])
	if !ok || t.root == NoElement || kind != t.Kind(t.root) || index != 0 {
		return NoElement, ErrElementNotFound.About(path)
	}

	h := t.root

	for _, step := range steps[1:] {
		kind, index, ok = parseStep(step)
		if !ok {
			return NoElement, ErrElementNotFound.About(path).Detail("malformed step " + strconv.Quote(step))
		}

		next := NoElement

		for _, c := range t.elems[h].children {
			if t.elems[c].kind != kind {
				continue
			}

			if index == 0 {
				next = c

				break
			}

			index--
		}

		if next == NoElement {
			return NoElement, ErrElementNotFound.About(path).Detail("no match for " + strconv.Quote(step))
		}

		h = next
	}

	return h, nil
}

// Path returns the path that [Tree.Find] resolves to h.
func (t *Tree) Path(h Handle) string {
	var steps []string

	for ; h != NoElement; h = t.elems[h].parent {
		step := t.elems[h].kind

		if p := t.elems[h].parent; p != NoElement {
			n := 0

			for _, c := range t.elems[p].children {
				if c == h {
					break
				}

				if t.elems[c].kind == step {
					n++
				}
			}

			if n > 0 {
				step += "[" + strconv.Itoa(n) + "]"
			}
		}

		steps = append(steps, step)
	}

	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	return strings.Join(steps, "/")
}

// reachable reports whether h belongs to the scene rather than to a
// template prototype.
func (t *Tree) reachable(h Handle) bool {
	for h != NoElement {
		if h == t.root {
			return true
		}

		h = t.elems[h].parent
	}

	return false
}

func parseStep(step string) (kind string, index int, ok bool) {
	kind, rest, found := strings.Cut(step, "[")
	if kind == "" {
		return "", 0, false
	}

	if !found {
		return kind, 0, true
	}

	num, ok := strings.CutSuffix(rest, "]")
	if !ok {
		return "", 0, false
	}

	index, err := strconv.Atoi(num)
	if err != nil || index < 0 {
		return "", 0, false
	}

	return kind, index, true
}
