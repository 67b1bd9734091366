package estree

// Walk calls fn for every node of prog.Body in source order and stops early
// when fn returns false. Comments are not visited; use Program.Comments.
func Walk(prog *Program, fn func(Node) bool) {
	if prog == nil {
		return
	}
	for _, n := range prog.Body {
		if !fn(n) {
			return
		}
	}
}
