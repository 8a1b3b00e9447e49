package selector

import (
	"strconv"
	"strings"

	tp "github.com/xlab/treeprint"
)

// Explain returns a tree dump of how a selector has been compiled, e.g.
//
//	"ul > li:first a"
//	└── [pipeline] ul > li:first a
//	    ├── [pre] ul > li
//	    │   ├── TAG ul
//	    │   ├── COMBINATOR >
//	    │   └── TAG li
//	    ├── [positional] :first
//	    └── [finder]  a
//	        ├── COMBINATOR ␣
//	        └── TAG a
func (s *Selector) Explain() string {
	tree := tp.New()
	tree.SetValue(strconv.Quote(s.text))
	for _, alt := range s.alts {
		explainAlternative(tree, "", alt)
	}
	return tree.String()
}

func explainAlternative(tree tp.Tree, role string, alt *alternative) {
	if alt.pipe == nil {
		if role == "" {
			role = "chain"
		}
		explainTokens(tree.AddMetaBranch(role, alt.seq.String()), alt.seq)
		return
	}
	if role == "" {
		role = "pipeline"
	}
	branch := tree.AddMetaBranch(role, alt.seq.String())
	p := alt.pipe
	if len(p.prefix) > 0 {
		explainTokens(branch.AddMetaBranch("pre", p.prefix.String()), p.prefix)
	}
	branch.AddMetaNode(p.kind.String(), p.pseudo.Value)
	if p.post != nil {
		explainAlternative(branch, "post", p.post)
	}
	if p.finder != nil {
		explainAlternative(branch, "finder", p.finder)
	}
}

func explainTokens(tree tp.Tree, seq Sequence) {
	for _, tok := range seq {
		v := strings.Join(tok.Matches, " ")
		if tok.Type == CombinatorToken && v == " " {
			v = "␣"
		}
		tree.AddNode(tok.Type.String() + " " + v)
	}
}
