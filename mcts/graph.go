package mcts

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"github.com/awalterschulze/gographviz"
)

// ToDot renders the search tree as a graphviz digraph.
func (t *MCTS) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	if err := g.SetDir(true); err != nil {
		panic(err)
	}

	t.RLock()
	defer t.RUnlock()

	var buf bytes.Buffer
	for i, kids := range t.children {
		n := &t.nodes[i]
		if n.Status() == Invalid {
			continue
		}

		if err := tmpl.Execute(&buf, n); err != nil {
			panic(err)
		}
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		if err := g.AddNode("G", fmt.Sprintf("%v", n.id), attrs); err != nil {
			panic(err)
		}
		buf.Reset()

		kids = append([]naughty(nil), kids...)
		sort.Sort(byAction{l: kids, t: t})
		for _, kid := range kids {
			attrs := map[string]string{"label": fmt.Sprintf("%d", t.nodes[kid].Action())}
			if err := g.AddEdge(fmt.Sprintf("%v", n.id), fmt.Sprintf("%v", kid), true, attrs); err != nil {
				panic(err)
			}
		}
	}
	return g.String()
}

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Node ID</TD><TD>{{.ID}}</TD></TR>
<TR><TD>State</TD><TD>{{.State}}</TD></TR>
<TR><TD>Action</TD><TD>{{.Action}}</TD></TR>
<TR><TD>Player</TD><TD>{{.Player}}</TD></TR>
<TR><TD>Visits</TD><TD>{{.Visits}}</TD></TR>
<TR><TD>Score</TD><TD>{{printf "%.3f" .Score}}</TD></TR>
<TR><TD>Prior</TD><TD>{{printf "%.3f" .Prior}}</TD></TR>
<TR><TD>Status</TD><TD>{{.Status}}</TD></TR>
</TABLE>
>
`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("name").Parse(tmplRaw))
}
