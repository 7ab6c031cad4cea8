package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/cran/mlapi/pkg/errors"
)

// DOT writes the stage graph in Graphviz DOT format. Each stage is a vertex
// labeled with its name and model description; edges follow stage order.
func (p *Pipeline) DOT(w io.Writer) error {
	g := graph.New(graph.StringHash, graph.Directed())

	for _, s := range p.stages {
		label := s.Name
		if str, ok := s.Model.(fmt.Stringer); ok {
			label = fmt.Sprintf("%s\n%s", s.Name, str.String())
		}
		if err := g.AddVertex(s.Name, graph.VertexAttribute("label", label)); err != nil {
			return errors.Wrapf(err, "unable to add vertex %q", s.Name)
		}
	}

	for i := 1; i < len(p.stages); i++ {
		if err := g.AddEdge(p.stages[i-1].Name, p.stages[i].Name); err != nil {
			return errors.Wrapf(err, "unable to add edge from %q to %q",
				p.stages[i-1].Name, p.stages[i].Name)
		}
	}

	return draw.DOT(g, w)
}

// WriteDOTFile renders the stage graph to a DOT file.
func (p *Pipeline) WriteDOTFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", filename)
	}
	defer file.Close()

	return p.DOT(file)
}
