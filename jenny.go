package expectgen

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/expectgen/expectgen/union"
)

// A Jenny is an expectgen code generator. It takes one tagged-union
// description and produces one file, or none (a nil File) if it has nothing
// to do for that union.
type Jenny interface {
	// JennyName returns the name of the generator.
	JennyName() string

	// Generate produces the jenny's output file for one union.
	Generate(t *union.Type) (*File, error)
}

// Pipeline is an ordered collection of jennies sharing one relative path
// namespace. Running it calls each jenny on each union in order, runs every
// produced File through the registered postprocessors (FIFO), and collects
// the results in an FS.
//
// Errors are decorated with the name of the union that provoked them, and
// all unions are attempted before any error is reported, so one malformed
// union does not mask problems with the others.
type Pipeline struct {
	mut sync.RWMutex

	jennies []Jenny
	post    []FileMapper
}

// NewPipeline creates a Pipeline from the given jennies, in order.
func NewPipeline(jennies ...Jenny) *Pipeline {
	p := new(Pipeline)
	p.Append(jennies...)
	return p
}

// Append adds jennies to the end of the Pipeline. In Generate, jennies are
// called in the order they were appended.
func (p *Pipeline) Append(jennies ...Jenny) {
	p.mut.Lock()
	p.jennies = append(p.jennies, jennies...)
	p.mut.Unlock()
}

// AddPostprocessors appends FileMappers to the Pipeline's internal list of
// postprocessors, run (FIFO) on every File produced by every jenny.
func (p *Pipeline) AddPostprocessors(fn ...FileMapper) {
	p.mut.Lock()
	p.post = append(p.post, fn...)
	p.mut.Unlock()
}

// GenerateFS runs the Pipeline over the provided unions and returns the
// collected FS. On any error, no FS is returned at all: a failed pass
// produces no partial output.
func (p *Pipeline) GenerateFS(unions ...*union.Type) (*FS, error) {
	p.mut.RLock()
	defer p.mut.RUnlock()

	fs := NewFS()
	result := new(multierror.Error)

	for _, j := range p.jennies {
		for _, u := range unions {
			f, err := j.Generate(u)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w for input %q", j.JennyName(), err, u.Name))
				continue
			}
			if f == nil || !f.Exists() {
				continue
			}

			out := *f
			for _, post := range p.post {
				out, err = post(out)
				if err != nil {
					result = multierror.Append(result, fmt.Errorf("postprocessing of %s from %s failed: %w", out.RelativePath, out.Owner(), err))
					break
				}
			}
			if err != nil {
				continue
			}

			if err := fs.Add(out); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, multierror.Flatten(result)
	}
	return fs, nil
}

// Generate runs the Pipeline over the provided unions and returns the
// generated Files, sorted by path.
func (p *Pipeline) Generate(unions ...*union.Type) (Files, error) {
	fs, err := p.GenerateFS(unions...)
	if err != nil {
		return nil, err
	}
	return fs.AsFiles(), nil
}
