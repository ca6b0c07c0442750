package codegen

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/conanfanli/py2ts/internal/codegen/writer"
	"github.com/conanfanli/py2ts/internal/render"
	"github.com/conanfanli/py2ts/internal/schema"
)

// Banner marks generated files
const Banner = "Code generated by py2ts. DO NOT EDIT."

// Options contains file-level options for code generation
type Options struct {
	// IncludeBanner prefixes the file with Banner in the target's comment syntax
	IncludeBanner bool
}

// Generate translates roots and assembles a complete target file: banner,
// renderer preamble, then the declarations joined by newlines. Renderers
// able to validate their output check the assembled file.
func (t *Translator) Generate(roots []schema.Declaration, r render.Renderer, opts Options) ([]byte, error) {
	res, err := t.Translate(roots, r)
	if err != nil {
		return nil, err
	}

	var header []string
	if opts.IncludeBanner {
		banner := writer.NewWriter("").WithCommentPrefix(r.CommentPrefix())
		banner.WriteComment(Banner)
		header = append(header, banner.Text())
	}
	if p, ok := r.(render.Preambler); ok {
		if preamble := p.Preamble(res.Graph); preamble != "" {
			header = append(header, preamble)
		}
	}

	texts := make([]string, len(res.Declarations))
	for i, d := range res.Declarations {
		texts[i] = d.Text
	}

	var b strings.Builder
	if len(header) > 0 {
		b.WriteString(strings.Join(header, "\n\n"))
		b.WriteString("\n\n")
	}
	if len(texts) > 0 {
		b.WriteString(strings.Join(texts, "\n"))
		b.WriteString("\n")
	}
	output := []byte(b.String())

	if v, ok := r.(render.Validator); ok {
		if err := v.Validate(res.Graph, output); err != nil {
			return nil, errors.Wrapf(err, "%s output failed validation", r.Name())
		}
	}

	t.Logger.Debug().
		Str("profile", r.Name()).
		Int("count", len(res.Declarations)).
		Int("bytes", len(output)).
		Msg("assembled output")
	return output, nil
}
